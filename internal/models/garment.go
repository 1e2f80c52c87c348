package models

import (
	"time"

	"gorm.io/gorm"
)

type Garment struct {
	ID          uint                 `json:"id" gorm:"primaryKey"`
	OrderID     uint                 `json:"order_id" gorm:"not null;index"`
	Type        string               `json:"type" gorm:"column:garment_type;not null"`
	Description string               `json:"description" gorm:"type:text"`
	Quantity    int                  `json:"quantity" gorm:"not null;default:1"`
	LineItems   []AdjustmentLineItem `json:"line_items" gorm:"foreignKey:GarmentID"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `json:"deleted_at" gorm:"index"`
}

// AdjustmentLineItem is one priced modification on a garment. Price and
// description are resolved from the catalog at write time and never
// recomputed afterwards.
type AdjustmentLineItem struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	GarmentID     uint      `json:"garment_id" gorm:"not null;index"`
	CombinationID *uint     `json:"combination_id"`
	Description   string    `json:"description" gorm:"not null"`
	Price         float64   `json:"price" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

// Subtotal is the garment's per-unit line-item sum multiplied by quantity.
func (g *Garment) Subtotal() float64 {
	var unit float64
	for _, item := range g.LineItems {
		unit += item.Price
	}
	return unit * float64(g.Quantity)
}
