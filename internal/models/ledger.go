package models

import "time"

// AbonoRecord is an immutable partial payment against an order. Records are
// append-only: corrections are made with new cash movements, never by
// editing a row.
type AbonoRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	Amount    float64   `json:"amount" gorm:"not null"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// CashMovement is an immutable entry in the shop's cash ledger. OrderID and
// UserID are optional: shop expenses reference no order.
type CashMovement struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Type        MovementType `json:"type" gorm:"type:varchar(10);not null"`
	Amount      float64      `json:"amount" gorm:"not null"`
	Description string       `json:"description" gorm:"not null"`
	OrderID     *uint        `json:"order_id" gorm:"index"`
	UserID      *uint        `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
}
