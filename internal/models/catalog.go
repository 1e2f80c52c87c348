package models

import (
	"time"

	"gorm.io/gorm"
)

// Adjustment is a catalog entry for a garment modification (e.g. hem,
// take in waist). Read-only for the order core; managed elsewhere.
type Adjustment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"unique;not null"`
	Price     float64        `json:"price" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// AdjustmentAction is a catalog entry for how an adjustment is performed
// (e.g. shorten, widen).
type AdjustmentAction struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"unique;not null"`
	Price     float64        `json:"price" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// Combination pre-prices an adjustment+action pair; its price overrides the
// sum of the parts.
type Combination struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AdjustmentID uint             `json:"adjustment_id" gorm:"not null;index"`
	Adjustment   Adjustment       `json:"adjustment" gorm:"foreignKey:AdjustmentID"`
	ActionID     uint             `json:"action_id" gorm:"not null;index"`
	Action       AdjustmentAction `json:"action" gorm:"foreignKey:ActionID"`
	Price        float64          `json:"price" gorm:"not null"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `json:"deleted_at" gorm:"index"`
}
