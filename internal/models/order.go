package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	ReceiptNumber string      `json:"receipt_number" gorm:"unique;not null"`
	ClientID      uint        `json:"client_id" gorm:"not null;index"`
	Client        Client      `json:"client" gorm:"foreignKey:ClientID"`
	OrderDate     time.Time   `json:"order_date" gorm:"not null"`
	DeliveryDate  *time.Time  `json:"delivery_date"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20);default:'in_progress'"`
	Total         float64     `json:"total" gorm:"not null"`
	Paid          float64     `json:"paid" gorm:"not null;default:0"`
	Outstanding   float64     `json:"outstanding" gorm:"not null;default:0"`
	Notes         string      `json:"notes" gorm:"type:text"`
	WarrantyDays  int         `json:"warranty_days" gorm:"default:30"`

	// Return metadata, populated only when Status becomes returned.
	ReturnReason      *ReturnReason     `json:"return_reason" gorm:"type:varchar(30)"`
	ReturnDescription *string           `json:"return_description" gorm:"type:text"`
	ReturnResolution  *ReturnResolution `json:"return_resolution" gorm:"type:varchar(20)"`
	RefundAmount      *float64          `json:"refund_amount"`
	ReturnDate        *time.Time        `json:"return_date"`

	CreatedBy *uint          `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderReady      OrderStatus = "ready"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

var statusLabels = map[OrderStatus]string{
	OrderInProgress: "In progress",
	OrderReady:      "Ready for pickup",
	OrderDelivered:  "Delivered",
	OrderCancelled:  "Cancelled",
	OrderReturned:   "Returned",
}

// Label returns the human-facing name for a status.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

type ReturnReason string

const (
	ReasonSizeMismatch    ReturnReason = "size_mismatch"
	ReasonStitchingDefect ReturnReason = "stitching_defect"
	ReasonSpecMismatch    ReturnReason = "spec_mismatch"
	ReasonMaterialQuality ReturnReason = "material_quality"
	ReasonOther           ReturnReason = "other"
)

func (r ReturnReason) Valid() bool {
	switch r {
	case ReasonSizeMismatch, ReasonStitchingDefect, ReasonSpecMismatch, ReasonMaterialQuality, ReasonOther:
		return true
	}
	return false
}

type ReturnResolution string

const (
	ResolutionRefund   ReturnResolution = "refund"
	ResolutionFreeRedo ReturnResolution = "free_redo"
)

func (r ReturnResolution) Valid() bool {
	return r == ResolutionRefund || r == ResolutionFreeRedo
}
