package models

import "time"

type CodeState string

const (
	CodeAvailable CodeState = "available"
	CodeOccupied  CodeState = "occupied"
)

type DrawerState string

const (
	DrawerAvailable DrawerState = "available"
	DrawerOccupied  DrawerState = "occupied"
)

// Code is the smallest physical storage slot. At most one order may hold a
// code at a time; OrderID is nil while the code is free.
type Code struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	DrawerID  uint      `json:"drawer_id" gorm:"not null;index"`
	Label     string    `json:"label" gorm:"not null"`
	State     CodeState `json:"state" gorm:"type:varchar(20);not null;default:'available'"`
	OrderID   *uint     `json:"order_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Drawer state is derived: occupied iff every code inside it is occupied.
type Drawer struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Label     string      `json:"label" gorm:"unique;not null"`
	State     DrawerState `json:"state" gorm:"type:varchar(20);not null;default:'available'"`
	Codes     []Code      `json:"codes" gorm:"foreignKey:DrawerID"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StorageAudit is a best-effort trail of bulk code releases. Writing it must
// never abort the release itself.
type StorageAudit struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"not null;index"`
	FreedCodes int       `json:"freed_codes" gorm:"not null"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}
