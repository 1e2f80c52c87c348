package models

import (
	"time"

	"gorm.io/gorm"
)

type Client struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null"`
	NationalID string         `json:"national_id" gorm:"uniqueIndex;not null"`
	Phone      string         `json:"phone" gorm:"not null"`
	Address    string         `json:"address"`
	Email      string         `json:"email"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
