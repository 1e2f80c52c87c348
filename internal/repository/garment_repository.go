package repository

import (
	"taller_manager/internal/models"

	"gorm.io/gorm"
)

type GarmentRepository interface {
	Create(garment *models.Garment) error
	GetByOrderID(orderID uint) ([]models.Garment, error)
	// DeleteByOrderID removes every garment of the order together with its
	// line items; order updates replace the set wholesale.
	DeleteByOrderID(orderID uint) error
}

type garmentRepository struct {
	db *gorm.DB
}

func NewGarmentRepository(db *gorm.DB) GarmentRepository {
	return &garmentRepository{db: db}
}

func (r *garmentRepository) Create(garment *models.Garment) error {
	return r.db.Create(garment).Error
}

func (r *garmentRepository) GetByOrderID(orderID uint) ([]models.Garment, error) {
	var garments []models.Garment
	err := r.db.Preload("LineItems").Where("order_id = ?", orderID).Find(&garments).Error
	return garments, err
}

func (r *garmentRepository) DeleteByOrderID(orderID uint) error {
	var garments []models.Garment
	if err := r.db.Where("order_id = ?", orderID).Find(&garments).Error; err != nil {
		return err
	}
	for _, garment := range garments {
		if err := r.db.Where("garment_id = ?", garment.ID).
			Delete(&models.AdjustmentLineItem{}).Error; err != nil {
			return err
		}
	}
	return r.db.Where("order_id = ?", orderID).Delete(&models.Garment{}).Error
}
