package repository

import (
	"taller_manager/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository reads the reference catalog. The order core never writes
// it; catalog maintenance lives outside this service.
type CatalogRepository interface {
	GetAdjustment(id uint) (*models.Adjustment, error)
	GetAction(id uint) (*models.AdjustmentAction, error)
	GetCombination(id uint) (*models.Combination, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetAdjustment(id uint) (*models.Adjustment, error) {
	var adjustment models.Adjustment
	err := r.db.First(&adjustment, id).Error
	if err != nil {
		return nil, err
	}
	return &adjustment, nil
}

func (r *catalogRepository) GetAction(id uint) (*models.AdjustmentAction, error) {
	var action models.AdjustmentAction
	err := r.db.First(&action, id).Error
	if err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *catalogRepository) GetCombination(id uint) (*models.Combination, error) {
	var combination models.Combination
	err := r.db.Preload("Adjustment").Preload("Action").First(&combination, id).Error
	if err != nil {
		return nil, err
	}
	return &combination, nil
}
