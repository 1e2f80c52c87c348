package repository

import (
	"taller_manager/internal/models"

	"gorm.io/gorm"
)

type StorageRepository interface {
	// GetCodeForUpdate locks the code row so the availability check and the
	// state flip happen under the same lock; of two concurrent allocations
	// exactly one sees the code available.
	GetCodeForUpdate(id uint) (*models.Code, error)
	SaveCode(code *models.Code) error
	GetCodesByOrderID(orderID uint) ([]models.Code, error)
	GetDrawer(id uint) (*models.Drawer, error)
	// RecomputeDrawerState reloads the drawer's codes and derives its state:
	// occupied iff every code is occupied.
	RecomputeDrawerState(drawerID uint) error
	ListDrawers() ([]models.Drawer, error)
	CreateAudit(audit *models.StorageAudit) error
}

type storageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepository {
	return &storageRepository{db: db}
}

func (r *storageRepository) GetCodeForUpdate(id uint) (*models.Code, error) {
	var code models.Code
	err := forUpdate(r.db).First(&code, id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *storageRepository) SaveCode(code *models.Code) error {
	return r.db.Save(code).Error
}

func (r *storageRepository) GetCodesByOrderID(orderID uint) ([]models.Code, error) {
	var codes []models.Code
	err := r.db.Where("order_id = ?", orderID).Find(&codes).Error
	return codes, err
}

func (r *storageRepository) GetDrawer(id uint) (*models.Drawer, error) {
	var drawer models.Drawer
	err := r.db.Preload("Codes").First(&drawer, id).Error
	if err != nil {
		return nil, err
	}
	return &drawer, nil
}

func (r *storageRepository) RecomputeDrawerState(drawerID uint) error {
	var total, occupied int64
	if err := r.db.Model(&models.Code{}).
		Where("drawer_id = ?", drawerID).Count(&total).Error; err != nil {
		return err
	}
	if err := r.db.Model(&models.Code{}).
		Where("drawer_id = ? AND state = ?", drawerID, models.CodeOccupied).
		Count(&occupied).Error; err != nil {
		return err
	}

	state := models.DrawerAvailable
	if total > 0 && occupied == total {
		state = models.DrawerOccupied
	}
	return r.db.Model(&models.Drawer{}).
		Where("id = ?", drawerID).
		Update("state", state).Error
}

func (r *storageRepository) ListDrawers() ([]models.Drawer, error) {
	var drawers []models.Drawer
	err := r.db.Preload("Codes").Order("label").Find(&drawers).Error
	return drawers, err
}

func (r *storageRepository) CreateAudit(audit *models.StorageAudit) error {
	return r.db.Create(audit).Error
}
