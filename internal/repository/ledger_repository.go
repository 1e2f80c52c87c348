package repository

import (
	"time"

	"taller_manager/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository is append-only on purpose: abonos and cash movements are
// immutable once written, so no update or delete methods exist here.
type LedgerRepository interface {
	CreateAbono(abono *models.AbonoRecord) error
	GetAbonosByOrderID(orderID uint) ([]models.AbonoRecord, error)
	CreateMovement(movement *models.CashMovement) error
	GetMovementsByDateRange(startDate, endDate time.Time) ([]models.CashMovement, error)
	GetMovementsByOrderID(orderID uint) ([]models.CashMovement, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateAbono(abono *models.AbonoRecord) error {
	return r.db.Create(abono).Error
}

func (r *ledgerRepository) GetAbonosByOrderID(orderID uint) ([]models.AbonoRecord, error) {
	var abonos []models.AbonoRecord
	err := r.db.Where("order_id = ?", orderID).Order("created_at").Find(&abonos).Error
	return abonos, err
}

func (r *ledgerRepository) CreateMovement(movement *models.CashMovement) error {
	return r.db.Create(movement).Error
}

func (r *ledgerRepository) GetMovementsByDateRange(startDate, endDate time.Time) ([]models.CashMovement, error) {
	var movements []models.CashMovement
	err := r.db.Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Order("created_at").Find(&movements).Error
	return movements, err
}

func (r *ledgerRepository) GetMovementsByOrderID(orderID uint) ([]models.CashMovement, error) {
	var movements []models.CashMovement
	err := r.db.Where("order_id = ?", orderID).Order("created_at").Find(&movements).Error
	return movements, err
}
