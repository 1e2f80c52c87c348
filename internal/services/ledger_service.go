package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"
	"taller_manager/internal/redis"
	"taller_manager/internal/repository"

	"gorm.io/gorm"
)

// PaymentSummary is the balance snapshot returned after a payment lands.
type PaymentSummary struct {
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}

type LedgerService interface {
	// RecordAbono applies a partial payment: abono record, order balance and
	// cash movement land in one transaction or not at all.
	RecordAbono(orderID uint, amount float64, note string, userID *uint) (*PaymentSummary, error)
	// RecordMovement writes a free-standing ledger entry (expenses, manual
	// corrections). It never touches an order's balance.
	RecordMovement(movementType models.MovementType, amount float64, description string, orderID, userID *uint) (*models.CashMovement, error)
	GetAbonos(orderID uint) ([]models.AbonoRecord, error)
	GetMovements(startDate, endDate time.Time) ([]models.CashMovement, error)
}

type ledgerService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewLedgerService(db *gorm.DB, cache *redis.Client) LedgerService {
	return &ledgerService{db: db, cache: cache}
}

func (s *ledgerService) RecordAbono(orderID uint, amount float64, note string, userID *uint) (*PaymentSummary, error) {
	var summary PaymentSummary

	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)
		ledgerRepo := repository.NewLedgerRepository(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return err
		}

		if order.Status != models.OrderInProgress {
			return fmt.Errorf("%w: abonos require status %s, order %d is %s",
				apperrors.ErrInvalidState, models.OrderInProgress, orderID, order.Status)
		}
		if amount <= 0 || amount > order.Outstanding {
			return &apperrors.PaymentError{Requested: amount, Available: order.Outstanding}
		}

		abono := &models.AbonoRecord{OrderID: orderID, Amount: amount, Note: note}
		if err := ledgerRepo.CreateAbono(abono); err != nil {
			return err
		}

		order.Paid += amount
		order.Outstanding = order.Outstanding - amount
		if order.Outstanding < 0 {
			order.Outstanding = 0
		}
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		movement := &models.CashMovement{
			Type:        models.MovementIn,
			Amount:      amount,
			Description: fmt.Sprintf("Abono on order %s", order.ReceiptNumber),
			OrderID:     &orderID,
			UserID:      userID,
		}
		if err := ledgerRepo.CreateMovement(movement); err != nil {
			return err
		}

		summary = PaymentSummary{Paid: order.Paid, Outstanding: order.Outstanding}
		return nil
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	s.invalidateOrder(orderID)
	return &summary, nil
}

func (s *ledgerService) RecordMovement(movementType models.MovementType, amount float64, description string, orderID, userID *uint) (*models.CashMovement, error) {
	if !movementType.Valid() {
		return nil, apperrors.Validation("movement type must be %q or %q", models.MovementIn, models.MovementOut)
	}
	if amount <= 0 {
		return nil, &apperrors.PaymentError{Requested: amount, Available: 0}
	}
	if description == "" {
		return nil, apperrors.Validation("movement description is required")
	}

	movement := &models.CashMovement{
		Type:        movementType,
		Amount:      amount,
		Description: description,
		OrderID:     orderID,
		UserID:      userID,
	}
	if err := repository.NewLedgerRepository(s.db).CreateMovement(movement); err != nil {
		return nil, apperrors.Classify(err)
	}
	return movement, nil
}

func (s *ledgerService) GetAbonos(orderID uint) ([]models.AbonoRecord, error) {
	return repository.NewLedgerRepository(s.db).GetAbonosByOrderID(orderID)
}

func (s *ledgerService) GetMovements(startDate, endDate time.Time) ([]models.CashMovement, error) {
	return repository.NewLedgerRepository(s.db).GetMovementsByDateRange(startDate, endDate)
}

func (s *ledgerService) invalidateOrder(orderID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(orderID); err != nil {
		log.Printf("Warning: failed to invalidate order %d cache: %v", orderID, err)
	}
}
