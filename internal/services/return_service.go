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

type ReturnInput struct {
	Reason       models.ReturnReason     `json:"reason"`
	Description  string                  `json:"description"`
	Resolution   models.ReturnResolution `json:"resolution"`
	RefundAmount *float64                `json:"refund_amount"`
}

type ReturnService interface {
	// RegisterReturn records a warranty return on a delivered order and
	// forces its status to returned. No cash movement is generated for the
	// refund; the register is settled by hand.
	RegisterReturn(orderID uint, input ReturnInput) error
}

type returnService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewReturnService(db *gorm.DB, cache *redis.Client) ReturnService {
	return &returnService{db: db, cache: cache}
}

// WarrantyValid reports whether a return still falls inside the warranty
// window. Day granularity: time-of-day never affects the outcome.
func WarrantyValid(deliveryDate time.Time, warrantyDays int, today time.Time) bool {
	expiry := startOfDay(deliveryDate).AddDate(0, 0, warrantyDays)
	return !startOfDay(today).After(expiry)
}

// DaysRemaining returns the whole days left in the warranty window, never
// negative.
func DaysRemaining(deliveryDate time.Time, warrantyDays int, today time.Time) int {
	expiry := startOfDay(deliveryDate).AddDate(0, 0, warrantyDays)
	days := int(expiry.Sub(startOfDay(today)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func (s *returnService) RegisterReturn(orderID uint, input ReturnInput) error {
	if !input.Reason.Valid() {
		return apperrors.Validation("unknown return reason %q", input.Reason)
	}
	if !input.Resolution.Valid() {
		return apperrors.Validation("unknown return resolution %q", input.Resolution)
	}
	if input.RefundAmount != nil && *input.RefundAmount < 0 {
		return &apperrors.PaymentError{Requested: *input.RefundAmount, Available: 0}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return err
		}

		if order.Status != models.OrderDelivered || order.DeliveryDate == nil {
			return &apperrors.StateError{Current: string(order.Status), Requested: string(models.OrderReturned)}
		}

		now := time.Now()
		if !WarrantyValid(*order.DeliveryDate, order.WarrantyDays, now) {
			return fmt.Errorf("%w: delivered %s with %d warranty day(s)",
				apperrors.ErrWarrantyExpired, order.DeliveryDate.Format("2006-01-02"), order.WarrantyDays)
		}

		refund := input.RefundAmount
		if input.Resolution == models.ResolutionRefund && refund == nil {
			amount := order.Total
			refund = &amount
		}

		reason := input.Reason
		resolution := input.Resolution
		order.ReturnReason = &reason
		order.ReturnResolution = &resolution
		if input.Description != "" {
			description := input.Description
			order.ReturnDescription = &description
		}
		order.RefundAmount = refund
		order.ReturnDate = &now
		order.Status = models.OrderReturned

		return orderRepo.Update(order)
	})
	if err != nil {
		return apperrors.Classify(err)
	}

	s.invalidateOrder(orderID)
	return nil
}

func (s *returnService) invalidateOrder(orderID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(orderID); err != nil {
		log.Printf("Warning: failed to invalidate order %d cache: %v", orderID, err)
	}
}
