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

var validNext = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderInProgress: {models.OrderReady: true, models.OrderDelivered: true, models.OrderCancelled: true},
	models.OrderReady:      {models.OrderDelivered: true, models.OrderCancelled: true},
	models.OrderDelivered:  {models.OrderReturned: true},
	models.OrderCancelled:  {},
	models.OrderReturned:   {},
}

// CanTransition reports whether the status machine allows from -> to.
func CanTransition(from, to models.OrderStatus) bool {
	return validNext[from][to]
}

type StatusChangeInput struct {
	Status      models.OrderStatus `json:"status"`
	Settlement  *float64           `json:"settlement_amount"`
	DeliveredAt *time.Time         `json:"delivered_at"`
	UserID      *uint              `json:"-"`
}

type StatusChangeResult struct {
	Status      models.OrderStatus `json:"status"`
	StatusLabel string             `json:"status_label"`
	Outstanding float64            `json:"outstanding"`
}

type StatusService interface {
	// ChangeStatus moves an order through the state machine. Delivery
	// settles the balance (defaulting to the full outstanding amount) and
	// frees the order's storage codes in the same transaction.
	ChangeStatus(orderID uint, input StatusChangeInput) (*StatusChangeResult, error)
}

type statusService struct {
	db                *gorm.DB
	allocationService AllocationService
	cache             *redis.Client
}

func NewStatusService(db *gorm.DB, allocationService AllocationService, cache *redis.Client) StatusService {
	return &statusService{db: db, allocationService: allocationService, cache: cache}
}

func (s *statusService) ChangeStatus(orderID uint, input StatusChangeInput) (*StatusChangeResult, error) {
	if !input.Status.Valid() {
		return nil, apperrors.Validation("unknown status %q", input.Status)
	}
	if input.Status == models.OrderReturned {
		return nil, apperrors.Validation("returns must be registered through the return endpoint")
	}

	var result StatusChangeResult
	var freedCodes int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return err
		}

		if !CanTransition(order.Status, input.Status) {
			return &apperrors.StateError{Current: string(order.Status), Requested: string(input.Status)}
		}

		if input.Status == models.OrderDelivered {
			freed, err := s.deliver(tx, order, input)
			if err != nil {
				return err
			}
			freedCodes = freed
		}

		order.Status = input.Status
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		result = StatusChangeResult{
			Status:      order.Status,
			StatusLabel: order.Status.Label(),
			Outstanding: order.Outstanding,
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	if freedCodes > 0 {
		s.allocationService.RecordReleaseAudit(orderID, freedCodes)
	}
	s.invalidateOrder(orderID)
	return &result, nil
}

// deliver settles the balance and frees the order's codes. Runs inside the
// status-change transaction; order is already row-locked.
func (s *statusService) deliver(tx *gorm.DB, order *models.Order, input StatusChangeInput) (int, error) {
	settlement := order.Outstanding
	if input.Settlement != nil {
		settlement = *input.Settlement
	}
	if settlement < 0 || settlement > order.Outstanding {
		return 0, &apperrors.PaymentError{Requested: settlement, Available: order.Outstanding}
	}

	if settlement > 0 {
		movement := &models.CashMovement{
			Type:        models.MovementIn,
			Amount:      settlement,
			Description: fmt.Sprintf("Settlement on delivery of order %s", order.ReceiptNumber),
			OrderID:     &order.ID,
			UserID:      input.UserID,
		}
		if err := repository.NewLedgerRepository(tx).CreateMovement(movement); err != nil {
			return 0, err
		}

		order.Paid += settlement
		order.Outstanding = order.Outstanding - settlement
		if order.Outstanding < 0 {
			order.Outstanding = 0
		}
	}

	deliveredAt := time.Now()
	if input.DeliveredAt != nil {
		deliveredAt = *input.DeliveredAt
	}
	order.DeliveryDate = &deliveredAt

	return s.allocationService.ReleaseTx(tx, order.ID)
}

func (s *statusService) invalidateOrder(orderID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(orderID); err != nil {
		log.Printf("Warning: failed to invalidate order %d cache: %v", orderID, err)
	}
}
