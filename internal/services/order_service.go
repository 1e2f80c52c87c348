package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"
	"taller_manager/internal/redis"
	"taller_manager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GarmentInput struct {
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Quantity    int                 `json:"quantity"`
	Selections  []LineItemSelection `json:"selections"`
}

type CreateOrderInput struct {
	Client       ClientInput    `json:"client"`
	DeliveryDate *time.Time     `json:"delivery_date"`
	Notes        string         `json:"notes"`
	WarrantyDays int            `json:"warranty_days"`
	Garments     []GarmentInput `json:"garments"`
	DrawerID     *uint          `json:"drawer_id"`
	CodeIDs      []uint         `json:"code_ids"`
	InitialAbono float64        `json:"initial_abono"`
	UserID       *uint          `json:"-"`
}

type CreateOrderResult struct {
	ClientID      uint    `json:"client_id"`
	OrderID       uint    `json:"order_id"`
	ReceiptNumber string  `json:"receipt_number"`
	Total         float64 `json:"total"`
	Paid          float64 `json:"paid"`
	Outstanding   float64 `json:"outstanding"`
}

type UpdateOrderInput struct {
	Client       ClientInput    `json:"client"`
	DeliveryDate *time.Time     `json:"delivery_date"`
	Notes        string         `json:"notes"`
	WarrantyDays int            `json:"warranty_days"`
	Garments     []GarmentInput `json:"garments"`
}

type GarmentView struct {
	models.Garment
	Subtotal float64 `json:"subtotal"`
}

type OrderAggregate struct {
	Order       models.Order         `json:"order"`
	StatusLabel string               `json:"status_label"`
	Client      models.Client        `json:"client"`
	Garments    []GarmentView        `json:"garments"`
	Codes       []models.Code        `json:"codes"`
	Abonos      []models.AbonoRecord `json:"abonos"`
}

type OrderService interface {
	// CreateOrder writes client, order, garments, line items, the initial
	// abono and the code allocation as one atomic unit.
	CreateOrder(input CreateOrderInput) (*CreateOrderResult, error)
	// UpdateOrder replaces the garment set wholesale and updates client and
	// order scalar fields. Balances are never touched here.
	UpdateOrder(orderID uint, input UpdateOrderInput) error
	GetOrderAggregate(orderID uint) (*OrderAggregate, error)
}

type orderService struct {
	db                *gorm.DB
	clientService     ClientService
	catalogService    CatalogService
	allocationService AllocationService
	cache             *redis.Client
	cacheTTL          time.Duration
	warrantyDays      int
}

func NewOrderService(
	db *gorm.DB,
	clientService ClientService,
	catalogService CatalogService,
	allocationService AllocationService,
	cache *redis.Client,
	cacheTTL time.Duration,
	warrantyDays int,
) OrderService {
	return &orderService{
		db:                db,
		clientService:     clientService,
		catalogService:    catalogService,
		allocationService: allocationService,
		cache:             cache,
		cacheTTL:          cacheTTL,
		warrantyDays:      warrantyDays,
	}
}

// resolveGarments prices every garment's line items through the catalog and
// returns the order total.
func (s *orderService) resolveGarments(inputs []GarmentInput) ([]models.Garment, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, apperrors.Validation("an order needs at least one garment")
	}

	var resolved []models.Garment
	var total float64

	for _, input := range inputs {
		if input.Type == "" {
			return nil, 0, apperrors.Validation("garment type is required")
		}
		if input.Quantity < 1 {
			return nil, 0, apperrors.Validation("garment quantity must be at least 1, got %d", input.Quantity)
		}
		if len(input.Selections) == 0 {
			return nil, 0, apperrors.Validation("garment %q needs at least one adjustment", input.Type)
		}

		var items []models.AdjustmentLineItem
		var descriptions []string
		for _, selection := range input.Selections {
			item, err := s.catalogService.ResolveSelection(selection)
			if err != nil {
				return nil, 0, err
			}
			items = append(items, models.AdjustmentLineItem{
				CombinationID: item.CombinationID,
				Description:   item.Description,
				Price:         item.Price,
			})
			descriptions = append(descriptions, item.Description)
		}

		description := strings.Join(descriptions, ", ")
		if input.Description != "" {
			description = input.Description + ": " + description
		}

		garment := models.Garment{
			Type:        input.Type,
			Description: description,
			Quantity:    input.Quantity,
			LineItems:   items,
		}
		total += garment.Subtotal()
		resolved = append(resolved, garment)
	}

	return resolved, total, nil
}

func (s *orderService) CreateOrder(input CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateClientInput(input.Client); err != nil {
		return nil, err
	}

	garments, total, err := s.resolveGarments(input.Garments)
	if err != nil {
		return nil, err
	}

	if input.InitialAbono < 0 || input.InitialAbono > total {
		return nil, &apperrors.PaymentError{Requested: input.InitialAbono, Available: total}
	}

	warrantyDays := input.WarrantyDays
	if warrantyDays <= 0 {
		warrantyDays = s.warrantyDays
	}

	var result CreateOrderResult

	err = s.db.Transaction(func(tx *gorm.DB) error {
		client, err := s.clientService.UpsertByNaturalIDTx(tx, input.Client)
		if err != nil {
			return err
		}

		order := &models.Order{
			ReceiptNumber: newReceiptNumber(),
			ClientID:      client.ID,
			OrderDate:     time.Now(),
			DeliveryDate:  input.DeliveryDate,
			Status:        models.OrderInProgress,
			Total:         total,
			Paid:          input.InitialAbono,
			Outstanding:   total - input.InitialAbono,
			Notes:         input.Notes,
			WarrantyDays:  warrantyDays,
			CreatedBy:     input.UserID,
		}
		if err := repository.NewOrderRepository(tx).Create(order); err != nil {
			return err
		}

		garmentRepo := repository.NewGarmentRepository(tx)
		for i := range garments {
			garments[i].OrderID = order.ID
			if err := garmentRepo.Create(&garments[i]); err != nil {
				return err
			}
		}

		if input.InitialAbono > 0 {
			ledgerRepo := repository.NewLedgerRepository(tx)
			abono := &models.AbonoRecord{
				OrderID: order.ID,
				Amount:  input.InitialAbono,
				Note:    "Initial abono",
			}
			if err := ledgerRepo.CreateAbono(abono); err != nil {
				return err
			}
			movement := &models.CashMovement{
				Type:        models.MovementIn,
				Amount:      input.InitialAbono,
				Description: fmt.Sprintf("Initial abono on order %s", order.ReceiptNumber),
				OrderID:     &order.ID,
				UserID:      input.UserID,
			}
			if err := ledgerRepo.CreateMovement(movement); err != nil {
				return err
			}
		}

		if len(input.CodeIDs) > 0 {
			if err := s.allocationService.AllocateTx(tx, order.ID, input.CodeIDs, input.DrawerID); err != nil {
				return err
			}
		}

		result = CreateOrderResult{
			ClientID:      client.ID,
			OrderID:       order.ID,
			ReceiptNumber: order.ReceiptNumber,
			Total:         order.Total,
			Paid:          order.Paid,
			Outstanding:   order.Outstanding,
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	return &result, nil
}

func (s *orderService) UpdateOrder(orderID uint, input UpdateOrderInput) error {
	if err := validateClientInput(input.Client); err != nil {
		return err
	}

	garments, _, err := s.resolveGarments(input.Garments)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order", orderID)
			}
			return err
		}

		if _, err := s.clientService.UpsertByNaturalIDTx(tx, input.Client); err != nil {
			return err
		}

		order.DeliveryDate = input.DeliveryDate
		order.Notes = input.Notes
		if input.WarrantyDays > 0 {
			order.WarrantyDays = input.WarrantyDays
		}
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		garmentRepo := repository.NewGarmentRepository(tx)
		if err := garmentRepo.DeleteByOrderID(orderID); err != nil {
			return err
		}
		for i := range garments {
			garments[i].OrderID = orderID
			if err := garmentRepo.Create(&garments[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Classify(err)
	}

	s.invalidateOrder(orderID)
	return nil
}

func (s *orderService) GetOrderAggregate(orderID uint) (*OrderAggregate, error) {
	if s.cache != nil {
		var cached OrderAggregate
		if err := s.cache.GetOrderAggregate(orderID, &cached); err == nil {
			return &cached, nil
		}
	}

	order, err := repository.NewOrderRepository(s.db).GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, apperrors.Classify(err)
	}

	client, err := s.clientService.GetByID(order.ClientID)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	garments, err := repository.NewGarmentRepository(s.db).GetByOrderID(orderID)
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	views := make([]GarmentView, 0, len(garments))
	for _, garment := range garments {
		views = append(views, GarmentView{Garment: garment, Subtotal: garment.Subtotal()})
	}

	codes, err := repository.NewStorageRepository(s.db).GetCodesByOrderID(orderID)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	abonos, err := repository.NewLedgerRepository(s.db).GetAbonosByOrderID(orderID)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	aggregate := &OrderAggregate{
		Order:       *order,
		StatusLabel: order.Status.Label(),
		Client:      *client,
		Garments:    views,
		Codes:       codes,
		Abonos:      abonos,
	}

	if s.cache != nil {
		if err := s.cache.SetOrderAggregate(orderID, aggregate, s.cacheTTL); err != nil {
			log.Printf("Warning: failed to cache order %d aggregate: %v", orderID, err)
		}
	}
	return aggregate, nil
}

func (s *orderService) invalidateOrder(orderID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(orderID); err != nil {
		log.Printf("Warning: failed to invalidate order %d cache: %v", orderID, err)
	}
}

// newReceiptNumber derives a short human-facing order reference.
func newReceiptNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
