package services

import (
	"errors"
	"fmt"
	"time"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"
	"taller_manager/internal/redis"
	"taller_manager/internal/repository"

	"gorm.io/gorm"
)

// LineItemSelection picks one priced source for a garment line item:
// a single adjustment, a single action, or a pre-priced combination.
type LineItemSelection struct {
	AdjustmentID  *uint `json:"adjustment_id"`
	ActionID      *uint `json:"action_id"`
	CombinationID *uint `json:"combination_id"`
}

// ResolvedLineItem carries the catalog-resolved description and price that
// get frozen onto the order at write time.
type ResolvedLineItem struct {
	Description   string
	Price         float64
	CombinationID *uint
}

type CatalogService interface {
	ResolveSelection(selection LineItemSelection) (*ResolvedLineItem, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	cache       *redis.Client
	cacheTTL    time.Duration
}

func NewCatalogService(catalogRepo repository.CatalogRepository, cache *redis.Client, cacheTTL time.Duration) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, cache: cache, cacheTTL: cacheTTL}
}

func (s *catalogService) ResolveSelection(selection LineItemSelection) (*ResolvedLineItem, error) {
	set := 0
	if selection.AdjustmentID != nil {
		set++
	}
	if selection.ActionID != nil {
		set++
	}
	if selection.CombinationID != nil {
		set++
	}
	if set != 1 {
		return nil, apperrors.Validation("line item must select exactly one of adjustment, action or combination")
	}

	switch {
	case selection.CombinationID != nil:
		return s.resolveCombination(*selection.CombinationID)
	case selection.AdjustmentID != nil:
		adjustment, err := s.getAdjustment(*selection.AdjustmentID)
		if err != nil {
			return nil, err
		}
		return &ResolvedLineItem{Description: adjustment.Name, Price: adjustment.Price}, nil
	default:
		action, err := s.getAction(*selection.ActionID)
		if err != nil {
			return nil, err
		}
		return &ResolvedLineItem{Description: action.Name, Price: action.Price}, nil
	}
}

func (s *catalogService) resolveCombination(id uint) (*ResolvedLineItem, error) {
	combination, err := s.getCombination(id)
	if err != nil {
		return nil, err
	}
	description := fmt.Sprintf("%s - %s", combination.Adjustment.Name, combination.Action.Name)
	return &ResolvedLineItem{
		Description:   description,
		Price:         combination.Price,
		CombinationID: &combination.ID,
	}, nil
}

func (s *catalogService) getAdjustment(id uint) (*models.Adjustment, error) {
	if s.cache != nil {
		var cached models.Adjustment
		if err := s.cache.GetCatalogEntry("adjustment", id, &cached); err == nil {
			return &cached, nil
		}
	}

	adjustment, err := s.catalogRepo.GetAdjustment(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("adjustment", id)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCatalogEntry("adjustment", id, adjustment, s.cacheTTL)
	}
	return adjustment, nil
}

func (s *catalogService) getAction(id uint) (*models.AdjustmentAction, error) {
	if s.cache != nil {
		var cached models.AdjustmentAction
		if err := s.cache.GetCatalogEntry("action", id, &cached); err == nil {
			return &cached, nil
		}
	}

	action, err := s.catalogRepo.GetAction(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("action", id)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCatalogEntry("action", id, action, s.cacheTTL)
	}
	return action, nil
}

func (s *catalogService) getCombination(id uint) (*models.Combination, error) {
	if s.cache != nil {
		var cached models.Combination
		if err := s.cache.GetCatalogEntry("combination", id, &cached); err == nil && cached.Adjustment.Name != "" {
			return &cached, nil
		}
	}

	combination, err := s.catalogRepo.GetCombination(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("combination", id)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCatalogEntry("combination", id, combination, s.cacheTTL)
	}
	return combination, nil
}
