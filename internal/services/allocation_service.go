package services

import (
	"errors"
	"fmt"
	"log"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"
	"taller_manager/internal/repository"

	"gorm.io/gorm"
)

// AllocationService binds and frees physical storage codes. Allocation locks
// each code row before checking availability, so two concurrent attempts on
// the same code can never both succeed.
type AllocationService interface {
	// AllocateTx binds codes to an order inside the caller's transaction.
	// When drawerID is set, every code must belong to that drawer.
	AllocateTx(tx *gorm.DB, orderID uint, codeIDs []uint, drawerID *uint) error
	// ReleaseTx frees every code bound to the order and returns how many
	// were freed. A second call is a no-op.
	ReleaseTx(tx *gorm.DB, orderID uint) (int, error)
	Release(orderID uint) error
	ListDrawers() ([]models.Drawer, error)
	// RecordReleaseAudit is best-effort: a failed write is logged, never
	// propagated.
	RecordReleaseAudit(orderID uint, freedCodes int)
}

type allocationService struct {
	db *gorm.DB
}

func NewAllocationService(db *gorm.DB) AllocationService {
	return &allocationService{db: db}
}

func (s *allocationService) AllocateTx(tx *gorm.DB, orderID uint, codeIDs []uint, drawerID *uint) error {
	storageRepo := repository.NewStorageRepository(tx)
	drawers := map[uint]bool{}

	for _, codeID := range codeIDs {
		code, err := storageRepo.GetCodeForUpdate(codeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("code", codeID)
			}
			return err
		}
		if drawerID != nil && code.DrawerID != *drawerID {
			return apperrors.Validation("code %d does not belong to drawer %d", codeID, *drawerID)
		}
		if code.State != models.CodeAvailable {
			return &apperrors.ConflictError{CodeID: codeID}
		}

		code.State = models.CodeOccupied
		code.OrderID = &orderID
		if err := storageRepo.SaveCode(code); err != nil {
			return err
		}
		drawers[code.DrawerID] = true
	}

	for id := range drawers {
		if err := storageRepo.RecomputeDrawerState(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *allocationService) ReleaseTx(tx *gorm.DB, orderID uint) (int, error) {
	storageRepo := repository.NewStorageRepository(tx)

	codes, err := storageRepo.GetCodesByOrderID(orderID)
	if err != nil {
		return 0, err
	}
	if len(codes) == 0 {
		return 0, nil
	}

	drawers := map[uint]bool{}
	for i := range codes {
		codes[i].State = models.CodeAvailable
		codes[i].OrderID = nil
		if err := storageRepo.SaveCode(&codes[i]); err != nil {
			return 0, err
		}
		drawers[codes[i].DrawerID] = true
	}

	for id := range drawers {
		if err := storageRepo.RecomputeDrawerState(id); err != nil {
			return 0, err
		}
	}
	return len(codes), nil
}

func (s *allocationService) Release(orderID uint) error {
	var freed int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		freed, txErr = s.ReleaseTx(tx, orderID)
		return txErr
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	s.RecordReleaseAudit(orderID, freed)
	return nil
}

func (s *allocationService) ListDrawers() ([]models.Drawer, error) {
	return repository.NewStorageRepository(s.db).ListDrawers()
}

func (s *allocationService) RecordReleaseAudit(orderID uint, freedCodes int) {
	if freedCodes == 0 {
		return
	}
	audit := &models.StorageAudit{
		OrderID:    orderID,
		FreedCodes: freedCodes,
		Note:       fmt.Sprintf("released %d code(s)", freedCodes),
	}
	if err := repository.NewStorageRepository(s.db).CreateAudit(audit); err != nil {
		log.Printf("Warning: failed to record release audit for order %d: %v", orderID, err)
	}
}
