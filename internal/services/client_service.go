package services

import (
	"errors"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"
	"taller_manager/internal/repository"

	"gorm.io/gorm"
)

type ClientInput struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Email      string `json:"email"`
}

type ClientService interface {
	// UpsertByNaturalIDTx runs inside the caller's transaction: the client
	// write must roll back together with the rest of the order aggregate.
	UpsertByNaturalIDTx(tx *gorm.DB, input ClientInput) (*models.Client, error)
	GetByID(id uint) (*models.Client, error)
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func validateClientInput(input ClientInput) error {
	if input.Name == "" {
		return apperrors.Validation("client name is required")
	}
	if input.NationalID == "" {
		return apperrors.Validation("client national id is required")
	}
	if input.Phone == "" {
		return apperrors.Validation("client phone is required")
	}
	return nil
}

func (s *clientService) UpsertByNaturalIDTx(tx *gorm.DB, input ClientInput) (*models.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}

	clientRepo := repository.NewClientRepository(tx)
	existing, err := clientRepo.GetByNationalID(input.NationalID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Name = input.Name
		existing.Phone = input.Phone
		existing.Address = input.Address
		existing.Email = input.Email
		if err := clientRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	client := &models.Client{
		Name:       input.Name,
		NationalID: input.NationalID,
		Phone:      input.Phone,
		Address:    input.Address,
		Email:      input.Email,
	}
	if err := clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetByID(id uint) (*models.Client, error) {
	client, err := repository.NewClientRepository(s.db).GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("client", id)
		}
		return nil, err
	}
	return client, nil
}
