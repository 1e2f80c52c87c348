package services

import (
	"errors"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/auth"
	"taller_manager/internal/models"
	"taller_manager/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(user *models.User, password string) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	// Authenticate checks credentials and issues a signed token carrying the
	// user id that ledger writes record as user_ref.
	Authenticate(username, password string) (string, *models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) CreateUser(user *models.User, password string) error {
	if password == "" {
		return apperrors.Validation("password is required")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	return s.userRepo.Create(user)
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", nil, apperrors.Validation("invalid credentials")
	}
	if !user.IsActive {
		return "", nil, apperrors.Validation("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.Validation("invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
