package services

import (
	"agencia_backend/internal/auth"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(db *gorm.DB, req *models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo repositories.UserRepository
	planRepo repositories.PlanRepository
}

func NewAuthService(userRepo repositories.UserRepository, planRepo repositories.PlanRepository) AuthService {
	return &authService{userRepo: userRepo, planRepo: planRepo}
}

// Register creates a client account plus its pending plan row. Tier stays
// null until the user subscribes or an admin assigns one.
func (s *authService) Register(db *gorm.DB, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Company:      req.Company,
		Role:         models.UserRoleClient,
		Status:       models.UserStatusActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		plan := &models.UserPlan{
			UserID:        user.ID,
			Status:        models.PlanStatusPending,
			Currency:      "UYU",
			BillingPeriod: models.BillingPeriodMonths,
		}
		return s.planRepo.Upsert(tx, plan)
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(db *gorm.DB, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrForbidden
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}
