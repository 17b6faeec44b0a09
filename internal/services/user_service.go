package services

import (
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetByID(db *gorm.DB, id string) (*models.User, error)
	List(db *gorm.DB, page, pageSize int) ([]models.User, int64, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return user, nil
}

func (s *userService) List(db *gorm.DB, page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(db, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(err)
	}
	return users, total, nil
}
