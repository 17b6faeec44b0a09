package services

import (
	"testing"

	"agencia_backend/internal/models"
	"agencia_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newFakePlanRepo())

	_, err := svc.Register(nil, &models.RegisterRequest{
		Email:    "client@example.com",
		Password: "corto",
		FullName: "Cliente",
	})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrWeakPassword.Code, appErr.Code)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.users["user-1"] = &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "client@example.com",
	}
	svc := NewAuthService(userRepo, newFakePlanRepo())

	_, err := svc.Register(nil, &models.RegisterRequest{
		Email:    "client@example.com",
		Password: "contrasena-larga",
		FullName: "Cliente",
	})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrEmailAlreadyExists.Code, appErr.Code)
}
