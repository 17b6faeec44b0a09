package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"agencia_backend/internal/config"
	"agencia_backend/internal/logger"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/internal/storage"
	"agencia_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadService interface {
	Upload(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*models.MediaUpload, error)
	ListForUser(db *gorm.DB, userID string) ([]models.MediaUpload, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id string) error
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	store      storage.Storage
	cfg        *config.Config
}

func NewUploadService(uploadRepo repositories.UploadRepository, store storage.Storage, cfg *config.Config) UploadService {
	return &uploadService{uploadRepo: uploadRepo, store: store, cfg: cfg}
}

func (s *uploadService) Upload(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*models.MediaUpload, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !s.typeAllowed(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.NewString(), ext)

	if err := s.store.Save(ctx, path, src, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	upload := &models.MediaUpload{
		UserID:          userID,
		OriginalName:    file.Filename,
		Path:            path,
		URL:             url,
		MimeType:        contentType,
		Size:            file.Size,
		StorageProvider: s.cfg.Storage.Type,
		IsPublic:        true,
	}
	if upload.StorageProvider == "" {
		upload.StorageProvider = "local"
	}

	if err := s.uploadRepo.Create(db, upload); err != nil {
		// The object is already stored; remove it so the row and the blob
		// never diverge.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.WithError(delErr).Warn("orphan cleanup failed", "path", path)
		}
		return nil, apperrors.DatabaseError(err)
	}

	return upload, nil
}

func (s *uploadService) ListForUser(db *gorm.DB, userID string) ([]models.MediaUpload, error) {
	uploads, err := s.uploadRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return uploads, nil
}

// Delete removes the object first, then the row. Only the owner may delete.
func (s *uploadService) Delete(ctx context.Context, db *gorm.DB, userID, id string) error {
	upload, err := s.uploadRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUploadNotFound) {
			return apperrors.ErrUploadNotFound
		}
		return apperrors.DatabaseError(err)
	}

	if upload.UserID != userID {
		return apperrors.ErrForbidden
	}

	if err := s.store.Delete(ctx, upload.Path); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.uploadRepo.Delete(db, id); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *uploadService) typeAllowed(contentType string) bool {
	for _, t := range s.cfg.Upload.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
