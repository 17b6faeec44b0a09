package repositories

import (
	"errors"
	"time"

	"agencia_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	Recorded(db *gorm.DB, eventType, providerEventID string) (bool, error)
	Record(db *gorm.DB, event *models.WebhookEvent) error
}

type webhookEventRepository struct{}

func NewWebhookEventRepository() WebhookEventRepository {
	return &webhookEventRepository{}
}

// Recorded reports whether this provider event was already applied.
func (r *webhookEventRepository) Recorded(db *gorm.DB, eventType, providerEventID string) (bool, error) {
	var event models.WebhookEvent
	err := db.Where("event_type = ? AND provider_event_id = ?", eventType, providerEventID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Record inserts the event marker. A concurrent duplicate hits the unique
// index and is dropped via DoNothing, which keeps webhook handling idempotent
// even when the provider retries before the first delivery commits.
func (r *webhookEventRepository) Record(db *gorm.DB, event *models.WebhookEvent) error {
	now := time.Now()
	event.ProcessedAt = &now
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_type"}, {Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(event).Error
}
