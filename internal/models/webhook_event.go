package models

import "time"

// WebhookEvent records provider notifications that were applied to a plan.
// The unique (event_type, provider_event_id) pair is the replay guard:
// an approved-payment id that is already here is acknowledged without
// extending the subscription a second time.
type WebhookEvent struct {
	BaseModel
	EventType       string     `gorm:"type:varchar(50);not null;index:idx_webhook_event,unique" json:"event_type"` // "payment", "subscription_preapproval"
	ProviderEventID string     `gorm:"type:varchar(100);not null;index:idx_webhook_event,unique" json:"provider_event_id"`
	SubscriptionID  string     `gorm:"index" json:"subscription_id"`
	Outcome         string     `json:"outcome"` // resulting plan status, or why the event was skipped
	ProcessedAt     *time.Time `json:"processed_at"`
}
