package models

import "time"

// UserPlan is the single subscription row per user. The unique index on
// UserID backs every upsert: webhook reconciliation and admin overrides
// both write through ON CONFLICT (user_id).
type UserPlan struct {
	BaseModel
	UserID            string        `gorm:"not null;uniqueIndex" json:"user_id"`
	PlanName          string        `json:"plan_name"`
	PlanTier          *PlanTier     `gorm:"type:varchar(20)" json:"plan_tier"` // nil until a paid tier is assigned
	BillingType       BillingType   `gorm:"type:varchar(20);default:'monthly'" json:"billing_type"`
	Price             float64       `json:"price"`
	Currency          string        `gorm:"type:varchar(10);default:'UYU'" json:"currency"`
	Status            PlanStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	SubscriptionID    *string       `gorm:"index" json:"subscription_id"` // external preapproval id
	SubscriptionStart *time.Time    `json:"subscription_start"`
	SubscriptionEnd   *time.Time    `json:"subscription_end"`
	BillingFrequency  int           `gorm:"default:1" json:"billing_frequency"`
	BillingPeriod     BillingPeriod `gorm:"type:varchar(10);default:'months'" json:"billing_period"`
}

// PeriodEnd returns start advanced by the plan's billing window.
func (p *UserPlan) PeriodEnd(start time.Time) time.Time {
	freq := p.BillingFrequency
	if freq <= 0 {
		freq = 1
	}
	if p.BillingPeriod == BillingPeriodYears {
		return start.AddDate(freq, 0, 0)
	}
	return start.AddDate(0, freq, 0)
}
