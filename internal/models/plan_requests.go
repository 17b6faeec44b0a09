package models

// Request bodies for the subscription endpoints.

type CreateSubscriptionRequest struct {
	PlanTier    PlanTier    `json:"plan_tier" validate:"required,plan_tier"`
	BillingType BillingType `json:"billing_type" validate:"required,oneof=monthly annual"`
}

type ActivateSubscriptionRequest struct {
	UserID            string `json:"user_id" validate:"required"`
	PreapprovalPlanID string `json:"preapproval_plan_id" validate:"required"`
	SubscriptionID    string `json:"subscription_id"`
}

type DeactivateSubscriptionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type ToggleSubscriptionRequest struct {
	UserID      string      `json:"user_id" validate:"required"`
	Action      string      `json:"action" validate:"required,oneof=activate deactivate"`
	PlanName    string      `json:"plan_name"`
	PlanTier    *PlanTier   `json:"plan_tier" validate:"omitempty,plan_tier"`
	BillingType BillingType `json:"billing_type" validate:"omitempty,oneof=monthly annual"`
	Price       float64     `json:"price" validate:"omitempty,min=0"`
}

// UpdatePlanRequest supports partial PATCH updates; nil fields are untouched.
type UpdatePlanRequest struct {
	PlanName         *string      `json:"plan_name"`
	PlanTier         *PlanTier    `json:"plan_tier" validate:"omitempty,plan_tier"`
	BillingType      *BillingType `json:"billing_type" validate:"omitempty,oneof=monthly annual"`
	Price            *float64     `json:"price" validate:"omitempty,min=0"`
	Status           *PlanStatus  `json:"status" validate:"omitempty,oneof=pending active inactive cancelled"`
	BillingFrequency *int         `json:"billing_frequency" validate:"omitempty,min=1"`
}
