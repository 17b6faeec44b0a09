package models

import "time"

type Invoice struct {
	BaseModel
	UserID             string        `gorm:"not null;index" json:"user_id"`
	InvoiceNumber      string        `gorm:"not null;uniqueIndex" json:"invoice_number"` // INV-YYYY-NNN, sequential per year
	Amount             float64       `gorm:"not null" json:"amount"`
	Currency           string        `gorm:"type:varchar(10);default:'UYU'" json:"currency"`
	Status             InvoiceStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	BillingPeriodStart *time.Time    `json:"billing_period_start"`
	BillingPeriodEnd   *time.Time    `json:"billing_period_end"`
	DueDate            *time.Time    `json:"due_date"`
	PaymentDate        *time.Time    `json:"payment_date"`
	PaymentMethod      string        `json:"payment_method"`
	Notes              string        `json:"notes"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type CreateInvoiceRequest struct {
	UserID             string     `json:"user_id" validate:"required"`
	Amount             float64    `json:"amount" validate:"required,min=0"`
	Currency           string     `json:"currency" validate:"omitempty,oneof=UYU USD"`
	BillingPeriodStart *time.Time `json:"billing_period_start"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end"`
	DueDate            *time.Time `json:"due_date"`
	Notes              string     `json:"notes"`
}

// UpdateInvoiceRequest supports partial PATCH updates; nil fields are untouched.
type UpdateInvoiceRequest struct {
	Status        *InvoiceStatus `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	PaymentDate   *time.Time     `json:"payment_date"`
	PaymentMethod *string        `json:"payment_method"`
	Notes         *string        `json:"notes"`
	DueDate       *time.Time     `json:"due_date"`
	Amount        *float64       `json:"amount" validate:"omitempty,min=0"`
}
