package models

type UserStatus string
type UserRole string
type PlanStatus string
type PlanTier string
type BillingType string
type BillingPeriod string
type InvoiceStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"

	PlanStatusPending   PlanStatus = "pending"
	PlanStatusActive    PlanStatus = "active"
	PlanStatusInactive  PlanStatus = "inactive"
	PlanStatusCancelled PlanStatus = "cancelled"

	PlanTierBasico   PlanTier = "basico"
	PlanTierEstandar PlanTier = "estandar"
	PlanTierPremium  PlanTier = "premium"

	BillingTypeMonthly BillingType = "monthly"
	BillingTypeAnnual  BillingType = "annual"

	BillingPeriodMonths BillingPeriod = "months"
	BillingPeriodYears  BillingPeriod = "years"

	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)
