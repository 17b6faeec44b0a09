package services

import (
	"agencia_backend/internal/email"
	"agencia_backend/internal/storage"
)

// ServiceContainer holds every service the handlers consume.
type ServiceContainer struct {
	AuthService      AuthService
	UserService      UserService
	PlanService      PlanService
	WebhookService   WebhookService
	InvoiceService   InvoiceService
	DashboardService DashboardService
	UploadService    UploadService
	EmailSender      email.Sender
	Storage          storage.Storage
}
