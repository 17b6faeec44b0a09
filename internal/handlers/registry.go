package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	PlanHandler      *PlanHandler
	WebhookHandler   *WebhookHandler
	InvoiceHandler   *InvoiceHandler
	DashboardHandler *DashboardHandler
	UploadHandler    *UploadHandler
}
