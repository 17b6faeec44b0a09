package handlers

import (
	"net/http"

	"agencia_backend/internal/models"
	"agencia_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	*BaseHandler
	webhookService services.WebhookService
}

func NewWebhookHandler(base *BaseHandler, webhookService services.WebhookService) *WebhookHandler {
	return &WebhookHandler{BaseHandler: base, webhookService: webhookService}
}

// RegisterRoutes mounts the provider callback. No auth: the provider signs
// nothing useful here, so the service re-fetches all state instead of
// trusting the payload.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/mercadopago", h.Receive)
}

// Receive godoc
// @Summary Payment provider notification endpoint
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body models.WebhookPayload true "Provider notification"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 500 {object} apperrors.ErrorResponse
// @Router /webhooks/mercadopago [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	if err := h.webhookService.ProcessNotification(c.Request.Context(), h.GetDB(c), &payload); err != nil {
		// Only database failures land here; business misses are acknowledged
		// inside the service so the provider stops retrying.
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
