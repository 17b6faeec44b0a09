package handlers

import (
	"net/http"

	"agencia_backend/internal/middleware"
	"agencia_backend/internal/models"
	"agencia_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{BaseHandler: base, planService: planService}
}

func (h *PlanHandler) RegisterRoutes(r *gin.RouterGroup, adminGuard gin.HandlerFunc) {
	plans := r.Group("/plans")
	plans.Use(middleware.AuthMiddleware())
	{
		plans.GET("/my", h.GetMyPlan)
	}

	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(middleware.AuthMiddleware())
	{
		subscriptions.POST("", h.Subscribe)
	}

	// Operator overrides: manual reconciliation when the webhook never fired.
	admin := r.Group("/admin/subscriptions")
	admin.Use(middleware.AuthMiddleware(), adminGuard)
	{
		admin.POST("/activate", h.Activate)
		admin.POST("/deactivate", h.Deactivate)
		admin.POST("/toggle", h.Toggle)
		admin.PATCH("/:userId", h.Update)
	}
}

// GetMyPlan godoc
// @Summary Get the caller's subscription plan
// @Tags plans
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /plans/my [get]
func (h *PlanHandler) GetMyPlan(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetByUserID(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// Subscribe godoc
// @Summary Start a subscription checkout for the chosen tier
// @Tags plans
// @Accept json
// @Produce json
// @Param request body models.CreateSubscriptionRequest true "Tier and billing type"
// @Success 201 {object} services.SubscribeResult
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 502 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *PlanHandler) Subscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.planService.Subscribe(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Activate godoc
// @Summary Manually activate a user's subscription (admin)
// @Tags plans
// @Accept json
// @Produce json
// @Param request body models.ActivateSubscriptionRequest true "User and preapproval plan"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /admin/subscriptions/activate [post]
func (h *PlanHandler) Activate(c *gin.Context) {
	var req models.ActivateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.planService.Activate(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// Deactivate godoc
// @Summary Manually deactivate a user's subscription (admin)
// @Tags plans
// @Accept json
// @Produce json
// @Param request body models.DeactivateSubscriptionRequest true "User"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /admin/subscriptions/deactivate [post]
func (h *PlanHandler) Deactivate(c *gin.Context) {
	var req models.DeactivateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.planService.Deactivate(h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.PlanStatusInactive})
}

func (h *PlanHandler) Toggle(c *gin.Context) {
	var req models.ToggleSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.planService.Toggle(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (h *PlanHandler) Update(c *gin.Context) {
	var req models.UpdatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(h.GetDB(c), c.Param("userId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}
