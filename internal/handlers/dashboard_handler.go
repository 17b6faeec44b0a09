package handlers

import (
	"net/http"

	"agencia_backend/internal/middleware"
	"agencia_backend/internal/models"
	"agencia_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup, adminGuard gin.HandlerFunc) {
	dashboards := r.Group("/dashboards")
	dashboards.Use(middleware.AuthMiddleware())
	{
		dashboards.GET("/my", h.GetMine)
		dashboards.GET("/my/periods", h.ListMyPeriods)
	}

	admin := r.Group("/admin/dashboards")
	admin.Use(middleware.AuthMiddleware(), adminGuard)
	{
		admin.PUT("", h.Upsert)
		admin.GET("/:clientId", h.GetForClient)
	}
}

// GetMine godoc
// @Summary Get the caller's monthly report
// @Tags dashboards
// @Produce json
// @Param period query string false "Report period, e.g. 2026-08 (defaults to latest)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /dashboards/my [get]
func (h *DashboardHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetForClient(h.GetDB(c), userID, c.Query("period"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

func (h *DashboardHandler) ListMyPeriods(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	periods, err := h.dashboardService.ListPeriods(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// Upsert godoc
// @Summary Publish or replace a client's report for a period (admin)
// @Tags dashboards
// @Accept json
// @Produce json
// @Param request body models.UpsertDashboardRequest true "Report data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /admin/dashboards [put]
func (h *DashboardHandler) Upsert(c *gin.Context) {
	var req models.UpsertDashboardRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	dashboard, err := h.dashboardService.Upsert(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

func (h *DashboardHandler) GetForClient(c *gin.Context) {
	dashboard, err := h.dashboardService.GetForClient(h.GetDB(c), c.Param("clientId"), c.Query("period"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
