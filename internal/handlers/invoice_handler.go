package handlers

import (
	"net/http"

	"agencia_backend/internal/middleware"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	*BaseHandler
	invoiceService services.InvoiceService
}

func NewInvoiceHandler(base *BaseHandler, invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(r *gin.RouterGroup, adminGuard gin.HandlerFunc) {
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	{
		invoices.GET("/my", h.ListMine)
	}

	admin := r.Group("/admin/invoices")
	admin.Use(middleware.AuthMiddleware(), adminGuard)
	{
		admin.POST("", h.Create)
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// ListMine returns the caller's invoices, newest number first.
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListForUser(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "total": len(invoices)})
}

// Create godoc
// @Summary Issue an invoice for a client (admin)
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body models.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /admin/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req models.CreateInvoiceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// List godoc
// @Summary List invoices with filters (admin)
// @Tags invoices
// @Produce json
// @Param user_id query string false "Filter by user"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filters := repositories.InvoiceFilters{
		UserID: c.Query("user_id"),
		Status: models.InvoiceStatus(c.Query("status")),
	}

	invoices, total, err := h.invoiceService.List(h.GetDB(c), filters, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":  invoices,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoiceService.GetByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	var req models.UpdateInvoiceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoiceService.Delete(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
