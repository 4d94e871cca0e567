package handler

import (
	"net/http"

	"scolaris/internal/middleware"
	"scolaris/internal/model"
	"scolaris/internal/service"
	"scolaris/pkg/pagination"
	"scolaris/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleBursar, model.RoleStaff)
	billing := middleware.RequireRole(model.RoleAdmin, model.RoleBursar)

	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", billing, h.ComposeInvoice)
		invoices.GET("", anyStaff, h.ListInvoices)
		invoices.GET("/:id", anyStaff, h.GetInvoice)
		invoices.PUT("/:id/cancel", billing, h.CancelInvoice)
	}
}

// ComposeInvoice creates an invoice for a student
// @Summary      Compose invoice
// @Description  Creates an invoice from fee type line items, resolving missing unit prices through the billing rules and drawing the next per-school invoice number
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ComposeInvoiceRequest  true  "Compose Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) ComposeInvoice(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	userID, okUser := middleware.UserID(c)
	if !ok || !okUser {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing identity"))
		return
	}

	var req service.ComposeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.ComposeInvoice(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// GetInvoice returns one invoice with its items
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ListInvoices returns a paginated list of invoices
// @Summary      List invoices
// @Description  Retrieves invoices filtered by student or status. OVERDUE is a derived view of pending invoices past their due date.
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        student_id  query     string  false  "Filter by student"
// @Param        status      query     string  false  "Filter by status (PENDING, PAID, CANCELLED, OVERDUE)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	params := pagination.Parse(c)
	filter := service.ListInvoicesFilter{
		StudentID: c.Query("student_id"),
		Status:    c.Query("status"),
		Page:      params.Page,
		Limit:     params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), schoolID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope("invoices", invoices, total)))
}

// CancelInvoice cancels a pending, unpaid invoice
// @Summary      Cancel invoice
// @Description  Cancels a pending invoice. Invoices with applied payments must have those payments reversed first.
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/cancel [put]
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing user identity"))
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}
