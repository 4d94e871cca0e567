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

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleBursar, model.RoleStaff)
	billing := middleware.RequireRole(model.RoleAdmin, model.RoleBursar)

	payments := router.Group("/api/payments")
	{
		payments.POST("", billing, h.ApplyPayment)
		payments.GET("", anyStaff, h.ListPayments)
		payments.GET("/:id", anyStaff, h.GetPayment)
		payments.PUT("/:id/reverse", billing, h.ReversePayment)
	}
}

// ApplyPayment records an incoming payment
// @Summary      Apply payment
// @Description  Records a payment, updates the referenced invoice balance and writes the balanced ledger pair in one transaction. Payments exceeding the remaining balance are rejected.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ApplyPaymentRequest  true  "Apply Payment Payload"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/payments [post]
func (h *PaymentHandler) ApplyPayment(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	userID, okUser := middleware.UserID(c)
	if !ok || !okUser {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing identity"))
		return
	}

	var req service.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.ApplyPayment(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// GetPayment returns one payment
// @Summary      Get payment
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// ListPayments returns a paginated list of payments
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        student_id  query     string  false  "Filter by student"
// @Param        invoice_id  query     string  false  "Filter by invoice"
// @Param        method      query     string  false  "Filter by method (CASH, BANK_TRANSFER, CHECK, MOBILE_MONEY)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	params := pagination.Parse(c)
	filter := service.ListPaymentsFilter{
		StudentID: c.Query("student_id"),
		InvoiceID: c.Query("invoice_id"),
		Method:    c.Query("method"),
		Page:      params.Page,
		Limit:     params.Limit,
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), schoolID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope("payments", payments, total)))
}

// ReversePayment reverses a recorded payment
// @Summary      Reverse payment
// @Description  Appends a swapped ledger pair, rolls the invoice balance back and flags the payment. The original postings are never modified.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.PaymentResponse}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/payments/{id}/reverse [put]
func (h *PaymentHandler) ReversePayment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing user identity"))
		return
	}

	payment, err := h.paymentService.ReversePayment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}
