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

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleBursar, model.RoleStaff)
	billing := middleware.RequireRole(model.RoleAdmin, model.RoleBursar)

	expenses := router.Group("/api/expenses")
	{
		expenses.POST("", billing, h.CreateExpense)
		expenses.GET("", anyStaff, h.ListExpenses)
		expenses.PUT("/:id/reverse", billing, h.ReverseExpense)
	}
}

// CreateExpense records an outgoing expense
// @Summary      Create expense
// @Description  Records an expense and writes its ledger pair (debit charge account, credit cash) in one transaction. The category must map onto a known charge account.
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateExpenseRequest  true  "Create Expense Payload"
// @Success      201      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	userID, okUser := middleware.UserID(c)
	if !ok || !okUser {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing identity"))
		return
	}

	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), schoolID, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// ListExpenses returns a paginated list of expenses
// @Summary      List expenses
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        category  query     string  false  "Filter by category (SALARIES, UTILITIES, SUPPLIES, MAINTENANCE, OTHER)"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	params := pagination.Parse(c)
	filter := service.ListExpensesFilter{
		Category: c.Query("category"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), schoolID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope("expenses", expenses, total)))
}

// ReverseExpense reverses a recorded expense
// @Summary      Reverse expense
// @Description  Appends a swapped ledger pair and flags the expense. The original postings are never modified.
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/expenses/{id}/reverse [put]
func (h *ExpenseHandler) ReverseExpense(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing user identity"))
		return
	}

	expense, err := h.expenseService.ReverseExpense(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}
