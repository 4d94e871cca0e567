package handler

import (
	"net/http"

	"scolaris/internal/middleware"
	"scolaris/internal/model"
	"scolaris/internal/service"
	"scolaris/pkg/response"

	"github.com/gin-gonic/gin"
)

type FeeHandler struct {
	feeRuleService service.FeeRuleService
}

func NewFeeHandler(feeRuleService service.FeeRuleService) *FeeHandler {
	return &FeeHandler{feeRuleService: feeRuleService}
}

func (h *FeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleBursar, model.RoleStaff)
	billing := middleware.RequireRole(model.RoleAdmin, model.RoleBursar)

	feeTypes := router.Group("/api/fee-types")
	{
		feeTypes.POST("", billing, h.CreateFeeType)
		feeTypes.GET("", anyStaff, h.ListFeeTypes)
	}

	rules := router.Group("/api/billing-rules")
	{
		rules.POST("", billing, h.CreateBillingRule)
		rules.GET("", anyStaff, h.ListBillingRules)
		rules.DELETE("/:id", billing, h.DeleteBillingRule)
		rules.POST("/resolve", anyStaff, h.ResolveAmount)
	}
}

// CreateFeeType creates a fee type
// @Summary      Create fee type
// @Description  Creates a fee type with its base amount and billing frequency
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateFeeTypeRequest  true  "Create Fee Type Payload"
// @Success      201      {object}  response.Response{data=service.FeeTypeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/fee-types [post]
func (h *FeeHandler) CreateFeeType(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	var req service.CreateFeeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	feeType, err := h.feeRuleService.CreateFeeType(c.Request.Context(), schoolID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, feeType))
}

// ListFeeTypes lists the school's fee types
// @Summary      List fee types
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Param        active  query     bool  false  "Only active fee types"
// @Success      200     {object}  response.Response{data=[]service.FeeTypeResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/fee-types [get]
func (h *FeeHandler) ListFeeTypes(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	activeOnly := c.Query("active") == "true"
	feeTypes, err := h.feeRuleService.ListFeeTypes(c.Request.Context(), schoolID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, feeTypes))
}

// CreateBillingRule creates a scoped amount override for a fee type
// @Summary      Create billing rule
// @Description  Creates a class, section or school scoped billing rule for a fee type. At most one rule per target.
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBillingRuleRequest  true  "Create Billing Rule Payload"
// @Success      201      {object}  response.Response{data=service.BillingRuleResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/billing-rules [post]
func (h *FeeHandler) CreateBillingRule(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	var req service.CreateBillingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.feeRuleService.CreateBillingRule(c.Request.Context(), schoolID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// ListBillingRules lists the school's billing rules
// @Summary      List billing rules
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.BillingRuleResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/billing-rules [get]
func (h *FeeHandler) ListBillingRules(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	rules, err := h.feeRuleService.ListBillingRules(c.Request.Context(), schoolID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// DeleteBillingRule removes a billing rule
// @Summary      Delete billing rule
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Billing Rule ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/billing-rules/{id} [delete]
func (h *FeeHandler) DeleteBillingRule(c *gin.Context) {
	if err := h.feeRuleService.DeleteBillingRule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// ResolveAmount resolves the billed amount for a fee type and target
// @Summary      Resolve billed amount
// @Description  Walks the billing rules in class, section, school precedence order and returns the amount the target would be billed
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ResolveAmountRequest  true  "Resolve Payload"
// @Success      200      {object}  response.Response{data=service.ResolveAmountResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/billing-rules/resolve [post]
func (h *FeeHandler) ResolveAmount(c *gin.Context) {
	var req service.ResolveAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.feeRuleService.ResolveAmount(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
