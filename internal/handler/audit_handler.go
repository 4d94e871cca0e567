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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs")
	{
		audit.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleBursar), h.ListLogs)
	}
}

// ListLogs returns the school's audit trail
// @Summary      List audit logs
// @Description  Retrieves the who/what/when trail of financial mutations, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListLogs(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	params := pagination.Parse(c)
	logs, total, err := h.auditService.ListLogs(c.Request.Context(), schoolID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope("logs", logs, total)))
}
