package handler

import (
	"net/http"
	"time"

	"scolaris/internal/middleware"
	"scolaris/internal/model"
	"scolaris/internal/service"
	"scolaris/pkg/pagination"
	"scolaris/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleBursar, model.RoleStaff)

	ledger := router.Group("/api/ledger")
	{
		ledger.GET("/entries", anyStaff, h.ListEntries)
	}
}

// ListEntries returns a paginated view of the journal
// @Summary      List ledger entries
// @Description  Retrieves accounting entries filtered by account and date range. The ledger is append-only; this endpoint is the only way to read it.
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        account  query     string  false  "Filter by account code"
// @Param        from     query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to       query     string  false  "End date (YYYY-MM-DD)"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Number of items per page (default 20)"
// @Success      200      {object}  response.Response{data=object}
// @Failure      500      {object}  response.Response
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return
	}

	params := pagination.Parse(c)
	filter := service.EntryListFilter{
		AccountCode: c.Query("account"),
		Page:        params.Page,
		Limit:       params.Limit,
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD"))
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD"))
			return
		}
		// Inclusive end of day
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	entries, total, err := h.ledgerService.ListEntries(c.Request.Context(), schoolID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope("entries", entries, total)))
}
