package handler

import (
	"net/http"
	"time"

	"scolaris/internal/middleware"
	"scolaris/internal/model"
	"scolaris/internal/service"
	"scolaris/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	finance := middleware.RequireRole(model.RoleAdmin, model.RoleBursar)

	reports := router.Group("/api/reports")
	{
		reports.GET("/trial-balance", finance, h.TrialBalance)
		reports.GET("/income-statement", finance, h.IncomeStatement)
		reports.GET("/balance-sheet", finance, h.BalanceSheet)
	}
}

// reportPeriod parses the from/to query params, defaulting to the current
// calendar year so a bare request still returns something sensible.
func reportPeriod(c *gin.Context) (uuid.UUID, time.Time, time.Time, bool) {
	schoolID, ok := middleware.SchoolID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing school identity"))
		return uuid.Nil, time.Time{}, time.Time{}, false
	}

	now := time.Now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD"))
			return uuid.Nil, time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD"))
			return uuid.Nil, time.Time{}, time.Time{}, false
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return schoolID, from, to, true
}

// TrialBalance returns per-account debit/credit totals
// @Summary      Trial balance
// @Description  Per-account totals over the period with grand totals. Fails loudly when the ledger's global debits and credits disagree.
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD, default Jan 1)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD, default today)"
// @Success      200   {object}  response.Response{data=service.TrialBalanceResponse}
// @Failure      500   {object}  response.Response
// @Router       /api/reports/trial-balance [get]
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	schoolID, from, to, ok := reportPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportService.TrialBalance(c.Request.Context(), schoolID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// IncomeStatement returns revenue against charges
// @Summary      Income statement
// @Description  Revenue minus charges over the period, with a per-charge-account breakdown
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD, default Jan 1)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD, default today)"
// @Success      200   {object}  response.Response{data=service.IncomeStatementResponse}
// @Failure      500   {object}  response.Response
// @Router       /api/reports/income-statement [get]
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	schoolID, from, to, ok := reportPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportService.IncomeStatement(c.Request.Context(), schoolID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// BalanceSheet returns assets against equity
// @Summary      Balance sheet
// @Description  Cash and receivable positions against opening capital plus accumulated result
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD, default Jan 1)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD, default today)"
// @Success      200   {object}  response.Response{data=service.BalanceSheetResponse}
// @Failure      500   {object}  response.Response
// @Router       /api/reports/balance-sheet [get]
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	schoolID, from, to, ok := reportPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportService.BalanceSheet(c.Request.Context(), schoolID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
