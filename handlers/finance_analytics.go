package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

// FinanceAnalyticsHandler exposes the expense/income reporting views.
type FinanceAnalyticsHandler struct {
	Svc *services.FinanceAnalyticsService
}

func NewFinanceAnalyticsHandler(svc *services.FinanceAnalyticsService) *FinanceAnalyticsHandler {
	return &FinanceAnalyticsHandler{Svc: svc}
}

func (h *FinanceAnalyticsHandler) Summary(c *gin.Context) {
	from, to := parseDateRange(c)
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.GetUserID(c), from, to)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, summary)
}

func (h *FinanceAnalyticsHandler) Trends(c *gin.Context) {
	from, to := parseDateRange(c)
	trend, err := h.Svc.Trends(c.Request.Context(), middleware.GetUserID(c), from, to)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, trend)
}

func (h *FinanceAnalyticsHandler) Categories(c *gin.Context) {
	from, to := parseDateRange(c)
	breakdown, err := h.Svc.Categories(c.Request.Context(), middleware.GetUserID(c), from, to)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, breakdown)
}
