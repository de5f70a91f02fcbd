package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

// ============================================================================
// AI HANDLER
//
// Budget tips run through the insight cache gate; chat hits the model every
// time. Model failure is never surfaced as an error status: callers get a
// fallback payload with a 200.
// ============================================================================

type AIHandler struct {
	Insights    *services.InsightService
	Finance     *services.FinanceAnalyticsService
	RecentLimit int
}

func NewAIHandler(insights *services.InsightService, finance *services.FinanceAnalyticsService, recentLimit int) *AIHandler {
	return &AIHandler{Insights: insights, Finance: finance, RecentLimit: recentLimit}
}

const recentLookback = 90 * 24 * time.Hour

type chatRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

func (h *AIHandler) BudgetTips(c *gin.Context) {
	userID := middleware.GetUserID(c)
	expenses, err := h.Finance.RecentExpenses(c.Request.Context(), userID, recentLookback, h.RecentLimit)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	tips := h.Insights.BudgetTips(c.Request.Context(), userID, expenses)
	utils.OK(c, 200, tips)
}

func (h *AIHandler) Insight(c *gin.Context) {
	userID := middleware.GetUserID(c)
	expenses, err := h.Finance.RecentExpenses(c.Request.Context(), userID, recentLookback, h.RecentLimit)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	insight := h.Insights.AnalyticsInsight(c.Request.Context(), userID, expenses)
	utils.OK(c, 200, insight)
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	expenses, err := h.Finance.RecentExpenses(c.Request.Context(), userID, recentLookback, h.RecentLimit)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	reply, isFallback := h.Insights.Chat(c.Request.Context(), userID, expenses, req.Message)
	utils.OK(c, 200, gin.H{"reply": reply, "isFallback": isFallback})
}
