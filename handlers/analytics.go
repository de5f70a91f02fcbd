package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/services"
	"github.com/lifetrack/lifetrack-api/utils"
)

// AnalyticsHandler exposes the project/task reporting views. All aggregation
// lives in the service; these are thin parameter shims.
type AnalyticsHandler struct {
	Svc *services.ProjectAnalyticsService
}

func NewAnalyticsHandler(svc *services.ProjectAnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Svc: svc}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.Svc.Overview(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, overview)
}

func (h *AnalyticsHandler) Projects(c *gin.Context) {
	stats, err := h.Svc.ProjectStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, stats)
}

func (h *AnalyticsHandler) Tasks(c *gin.Context) {
	from, to := parseDateRange(c)
	analytics, err := h.Svc.TaskAnalytics(c.Request.Context(), middleware.GetUserID(c), from, to)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, analytics)
}
