package models

import (
	"encoding/json"
	"time"
)

// ============================================================================
// AI CACHE
// ============================================================================

// Cached insight types. At most one live row exists per (user, type);
// the ai_cache table enforces this with a unique constraint.
const (
	CacheTypeBudgetTips       = "budget_tips"
	CacheTypeAnalyticsInsight = "analytics_insight"
)

type AICache struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}
