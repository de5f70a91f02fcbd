package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lifetrack/lifetrack-api/models"
)

// ============================================================================
// AI INSIGHT CACHE GATE
//
// Per (user, type) key: a fresh cache row is served directly (isCached), a
// missing or stale row triggers one remote generation whose parsed result is
// upserted, and any failure yields a fallback payload that is deliberately
// NOT cached. Two concurrent cold requests may both call the model; the
// unique constraint makes the last writer win, which is accepted.
// ============================================================================

type BudgetTips struct {
	Tips             []string   `json:"tips"`
	Forecast         *Forecast  `json:"forecast,omitempty"`
	Anomalies        []Anomaly  `json:"anomalies,omitempty"`
	AnalyzedExpenses int        `json:"analyzedExpenses"`
	IsCached         bool       `json:"isCached,omitempty"`
	IsFallback       bool       `json:"isFallback,omitempty"`
}

type Forecast struct {
	Amount models.Amount `json:"amount"`
	Trend  string        `json:"trend"`
	Reason string        `json:"reason"`
}

type Anomaly struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Insight struct {
	Insight    string `json:"insight"`
	IsCached   bool   `json:"isCached,omitempty"`
	IsFallback bool   `json:"isFallback,omitempty"`
}

// TextGenerator is the remote model call. *AIClient implements it.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// CacheStore persists insight payloads per (user, type).
type CacheStore interface {
	// Get returns nil, nil when no row exists.
	Get(ctx context.Context, userID, cacheType string) (*models.AICache, error)
	// Put inserts or replaces the single row for (user, type).
	Put(ctx context.Context, userID, cacheType string, data json.RawMessage) error
}

type InsightService struct {
	Cache CacheStore
	Model TextGenerator
	TTL   time.Duration
	Log   *logrus.Logger

	now func() time.Time
}

func NewInsightService(cache CacheStore, model TextGenerator, ttl time.Duration, log *logrus.Logger) *InsightService {
	return &InsightService{Cache: cache, Model: model, TTL: ttl, Log: log, now: time.Now}
}

// BudgetTips returns cached tips when warm, otherwise generates, caches and
// returns fresh ones. Failures degrade to an uncached fallback; this method
// never returns an error to the handler.
func (s *InsightService) BudgetTips(ctx context.Context, userID string, expenses []models.Expense) *BudgetTips {
	if row := s.freshRow(ctx, userID, models.CacheTypeBudgetTips); row != nil {
		var tips BudgetTips
		if err := json.Unmarshal(row.Data, &tips); err == nil {
			tips.IsCached = true
			return &tips
		}
		s.Log.WithField("user_id", userID).Warn("discarding undecodable budget tips cache row")
	}

	raw, err := s.Model.Generate(ctx, budgetTipsSystemPrompt, BuildBudgetTipsPrompt(expenses))
	if err != nil {
		s.Log.WithError(err).WithField("user_id", userID).Warn("budget tips generation failed, serving fallback")
		return FallbackBudgetTips(expenses)
	}

	tips, err := parseBudgetTips(raw)
	if err != nil {
		s.Log.WithError(err).WithField("user_id", userID).Warn("budget tips response unparseable, serving fallback")
		return FallbackBudgetTips(expenses)
	}
	tips.AnalyzedExpenses = len(expenses)

	s.store(ctx, userID, models.CacheTypeBudgetTips, tips)
	return tips
}

// AnalyticsInsight is the freeform-text sibling of BudgetTips.
func (s *InsightService) AnalyticsInsight(ctx context.Context, userID string, expenses []models.Expense) *Insight {
	if row := s.freshRow(ctx, userID, models.CacheTypeAnalyticsInsight); row != nil {
		var insight Insight
		if err := json.Unmarshal(row.Data, &insight); err == nil {
			insight.IsCached = true
			return &insight
		}
		s.Log.WithField("user_id", userID).Warn("discarding undecodable insight cache row")
	}

	raw, err := s.Model.Generate(ctx, insightSystemPrompt, BuildInsightPrompt(expenses))
	if err != nil {
		s.Log.WithError(err).WithField("user_id", userID).Warn("insight generation failed, serving fallback")
		return FallbackInsight(expenses)
	}

	insight := &Insight{Insight: strings.TrimSpace(raw)}
	s.store(ctx, userID, models.CacheTypeAnalyticsInsight, insight)
	return insight
}

// Chat bypasses the cache entirely: every message is a fresh prompt over the
// same recent-expense context. No conversation state is kept server-side.
func (s *InsightService) Chat(ctx context.Context, userID string, expenses []models.Expense, message string) (string, bool) {
	reply, err := s.Model.Generate(ctx, chatSystemPrompt, BuildChatPrompt(expenses, message))
	if err != nil {
		s.Log.WithError(err).WithField("user_id", userID).Warn("chat generation failed, serving apology")
		return chatApology, true
	}
	return strings.TrimSpace(reply), false
}

// freshRow returns the cache row only when present and inside the TTL; a
// stale row is treated exactly like a missing one.
func (s *InsightService) freshRow(ctx context.Context, userID, cacheType string) *models.AICache {
	row, err := s.Cache.Get(ctx, userID, cacheType)
	if err != nil {
		s.Log.WithError(err).Warn("ai cache read failed, treating as cold")
		return nil
	}
	if row == nil || s.now().Sub(row.CreatedAt) > s.TTL {
		return nil
	}
	return row
}

func (s *InsightService) store(ctx context.Context, userID, cacheType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.Log.WithError(err).Warn("failed to encode insight payload for cache")
		return
	}
	if err := s.Cache.Put(ctx, userID, cacheType, data); err != nil {
		s.Log.WithError(err).Warn("failed to write ai cache row")
	}
}

// parseBudgetTips decodes the model's JSON, tolerating markdown fences and
// prose around the object.
func parseBudgetTips(raw string) (*BudgetTips, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in model output")
	}

	var tips BudgetTips
	if err := json.Unmarshal([]byte(raw[start:end+1]), &tips); err != nil {
		return nil, err
	}
	if len(tips.Tips) == 0 {
		return nil, errors.New("model returned no tips")
	}
	return &tips, nil
}

// ============================================================================
// SQL CACHE STORE
// ============================================================================

type SQLCacheStore struct {
	DB *sql.DB
}

func (s *SQLCacheStore) Get(ctx context.Context, userID, cacheType string) (*models.AICache, error) {
	var row models.AICache
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, type, data, created_at
		FROM ai_cache
		WHERE user_id = $1 AND type = $2
	`, userID, cacheType).Scan(&row.ID, &row.UserID, &row.Type, (*[]byte)(&row.Data), &row.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SQLCacheStore) Put(ctx context.Context, userID, cacheType string, data json.RawMessage) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO ai_cache (id, user_id, type, data, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, type)
		DO UPDATE SET data = EXCLUDED.data, created_at = NOW()
	`, uuid.NewString(), userID, cacheType, []byte(data))
	return err
}

// CleanExpiredCache deletes cache rows older than the TTL plus any expired
// sessions. Run periodically from main.
func CleanExpiredCache(ctx context.Context, db *sql.DB, ttl time.Duration) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM ai_cache WHERE created_at < NOW() - ($1 * interval '1 second')`,
		int64(ttl.Seconds()))
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()

	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`); err != nil {
		return rows, err
	}
	return rows, nil
}
