package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetrack/lifetrack-api/models"
)

type fakeCache struct {
	rows map[string]*models.AICache
}

func newFakeCache() *fakeCache {
	return &fakeCache{rows: map[string]*models.AICache{}}
}

func (f *fakeCache) Get(_ context.Context, userID, cacheType string) (*models.AICache, error) {
	row, ok := f.rows[userID+"/"+cacheType]
	if !ok {
		return nil, nil
	}
	return row, nil
}

func (f *fakeCache) Put(_ context.Context, userID, cacheType string, data json.RawMessage) error {
	f.rows[userID+"/"+cacheType] = &models.AICache{
		UserID:    userID,
		Type:      cacheType,
		Data:      data,
		CreatedAt: time.Now(),
	}
	return nil
}

type fakeModel struct {
	calls    int
	response string
	err      error
}

func (f *fakeModel) Generate(context.Context, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const tipsJSON = `{"tips":["Cook at home more often","Cancel unused subscriptions","Set a weekly limit"],"forecast":{"amount":450.00,"trend":"stable","reason":"steady spending"},"anomalies":[]}`

func TestBudgetTipsColdThenWarm(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{response: tipsJSON}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	first := svc.BudgetTips(context.Background(), "u-1", nil)
	require.Len(t, first.Tips, 3)
	assert.False(t, first.IsCached)
	assert.False(t, first.IsFallback)
	assert.Equal(t, 1, model.calls)

	second := svc.BudgetTips(context.Background(), "u-1", nil)
	assert.True(t, second.IsCached)
	assert.Equal(t, first.Tips, second.Tips)
	assert.Equal(t, 1, model.calls, "warm hit must not call the model")
}

func TestBudgetTipsFailureIsNotCached(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{err: errors.New("model down")}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	first := svc.BudgetTips(context.Background(), "u-1", nil)
	assert.True(t, first.IsFallback)
	assert.Empty(t, cache.rows, "fallback payloads must never be cached")

	// Model recovers: the next call goes straight to it.
	model.err = nil
	model.response = tipsJSON
	second := svc.BudgetTips(context.Background(), "u-1", nil)
	assert.False(t, second.IsFallback)
	assert.False(t, second.IsCached)
	assert.Equal(t, 2, model.calls)
}

func TestBudgetTipsUnparseableResponseFallsBack(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{response: "I am not JSON at all"}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	tips := svc.BudgetTips(context.Background(), "u-1", nil)
	assert.True(t, tips.IsFallback)
	assert.Empty(t, cache.rows)
}

func TestBudgetTipsTTLExpiry(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{response: tipsJSON}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.BudgetTips(context.Background(), "u-1", nil)
	require.Equal(t, 1, model.calls)

	// Still fresh a minute before the TTL.
	cache.rows["u-1/"+models.CacheTypeBudgetTips].CreatedAt = now.Add(-24*time.Hour + time.Minute)
	svc.BudgetTips(context.Background(), "u-1", nil)
	assert.Equal(t, 1, model.calls)

	// Stale once past it.
	cache.rows["u-1/"+models.CacheTypeBudgetTips].CreatedAt = now.Add(-25 * time.Hour)
	svc.BudgetTips(context.Background(), "u-1", nil)
	assert.Equal(t, 2, model.calls)
}

func TestBudgetTipsKeysAreIndependent(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{response: tipsJSON}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	svc.BudgetTips(context.Background(), "u-1", nil)
	svc.BudgetTips(context.Background(), "u-2", nil)
	assert.Equal(t, 2, model.calls)

	svc.AnalyticsInsight(context.Background(), "u-1", nil)
	assert.Equal(t, 3, model.calls, "a different type for the same user is its own key")
}

func TestParseBudgetTipsToleratesFences(t *testing.T) {
	fenced := "```json\n" + tipsJSON + "\n```"
	tips, err := parseBudgetTips(fenced)
	require.NoError(t, err)
	assert.Len(t, tips.Tips, 3)
	require.NotNil(t, tips.Forecast)
	assert.Equal(t, models.Amount(45000), tips.Forecast.Amount)
	assert.Equal(t, "stable", tips.Forecast.Trend)
}

func TestParseBudgetTipsRejectsEmptyTips(t *testing.T) {
	_, err := parseBudgetTips(`{"tips":[]}`)
	assert.ErrorContains(t, err, "no tips")
}

func TestParseBudgetTipsErrorsAreDescriptive(t *testing.T) {
	// The message ends up in a warn log line; it must not be empty.
	_, err := parseBudgetTips("plain prose, no braces")
	assert.ErrorContains(t, err, "no JSON object")
}

func TestAnalyticsInsightTrimsAndCaches(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{response: "  Spending is dominated by food.  \n"}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	insight := svc.AnalyticsInsight(context.Background(), "u-1", nil)
	assert.Equal(t, "Spending is dominated by food.", insight.Insight)
	assert.False(t, insight.IsCached)

	again := svc.AnalyticsInsight(context.Background(), "u-1", nil)
	assert.True(t, again.IsCached)
	assert.Equal(t, 1, model.calls)
}

func TestChatBypassesCache(t *testing.T) {
	cache := newFakeCache()
	model := &fakeModel{response: "Try a weekly budget."}
	svc := NewInsightService(cache, model, 24*time.Hour, quietLogger())

	reply, fallback := svc.Chat(context.Background(), "u-1", nil, "how do I save?")
	assert.Equal(t, "Try a weekly budget.", reply)
	assert.False(t, fallback)

	svc.Chat(context.Background(), "u-1", nil, "how do I save?")
	assert.Equal(t, 2, model.calls, "chat never reads or writes the cache")
	assert.Empty(t, cache.rows)
}

func TestChatFallsBackToApology(t *testing.T) {
	svc := NewInsightService(newFakeCache(), &fakeModel{err: errors.New("down")}, time.Hour, quietLogger())

	reply, fallback := svc.Chat(context.Background(), "u-1", nil, "hello")
	assert.True(t, fallback)
	assert.Equal(t, chatApology, reply)
}
