package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lifetrack/lifetrack-api/models"
)

func TestBuildExpenseContextEmpty(t *testing.T) {
	ctx := BuildExpenseContext(nil)
	assert.Contains(t, ctx, "no recorded expenses")
}

func TestBuildExpenseContextCapsRows(t *testing.T) {
	expenses := make([]models.Expense, maxPromptExpenses+10)
	for i := range expenses {
		expenses[i] = models.Expense{
			Amount:   100,
			Category: "food",
			Date:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	ctx := BuildExpenseContext(expenses)
	assert.Equal(t, maxPromptExpenses, strings.Count(ctx, "- 2026-03-01"))
	// The summary line reflects only what was rendered.
	assert.Contains(t, ctx, "over 30 expenses")
}

func TestBuildChatPromptIncludesMessage(t *testing.T) {
	prompt := BuildChatPrompt(nil, "can I afford a vacation?")
	assert.Contains(t, prompt, "User message: can I afford a vacation?")
}

func TestFallbackBudgetTipsUsesTopCategory(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 900, Category: "housing"},
		{Amount: 100, Category: "food"},
	}

	tips := FallbackBudgetTips(expenses)
	assert.True(t, tips.IsFallback)
	assert.Equal(t, 2, tips.AnalyzedExpenses)
	assert.Contains(t, strings.Join(tips.Tips, " "), "housing")
}

func TestFallbackBudgetTipsEmpty(t *testing.T) {
	tips := FallbackBudgetTips(nil)
	assert.True(t, tips.IsFallback)
	assert.Equal(t, 0, tips.AnalyzedExpenses)
	assert.NotEmpty(t, tips.Tips)
}

func TestFallbackInsight(t *testing.T) {
	insight := FallbackInsight(nil)
	assert.True(t, insight.IsFallback)
	assert.NotEmpty(t, insight.Insight)

	withData := FallbackInsight([]models.Expense{{Amount: 500, Category: "shopping"}})
	assert.Contains(t, withData.Insight, "shopping")
}
