package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetrack/lifetrack-api/models"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
}

func expense(amount models.Amount, category, expenseType string, date time.Time) models.Expense {
	return models.Expense{
		Amount:      amount,
		Category:    category,
		ExpenseType: expenseType,
		Date:        date,
		UpdatedAt:   date,
	}
}

func TestSummarizeFinanceEmpty(t *testing.T) {
	s := SummarizeFinance(nil, nil, 5)

	assert.Equal(t, models.Amount(0), s.TotalExpenses)
	assert.Equal(t, models.Amount(0), s.TotalIncome)
	assert.Equal(t, models.Amount(0), s.Balance)
	assert.Equal(t, 0, s.ExpenseCount)
	assert.Equal(t, models.Amount(0), s.AverageExpense)
	assert.Nil(t, s.HighestDay)
	assert.NotNil(t, s.RecentActivity)
	assert.Empty(t, s.RecentActivity)
}

func TestSummarizeFinanceTotals(t *testing.T) {
	expenses := []models.Expense{
		expense(1000, "food", models.ExpenseTypeEssential, day(1)),
		expense(2000, "entertainment", models.ExpenseTypeNonEssential, day(2)),
		expense(3000, "food", models.ExpenseTypeEssential, day(2)),
	}
	incomes := []models.Income{
		{Amount: 10000, Source: "salary"},
	}

	s := SummarizeFinance(expenses, incomes, 2)

	assert.Equal(t, models.Amount(6000), s.TotalExpenses)
	assert.Equal(t, models.Amount(10000), s.TotalIncome)
	assert.Equal(t, models.Amount(4000), s.Balance)
	assert.Equal(t, 3, s.ExpenseCount)
	assert.Equal(t, models.Amount(2000), s.AverageExpense)
	assert.Equal(t, models.Amount(4000), s.EssentialTotal)
	assert.Equal(t, models.Amount(2000), s.NonEssentialTotal)

	require.NotNil(t, s.HighestDay)
	assert.Equal(t, "2026-03-02", s.HighestDay.Date)
	assert.Equal(t, models.Amount(5000), s.HighestDay.Total)

	// Most recently updated first, capped at recentN.
	require.Len(t, s.RecentActivity, 2)
	assert.Equal(t, day(2), s.RecentActivity[0].UpdatedAt)
}

func TestDailyTrendOrdering(t *testing.T) {
	expenses := []models.Expense{
		expense(500, "food", models.ExpenseTypeEssential, day(3)),
		expense(100, "food", models.ExpenseTypeEssential, day(1)),
		expense(200, "food", models.ExpenseTypeEssential, day(1)),
	}

	trend := DailyTrend(expenses)
	require.Len(t, trend, 2)
	assert.Equal(t, "2026-03-01", trend[0].Date)
	assert.Equal(t, models.Amount(300), trend[0].Total)
	assert.Equal(t, "2026-03-03", trend[1].Date)
	assert.Equal(t, models.Amount(500), trend[1].Total)
}

func TestDailyTrendGroupsByUTCDay(t *testing.T) {
	late := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	nextMorning := time.Date(2026, 3, 2, 0, 30, 0, 0, time.UTC)

	trend := DailyTrend([]models.Expense{
		expense(100, "food", models.ExpenseTypeEssential, late),
		expense(100, "food", models.ExpenseTypeEssential, nextMorning),
	})
	require.Len(t, trend, 2)
}

func TestCategoryBreakdownOrder(t *testing.T) {
	expenses := []models.Expense{
		expense(100, "food", models.ExpenseTypeEssential, day(1)),
		expense(900, "housing", models.ExpenseTypeEssential, day(1)),
		expense(300, "food", models.ExpenseTypeEssential, day(2)),
	}

	stats := CategoryBreakdown(expenses)
	require.Len(t, stats, 2)
	assert.Equal(t, "housing", stats[0].Category)
	assert.Equal(t, models.Amount(900), stats[0].Total)
	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, "food", stats[1].Category)
	assert.Equal(t, models.Amount(400), stats[1].Total)
	assert.Equal(t, 2, stats[1].Count)
}

func TestCategoryBreakdownEmpty(t *testing.T) {
	assert.Empty(t, CategoryBreakdown(nil))
}
