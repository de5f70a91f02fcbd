package services

import (
	"fmt"

	"github.com/lifetrack/lifetrack-api/models"
)

// Static fallback payloads. These are served whenever the remote model is
// unreachable, unconfigured, or returns something unparseable. They are
// never written to the cache, so a degraded response cannot shadow a real
// one once the model recovers.

const chatApology = "Sorry, the assistant is unavailable right now. Please try again in a moment."

// FallbackBudgetTips builds generic tips, lightly seasoned with the caller's
// totals when rows are available.
func FallbackBudgetTips(expenses []models.Expense) *BudgetTips {
	tips := []string{
		"Track every expense for a full month before setting category budgets.",
		"Consider allocating 20% of your income to savings.",
		"Review your non-essential spending weekly and pick one item to cut.",
	}

	if len(expenses) > 0 {
		var total models.Amount
		for _, e := range expenses {
			total += e.Amount
		}
		top := CategoryBreakdown(expenses)[0]
		tips = append([]string{
			fmt.Sprintf("You have spent %s recently. Consider setting a daily limit.", total),
			fmt.Sprintf("Your highest spending category is '%s'. Look for savings there first.", top.Category),
		}, tips...)
	}

	return &BudgetTips{
		Tips:             tips,
		AnalyzedExpenses: len(expenses),
		IsFallback:       true,
	}
}

func FallbackInsight(expenses []models.Expense) *Insight {
	text := "Not enough data for a personalized insight yet. Add more expenses and check back."
	if len(expenses) > 0 {
		top := CategoryBreakdown(expenses)[0]
		text = fmt.Sprintf(
			"Your recent spending is led by '%s' across %d expenses. Personalized analysis is temporarily unavailable.",
			top.Category, len(expenses))
	}
	return &Insight{Insight: text, IsFallback: true}
}
