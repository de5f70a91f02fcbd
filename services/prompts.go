package services

import (
	"fmt"
	"strings"

	"github.com/lifetrack/lifetrack-api/models"
)

// maxPromptExpenses caps how many rows go into a prompt so payload size
// stays bounded no matter how active the user is.
const maxPromptExpenses = 30

const budgetTipsSystemPrompt = `You are a personal finance assistant.
Given a list of the user's recent expenses, respond ONLY with strict JSON in this exact format:
{
  "tips": ["...", "...", "..."],
  "forecast": {"amount": 0, "trend": "increasing|decreasing|stable", "reason": "..."},
  "anomalies": [{"category": "...", "message": "..."}]
}
Rules:
1. Give 3 to 5 short, concrete, personalized tips based on the actual spending shown.
2. forecast.amount is the predicted total spending for next month.
3. List an anomaly only when a category looks unusually high; otherwise use [].
4. No extra text, no markdown fences.`

const insightSystemPrompt = `You are a personal finance analyst.
Summarize the user's spending pattern in 2-3 plain sentences: what dominates,
how essential vs non-essential spending balances, and one thing to watch.
Respond with the summary text only.`

const chatSystemPrompt = `You are a friendly, concise personal finance assistant.
Answer questions about budgeting, saving and the user's spending context.
Keep answers short and actionable. Do not invent transactions the context does not show.`

// BuildExpenseContext renders recent expenses (newest first) as prompt
// context, capped at maxPromptExpenses rows.
func BuildExpenseContext(expenses []models.Expense) string {
	if len(expenses) == 0 {
		return "The user has no recorded expenses in the recent period."
	}
	if len(expenses) > maxPromptExpenses {
		expenses = expenses[:maxPromptExpenses]
	}

	var b strings.Builder
	var total models.Amount
	b.WriteString("Recent expenses (newest first):\n")
	for _, e := range expenses {
		total += e.Amount
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			e.Date.UTC().Format("2006-01-02"), e.Category, e.ExpenseType, e.Amount, e.Description)
	}
	fmt.Fprintf(&b, "Total: %s over %d expenses.\n", total, len(expenses))
	return b.String()
}

func BuildBudgetTipsPrompt(expenses []models.Expense) string {
	return BuildExpenseContext(expenses) + "\nGenerate budget tips for this user."
}

func BuildInsightPrompt(expenses []models.Expense) string {
	return BuildExpenseContext(expenses) + "\nSummarize this spending pattern."
}

func BuildChatPrompt(expenses []models.Expense, message string) string {
	return BuildExpenseContext(expenses) + "\nUser message: " + message
}
