package models

import "time"

// ============================================================================
// EXPENSE MODEL
// ============================================================================

const (
	ExpenseTypeEssential    = "essential"
	ExpenseTypeNonEssential = "non-essential"
)

// ExpenseCategories is the closed set of accepted expense categories.
var ExpenseCategories = []string{
	"food", "transportation", "housing", "utilities",
	"entertainment", "healthcare", "shopping", "other",
}

type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      Amount    `json:"amount"`
	Category    string    `json:"category"`
	ExpenseType string    `json:"expenseType"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Amount is a pointer so a zero amount still satisfies required.
type CreateExpenseRequest struct {
	Amount      *Amount    `json:"amount" binding:"required,min=0"`
	Category    string     `json:"category" binding:"required,oneof=food transportation housing utilities entertainment healthcare shopping other"`
	ExpenseType string     `json:"expenseType" binding:"omitempty,oneof=essential non-essential"`
	Description string     `json:"description" binding:"max=200"`
	Date        *time.Time `json:"date"`
}

type UpdateExpenseRequest struct {
	Amount      *Amount    `json:"amount" binding:"omitempty,min=0"`
	Category    *string    `json:"category" binding:"omitempty,oneof=food transportation housing utilities entertainment healthcare shopping other"`
	ExpenseType *string    `json:"expenseType" binding:"omitempty,oneof=essential non-essential"`
	Description *string    `json:"description" binding:"omitempty,max=200"`
	Date        *time.Time `json:"date"`
}
