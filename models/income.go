package models

import "time"

// ============================================================================
// INCOME MODEL
// ============================================================================

// IncomeSources is the closed set of accepted income sources.
var IncomeSources = []string{"salary", "freelance", "investments", "gift", "other"}

type Income struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      Amount    `json:"amount"`
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Amount is a pointer so a zero amount still satisfies required.
type CreateIncomeRequest struct {
	Amount      *Amount    `json:"amount" binding:"required,min=0"`
	Source      string     `json:"source" binding:"required,oneof=salary freelance investments gift other"`
	Description string     `json:"description" binding:"max=200"`
	Date        *time.Time `json:"date"`
}

type UpdateIncomeRequest struct {
	Amount      *Amount    `json:"amount" binding:"omitempty,min=0"`
	Source      *string    `json:"source" binding:"omitempty,oneof=salary freelance investments gift other"`
	Description *string    `json:"description" binding:"omitempty,max=200"`
	Date        *time.Time `json:"date"`
}
