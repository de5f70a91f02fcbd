package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"time"

	"github.com/lifetrack/lifetrack-api/models"
)

// ============================================================================
// FINANCE AGGREGATION
// All rollups are scoped to one user's rows before they reach this file;
// the reducers themselves are pure so the math is easy to test.
// ============================================================================

type CategoryStat struct {
	Category string        `json:"category"`
	Total    models.Amount `json:"totalAmount"`
	Count    int           `json:"count"`
}

type DailyPoint struct {
	Date  string        `json:"date"` // YYYY-MM-DD, UTC
	Total models.Amount `json:"total"`
}

type FinanceSummary struct {
	TotalExpenses     models.Amount    `json:"totalExpenses"`
	TotalIncome       models.Amount    `json:"totalIncome"`
	Balance           models.Amount    `json:"balance"`
	ExpenseCount      int              `json:"expenseCount"`
	AverageExpense    models.Amount    `json:"averageExpense"`
	EssentialTotal    models.Amount    `json:"essentialTotal"`
	NonEssentialTotal models.Amount    `json:"nonEssentialTotal"`
	HighestDay        *DailyPoint      `json:"highestDay,omitempty"`
	RecentActivity    []models.Expense `json:"recentActivity"`
}

// SummarizeFinance builds the overview rollup. Empty input yields zero
// totals and an empty activity slice, never an error.
func SummarizeFinance(expenses []models.Expense, incomes []models.Income, recentN int) FinanceSummary {
	s := FinanceSummary{RecentActivity: []models.Expense{}}

	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		if e.ExpenseType == models.ExpenseTypeNonEssential {
			s.NonEssentialTotal += e.Amount
		} else {
			s.EssentialTotal += e.Amount
		}
	}
	for _, i := range incomes {
		s.TotalIncome += i.Amount
	}

	s.ExpenseCount = len(expenses)
	s.Balance = s.TotalIncome - s.TotalExpenses
	s.AverageExpense = models.AverageAmount(s.TotalExpenses, s.ExpenseCount)

	if trend := DailyTrend(expenses); len(trend) > 0 {
		highest := trend[0]
		for _, p := range trend[1:] {
			if p.Total > highest.Total {
				highest = p
			}
		}
		s.HighestDay = &highest
	}

	recent := make([]models.Expense, len(expenses))
	copy(recent, expenses)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > recentN {
		recent = recent[:recentN]
	}
	s.RecentActivity = recent

	return s
}

// DailyTrend groups expenses by UTC calendar day, ascending by date.
func DailyTrend(expenses []models.Expense) []DailyPoint {
	byDay := map[string]models.Amount{}
	for _, e := range expenses {
		day := e.Date.UTC().Format("2006-01-02")
		byDay[day] += e.Amount
	}

	points := make([]DailyPoint, 0, len(byDay))
	for day, total := range byDay {
		points = append(points, DailyPoint{Date: day, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// CategoryBreakdown groups expenses by category, descending by total so the
// first entry is the top spending category.
func CategoryBreakdown(expenses []models.Expense) []CategoryStat {
	byCategory := map[string]*CategoryStat{}
	order := []string{}
	for _, e := range expenses {
		stat, ok := byCategory[e.Category]
		if !ok {
			stat = &CategoryStat{Category: e.Category}
			byCategory[e.Category] = stat
			order = append(order, e.Category)
		}
		stat.Total += e.Amount
		stat.Count++
	}

	stats := make([]CategoryStat, 0, len(order))
	for _, cat := range order {
		stats = append(stats, *byCategory[cat])
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	return stats
}

// ============================================================================
// SERVICE
// ============================================================================

type FinanceAnalyticsService struct {
	DB *sql.DB
}

func NewFinanceAnalyticsService(db *sql.DB) *FinanceAnalyticsService {
	return &FinanceAnalyticsService{DB: db}
}

func (s *FinanceAnalyticsService) Summary(ctx context.Context, userID string, from, to *time.Time) (*FinanceSummary, error) {
	expenses, err := s.expensesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	incomes, err := s.incomesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	summary := SummarizeFinance(expenses, incomes, 10)
	return &summary, nil
}

func (s *FinanceAnalyticsService) Trends(ctx context.Context, userID string, from, to *time.Time) ([]DailyPoint, error) {
	expenses, err := s.expensesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return DailyTrend(expenses), nil
}

func (s *FinanceAnalyticsService) Categories(ctx context.Context, userID string, from, to *time.Time) ([]CategoryStat, error) {
	expenses, err := s.expensesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(expenses), nil
}

// RecentExpenses returns the caller's newest rows inside the lookback
// window, newest first, capped so AI prompt payloads stay bounded.
func (s *FinanceAnalyticsService) RecentExpenses(ctx context.Context, userID string, lookback time.Duration, limit int) ([]models.Expense, error) {
	since := time.Now().Add(-lookback)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, category, expense_type, description, date, created_at, updated_at
		FROM expenses
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
		LIMIT $3
	`, userID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (s *FinanceAnalyticsService) expensesInRange(ctx context.Context, userID string, from, to *time.Time) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, amount_cents, category, expense_type, description, date, created_at, updated_at
		FROM expenses
		WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendDateRange(query, args, from, to)
	query += ` ORDER BY date DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (s *FinanceAnalyticsService) incomesInRange(ctx context.Context, userID string, from, to *time.Time) ([]models.Income, error) {
	query := `
		SELECT id, user_id, amount_cents, source, description, date, created_at, updated_at
		FROM incomes
		WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendDateRange(query, args, from, to)
	query += ` ORDER BY date DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		var i models.Income
		if err := rows.Scan(&i.ID, &i.UserID, &i.Amount, &i.Source, &i.Description,
			&i.Date, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

func collectExpenses(rows *sql.Rows) ([]models.Expense, error) {
	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.ExpenseType,
			&e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// appendDateRange adds inclusive date bounds to a scoped query.
func appendDateRange(query string, args []interface{}, from, to *time.Time) (string, []interface{}) {
	if from != nil {
		args = append(args, *from)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	return query, args
}
