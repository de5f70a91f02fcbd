package handlers

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/models"
	"github.com/lifetrack/lifetrack-api/utils"
)

// ============================================================================
// EXPENSE HANDLER
//
// Every query is scoped by user_id; a row belonging to someone else is
// indistinguishable from a missing one (404).
// ============================================================================

type ExpenseHandler struct {
	DB *sql.DB
}

func NewExpenseHandler(db *sql.DB) *ExpenseHandler {
	return &ExpenseHandler{DB: db}
}

const expenseColumns = `id, user_id, amount_cents, category, expense_type, COALESCE(description, ''), date, created_at, updated_at`

// normalizeExpenseType applies the storage default: an omitted type counts
// as essential.
func normalizeExpenseType(s string) string {
	if s == "" {
		return models.ExpenseTypeEssential
	}
	return s
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	expenseType := normalizeExpenseType(req.ExpenseType)
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	e := models.Expense{
		ID:          uuid.NewString(),
		UserID:      middleware.GetUserID(c),
		Amount:      *req.Amount,
		Category:    req.Category,
		ExpenseType: expenseType,
		Description: req.Description,
		Date:        date,
	}
	err := h.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO expenses (id, user_id, amount_cents, category, expense_type, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, e.ID, e.UserID, e.Amount, e.Category, e.ExpenseType, e.Description, e.Date).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 201, e)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	from, to := parseDateRange(c)

	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if cat := c.Query("category"); cat != "" {
		args = append(args, cat)
		where += ` AND category = $` + strconv.Itoa(len(args))
	}
	if from != nil {
		args = append(args, *from)
		where += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += ` AND date <= $` + strconv.Itoa(len(args))
	}

	var count int
	if err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT COUNT(*) FROM expenses `+where, args...).Scan(&count); err != nil {
		utils.Fail(c, err)
		return
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + expenseColumns + ` FROM expenses ` + where +
		` ORDER BY date DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args))

	rows, err := h.DB.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.ExpenseType,
			&e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			utils.Fail(c, err)
			return
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Paginated(c, expenses, utils.NewPagination(page, limit, count))
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	e, err := h.load(c, c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, e)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	e, err := h.load(c, c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.ExpenseType != nil {
		e.ExpenseType = *req.ExpenseType
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Date != nil {
		e.Date = *req.Date
	}

	err = h.DB.QueryRowContext(c.Request.Context(), `
		UPDATE expenses
		SET amount_cents = $1, category = $2, expense_type = $3, description = $4, date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`, e.Amount, e.Category, e.ExpenseType, e.Description, e.Date, e.ID, userID).Scan(&e.UpdatedAt)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, e)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	result, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`,
		c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		utils.FailStatus(c, 404, "Expense not found")
		return
	}
	utils.Message(c, 200, "Expense deleted")
}

// Stats returns per-category totals, highest first.
func (h *ExpenseHandler) Stats(c *gin.Context) {
	from, to := parseDateRange(c)

	where := `WHERE user_id = $1`
	args := []interface{}{middleware.GetUserID(c)}
	if from != nil {
		args = append(args, *from)
		where += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += ` AND date <= $` + strconv.Itoa(len(args))
	}

	rows, err := h.DB.QueryContext(c.Request.Context(), `
		SELECT category, SUM(amount_cents), COUNT(*)
		FROM expenses `+where+`
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC
	`, args...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer rows.Close()

	stats := []gin.H{}
	for rows.Next() {
		var category string
		var total models.Amount
		var count int
		if err := rows.Scan(&category, &total, &count); err != nil {
			utils.Fail(c, err)
			return
		}
		stats = append(stats, gin.H{"category": category, "totalAmount": total, "count": count})
	}
	if err := rows.Err(); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, stats)
}

func (h *ExpenseHandler) load(c *gin.Context, id, userID string) (*models.Expense, error) {
	var e models.Expense
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.ExpenseType,
		&e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound("Expense not found")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
