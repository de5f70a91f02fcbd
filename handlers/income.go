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
// INCOME HANDLER
// ============================================================================

type IncomeHandler struct {
	DB *sql.DB
}

func NewIncomeHandler(db *sql.DB) *IncomeHandler {
	return &IncomeHandler{DB: db}
}

const incomeColumns = `id, user_id, amount_cents, source, COALESCE(description, ''), date, created_at, updated_at`

func (h *IncomeHandler) Create(c *gin.Context) {
	var req models.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	inc := models.Income{
		ID:          uuid.NewString(),
		UserID:      middleware.GetUserID(c),
		Amount:      *req.Amount,
		Source:      req.Source,
		Description: req.Description,
		Date:        date,
	}
	err := h.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO incomes (id, user_id, amount_cents, source, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, inc.ID, inc.UserID, inc.Amount, inc.Source, inc.Description, inc.Date).
		Scan(&inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 201, inc)
}

func (h *IncomeHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	from, to := parseDateRange(c)

	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if src := c.Query("source"); src != "" {
		args = append(args, src)
		where += ` AND source = $` + strconv.Itoa(len(args))
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
		`SELECT COUNT(*) FROM incomes `+where, args...).Scan(&count); err != nil {
		utils.Fail(c, err)
		return
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + incomeColumns + ` FROM incomes ` + where +
		` ORDER BY date DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args))

	rows, err := h.DB.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		var inc models.Income
		if err := rows.Scan(&inc.ID, &inc.UserID, &inc.Amount, &inc.Source,
			&inc.Description, &inc.Date, &inc.CreatedAt, &inc.UpdatedAt); err != nil {
			utils.Fail(c, err)
			return
		}
		incomes = append(incomes, inc)
	}
	if err := rows.Err(); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Paginated(c, incomes, utils.NewPagination(page, limit, count))
}

func (h *IncomeHandler) Get(c *gin.Context) {
	inc, err := h.load(c, c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, inc)
}

func (h *IncomeHandler) Update(c *gin.Context) {
	var req models.UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	inc, err := h.load(c, c.Param("id"), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if req.Amount != nil {
		inc.Amount = *req.Amount
	}
	if req.Source != nil {
		inc.Source = *req.Source
	}
	if req.Description != nil {
		inc.Description = *req.Description
	}
	if req.Date != nil {
		inc.Date = *req.Date
	}

	err = h.DB.QueryRowContext(c.Request.Context(), `
		UPDATE incomes
		SET amount_cents = $1, source = $2, description = $3, date = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`, inc.Amount, inc.Source, inc.Description, inc.Date, inc.ID, userID).Scan(&inc.UpdatedAt)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, inc)
}

func (h *IncomeHandler) Delete(c *gin.Context) {
	result, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM incomes WHERE id = $1 AND user_id = $2`,
		c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		utils.FailStatus(c, 404, "Income not found")
		return
	}
	utils.Message(c, 200, "Income deleted")
}

// Stats returns per-source totals, highest first.
func (h *IncomeHandler) Stats(c *gin.Context) {
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
		SELECT source, SUM(amount_cents), COUNT(*)
		FROM incomes `+where+`
		GROUP BY source
		ORDER BY SUM(amount_cents) DESC
	`, args...)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer rows.Close()

	stats := []gin.H{}
	for rows.Next() {
		var source string
		var total models.Amount
		var count int
		if err := rows.Scan(&source, &total, &count); err != nil {
			utils.Fail(c, err)
			return
		}
		stats = append(stats, gin.H{"source": source, "totalAmount": total, "count": count})
	}
	if err := rows.Err(); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, stats)
}

func (h *IncomeHandler) load(c *gin.Context, id, userID string) (*models.Income, error) {
	var inc models.Income
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT `+incomeColumns+` FROM incomes WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&inc.ID, &inc.UserID, &inc.Amount, &inc.Source,
		&inc.Description, &inc.Date, &inc.CreatedAt, &inc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound("Income not found")
	}
	if err != nil {
		return nil, err
	}
	return &inc, nil
}
