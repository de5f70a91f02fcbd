package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/models"
	"github.com/lifetrack/lifetrack-api/utils"
)

// isUniqueViolation matches Postgres error class 23505.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// ============================================================================
// AUTH HANDLER
// ============================================================================

type AuthHandler struct {
	DB         *sql.DB
	Tokens     *utils.TokenManager
	RefreshTTL time.Duration
	CryptoKey  []byte
}

func NewAuthHandler(db *sql.DB, tokens *utils.TokenManager, refreshTTL time.Duration, cryptoKey []byte) *AuthHandler {
	return &AuthHandler{DB: db, Tokens: tokens, RefreshTTL: refreshTTL, CryptoKey: cryptoKey}
}

// Register creates a user account and signs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	var exists bool
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if exists {
		utils.FailStatus(c, 409, "Email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	user := models.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Role:  models.RoleUser,
	}
	err = h.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, user.ID, user.Name, user.Email, hash, user.Role).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		// The pre-check races with concurrent registrations; the unique
		// index is the authority.
		if isUniqueViolation(err) {
			utils.FailStatus(c, 409, "Email already registered")
			return
		}
		utils.Fail(c, err)
		return
	}

	resp, err := h.issueTokens(c, &user)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 201, resp)
}

// Login verifies credentials and, when 2FA is enabled, the TOTP code.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	var user models.User
	var hash string
	var totpSecret sql.NullString
	err := h.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, name, email, password_hash, role, COALESCE(avatar, ''), totp_secret, totp_enabled, created_at, updated_at
		FROM users WHERE email = $1
	`, req.Email).Scan(&user.ID, &user.Name, &user.Email, &hash, &user.Role,
		&user.Avatar, &totpSecret, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		utils.FailStatus(c, 401, "Invalid credentials")
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if !utils.CheckPassword(req.Password, hash) {
		utils.FailStatus(c, 401, "Invalid credentials")
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			utils.OK(c, 200, gin.H{"requires_2fa": true})
			return
		}
		secret, err := utils.Decrypt(h.CryptoKey, totpSecret.String)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if !utils.VerifyTOTP(string(secret), req.TOTPCode) {
			utils.FailStatus(c, 401, "Invalid two-factor code")
			return
		}
	}

	resp, err := h.issueTokens(c, &user)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, resp)
}

// Refresh rotates the token pair. The old refresh token must match a live
// session row, which is replaced in the same transaction.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	claims, err := h.Tokens.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		utils.FailStatus(c, 401, "Invalid or expired token")
		return
	}

	var sessionID string
	err = h.DB.QueryRowContext(c.Request.Context(), `
		SELECT id FROM sessions WHERE refresh_token = $1 AND expires_at > NOW()
	`, req.RefreshToken).Scan(&sessionID)
	if err == sql.ErrNoRows {
		utils.FailStatus(c, 401, "Session not found")
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var user models.User
	err = h.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, name, email, role, COALESCE(avatar, ''), totp_enabled, created_at, updated_at
		FROM users WHERE id = $1
	`, claims.UserID).Scan(&user.ID, &user.Name, &user.Email, &user.Role,
		&user.Avatar, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		utils.Fail(c, err)
		return
	}

	resp, err := h.issueTokens(c, &user)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, resp)
}

// Logout invalidates the presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	if _, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM sessions WHERE refresh_token = $1 AND user_id = $2`,
		req.RefreshToken, userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, 200, "Logged out")
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (*models.AuthResponse, error) {
	access, err := h.Tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := h.Tokens.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	_, err = h.DB.ExecContext(c.Request.Context(), `
		INSERT INTO sessions (id, user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), user.ID, refresh, time.Now().Add(h.RefreshTTL))
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{User: *user, AccessToken: access, RefreshToken: refresh}, nil
}
