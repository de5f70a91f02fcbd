package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/lifetrack/lifetrack-api/middleware"
	"github.com/lifetrack/lifetrack-api/models"
	"github.com/lifetrack/lifetrack-api/utils"
)

// ============================================================================
// USER HANDLER
// ============================================================================

type UserHandler struct {
	DB         *sql.DB
	CryptoKey  []byte
	TOTPIssuer string
}

func NewUserHandler(db *sql.DB, cryptoKey []byte, totpIssuer string) *UserHandler {
	return &UserHandler{DB: db, CryptoKey: cryptoKey, TOTPIssuer: totpIssuer}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.loadUser(c, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	_, err := h.DB.ExecContext(c.Request.Context(), `
		UPDATE users SET name = $1, avatar = $2, updated_at = NOW() WHERE id = $3
	`, req.Name, req.Avatar, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	user, err := h.loadUser(c, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, 200, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	var hash string
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if !utils.CheckPassword(req.CurrentPassword, hash) {
		utils.FailStatus(c, 401, "Current password is incorrect")
		return
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		newHash, userID); err != nil {
		utils.Fail(c, err)
		return
	}

	// Password change invalidates every other session.
	if _, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, 200, "Password updated")
}

// ============================================================================
// 2FA
// ============================================================================

// SetupTOTP generates a secret and provisioning URL. The secret is stored
// encrypted but 2FA stays disabled until VerifyTOTP confirms a code.
func (h *UserHandler) SetupTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)
	email := middleware.GetUserEmail(c)

	secret, url, err := utils.GenerateTOTPSecret(h.TOTPIssuer, email)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	encrypted, err := utils.Encrypt(h.CryptoKey, []byte(secret))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2`,
		encrypted, userID); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, 200, models.TOTPSetupResponse{Secret: secret, QRCode: url})
}

func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	var req models.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	var encrypted sql.NullString
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT totp_secret FROM users WHERE id = $1`, userID).Scan(&encrypted)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !encrypted.Valid || encrypted.String == "" {
		utils.FailStatus(c, 400, "Two-factor setup has not been started")
		return
	}

	secret, err := utils.Decrypt(h.CryptoKey, encrypted.String)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !utils.VerifyTOTP(string(secret), req.Code) {
		utils.FailStatus(c, 401, "Invalid two-factor code")
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, 200, "Two-factor authentication enabled")
}

func (h *UserHandler) DisableTOTP(c *gin.Context) {
	var req models.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.FailStatus(c, 400, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	var encrypted sql.NullString
	var enabled bool
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT totp_secret, totp_enabled FROM users WHERE id = $1`, userID).Scan(&encrypted, &enabled)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !enabled {
		utils.FailStatus(c, 400, "Two-factor authentication is not enabled")
		return
	}

	secret, err := utils.Decrypt(h.CryptoKey, encrypted.String)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !utils.VerifyTOTP(string(secret), req.Code) {
		utils.FailStatus(c, 401, "Invalid two-factor code")
		return
	}

	if _, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1`,
		userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, 200, "Two-factor authentication disabled")
}

func (h *UserHandler) loadUser(c *gin.Context, userID string) (*models.User, error) {
	var user models.User
	err := h.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, name, email, role, COALESCE(avatar, ''), totp_enabled, created_at, updated_at
		FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.Role,
		&user.Avatar, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
