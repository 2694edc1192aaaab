package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"melodia-backend/internal/engine"
	"melodia-backend/internal/store"
)

// Handler handles the operator authentication endpoints.
type Handler struct {
	store  *store.Store
	issuer *Issuer
}

func NewHandler(s *store.Store, issuer *Issuer) *Handler {
	return &Handler{store: s, issuer: issuer}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return engine.UnauthorizedError("Email and password are required")
	}

	ctx := c.Context()
	d := h.store.Dialect

	operator, err := store.QueryRow(ctx, h.store.DB, fmt.Sprintf(
		"SELECT id, email, password_hash, active FROM _operators WHERE email = %s",
		d.Placeholder(1)), body.Email)
	if err != nil {
		return engine.UnauthorizedError("Invalid email or password")
	}

	if !isActive(operator["active"]) {
		return engine.UnauthorizedError("Account is disabled")
	}

	passwordHash, _ := operator["password_hash"].(string)
	if !CheckPassword(body.Password, passwordHash) {
		return engine.UnauthorizedError("Invalid email or password")
	}

	operatorID := fmt.Sprintf("%v", operator["id"])
	pair, err := h.generateTokenPair(ctx, operatorID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": pair})
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return engine.UnauthorizedError("Refresh token is required")
	}

	ctx := c.Context()
	d := h.store.Dialect

	row, err := store.QueryRow(ctx, h.store.DB, fmt.Sprintf(
		`SELECT t.operator_id, t.expires_at, o.active
		 FROM _operator_tokens t
		 JOIN _operators o ON o.id = t.operator_id
		 WHERE t.token = %s`, d.Placeholder(1)), body.RefreshToken)
	if err != nil {
		return engine.UnauthorizedError("Invalid refresh token")
	}

	// expires_at is stored as unix seconds so it scans identically on both
	// dialects.
	if time.Now().Unix() > asUnixSeconds(row["expires_at"]) {
		_, _ = store.Exec(ctx, h.store.DB, fmt.Sprintf(
			"DELETE FROM _operator_tokens WHERE token = %s", d.Placeholder(1)),
			body.RefreshToken)
		return engine.UnauthorizedError("Refresh token expired")
	}

	if !isActive(row["active"]) {
		return engine.UnauthorizedError("Account is disabled")
	}

	// Rotation: the used refresh token is deleted before a new pair is issued.
	_, _ = store.Exec(ctx, h.store.DB, fmt.Sprintf(
		"DELETE FROM _operator_tokens WHERE token = %s", d.Placeholder(1)),
		body.RefreshToken)

	operatorID := fmt.Sprintf("%v", row["operator_id"])
	pair, err := h.generateTokenPair(ctx, operatorID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": pair})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return engine.UnauthorizedError("Refresh token is required")
	}

	_, _ = store.Exec(c.Context(), h.store.DB, fmt.Sprintf(
		"DELETE FROM _operator_tokens WHERE token = %s", h.store.Dialect.Placeholder(1)),
		body.RefreshToken)

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// RegisterRoutes registers the auth routes on the given Fiber app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	auth := app.Group("/api/auth")
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
}

// --- helpers ---

func (h *Handler) generateTokenPair(ctx context.Context, operatorID string) (*TokenPair, error) {
	accessToken, err := h.issuer.AccessToken(operatorID)
	if err != nil {
		return nil, engine.NewAppError("INTERNAL_ERROR", 500, "Failed to generate access token")
	}

	refreshToken := GenerateRefreshToken()
	expiresAt := time.Now().Add(h.issuer.RefreshTTL).Unix()

	d := h.store.Dialect
	_, err = store.Exec(ctx, h.store.DB, fmt.Sprintf(
		"INSERT INTO _operator_tokens (token, operator_id, expires_at) VALUES (%s, %s, %s)",
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3)),
		refreshToken, operatorID, expiresAt)
	if err != nil {
		return nil, engine.NewAppError("INTERNAL_ERROR", 500, "Failed to store refresh token")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// isActive tolerates the drivers' different boolean encodings.
func isActive(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	default:
		return false
	}
}

func asUnixSeconds(v any) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
