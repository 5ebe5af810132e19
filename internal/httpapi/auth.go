package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"autoboard/internal/auth"
	"autoboard/internal/store"
)

// AuthHandler handles login, refresh and logout.
type AuthHandler struct {
	store     *store.Store
	jwtSecret string
}

func NewAuthHandler(s *store.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: s, jwtSecret: jwtSecret}
}

// Login handles POST /api/auth/login. On success the access token is also
// set as a cookie so browser clients are authenticated without handling the
// token themselves.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InvalidPayloadError("")
	}
	if body.Email == "" || body.Password == "" {
		return UnauthorizedError("Email and password are required")
	}

	ctx := c.Context()
	user, err := h.findUserByEmail(ctx, body.Email)
	if err != nil {
		return UnauthorizedError("Invalid email or password")
	}

	if active, ok := user["active"].(bool); ok && !active {
		return UnauthorizedError("Account is disabled")
	}

	passwordHash, _ := user["password_hash"].(string)
	if !auth.CheckPassword(body.Password, passwordHash) {
		return UnauthorizedError("Invalid email or password")
	}

	userID, _ := user["id"].(int64)
	email, _ := user["email"].(string)

	pair, err := h.generateTokenPair(ctx, userID, email)
	if err != nil {
		return err
	}

	h.setAccessCookie(c, pair.AccessToken)
	return c.JSON(fiber.Map{"data": pair})
}

// Refresh handles POST /api/auth/refresh. Refresh tokens are single use:
// the presented token is deleted and a new pair is issued.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InvalidPayloadError("")
	}
	if body.RefreshToken == "" {
		return UnauthorizedError("Refresh token is required")
	}

	ctx := c.Context()
	pb := h.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(ctx, h.store.DB, fmt.Sprintf(
		`SELECT rt.id, rt.user_id, rt.expires_at, u.email, u.active
		 FROM refresh_tokens rt
		 JOIN users u ON u.id = rt.user_id
		 WHERE rt.token = %s`, pb.Add(body.RefreshToken)), pb.Params()...)
	if err != nil {
		return UnauthorizedError("Invalid refresh token")
	}

	if expiresAt(row).Before(time.Now()) {
		h.deleteToken(ctx, body.RefreshToken)
		return UnauthorizedError("Refresh token expired")
	}

	switch active := row["active"].(type) {
	case bool:
		if !active {
			return UnauthorizedError("Account is disabled")
		}
	case int64:
		if active == 0 {
			return UnauthorizedError("Account is disabled")
		}
	}

	h.deleteToken(ctx, body.RefreshToken)

	userID, _ := row["user_id"].(int64)
	email, _ := row["email"].(string)

	pair, err := h.generateTokenPair(ctx, userID, email)
	if err != nil {
		return err
	}

	h.setAccessCookie(c, pair.AccessToken)
	return c.JSON(fiber.Map{"data": pair})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InvalidPayloadError("")
	}
	if body.RefreshToken != "" {
		h.deleteToken(c.Context(), body.RefreshToken)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me handles GET /api/auth/me for authenticated requests.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := CurrentClaims(c)
	if claims == nil {
		return UnauthorizedError("Missing auth token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return UnauthorizedError("Invalid token subject")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":    userID,
		"email": claims.Email,
	}})
}

// --- helpers ---

func (h *AuthHandler) findUserByEmail(ctx context.Context, email string) (map[string]any, error) {
	pb := h.store.Dialect.NewParamBuilder()
	return store.QueryRow(ctx, h.store.DB, fmt.Sprintf(
		"SELECT id, email, password_hash, active FROM users WHERE email = %s",
		pb.Add(email)), pb.Params()...)
}

func (h *AuthHandler) generateTokenPair(ctx context.Context, userID int64, email string) (*auth.TokenPair, error) {
	accessToken, err := auth.GenerateAccessToken(userID, email, h.jwtSecret)
	if err != nil {
		return nil, NewAppError("INTERNAL_ERROR", fiber.StatusInternalServerError, "Failed to generate access token")
	}

	refreshToken := auth.GenerateRefreshToken()
	pb := h.store.Dialect.NewParamBuilder()
	_, err = store.Exec(ctx, h.store.DB, fmt.Sprintf(
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES (%s, %s, %s)",
		pb.Add(userID), pb.Add(refreshToken),
		pb.Add(time.Now().Add(auth.RefreshTokenTTL).UTC().Format("2006-01-02 15:04:05"))),
		pb.Params()...)
	if err != nil {
		return nil, NewAppError("INTERNAL_ERROR", fiber.StatusInternalServerError, "Failed to store refresh token")
	}

	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (h *AuthHandler) deleteToken(ctx context.Context, token string) {
	pb := h.store.Dialect.NewParamBuilder()
	_, _ = store.Exec(ctx, h.store.DB, fmt.Sprintf(
		"DELETE FROM refresh_tokens WHERE token = %s", pb.Add(token)), pb.Params()...)
}

func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(auth.AccessTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func expiresAt(row map[string]any) time.Time {
	switch v := row["expires_at"].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return t
		}
	}
	return time.Time{}
}
