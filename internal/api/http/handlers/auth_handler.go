package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/config"
	"github.com/sisyflow/sisyflow/internal/service"
	"github.com/sisyflow/sisyflow/internal/validation"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// AuthHandler exposes session endpoints.
type AuthHandler struct {
	auth *service.AuthService
	cfg  config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cfg: cfg}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid credentials", details)
	}

	profile, token, err := h.auth.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.Status(http.StatusCreated).JSON(dto.ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		IsAdmin:   profile.IsAdmin,
		CreatedAt: profile.CreatedAt,
	})
}

// SignIn POST /api/auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid credentials", details)
	}

	profile, token, err := h.auth.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(dto.ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		IsAdmin:   profile.IsAdmin,
		CreatedAt: profile.CreatedAt,
	})
}

// SignOut POST /api/auth/sign-out.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	token := c.Cookies(h.cfg.SessionCookieName)
	if err := h.auth.SignOut(c.UserContext(), token); err != nil {
		return err
	}
	h.clearSessionCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.SessionTTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
