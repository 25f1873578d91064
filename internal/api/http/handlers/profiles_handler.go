package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/auth"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// ProfilesHandler serves the current-user profile.
type ProfilesHandler struct{}

// NewProfilesHandler constructs handler.
func NewProfilesHandler() *ProfilesHandler {
	return &ProfilesHandler{}
}

// Me GET /api/profiles/me. The session middleware already mapped missing
// sessions to 401 and missing profiles to 404.
func (h *ProfilesHandler) Me(c *fiber.Ctx) error {
	profile, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	return c.JSON(dto.ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		IsAdmin:   profile.IsAdmin,
		CreatedAt: profile.CreatedAt,
	})
}
