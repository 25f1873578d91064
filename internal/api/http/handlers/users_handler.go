package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/service"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// UsersHandler exposes the user listing and admin user management.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// ListUsers GET /api/users. Any signed-in user may list users for the
// assignee picker.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	limit := parseQueryInt(c.Query("limit"), 100)
	offset := parseQueryInt(c.Query("offset"), 0)

	profiles, err := h.auth.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	items := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, dto.ProfileResponse{
			ID:        profile.ID,
			Username:  profile.Username,
			IsAdmin:   profile.IsAdmin,
			CreatedAt: profile.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"users": items})
}

// DeleteUser DELETE /api/users/:id. Admin only; routed behind RequireAdmin.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	if err := h.auth.DeleteUser(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
