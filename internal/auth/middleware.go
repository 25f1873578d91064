package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/repository"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

const principalKey = "auth_principal"

// Public paths are reachable without a session.
var publicPaths = []string{
	"/login",
	"/register",
	"/api/auth/",
	"/health/",
}

// SessionMiddleware validates the session cookie and loads the caller's
// profile. The profile is re-fetched on every request so admin-flag changes
// take effect without a new sign-in.
type SessionMiddleware struct {
	tokens     *TokenManager
	profiles   repository.ProfileRepository
	revoked    RevocationStore
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, profiles repository.ProfileRepository, revoked RevocationStore, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, profiles: profiles, revoked: revoked, cookieName: cookieName}
}

// Handle enforces authentication. Unauthenticated API requests get 401 JSON;
// unauthenticated page requests are redirected to /login.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	if isPublicPath(c.Path()) {
		return c.Next()
	}

	cookie := c.Cookies(m.cookieName)
	if cookie == "" {
		return m.reject(c, "missing session")
	}

	claims, err := m.tokens.ParseToken(cookie)
	if err != nil {
		return m.reject(c, "invalid session")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
		if err == nil && revoked {
			return m.reject(c, "session signed out")
		}
	}

	profile, err := m.profiles.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// authenticated but no profile row: 404 on API paths per the
			// profile contract, login redirect for pages
			if strings.HasPrefix(c.Path(), "/api/") {
				return apperrors.NewNotFound("profile", nil)
			}
			return m.reject(c, "profile not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, profile)
	return c.Next()
}

func (m *SessionMiddleware) reject(c *fiber.Ctx, reason string) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return apperrors.NewUnauthorized(reason)
	}
	return c.Redirect("/login", fiber.StatusFound)
}

func isPublicPath(path string) bool {
	for _, public := range publicPaths {
		if strings.HasSuffix(public, "/") {
			if strings.HasPrefix(path, public) {
				return true
			}
			continue
		}
		if path == public {
			return true
		}
	}
	return false
}

// ProfileFromContext retrieves the authenticated profile.
func ProfileFromContext(c *fiber.Ctx) (*domain.Profile, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	profile, ok := val.(*domain.Profile)
	return profile, ok
}
