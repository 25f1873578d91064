package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sisyflow/sisyflow/internal/ai"
	apihttp "github.com/sisyflow/sisyflow/internal/api/http"
	"github.com/sisyflow/sisyflow/internal/api/http/handlers"
	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/config"
	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/events"
	"github.com/sisyflow/sisyflow/internal/observability"
	"github.com/sisyflow/sisyflow/internal/repository/fakes"
	"github.com/sisyflow/sisyflow/internal/service"
)

const sessionCookieName = "sisyflow_session"

type fixedAnalyzer struct {
	suggestions []domain.Suggestion
	err         error
}

func (a *fixedAnalyzer) Analyze(context.Context, string, string) ([]domain.Suggestion, error) {
	return a.suggestions, a.err
}

type memoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = struct{}{}
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type testEnv struct {
	app      *fiber.App
	profiles *fakes.ProfileRepo
	tickets  *fakes.TicketRepo
	aiErrors *fakes.AIErrorRepo
	analyzer *fixedAnalyzer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		SessionCookieName: sessionCookieName,
		BcryptCost:        4,
	}

	env := &testEnv{
		profiles: fakes.NewProfileRepo(),
		tickets:  fakes.NewTicketRepo(),
		aiErrors: fakes.NewAIErrorRepo(),
		analyzer: &fixedAnalyzer{},
	}

	dispatcher := events.NewInMemoryDispatcher()
	revoked := &memoryRevocationStore{revoked: map[string]struct{}{}}

	authService := service.NewAuthService(authCfg, service.AuthDependencies{
		ProfileRepo: env.profiles,
		Revoked:     revoked,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  env.tickets,
		ProfileRepo: env.profiles,
		Dispatcher:  dispatcher,
	})
	aiService := service.NewAIService(service.AIDependencies{
		Analyzer:    env.analyzer,
		SessionRepo: fakes.NewAISessionRepo(),
		ErrorRepo:   env.aiErrors,
		TicketRepo:  env.tickets,
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
	})
	docService := service.NewDocumentationService(fakes.NewDocumentationRepo(), dispatcher)

	session := auth.NewSessionMiddleware(authService.TokenManager(), env.profiles, revoked, sessionCookieName)

	app := fiber.New()
	apihttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:        handlers.NewHealthHandler("sisyflow", "test", nil, nil),
		Auth:          handlers.NewAuthHandler(authService, authCfg),
		Profiles:      handlers.NewProfilesHandler(),
		Users:         handlers.NewUsersHandler(authService),
		Tickets:       handlers.NewTicketsHandler(ticketService),
		AI:            handlers.NewAIHandler(aiService),
		AIErrors:      handlers.NewAIErrorsHandler(aiService),
		Documentation: handlers.NewDocumentationHandler(docService),
		Session:       session,
	})
	env.app = app
	return env
}

func (e *testEnv) request(t *testing.T, method, path, session string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// register creates an account and returns its profile id and session token.
func (e *testEnv) register(t *testing.T, username string) (string, string) {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": username,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var profile struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decodeBody(t, resp, &profile)
	require.Equal(t, username, profile.Username)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			require.True(t, cookie.HttpOnly)
			return profile.ID, cookie.Value
		}
	}
	t.Fatal("no session cookie set on register")
	return "", ""
}

func (e *testEnv) promoteToAdmin(t *testing.T, userID string) {
	t.Helper()
	profile, err := e.profiles.GetByID(context.Background(), userID)
	require.NoError(t, err)
	profile.IsAdmin = true
	e.profiles.Seed(*profile)
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestHealthLiveIsPublic(t *testing.T) {
	env := newTestEnv(t)
	resp := env.request(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnauthenticatedPageRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	resp := env.request(t, http.MethodGet, "/board", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestUnauthenticatedAPIRequestGets401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.request(t, http.MethodGet, "/api/tickets", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	require.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestSignOutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.register(t, "alice")

	resp := env.request(t, http.MethodGet, "/api/profiles/me", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/sign-out", session, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the old cookie is dead even before it expires
	resp = env.request(t, http.MethodGet, "/api/profiles/me", session, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTicketLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, reporterSession := env.register(t, "reporter")
	otherID, otherSession := env.register(t, "helper")

	resp := env.request(t, http.MethodPost, "/api/tickets", reporterSession, fiber.Map{
		"title":       "Login broken",
		"description": "500 on submit",
		"type":        "BUG",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		CanEdit  bool   `json:"can_edit"`
		Reporter *struct {
			Username string `json:"username"`
		} `json:"reporter"`
		Assignee *struct {
			Username string `json:"username"`
		} `json:"assignee"`
	}
	decodeBody(t, resp, &created)
	require.Equal(t, "OPEN", created.Status)
	require.True(t, created.CanEdit)
	require.NotNil(t, created.Reporter)
	require.Equal(t, "reporter", created.Reporter.Username)
	require.Nil(t, created.Assignee)

	// visible on the board
	resp = env.request(t, http.MethodGet, "/api/tickets?status=OPEN", reporterSession, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var board struct {
		Tickets []struct {
			ID string `json:"id"`
		} `json:"tickets"`
	}
	decodeBody(t, resp, &board)
	require.Len(t, board.Tickets, 1)
	require.Equal(t, created.ID, board.Tickets[0].ID)

	// non-reporter sees the ticket but cannot edit it
	resp = env.request(t, http.MethodGet, "/api/tickets/"+created.ID, otherSession, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		CanEdit bool `json:"can_edit"`
	}
	decodeBody(t, resp, &view)
	require.False(t, view.CanEdit)

	resp = env.request(t, http.MethodPut, "/api/tickets/"+created.ID, otherSession, fiber.Map{
		"title": "Hijacked",
		"type":  "BUG",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// but may assign themselves
	resp = env.request(t, http.MethodPut, "/api/tickets/"+created.ID+"/assignee", otherSession, fiber.Map{
		"assignee_id": otherID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var assigned struct {
		Assignee *struct {
			Username string `json:"username"`
		} `json:"assignee"`
	}
	decodeBody(t, resp, &assigned)
	require.NotNil(t, assigned.Assignee)
	require.Equal(t, "helper", assigned.Assignee.Username)

	// and unassign themselves again
	resp = env.request(t, http.MethodPut, "/api/tickets/"+created.ID+"/assignee", otherSession, fiber.Map{
		"assignee_id": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &assigned)
	require.Nil(t, assigned.Assignee)
}

func TestCreateTicketValidationErrorShape(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.register(t, "alice")

	resp := env.request(t, http.MethodPost, "/api/tickets", session, fiber.Map{
		"description": "no title",
		"type":        "BUG",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	require.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	require.Contains(t, envelope.Error.Details, "title")
}

func TestAnalyzeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.register(t, "alice")
	env.analyzer.suggestions = []domain.Suggestion{
		{Type: domain.SuggestionTypeInsert, Content: "Steps to reproduce:"},
		{Type: domain.SuggestionTypeQuestion, Content: "Which browser version?"},
	}

	resp := env.request(t, http.MethodPost, "/api/ai-suggestion-sessions/analyze", session, fiber.Map{
		"title":       "Login broken",
		"description": "500 on submit",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analyzed struct {
		Suggestions []struct {
			Type    string `json:"type"`
			Content string `json:"content"`
			Applied bool   `json:"applied"`
		} `json:"suggestions"`
	}
	decodeBody(t, resp, &analyzed)
	require.Len(t, analyzed.Suggestions, 2)
	require.Equal(t, "INSERT", analyzed.Suggestions[0].Type)
	require.False(t, analyzed.Suggestions[0].Applied)
}

func TestAnalyzeFailureReturns502(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.register(t, "alice")
	env.analyzer.err = &ai.AnalyzerError{
		StatusCode: 503,
		Message:    "service unavailable",
		Body:       json.RawMessage(`{"error":{"message":"service unavailable"}}`),
	}

	resp := env.request(t, http.MethodPost, "/api/ai-suggestion-sessions/analyze", session, fiber.Map{
		"title":       "Login broken",
		"description": "500 on submit",
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	require.Equal(t, "UPSTREAM_ERROR", envelope.Error.Code)
	require.Equal(t, "service unavailable", envelope.Error.Message)
	require.Len(t, env.aiErrors.Records, 1)
}

func TestAIErrorsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	userID, session := env.register(t, "alice")

	resp := env.request(t, http.MethodGet, "/api/ai-errors", session, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.promoteToAdmin(t, userID)

	require.NoError(t, env.aiErrors.Create(context.Background(), &domain.AIError{
		Message: "rate limit exceeded",
		Detail:  json.RawMessage(`{"status":429}`),
	}))

	resp = env.request(t, http.MethodGet, "/api/ai-errors?limit=10", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Errors []struct {
			Message    string `json:"message"`
			HTTPStatus string `json:"http_status"`
		} `json:"errors"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	decodeBody(t, resp, &page)
	require.Len(t, page.Errors, 1)
	require.Equal(t, "429", page.Errors[0].HTTPStatus)
	require.Equal(t, 1, page.Pagination.Page)
	require.Equal(t, 10, page.Pagination.Limit)
	require.Equal(t, 1, page.Pagination.Total)
}

func TestDocumentationFlow(t *testing.T) {
	env := newTestEnv(t)
	adminID, adminSession := env.register(t, "admin")
	_, readerSession := env.register(t, "reader")
	env.promoteToAdmin(t, adminID)

	// readable by everyone, empty before the first save
	resp := env.request(t, http.MethodGet, "/api/project-documentation", readerSession, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc struct {
		Content   string `json:"content"`
		MaxLength int    `json:"max_length"`
	}
	decodeBody(t, resp, &doc)
	require.Empty(t, doc.Content)
	require.Equal(t, domain.MaxDocumentationLength, doc.MaxLength)

	// writes are admin-only
	resp = env.request(t, http.MethodPut, "/api/project-documentation", readerSession, fiber.Map{
		"content": "nope",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/project-documentation", adminSession, fiber.Map{
		"content": "# Onboarding\n\nRead this first.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/project-documentation", readerSession, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &doc)
	require.Equal(t, "# Onboarding\n\nRead this first.", doc.Content)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	adminID, adminSession := env.register(t, "admin")
	victimID, victimSession := env.register(t, "victim")

	resp := env.request(t, http.MethodDelete, "/api/users/"+adminID, victimSession, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.promoteToAdmin(t, adminID)
	resp = env.request(t, http.MethodDelete, "/api/users/"+victimID, adminSession, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the deleted user's session no longer resolves to a profile
	resp = env.request(t, http.MethodGet, "/api/profiles/me", victimSession, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
