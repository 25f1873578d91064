package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/service"
	"github.com/sisyflow/sisyflow/internal/validation"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// AIHandler manages analysis and suggestion session endpoints.
type AIHandler struct {
	service *service.AIService
}

// NewAIHandler constructs handler.
func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{service: aiService}
}

// Analyze POST /api/ai-suggestion-sessions/analyze.
func (h *AIHandler) Analyze(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("title and description are required for analysis", details)
	}

	suggestions, err := h.service.Analyze(c.UserContext(), user, req.Title, req.Description)
	if err != nil {
		return err
	}

	items := make([]dto.SuggestionDTO, 0, len(suggestions))
	for _, suggestion := range suggestions {
		items = append(items, dto.SuggestionDTO{
			Type:    suggestion.Type,
			Content: suggestion.Content,
			Applied: suggestion.Applied,
		})
	}
	return c.JSON(dto.AnalyzeResponse{Suggestions: items})
}

// CreateSession POST /api/ai-suggestion-sessions.
func (h *AIHandler) CreateSession(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid session", details)
	}

	suggestions := make([]domain.Suggestion, 0, len(req.Suggestions))
	for _, suggestion := range req.Suggestions {
		suggestions = append(suggestions, domain.Suggestion{
			Type:    suggestion.Type,
			Content: suggestion.Content,
			Applied: suggestion.Applied,
		})
	}

	session, err := h.service.SaveSession(c.UserContext(), user, service.SessionInput{
		TicketID:    req.TicketID,
		Suggestions: suggestions,
		Rating:      req.Rating,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(sessionResponse(session))
}

func sessionResponse(session *domain.AISuggestionSession) dto.SessionResponse {
	suggestions := make([]dto.SuggestionDTO, 0, len(session.Suggestions))
	for _, suggestion := range session.Suggestions {
		suggestions = append(suggestions, dto.SuggestionDTO{
			Type:    suggestion.Type,
			Content: suggestion.Content,
			Applied: suggestion.Applied,
		})
	}
	return dto.SessionResponse{
		ID:          session.ID,
		TicketID:    session.TicketID,
		Suggestions: suggestions,
		Rating:      session.Rating,
		CreatedAt:   session.CreatedAt,
	}
}
