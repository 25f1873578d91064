package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sisyflow/sisyflow/internal/ai"
	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/events"
	"github.com/sisyflow/sisyflow/internal/repository"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// AIService runs analysis passes and persists suggestion sessions.
type AIService struct {
	analyzer   ai.Analyzer
	sessions   repository.AISessionRepository
	aiErrors   repository.AIErrorRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AIDependencies bundles collaborators for the AI service.
type AIDependencies struct {
	Analyzer    ai.Analyzer
	SessionRepo repository.AISessionRepository
	ErrorRepo   repository.AIErrorRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// SessionInput is the persisted outcome of one analysis pass.
type SessionInput struct {
	TicketID    string
	Suggestions []domain.Suggestion
	Rating      *int
}

// NewAIService constructs the service.
func NewAIService(deps AIDependencies) *AIService {
	return &AIService{
		analyzer:   deps.Analyzer,
		sessions:   deps.SessionRepo,
		aiErrors:   deps.ErrorRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Analyze runs one analysis call for a ticket draft. Both title and
// description must be non-empty after trimming; failures are recorded in the
// AI error log before being surfaced.
func (s *AIService) Analyze(ctx context.Context, user *domain.Profile, title, description string) ([]domain.Suggestion, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required for analysis", map[string]any{
			"title":       "required for analysis",
			"description": "required for analysis",
		})
	}

	suggestions, err := s.analyzer.Analyze(ctx, title, description)
	if err != nil {
		message, detail := describeAnalyzerFailure(err)
		s.recordError(ctx, user, nil, message, detail)
		return nil, apperrors.NewUpstreamError(message, err)
	}
	return suggestions, nil
}

// SaveSession stores the final suggestion states and optional rating for a
// ticket. Sessions reference an existing ticket; callers sequence this after
// ticket creation.
func (s *AIService) SaveSession(ctx context.Context, user *domain.Profile, input SessionInput) (*domain.AISuggestionSession, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.TicketID) == "" {
		details["ticket_id"] = "is required"
	}
	for _, suggestion := range input.Suggestions {
		if !domain.ValidSuggestionType(suggestion.Type) {
			details["suggestions"] = "type must be one of: INSERT, QUESTION"
			break
		}
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		details["rating"] = "must be between 1 and 5"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid session", details)
	}

	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
	}

	createdBy := user.ID
	session := &domain.AISuggestionSession{
		TicketID:    input.TicketID,
		Suggestions: input.Suggestions,
		Rating:      input.Rating,
		CreatedBy:   &createdBy,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventAISuggestionPersisted,
		ActorID: &createdBy,
		Payload: events.AISessionSavedPayload{
			SessionID: session.ID,
			TicketID:  session.TicketID,
			Rating:    session.Rating,
		},
	})
	return session, nil
}

// ListErrors returns a page of AI error rows plus the total count.
func (s *AIService) ListErrors(ctx context.Context, filter repository.AIErrorFilter) ([]domain.AIError, int, error) {
	return s.aiErrors.ListWithFilter(ctx, filter)
}

func describeAnalyzerFailure(err error) (string, json.RawMessage) {
	var analyzerErr *ai.AnalyzerError
	if errors.As(err, &analyzerErr) {
		detail, marshalErr := json.Marshal(map[string]any{
			"status":   analyzerErr.StatusCode,
			"response": analyzerErr.Body,
		})
		if marshalErr != nil {
			detail = []byte(`{}`)
		}
		return analyzerErr.Message, detail
	}
	detail, marshalErr := json.Marshal(map[string]any{"error": err.Error()})
	if marshalErr != nil {
		detail = []byte(`{}`)
	}
	return "analysis request failed", detail
}

// recordError is best-effort: the caller still gets the analyzer failure even
// when the log write fails.
func (s *AIService) recordError(ctx context.Context, user *domain.Profile, ticketID *string, message string, detail json.RawMessage) {
	record := &domain.AIError{
		TicketID: ticketID,
		Message:  message,
		Detail:   detail,
	}
	if user != nil {
		userID := user.ID
		record.UserID = &userID
	}
	if err := s.aiErrors.Create(ctx, record); err != nil && s.logger != nil {
		s.logger.Warn("failed to record ai error", zap.Error(err))
	}
}

func (s *AIService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
