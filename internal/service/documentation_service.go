package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/events"
	"github.com/sisyflow/sisyflow/internal/repository"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// DocumentationService manages the single shared project document.
type DocumentationService struct {
	docs       repository.DocumentationRepository
	dispatcher events.Dispatcher
}

// NewDocumentationService constructs the service.
func NewDocumentationService(docs repository.DocumentationRepository, dispatcher events.Dispatcher) *DocumentationService {
	return &DocumentationService{docs: docs, dispatcher: dispatcher}
}

// Get returns the current document. A never-saved document reads as empty.
func (s *DocumentationService) Get(ctx context.Context) (*domain.Documentation, error) {
	doc, err := s.docs.Get(ctx)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &domain.Documentation{}, nil
		}
		return nil, err
	}
	return doc, nil
}

// Save replaces the document content. Content must be non-empty after
// trimming and within the length budget.
func (s *DocumentationService) Save(ctx context.Context, user *domain.Profile, content string) (*domain.Documentation, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("documentation cannot be empty", map[string]any{"content": "is required"})
	}
	if len(content) > domain.MaxDocumentationLength {
		return nil, apperrors.NewValidationError("documentation exceeds maximum length", map[string]any{"content": "exceeds maximum length"})
	}

	updatedBy := user.ID
	doc := &domain.Documentation{
		Content:   content,
		UpdatedBy: &updatedBy,
	}
	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDocumentationUpdated,
			ActorID:   &updatedBy,
			Timestamp: time.Now(),
			Payload:   events.DocumentationUpdatedPayload{Length: len(content)},
		})
	}
	return doc, nil
}
