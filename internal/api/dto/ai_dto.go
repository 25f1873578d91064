package dto

import (
	"encoding/json"
	"time"

	"github.com/sisyflow/sisyflow/internal/domain"
)

// AnalyzeRequest carries a ticket draft to the analyzer.
type AnalyzeRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// SuggestionDTO is one suggestion with its applied state.
type SuggestionDTO struct {
	Type    domain.SuggestionType `json:"type" validate:"required,oneof=INSERT QUESTION"`
	Content string                `json:"content"`
	Applied bool                  `json:"applied"`
}

// AnalyzeResponse returns the analyzer's suggestions.
type AnalyzeResponse struct {
	Suggestions []SuggestionDTO `json:"suggestions"`
}

// CreateSessionRequest persists the outcome of one analysis pass.
type CreateSessionRequest struct {
	TicketID    string          `json:"ticket_id" validate:"required,uuid"`
	Suggestions []SuggestionDTO `json:"suggestions" validate:"dive"`
	Rating      *int            `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

// SessionResponse is the wire shape for a stored session.
type SessionResponse struct {
	ID          string          `json:"id"`
	TicketID    string          `json:"ticket_id"`
	Suggestions []SuggestionDTO `json:"suggestions"`
	Rating      *int            `json:"rating,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AIErrorResponse is one error-log row. HTTPStatus is extracted from the
// detail payload, "unknown" when absent or malformed.
type AIErrorResponse struct {
	ID         string          `json:"id"`
	TicketID   *string         `json:"ticket_id"`
	Message    string          `json:"message"`
	Detail     json.RawMessage `json:"detail"`
	HTTPStatus string          `json:"http_status"`
	UserID     *string         `json:"user_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaginationResponse echoes the paging state for list views.
type PaginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// AIErrorListResponse wraps a page of error rows.
type AIErrorListResponse struct {
	Errors     []AIErrorResponse  `json:"errors"`
	Pagination PaginationResponse `json:"pagination"`
}
