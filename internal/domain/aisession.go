package domain

import "time"

// SuggestionType differentiates description insertions from clarifying questions.
type SuggestionType string

const (
	SuggestionTypeInsert   SuggestionType = "INSERT"
	SuggestionTypeQuestion SuggestionType = "QUESTION"
)

// Suggestion is one analyzer proposal. Suggestion order is immutable once a
// session is stored; consumers key applied state by index.
type Suggestion struct {
	Type    SuggestionType `json:"type"`
	Content string         `json:"content"`
	Applied bool           `json:"applied"`
}

// AISuggestionSession records one analysis pass over a ticket and the user's
// interaction with its suggestions. Sessions are insert-only; the rating is
// therefore set at most once.
type AISuggestionSession struct {
	ID          string
	TicketID    string
	Suggestions []Suggestion
	Rating      *int
	CreatedBy   *string
	CreatedAt   time.Time
}

// ValidSuggestionType reports whether t is one of the enumerated values.
func ValidSuggestionType(t SuggestionType) bool {
	return t == SuggestionTypeInsert || t == SuggestionTypeQuestion
}
