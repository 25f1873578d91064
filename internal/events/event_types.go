package events

import (
	"time"

	"github.com/sisyflow/sisyflow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketUpdated         EventType = "ticket_updated"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventDocumentationUpdated  EventType = "documentation_updated"
	EventAISuggestionPersisted EventType = "ai_session_saved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string              `json:"ticket_id"`
	Title    string              `json:"title"`
	Type     domain.TicketType   `json:"type"`
	Status   domain.TicketStatus `json:"status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID   string  `json:"ticket_id"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// DocumentationUpdatedPayload payload.
type DocumentationUpdatedPayload struct {
	Length int `json:"length"`
}

// AISessionSavedPayload payload.
type AISessionSavedPayload struct {
	SessionID string `json:"session_id"`
	TicketID  string `json:"ticket_id"`
	Rating    *int   `json:"rating,omitempty"`
}
