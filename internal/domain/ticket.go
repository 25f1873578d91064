package domain

import "time"

// TicketType enumerates the fixed ticket categories.
type TicketType string

const (
	TicketTypeBug         TicketType = "BUG"
	TicketTypeImprovement TicketType = "IMPROVEMENT"
	TicketTypeTask        TicketType = "TASK"
)

// TicketStatus enumerates board columns.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Field budgets enforced before any write.
const (
	MaxTicketTitleLength       = 200
	MaxTicketDescriptionLength = 10000
)

// Ticket is the aggregate for board items. ReporterID is nullable because
// profiles can be deleted after the ticket was filed.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Type        TicketType
	Status      TicketStatus
	ReporterID  *string
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidTicketType reports whether t is one of the enumerated values.
func ValidTicketType(t TicketType) bool {
	switch t {
	case TicketTypeBug, TicketTypeImprovement, TicketTypeTask:
		return true
	}
	return false
}

// ValidTicketStatus reports whether s is one of the enumerated values.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}
