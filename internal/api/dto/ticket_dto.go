package dto

import (
	"time"

	"github.com/sisyflow/sisyflow/internal/domain"
)

// TicketRequest is the full edit buffer submitted on create and update.
type TicketRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=10000"`
	Type        string  `json:"type" validate:"required,oneof=BUG IMPROVEMENT TASK"`
	Status      string  `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS CLOSED"`
	AssigneeID  *string `json:"assignee_id" validate:"omitempty,uuid"`
}

// AssigneeRequest updates only the assignee; null unassigns.
type AssigneeRequest struct {
	AssigneeID *string `json:"assignee_id" validate:"omitempty,uuid"`
}

// UserRef is a resolved user reference; nil when the user was deleted.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// TicketResponse is the wire shape for a ticket.
type TicketResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        domain.TicketType   `json:"type"`
	Status      domain.TicketStatus `json:"status"`
	Reporter    *UserRef            `json:"reporter"`
	Assignee    *UserRef            `json:"assignee"`
	CanEdit     bool                `json:"can_edit"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
