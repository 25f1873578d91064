package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/events"
	"github.com/sisyflow/sisyflow/internal/repository"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	ProfileRepo repository.ProfileRepository
	Dispatcher  events.Dispatcher
}

// TicketInput describes the full edit buffer submitted on create and update.
type TicketInput struct {
	Title       string
	Description string
	Type        domain.TicketType
	Status      domain.TicketStatus
	AssigneeID  *string
}

// TicketDetail is a ticket with resolved user references and the caller's
// edit permission.
type TicketDetail struct {
	Ticket           domain.Ticket
	ReporterUsername *string
	AssigneeUsername *string
	CanEdit          bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		profiles:   deps.ProfileRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CanEdit reports whether the user may edit the ticket: administrators and
// the original reporter only. Callers re-evaluate this on every fetch rather
// than caching the answer, because both ticket and user can change while a
// client holds the ticket open.
func CanEdit(user *domain.Profile, ticket *domain.Ticket) bool {
	if user == nil || ticket == nil {
		return false
	}
	if user.IsAdmin {
		return true
	}
	return ticket.ReporterID != nil && *ticket.ReporterID == user.ID
}

// CreateTicket creates a ticket reported by the user.
func (s *TicketService) CreateTicket(ctx context.Context, user *domain.Profile, input TicketInput) (*domain.Ticket, error) {
	if err := validateTicketInput(&input); err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if _, err := s.profiles.GetByID(ctx, *input.AssigneeID); err != nil {
			return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"assignee_id": "unknown user"})
		}
	}

	reporterID := user.ID
	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      domain.TicketStatusOpen,
		ReporterID:  &reporterID,
		AssigneeID:  input.AssigneeID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: &reporterID,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			Title:    ticket.Title,
			Type:     ticket.Type,
			Status:   ticket.Status,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket with resolved usernames and the caller's edit
// permission.
func (s *TicketService) GetTicket(ctx context.Context, user *domain.Profile, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	detail := &TicketDetail{
		Ticket:  *ticket,
		CanEdit: CanEdit(user, ticket),
	}
	detail.ReporterUsername = s.resolveUsername(ctx, ticket.ReporterID)
	detail.AssigneeUsername = s.resolveUsername(ctx, ticket.AssigneeID)
	return detail, nil
}

// UpdateTicket applies the full edit buffer. Reporter is immutable; status
// changes ride the same operation (board columns map to status).
func (s *TicketService) UpdateTicket(ctx context.Context, user *domain.Profile, ticketID string, input TicketInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(user, ticket) {
		return nil, apperrors.NewForbidden("only the reporter or an administrator can edit this ticket")
	}
	if err := validateTicketInput(&input); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = ticket.Status
	}
	if !domain.ValidTicketStatus(input.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": "must be one of: OPEN, IN_PROGRESS, CLOSED"})
	}
	if input.AssigneeID != nil {
		if _, err := s.profiles.GetByID(ctx, *input.AssigneeID); err != nil {
			return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"assignee_id": "unknown user"})
		}
	}

	oldStatus := ticket.Status
	ticket.Title = input.Title
	ticket.Description = input.Description
	ticket.Type = input.Type
	ticket.Status = input.Status
	ticket.AssigneeID = input.AssigneeID

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	actorID := user.ID
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketUpdated,
		ActorID: &actorID,
		Payload: events.TicketUpdatedPayload{
			TicketID:  ticket.ID,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// UpdateAssignee changes only the assignee. Allowed for administrators, the
// reporter, and any user assigning or unassigning themselves.
func (s *TicketService) UpdateAssignee(ctx context.Context, user *domain.Profile, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canChangeAssignee(user, ticket, assigneeID) {
		return nil, apperrors.NewForbidden("not allowed to change the assignee")
	}
	if assigneeID != nil {
		if _, err := s.profiles.GetByID(ctx, *assigneeID); err != nil {
			return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"assignee_id": "unknown user"})
		}
	}

	ticket.AssigneeID = assigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	actorID := user.ID
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketAssigned,
		ActorID: &actorID,
		Payload: events.TicketAssignedPayload{
			TicketID:   ticket.ID,
			AssigneeID: assigneeID,
		},
	})
	return ticket, nil
}

// ListTickets returns board tickets with usernames resolved for rendering.
func (s *TicketService) ListTickets(ctx context.Context, user *domain.Profile, filter repository.TicketFilter) ([]TicketDetail, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	usernames := map[string]*string{}
	details := make([]TicketDetail, 0, len(tickets))
	for i := range tickets {
		ticket := tickets[i]
		detail := TicketDetail{
			Ticket:  ticket,
			CanEdit: CanEdit(user, &ticket),
		}
		detail.ReporterUsername = s.cachedUsername(ctx, usernames, ticket.ReporterID)
		detail.AssigneeUsername = s.cachedUsername(ctx, usernames, ticket.AssigneeID)
		details = append(details, detail)
	}
	return details, nil
}

func canChangeAssignee(user *domain.Profile, ticket *domain.Ticket, next *string) bool {
	if CanEdit(user, ticket) {
		return true
	}
	// self-assign
	if next != nil && *next == user.ID {
		return true
	}
	// self-unassign
	if next == nil && ticket.AssigneeID != nil && *ticket.AssigneeID == user.ID {
		return true
	}
	return false
}

func validateTicketInput(input *TicketInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	details := map[string]any{}
	if input.Title == "" {
		details["title"] = "is required"
	} else if len(input.Title) > domain.MaxTicketTitleLength {
		details["title"] = "exceeds maximum length"
	}
	if len(input.Description) > domain.MaxTicketDescriptionLength {
		details["description"] = "exceeds maximum length"
	}
	if !domain.ValidTicketType(input.Type) {
		details["type"] = "must be one of: BUG, IMPROVEMENT, TASK"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

// resolveUsername tolerates deleted users: a dangling reference renders as
// nil rather than failing the read.
func (s *TicketService) resolveUsername(ctx context.Context, id *string) *string {
	if id == nil {
		return nil
	}
	profile, err := s.profiles.GetByID(ctx, *id)
	if err != nil {
		return nil
	}
	return &profile.Username
}

func (s *TicketService) cachedUsername(ctx context.Context, cache map[string]*string, id *string) *string {
	if id == nil {
		return nil
	}
	if username, ok := cache[*id]; ok {
		return username
	}
	username := s.resolveUsername(ctx, id)
	cache[*id] = username
	return username
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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
