package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/repository"
	"github.com/sisyflow/sisyflow/internal/service"
	"github.com/sisyflow/sisyflow/internal/validation"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// TicketsHandler manages board ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}

	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	tickets, err := h.service.ListTickets(c.UserContext(), user, filter)
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"tickets": items})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid ticket", details)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), user, service.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.TicketType(req.Type),
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}

	detail, err := h.service.GetTicket(c.UserContext(), user, ticket.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketResponse(detail))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	detail, err := h.service.GetTicket(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(detail))
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid ticket", details)
	}

	if _, err := h.service.UpdateTicket(c.UserContext(), user, c.Params("id"), service.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.TicketType(req.Type),
		Status:      domain.TicketStatus(req.Status),
		AssigneeID:  req.AssigneeID,
	}); err != nil {
		return err
	}

	detail, err := h.service.GetTicket(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(detail))
}

// UpdateAssignee PUT /api/tickets/:id/assignee.
func (h *TicketsHandler) UpdateAssignee(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.AssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid assignee", details)
	}

	if _, err := h.service.UpdateAssignee(c.UserContext(), user, c.Params("id"), req.AssigneeID); err != nil {
		return err
	}

	detail, err := h.service.GetTicket(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(detail))
}

func ticketResponse(detail *service.TicketDetail) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:          detail.Ticket.ID,
		Title:       detail.Ticket.Title,
		Description: detail.Ticket.Description,
		Type:        detail.Ticket.Type,
		Status:      detail.Ticket.Status,
		CanEdit:     detail.CanEdit,
		CreatedAt:   detail.Ticket.CreatedAt,
		UpdatedAt:   detail.Ticket.UpdatedAt,
	}
	resp.Reporter = userRef(detail.Ticket.ReporterID, detail.ReporterUsername)
	resp.Assignee = userRef(detail.Ticket.AssigneeID, detail.AssigneeUsername)
	return resp
}

func userRef(id, username *string) *dto.UserRef {
	if id == nil {
		return nil
	}
	ref := &dto.UserRef{ID: *id}
	if username != nil {
		ref.Username = *username
	}
	return ref
}
