package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/ai"
	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/repository"
	"github.com/sisyflow/sisyflow/internal/service"
)

// AIErrorsHandler exposes the admin error-log view.
type AIErrorsHandler struct {
	service *service.AIService
}

// NewAIErrorsHandler constructs handler.
func NewAIErrorsHandler(aiService *service.AIService) *AIErrorsHandler {
	return &AIErrorsHandler{service: aiService}
}

// ListErrors GET /api/ai-errors?limit&offset&ticket_id&search.
func (h *AIErrorsHandler) ListErrors(c *fiber.Ctx) error {
	limit := parseQueryInt(c.Query("limit"), 20)
	if limit <= 0 {
		limit = 20
	}
	offset := parseQueryInt(c.Query("offset"), 0)

	filter := repository.AIErrorFilter{Limit: limit, Offset: offset}
	if ticketID := c.Query("ticket_id"); ticketID != "" {
		filter.TicketID = &ticketID
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	records, total, err := h.service.ListErrors(c.UserContext(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.AIErrorResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.AIErrorResponse{
			ID:         record.ID,
			TicketID:   record.TicketID,
			Message:    record.Message,
			Detail:     record.Detail,
			HTTPStatus: ai.ExtractHTTPStatus(record.Detail),
			UserID:     record.UserID,
			CreatedAt:  record.CreatedAt,
		})
	}

	return c.JSON(dto.AIErrorListResponse{
		Errors: items,
		Pagination: dto.PaginationResponse{
			Page:  offset/limit + 1,
			Limit: limit,
			Total: total,
		},
	})
}

func parseQueryInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
