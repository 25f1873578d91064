package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/dto"
	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/service"
	"github.com/sisyflow/sisyflow/internal/validation"
	apperrors "github.com/sisyflow/sisyflow/pkg/util"
)

// DocumentationHandler serves the shared project document.
type DocumentationHandler struct {
	service *service.DocumentationService
}

// NewDocumentationHandler constructs handler.
func NewDocumentationHandler(docService *service.DocumentationService) *DocumentationHandler {
	return &DocumentationHandler{service: docService}
}

// GetDocumentation GET /api/project-documentation.
func (h *DocumentationHandler) GetDocumentation(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(documentationResponse(doc))
}

// UpdateDocumentation PUT /api/project-documentation.
func (h *DocumentationHandler) UpdateDocumentation(c *fiber.Ctx) error {
	user, ok := auth.ProfileFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.UpdateDocumentationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := validation.Struct(req); details != nil {
		return apperrors.NewValidationError("invalid documentation", details)
	}

	doc, err := h.service.Save(c.UserContext(), user, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(documentationResponse(doc))
}

func documentationResponse(doc *domain.Documentation) dto.DocumentationResponse {
	resp := dto.DocumentationResponse{
		Content:   doc.Content,
		UpdatedBy: doc.UpdatedBy,
		MaxLength: domain.MaxDocumentationLength,
	}
	if !doc.UpdatedAt.IsZero() {
		updatedAt := doc.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
