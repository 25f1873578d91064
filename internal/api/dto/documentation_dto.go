package dto

import "time"

// DocumentationResponse carries the shared document plus the length budget so
// clients can disable save before submitting.
type DocumentationResponse struct {
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at"`
	UpdatedBy *string    `json:"updated_by"`
	MaxLength int        `json:"max_length"`
}

// UpdateDocumentationRequest replaces the document content.
type UpdateDocumentationRequest struct {
	Content string `json:"content" validate:"required"`
}
