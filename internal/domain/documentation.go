package domain

import "time"

// MaxDocumentationLength is the content budget enforced on save.
const MaxDocumentationLength = 50000

// Documentation is the single shared project document.
type Documentation struct {
	Content   string
	UpdatedAt time.Time
	UpdatedBy *string
}
