package domain

import (
	"encoding/json"
	"time"
)

// AIError is one failed analyzer interaction. Detail holds the raw upstream
// payload; UserID is nullable because profiles can be deleted.
type AIError struct {
	ID        string
	TicketID  *string
	Message   string
	Detail    json.RawMessage
	UserID    *string
	CreatedAt time.Time
}
