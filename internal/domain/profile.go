package domain

import "time"

// Profile is the domain model for application users.
type Profile struct {
	ID           string
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
