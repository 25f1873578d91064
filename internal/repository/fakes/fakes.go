// Package fakes provides in-memory repository implementations for tests.
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sisyflow/sisyflow/internal/domain"
	"github.com/sisyflow/sisyflow/internal/repository"
)

// TicketRepo is an in-memory repository.TicketRepository.
type TicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

// NewTicketRepo constructs an empty fake.
func NewTicketRepo() *TicketRepo {
	return &TicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *TicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *TicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *TicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *TicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.ReporterID != nil && (ticket.ReporterID == nil || *ticket.ReporterID != *filter.ReporterID) {
			continue
		}
		if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.SearchTerm != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if needle != "" &&
				!strings.Contains(strings.ToLower(ticket.Title), needle) &&
				!strings.Contains(strings.ToLower(ticket.Description), needle) {
				continue
			}
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// ProfileRepo is an in-memory repository.ProfileRepository.
type ProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

// NewProfileRepo constructs an empty fake.
func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: map[string]domain.Profile{}}
}

// Seed inserts a profile with a fixed id.
func (r *ProfileRepo) Seed(profile domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	r.profiles[profile.ID] = profile
}

func (r *ProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile.ID = uuid.NewString()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := profile
	return &copied, nil
}

func (r *ProfileRepo) GetByUsername(_ context.Context, username string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.Username == username {
			copied := profile
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ProfileRepo) List(_ context.Context, limit, offset int) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Profile
	for _, profile := range r.profiles {
		result = append(result, profile)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return paginate(result, limit, offset), nil
}

func (r *ProfileRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.profiles, id)
	return nil
}

// AISessionRepo is an in-memory repository.AISessionRepository.
type AISessionRepo struct {
	mu       sync.Mutex
	Sessions []domain.AISuggestionSession
}

// NewAISessionRepo constructs an empty fake.
func NewAISessionRepo() *AISessionRepo {
	return &AISessionRepo{}
}

func (r *AISessionRepo) Create(_ context.Context, session *domain.AISuggestionSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now()
	r.Sessions = append(r.Sessions, *session)
	return nil
}

func (r *AISessionRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AISuggestionSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AISuggestionSession
	for _, session := range r.Sessions {
		if session.TicketID == ticketID {
			result = append(result, session)
		}
	}
	return result, nil
}

// AIErrorRepo is an in-memory repository.AIErrorRepository.
type AIErrorRepo struct {
	mu      sync.Mutex
	Records []domain.AIError
}

// NewAIErrorRepo constructs an empty fake.
func NewAIErrorRepo() *AIErrorRepo {
	return &AIErrorRepo{}
}

func (r *AIErrorRepo) Create(_ context.Context, record *domain.AIError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	r.Records = append(r.Records, *record)
	return nil
}

func (r *AIErrorRepo) ListWithFilter(_ context.Context, filter repository.AIErrorFilter) ([]domain.AIError, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.AIError
	for _, record := range r.Records {
		if filter.TicketID != nil && (record.TicketID == nil || *record.TicketID != *filter.TicketID) {
			continue
		}
		if filter.SearchTerm != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if needle != "" && !strings.Contains(strings.ToLower(record.Message), needle) {
				continue
			}
		}
		matched = append(matched, record)
	}
	total := len(matched)
	return paginate(matched, filter.Limit, filter.Offset), total, nil
}

// DocumentationRepo is an in-memory repository.DocumentationRepository.
type DocumentationRepo struct {
	mu  sync.Mutex
	doc *domain.Documentation
}

// NewDocumentationRepo constructs an empty fake.
func NewDocumentationRepo() *DocumentationRepo {
	return &DocumentationRepo{}
}

func (r *DocumentationRepo) Get(_ context.Context) (*domain.Documentation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *r.doc
	return &copied, nil
}

func (r *DocumentationRepo) Save(_ context.Context, doc *domain.Documentation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.UpdatedAt = time.Now()
	copied := *doc
	r.doc = &copied
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
