package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sisyflow/sisyflow/internal/domain"
)

// AISessionRepository persists AI suggestion sessions. Sessions are
// insert-only; the stored suggestion order never changes.
type AISessionRepository interface {
	Create(ctx context.Context, session *domain.AISuggestionSession) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AISuggestionSession, error)
}

type aiSessionRepository struct {
	pool *pgxpool.Pool
}

// NewAISessionRepository instantiates repository.
func NewAISessionRepository(pool *pgxpool.Pool) AISessionRepository {
	return &aiSessionRepository{pool: pool}
}

func (r *aiSessionRepository) Create(ctx context.Context, session *domain.AISuggestionSession) error {
	suggestions, err := json.Marshal(session.Suggestions)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO ai_suggestion_sessions (ticket_id, suggestions, rating, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		session.TicketID,
		suggestions,
		session.Rating,
		session.CreatedBy,
	).Scan(&session.ID, &session.CreatedAt)
}

func (r *aiSessionRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AISuggestionSession, error) {
	const query = `
        SELECT id, ticket_id, suggestions, rating, created_by, created_at
        FROM ai_suggestion_sessions WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AISuggestionSession
	for rows.Next() {
		var session domain.AISuggestionSession
		var raw []byte
		if err := rows.Scan(
			&session.ID,
			&session.TicketID,
			&raw,
			&session.Rating,
			&session.CreatedBy,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &session.Suggestions); err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}
