package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sisyflow/sisyflow/internal/domain"
)

// AIErrorFilter captures admin listing parameters.
type AIErrorFilter struct {
	TicketID   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// AIErrorRepository persists the AI error log.
type AIErrorRepository interface {
	Create(ctx context.Context, record *domain.AIError) error
	ListWithFilter(ctx context.Context, filter AIErrorFilter) ([]domain.AIError, int, error)
}

type aiErrorRepository struct {
	pool *pgxpool.Pool
}

// NewAIErrorRepository instantiates repository.
func NewAIErrorRepository(pool *pgxpool.Pool) AIErrorRepository {
	return &aiErrorRepository{pool: pool}
}

func (r *aiErrorRepository) Create(ctx context.Context, record *domain.AIError) error {
	detail := record.Detail
	if len(detail) == 0 {
		detail = []byte("{}")
	}
	const query = `
        INSERT INTO ai_errors (ticket_id, message, detail, user_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.TicketID,
		record.Message,
		[]byte(detail),
		record.UserID,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListWithFilter returns a page of error rows plus the total matching count.
func (r *aiErrorRepository) ListWithFilter(ctx context.Context, filter AIErrorFilter) ([]domain.AIError, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TicketID != nil && strings.TrimSpace(*filter.TicketID) != "" {
		args = append(args, strings.TrimSpace(*filter.TicketID))
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(message) LIKE %s OR LOWER(detail::text) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM ai_errors WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, ticket_id, message, detail, user_id, created_at
        FROM ai_errors WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.AIError
	for rows.Next() {
		var record domain.AIError
		var detail []byte
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.Message,
			&detail,
			&record.UserID,
			&record.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		record.Detail = detail
		result = append(result, record)
	}
	return result, total, rows.Err()
}
