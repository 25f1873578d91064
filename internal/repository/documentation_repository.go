package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sisyflow/sisyflow/internal/domain"
)

// DocumentationRepository persists the single shared project document.
type DocumentationRepository interface {
	Get(ctx context.Context) (*domain.Documentation, error)
	Save(ctx context.Context, doc *domain.Documentation) error
}

type documentationRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentationRepository instantiates repository.
func NewDocumentationRepository(pool *pgxpool.Pool) DocumentationRepository {
	return &documentationRepository{pool: pool}
}

// Get returns the document. The singleton row is created by migrations, so a
// missing row is treated as an empty document rather than an error.
func (r *documentationRepository) Get(ctx context.Context) (*domain.Documentation, error) {
	const query = `
        SELECT content, updated_at, updated_by
        FROM project_documentation WHERE singleton=TRUE`
	var doc domain.Documentation
	if err := r.pool.QueryRow(ctx, query).Scan(
		&doc.Content,
		&doc.UpdatedAt,
		&doc.UpdatedBy,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentationRepository) Save(ctx context.Context, doc *domain.Documentation) error {
	const query = `
        INSERT INTO project_documentation (singleton, content, updated_by, updated_at)
        VALUES (TRUE, $1, $2, NOW())
        ON CONFLICT (singleton)
        DO UPDATE SET content=EXCLUDED.content, updated_by=EXCLUDED.updated_by, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, doc.Content, doc.UpdatedBy).Scan(&doc.UpdatedAt)
}
