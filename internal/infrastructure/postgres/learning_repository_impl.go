package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innomart/innomart-server/internal/domain/entity"
	"github.com/innomart/innomart-server/internal/domain/repository"
)

type LearningContentRepository struct {
	pool *pgxpool.Pool
}

func NewLearningContentRepository(pool *pgxpool.Pool) *LearningContentRepository {
	return &LearningContentRepository{pool: pool}
}

func (r *LearningContentRepository) Create(ctx context.Context, lc *entity.LearningContent) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO learning_content (title, type, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`, lc.Title, lc.Type, lc.Content)
	return row.Scan(&lc.ID)
}

func (r *LearningContentRepository) ListAll(ctx context.Context) ([]entity.LearningContent, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, type, content FROM learning_content ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entity.LearningContent, 0)
	for rows.Next() {
		var lc entity.LearningContent
		if err := rows.Scan(&lc.ID, &lc.Title, &lc.Type, &lc.Content); err != nil {
			return nil, err
		}
		items = append(items, lc)
	}
	return items, rows.Err()
}

var _ repository.LearningContentRepository = (*LearningContentRepository)(nil)
