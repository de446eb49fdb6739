package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

type PostgresGardenerRepository struct {
	db *sql.DB
}

func NewPostgresGardener(db *sql.DB) *PostgresGardenerRepository {
	return &PostgresGardenerRepository{db: db}
}

func (r *PostgresGardenerRepository) GetOrCreate(ctx context.Context, cognitoSub, email, nickname string) (model.Gardener, error) {
	query := `
		INSERT INTO gardeners (cognito_sub, email, nickname)
		VALUES ($1, $2, $3)
		ON CONFLICT (cognito_sub) DO UPDATE
		SET email = EXCLUDED.email,
			nickname = CASE WHEN gardeners.nickname = '' THEN EXCLUDED.nickname ELSE gardeners.nickname END
		RETURNING id, cognito_sub, email, nickname, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, cognitoSub, email, nickname)
	return scanGardener(row)
}

func (r *PostgresGardenerRepository) GetByCognitoSub(ctx context.Context, cognitoSub string) (model.Gardener, error) {
	query := `
		SELECT id, cognito_sub, email, nickname, created_at, updated_at
		FROM gardeners
		WHERE cognito_sub = $1`

	row := r.db.QueryRowContext(ctx, query, cognitoSub)
	return scanGardener(row)
}

func (r *PostgresGardenerRepository) GetByID(ctx context.Context, gardenerID string) (model.Gardener, error) {
	query := `
		SELECT id, cognito_sub, email, nickname, created_at, updated_at
		FROM gardeners
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, gardenerID)
	return scanGardener(row)
}

func (r *PostgresGardenerRepository) Update(ctx context.Context, gardener model.Gardener) (model.Gardener, error) {
	query := `
		UPDATE gardeners
		SET nickname = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, cognito_sub, email, nickname, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, gardener.Nickname, gardener.ID)
	return scanGardener(row)
}

func scanGardener(row scannable) (model.Gardener, error) {
	var g model.Gardener
	err := row.Scan(&g.ID, &g.CognitoSub, &g.Email, &g.Nickname, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Gardener{}, fmt.Errorf("failed to scan gardener: %w", err)
	}
	return g, nil
}

var _ GardenerRepository = (*PostgresGardenerRepository)(nil)
