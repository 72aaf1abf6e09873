package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/catequesis-api/internal/models"
)

// CatechumenRepository reads catechumen registry facts consumed by the
// enrollment core.
type CatechumenRepository struct {
	db *sqlx.DB
}

// NewCatechumenRepository constructs the repository.
func NewCatechumenRepository(db *sqlx.DB) *CatechumenRepository {
	return &CatechumenRepository{db: db}
}

// FindByID returns a catechumen by ID.
func (r *CatechumenRepository) FindByID(ctx context.Context, id int64) (*models.Catechumen, error) {
	const query = `SELECT id, full_name, birth_date, parish_id, active, created_at, updated_at
		FROM catechumens WHERE id = $1`
	var catechumen models.Catechumen
	if err := r.db.GetContext(ctx, &catechumen, query, id); err != nil {
		return nil, err
	}
	return &catechumen, nil
}

// ExistsActive checks whether an active catechumen with the given ID exists.
func (r *CatechumenRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT 1 FROM catechumens WHERE id = $1 AND active = true LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check catechumen: %w", err)
	}
	return true, nil
}
