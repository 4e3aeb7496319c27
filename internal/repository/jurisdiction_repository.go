package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// JurisdictionRepository reads administrative reference data. The seed set
// is small and read-mostly, so it is loaded whole for nearest-center lookups.
type JurisdictionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Jurisdiction, error)
	ListAll(ctx context.Context) ([]domain.Jurisdiction, error)
}

type jurisdictionRepository struct {
	pool *pgxpool.Pool
}

// NewJurisdictionRepository builds the repository.
func NewJurisdictionRepository(pool *pgxpool.Pool) JurisdictionRepository {
	return &jurisdictionRepository{pool: pool}
}

func (r *jurisdictionRepository) GetByID(ctx context.Context, id string) (*domain.Jurisdiction, error) {
	const query = `
        SELECT id, name, kind, parent_id, center_lat, center_lng, created_at
        FROM jurisdictions WHERE id=$1`
	var j domain.Jurisdiction
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID,
		&j.Name,
		&j.Kind,
		&j.ParentID,
		&j.Center.Latitude,
		&j.Center.Longitude,
		&j.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jurisdictionRepository) ListAll(ctx context.Context) ([]domain.Jurisdiction, error) {
	const query = `
        SELECT id, name, kind, parent_id, center_lat, center_lng, created_at
        FROM jurisdictions ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Jurisdiction
	for rows.Next() {
		var j domain.Jurisdiction
		if err := rows.Scan(
			&j.ID,
			&j.Name,
			&j.Kind,
			&j.ParentID,
			&j.Center.Latitude,
			&j.Center.Longitude,
			&j.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	return result, rows.Err()
}
