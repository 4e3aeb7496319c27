package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// CitizenRepository manages reporter accounts.
type CitizenRepository interface {
	Create(ctx context.Context, citizen *domain.Citizen) error
	Update(ctx context.Context, citizen *domain.Citizen) error
	GetByID(ctx context.Context, id string) (*domain.Citizen, error)
	GetByEmail(ctx context.Context, email string) (*domain.Citizen, error)
}

type citizenRepository struct {
	pool *pgxpool.Pool
}

// NewCitizenRepository builds the repository.
func NewCitizenRepository(pool *pgxpool.Pool) CitizenRepository {
	return &citizenRepository{pool: pool}
}

func (r *citizenRepository) Create(ctx context.Context, citizen *domain.Citizen) error {
	const query = `
        INSERT INTO citizens (name, email, phone, password_hash, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		citizen.Name,
		citizen.Email,
		citizen.Phone,
		citizen.PasswordHash,
		citizen.Status,
	).Scan(&citizen.ID, &citizen.CreatedAt, &citizen.UpdatedAt)
}

func (r *citizenRepository) Update(ctx context.Context, citizen *domain.Citizen) error {
	const query = `
        UPDATE citizens SET name=$1, email=$2, phone=$3, password_hash=$4, status=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		citizen.Name,
		citizen.Email,
		citizen.Phone,
		citizen.PasswordHash,
		citizen.Status,
		citizen.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *citizenRepository) GetByID(ctx context.Context, id string) (*domain.Citizen, error) {
	const query = `
        SELECT id, name, email, phone, password_hash, status, created_at, updated_at
        FROM citizens WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *citizenRepository) GetByEmail(ctx context.Context, email string) (*domain.Citizen, error) {
	const query = `
        SELECT id, name, email, phone, password_hash, status, created_at, updated_at
        FROM citizens WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *citizenRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Citizen, error) {
	var citizen domain.Citizen
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&citizen.ID,
		&citizen.Name,
		&citizen.Email,
		&citizen.Phone,
		&citizen.PasswordHash,
		&citizen.Status,
		&citizen.CreatedAt,
		&citizen.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &citizen, nil
}
