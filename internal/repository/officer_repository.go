package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// OfficerFilter captures staff listing parameters.
type OfficerFilter struct {
	DepartmentID *string
	Role         *domain.StaffRole
	Active       *bool
	Limit        int
	Offset       int
}

// OfficerRepository manages staff persistence.
type OfficerRepository interface {
	Create(ctx context.Context, officer *domain.Officer) error
	Update(ctx context.Context, officer *domain.Officer) error
	GetByID(ctx context.Context, id string) (*domain.Officer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Officer, error)
	List(ctx context.Context, filter OfficerFilter) ([]domain.Officer, error)
}

type officerRepository struct {
	pool *pgxpool.Pool
}

// NewOfficerRepository builds the repository.
func NewOfficerRepository(pool *pgxpool.Pool) OfficerRepository {
	return &officerRepository{pool: pool}
}

const officerColumns = `id, name, email, password_hash, role, escalation_level, department_id, active, created_at, updated_at`

func (r *officerRepository) Create(ctx context.Context, officer *domain.Officer) error {
	const query = `
        INSERT INTO officers (name, email, password_hash, role, escalation_level, department_id, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		officer.Name,
		officer.Email,
		officer.PasswordHash,
		officer.Role,
		officer.Escalation,
		officer.DepartmentID,
		officer.Active,
	).Scan(&officer.ID, &officer.CreatedAt, &officer.UpdatedAt)
}

func (r *officerRepository) Update(ctx context.Context, officer *domain.Officer) error {
	const query = `
        UPDATE officers SET name=$1, email=$2, password_hash=$3, role=$4,
            escalation_level=$5, department_id=$6, active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		officer.Name,
		officer.Email,
		officer.PasswordHash,
		officer.Role,
		officer.Escalation,
		officer.DepartmentID,
		officer.Active,
		officer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *officerRepository) GetByID(ctx context.Context, id string) (*domain.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *officerRepository) GetByEmail(ctx context.Context, email string) (*domain.Officer, error) {
	query := `SELECT ` + officerColumns + ` FROM officers WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *officerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Officer, error) {
	var officer domain.Officer
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&officer.ID,
		&officer.Name,
		&officer.Email,
		&officer.PasswordHash,
		&officer.Role,
		&officer.Escalation,
		&officer.DepartmentID,
		&officer.Active,
		&officer.CreatedAt,
		&officer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &officer, nil
}

func (r *officerRepository) List(ctx context.Context, filter OfficerFilter) ([]domain.Officer, error) {
	base := `SELECT ` + officerColumns + ` FROM officers`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Officer
	for rows.Next() {
		var officer domain.Officer
		if err := rows.Scan(
			&officer.ID,
			&officer.Name,
			&officer.Email,
			&officer.PasswordHash,
			&officer.Role,
			&officer.Escalation,
			&officer.DepartmentID,
			&officer.Active,
			&officer.CreatedAt,
			&officer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, officer)
	}
	return result, rows.Err()
}
