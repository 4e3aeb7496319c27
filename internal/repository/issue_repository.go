package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// IssueFilter captures listing parameters.
type IssueFilter struct {
	ReporterID   *string
	DepartmentID *string
	OfficerID    *string
	Category     *string
	Statuses     []domain.IssueStatus
	Priorities   []domain.IssuePriority
	// Escalations restricts results to the given levels; empty means all.
	// The visibility rule for bounded principals is expressed here.
	Escalations []domain.EscalationLevel
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// IssueRepository encapsulates issue persistence. Mutations that must leave
// an audit record are transactional: the issue write and the timeline append
// either both land or neither does.
type IssueRepository interface {
	// Create inserts the issue, allocates its tracking code from the per-year
	// counter, and appends the creation timeline entry in one transaction.
	Create(ctx context.Context, issue *domain.Issue, entry *domain.TimelineEntry) error
	// UpdateWithTimeline persists the mutated issue and appends the entry in
	// one transaction.
	UpdateWithTimeline(ctx context.Context, issue *domain.Issue, entry *domain.TimelineEntry) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	// FindNearby returns issues with coordinates within radius degrees of the
	// point, Euclidean on (lat, lng). Terminal-status filtering is the
	// caller's concern.
	FindNearby(ctx context.Context, point domain.Coordinates, radius float64) ([]domain.Issue, error)
}

type issueRepository struct {
	pool           *pgxpool.Pool
	trackingPrefix string
}

// NewIssueRepository instantiates the repository.
func NewIssueRepository(pool *pgxpool.Pool, trackingPrefix string) IssueRepository {
	return &issueRepository{pool: pool, trackingPrefix: trackingPrefix}
}

const issueColumns = `id, tracking_code, title, description, category, location,
               latitude, longitude, status, priority, severity, reporter_id,
               department_id, officer_id, escalation_level, jurisdiction_id,
               created_at, updated_at, resolved_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue, entry *domain.TimelineEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	year := time.Now().Year()
	var seq int64
	const counterQuery = `
        INSERT INTO issue_counters (year, value) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET value = issue_counters.value + 1
        RETURNING value`
	if err := tx.QueryRow(ctx, counterQuery, year).Scan(&seq); err != nil {
		return err
	}
	issue.TrackingCode = fmt.Sprintf("%s-%d-%04d", r.trackingPrefix, year, seq)

	var lat, lng *float64
	if issue.Coordinates != nil {
		lat = &issue.Coordinates.Latitude
		lng = &issue.Coordinates.Longitude
	}

	const insertQuery = `
        INSERT INTO issues (tracking_code, title, description, category, location,
            latitude, longitude, status, priority, severity, reporter_id,
            department_id, officer_id, escalation_level, jurisdiction_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertQuery,
		issue.TrackingCode,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Location,
		lat,
		lng,
		issue.Status,
		issue.Priority,
		issue.Severity,
		issue.ReporterID,
		issue.DepartmentID,
		issue.OfficerID,
		issue.Escalation,
		issue.JurisdictionID,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt); err != nil {
		return err
	}

	entry.IssueID = issue.ID
	if err := insertTimelineEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *issueRepository) UpdateWithTimeline(ctx context.Context, issue *domain.Issue, entry *domain.TimelineEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var lat, lng *float64
	if issue.Coordinates != nil {
		lat = &issue.Coordinates.Latitude
		lng = &issue.Coordinates.Longitude
	}

	const query = `
        UPDATE issues SET title=$1, description=$2, category=$3, location=$4,
            latitude=$5, longitude=$6, status=$7, priority=$8, severity=$9,
            department_id=$10, officer_id=$11, escalation_level=$12,
            jurisdiction_id=$13, resolved_at=$14, updated_at=NOW()
        WHERE id=$15
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Location,
		lat,
		lng,
		issue.Status,
		issue.Priority,
		issue.Severity,
		issue.DepartmentID,
		issue.OfficerID,
		issue.Escalation,
		issue.JurisdictionID,
		issue.ResolvedAt,
		issue.ID,
	).Scan(&issue.UpdatedAt); err != nil {
		return err
	}

	entry.IssueID = issue.ID
	if err := insertTimelineEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *issueRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE tracking_code=$1`
	return r.fetchSingle(ctx, query, code)
}

func (r *issueRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Issue, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	issue, err := scanIssueRow(row)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	base := `SELECT ` + issueColumns + ` FROM issues`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		clauses = append(clauses, fmt.Sprintf("officer_id=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Escalations) > 0 {
		placeholders := make([]string, len(filter.Escalations))
		for i, lvl := range filter.Escalations {
			args = append(args, lvl)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("escalation_level IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) FindNearby(ctx context.Context, point domain.Coordinates, radius float64) ([]domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues
        WHERE latitude IS NOT NULL AND longitude IS NOT NULL
          AND (latitude - $1) * (latitude - $1) + (longitude - $2) * (longitude - $2) <= $3 * $3
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, point.Latitude, point.Longitude, radius)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssueRow(row rowScanner) (*domain.Issue, error) {
	var issue domain.Issue
	var lat, lng *float64
	if err := row.Scan(
		&issue.ID,
		&issue.TrackingCode,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Location,
		&lat,
		&lng,
		&issue.Status,
		&issue.Priority,
		&issue.Severity,
		&issue.ReporterID,
		&issue.DepartmentID,
		&issue.OfficerID,
		&issue.Escalation,
		&issue.JurisdictionID,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		issue.Coordinates = &domain.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	return &issue, nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		issue, err := scanIssueRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	return result, rows.Err()
}
