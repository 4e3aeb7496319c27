package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// TimelineRepository stores append-only audit entries. Issue mutations write
// their entry through the issue repository's transaction; the standalone
// Create exists for events that do not touch the issue row, such as comments.
type TimelineRepository interface {
	Create(ctx context.Context, entry *domain.TimelineEntry) error
	ListByIssue(ctx context.Context, issueID string) ([]domain.TimelineEntry, error)
}

type timelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository builds the repository.
func NewTimelineRepository(pool *pgxpool.Pool) TimelineRepository {
	return &timelineRepository{pool: pool}
}

func (r *timelineRepository) Create(ctx context.Context, entry *domain.TimelineEntry) error {
	return insertTimelineEntry(ctx, r.pool, entry)
}

// timelineExecutor is satisfied by both pgxpool.Pool and pgx.Tx, letting the
// issue repository append entries inside its transactions.
type timelineExecutor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertTimelineEntry(ctx context.Context, db timelineExecutor, entry *domain.TimelineEntry) error {
	const query = `
        INSERT INTO issue_timeline (issue_id, event_type, title, description, actor)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return db.QueryRow(ctx, query,
		entry.IssueID,
		entry.EventType,
		entry.Title,
		entry.Description,
		entry.Actor,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *timelineRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.TimelineEntry, error) {
	const query = `
        SELECT id, issue_id, event_type, title, description, actor, created_at
        FROM issue_timeline WHERE issue_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimelineEntry
	for rows.Next() {
		var entry domain.TimelineEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.IssueID,
			&entry.EventType,
			&entry.Title,
			&entry.Description,
			&entry.Actor,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
