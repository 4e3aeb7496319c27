package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/geo"
	"github.com/spec-kit/civic-issue-service/internal/hierarchy"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// allowedTransitions is the issue state graph. A status may only move to one
// of its listed successors; terminal states have none. Reopening is not part
// of the lifecycle.
var allowedTransitions = map[domain.IssueStatus][]domain.IssueStatus{
	domain.IssueStatusSubmitted:  {domain.IssueStatusVerified, domain.IssueStatusInProgress},
	domain.IssueStatusVerified:   {domain.IssueStatusInProgress},
	domain.IssueStatusInProgress: {domain.IssueStatusResolved},
	domain.IssueStatusResolved:   {domain.IssueStatusClosed},
	domain.IssueStatusClosed:     {},
}

// ValidTransition reports whether current may move to next.
func ValidTransition(current, next domain.IssueStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IssueService coordinates the issue lifecycle: creation with duplicate
// detection, status transitions, visibility-scoped reads, and comments.
type IssueService struct {
	issues        repository.IssueRepository
	departments   repository.DepartmentRepository
	jurisdictions repository.JurisdictionRepository
	timeline      repository.TimelineRepository
	dispatcher    events.Dispatcher
	cfg           config.IssueConfig
}

// IssueDependencies bundles repositories for the issue service.
type IssueDependencies struct {
	IssueRepo        repository.IssueRepository
	DepartmentRepo   repository.DepartmentRepository
	JurisdictionRepo repository.JurisdictionRepository
	TimelineRepo     repository.TimelineRepository
	Dispatcher       events.Dispatcher
}

// NewIssueService constructs the service.
func NewIssueService(cfg config.IssueConfig, deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:        deps.IssueRepo,
		departments:   deps.DepartmentRepo,
		jurisdictions: deps.JurisdictionRepo,
		timeline:      deps.TimelineRepo,
		dispatcher:    deps.Dispatcher,
		cfg:           cfg,
	}
}

// IssueCreateInput describes a citizen report.
type IssueCreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Coordinates *domain.Coordinates
	Priority    domain.IssuePriority
	Severity    int
	// ConfirmDuplicates acknowledges the nearby-issue warning and lets the
	// report through even when possible duplicates exist.
	ConfirmDuplicates bool
}

// IssueListFilter describes staff listing filters.
type IssueListFilter struct {
	Statuses     []domain.IssueStatus
	Priorities   []domain.IssuePriority
	Category     *string
	ReporterID   *string
	DepartmentID *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

var validPriorities = map[domain.IssuePriority]struct{}{
	domain.IssuePriorityLow:      {},
	domain.IssuePriorityMedium:   {},
	domain.IssuePriorityHigh:     {},
	domain.IssuePriorityCritical: {},
}

var validStatuses = map[domain.IssueStatus]struct{}{
	domain.IssueStatusSubmitted:  {},
	domain.IssueStatusVerified:   {},
	domain.IssueStatusInProgress: {},
	domain.IssueStatusResolved:   {},
	domain.IssueStatusClosed:     {},
}

// CreateIssue validates and stores a new report. When coordinates are given
// the report is checked against nearby open issues first; unconfirmed
// submissions with likely duplicates are rejected so the citizen can review
// them. Every created issue starts at submitted / L1 with one timeline entry.
func (s *IssueService) CreateIssue(ctx context.Context, principal *domain.Principal, input IssueCreateInput) (*domain.Issue, []domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if title == "" || description == "" || category == "" {
		return nil, nil, apperrors.NewValidationError("title, description and category are required", nil)
	}
	if input.Severity < 0 || input.Severity > 100 {
		return nil, nil, apperrors.NewValidationError("severity must be between 0 and 100", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.IssuePriorityMedium
	}
	if _, ok := validPriorities[priority]; !ok {
		return nil, nil, apperrors.NewValidationError("unrecognized priority", map[string]any{"priority": priority})
	}
	if input.Coordinates != nil && !geo.ValidCoordinates(*input.Coordinates) {
		return nil, nil, apperrors.NewValidationError("coordinates out of range", nil)
	}

	var duplicates []domain.Issue
	if input.Coordinates != nil {
		var err error
		duplicates, err = s.FindNearbyOpen(ctx, *input.Coordinates, s.cfg.DuplicateRadiusDegrees)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		if len(duplicates) > 0 && !input.ConfirmDuplicates {
			codes := make([]string, 0, len(duplicates))
			for _, d := range duplicates {
				codes = append(codes, d.TrackingCode)
			}
			return nil, duplicates, apperrors.NewConflict("similar issues reported nearby; resubmit with confirm_duplicates to proceed",
				map[string]any{"nearby_tracking_codes": codes})
		}
	}

	issue := &domain.Issue{
		Title:       title,
		Description: description,
		Category:    category,
		Location:    strings.TrimSpace(input.Location),
		Coordinates: input.Coordinates,
		Status:      domain.IssueStatusSubmitted,
		Priority:    priority,
		Severity:    input.Severity,
		Escalation:  domain.EscalationWard,
	}
	if principal != nil && principal.SubjectType == domain.SubjectTypeCitizen {
		issue.ReporterID = principal.CitizenID
	}

	if input.Coordinates != nil {
		s.resolveJurisdiction(ctx, issue)
	}

	entry := &domain.TimelineEntry{
		EventType:   domain.TimelineEventCreated,
		Title:       "Issue reported",
		Description: fmt.Sprintf("Reported under category %s", category),
		Actor:       principal.Label(),
	}
	if err := s.issues.Create(ctx, issue, entry); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueReported,
		IssueID: issue.ID,
		Actor:   eventActor(principal),
		Payload: events.IssueReportedPayload{
			TrackingCode:   issue.TrackingCode,
			Category:       issue.Category,
			Priority:       issue.Priority,
			Title:          issue.Title,
			JurisdictionID: issue.JurisdictionID,
			DuplicateCount: len(duplicates),
		},
	})
	return issue, duplicates, nil
}

// resolveJurisdiction attaches the nearest administrative node. A best-effort
// heuristic: lookup failures leave the issue unresolved rather than failing
// the report.
func (s *IssueService) resolveJurisdiction(ctx context.Context, issue *domain.Issue) {
	if s.jurisdictions == nil || issue.Coordinates == nil {
		return
	}
	all, err := s.jurisdictions.ListAll(ctx)
	if err != nil || len(all) == 0 {
		return
	}
	nearest, _ := geo.NearestJurisdiction(*issue.Coordinates, all)
	if nearest != nil {
		issue.JurisdictionID = &nearest.ID
	}
}

// GetIssue fetches one issue subject to the visibility rules: citizens see
// their own reports, bounded staff see issues at or below their escalation
// level, super_admin sees all.
func (s *IssueService) GetIssue(ctx context.Context, principal *domain.Principal, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.checkReadAccess(principal, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// GetTimeline returns the audit trail for an issue under the same
// visibility rules as GetIssue.
func (s *IssueService) GetTimeline(ctx context.Context, principal *domain.Principal, issueID string) ([]domain.TimelineEntry, error) {
	if _, err := s.GetIssue(ctx, principal, issueID); err != nil {
		return nil, err
	}
	entries, err := s.timeline.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListIssues returns issues visible to a staff principal. Bounded principals
// only receive issues at or below their own escalation level.
func (s *IssueService) ListIssues(ctx context.Context, principal *domain.Principal, filter IssueListFilter) ([]domain.Issue, error) {
	if !principal.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	repoFilter := repository.IssueFilter{
		ReporterID:   filter.ReporterID,
		DepartmentID: filter.DepartmentID,
		Category:     filter.Category,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if !principal.IsSuperAdmin() {
		repoFilter.Escalations = visibleLevels(principal.Escalation)
		if len(repoFilter.Escalations) == 0 {
			return []domain.Issue{}, nil
		}
	}
	issues, err := s.issues.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// ListCitizenIssues returns a reporter's own issues.
func (s *IssueService) ListCitizenIssues(ctx context.Context, citizenID string, limit, offset int) ([]domain.Issue, error) {
	issues, err := s.issues.ListWithFilter(ctx, repository.IssueFilter{
		ReporterID: &citizenID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// IssueUpdateInput describes a partial staff update.
type IssueUpdateInput struct {
	Status   *domain.IssueStatus
	Priority *domain.IssuePriority
	Severity *int
}

// UpdateIssue applies a status/priority/severity change. The acting staff
// principal must hold an escalation level at or above the issue's current
// level. Status changes must follow the transition graph; resolving stamps
// ResolvedAt. Exactly one timeline entry is appended.
func (s *IssueService) UpdateIssue(ctx context.Context, principal *domain.Principal, issueID string, input IssueUpdateInput) (*domain.Issue, error) {
	if !principal.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if input.Status == nil && input.Priority == nil && input.Severity == nil {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	if !hierarchy.CanActAtLevel(principal.Role, principal.Escalation, issue.Escalation) {
		return nil, apperrors.NewForbidden("issue is above your escalation level")
	}

	changes := make([]string, 0, 3)
	oldStatus := issue.Status

	if input.Status != nil {
		newStatus := *input.Status
		if _, ok := validStatuses[newStatus]; !ok {
			return nil, apperrors.NewValidationError("unrecognized status", map[string]any{"status": newStatus})
		}
		if newStatus != issue.Status {
			if !ValidTransition(issue.Status, newStatus) {
				return nil, apperrors.NewConflict(
					fmt.Sprintf("cannot move issue from %s to %s", issue.Status, newStatus),
					map[string]any{"current": issue.Status, "requested": newStatus})
			}
			issue.Status = newStatus
			if newStatus == domain.IssueStatusResolved {
				now := time.Now()
				issue.ResolvedAt = &now
			}
			changes = append(changes, fmt.Sprintf("status %s -> %s", oldStatus, newStatus))
		}
	}
	if input.Priority != nil && *input.Priority != issue.Priority {
		if _, ok := validPriorities[*input.Priority]; !ok {
			return nil, apperrors.NewValidationError("unrecognized priority", map[string]any{"priority": *input.Priority})
		}
		changes = append(changes, fmt.Sprintf("priority %s -> %s", issue.Priority, *input.Priority))
		issue.Priority = *input.Priority
	}
	if input.Severity != nil && *input.Severity != issue.Severity {
		if *input.Severity < 0 || *input.Severity > 100 {
			return nil, apperrors.NewValidationError("severity must be between 0 and 100", nil)
		}
		changes = append(changes, fmt.Sprintf("severity %d -> %d", issue.Severity, *input.Severity))
		issue.Severity = *input.Severity
	}
	if len(changes) == 0 {
		return issue, nil
	}

	entry := &domain.TimelineEntry{
		EventType:   domain.TimelineEventStatus,
		Title:       "Issue updated",
		Description: strings.Join(changes, "; "),
		Actor:       principal.Label(),
	}
	if err := s.issues.UpdateWithTimeline(ctx, issue, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	if issue.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventIssueStatusChanged,
			IssueID: issue.ID,
			Actor:   eventActor(principal),
			Payload: events.IssueStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: issue.Status,
			},
		})
	}
	return issue, nil
}

// AddComment appends a comment timeline entry. Citizens may comment on their
// own reports; staff on any issue at or below their level.
func (s *IssueService) AddComment(ctx context.Context, principal *domain.Principal, issueID, body string) (*domain.TimelineEntry, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	issue, err := s.GetIssue(ctx, principal, issueID)
	if err != nil {
		return nil, err
	}

	entry := &domain.TimelineEntry{
		IssueID:     issue.ID,
		EventType:   domain.TimelineEventComment,
		Title:       "Comment",
		Description: body,
		Actor:       principal.Label(),
	}
	if err := s.timeline.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCommented,
		IssueID: issue.ID,
		Actor:   eventActor(principal),
		Payload: events.IssueCommentedPayload{
			EntryID:     entry.ID,
			BodyPreview: stringPreview(body, 120),
		},
	})
	return entry, nil
}

// Nearby returns issues within radius degrees of the point, terminal
// statuses excluded. Public: feeds the pre-submission duplicate warning.
func (s *IssueService) Nearby(ctx context.Context, point domain.Coordinates, radius float64) ([]domain.Issue, error) {
	if !geo.ValidCoordinates(point) {
		return nil, apperrors.NewValidationError("coordinates out of range", nil)
	}
	if radius <= 0 {
		radius = s.cfg.DuplicateRadiusDegrees
	}
	return s.FindNearbyOpen(ctx, point, radius)
}

// FindNearbyOpen queries the proximity index and drops retired issues.
func (s *IssueService) FindNearbyOpen(ctx context.Context, point domain.Coordinates, radius float64) ([]domain.Issue, error) {
	matches, err := s.issues.FindNearby(ctx, point, radius)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	open := make([]domain.Issue, 0, len(matches))
	for _, issue := range matches {
		if issue.Status.IsTerminal() {
			continue
		}
		open = append(open, issue)
	}
	return open, nil
}

func (s *IssueService) checkReadAccess(principal *domain.Principal, issue *domain.Issue) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.IsStaff() {
		if hierarchy.CanActAtLevel(principal.Role, principal.Escalation, issue.Escalation) {
			return nil
		}
		return apperrors.NewForbidden("issue is above your escalation level")
	}
	if principal.CitizenID != nil && issue.ReporterID != nil && *principal.CitizenID == *issue.ReporterID {
		return nil
	}
	return apperrors.NewForbidden("access denied")
}

// visibleLevels lists every escalation level at or below held, in rank order.
func visibleLevels(held domain.EscalationLevel) []domain.EscalationLevel {
	ordered := []domain.EscalationLevel{
		domain.EscalationWard,
		domain.EscalationDistrict,
		domain.EscalationTown,
		domain.EscalationMinistry,
	}
	heldRank := hierarchy.LevelRank(held)
	var result []domain.EscalationLevel
	for _, lvl := range ordered {
		if hierarchy.LevelRank(lvl) <= heldRank {
			result = append(result, lvl)
		}
	}
	return result
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(principal *domain.Principal) events.Actor {
	actor := events.Actor{Label: principal.Label()}
	if principal == nil {
		actor.Type = domain.SubjectTypeCitizen
		return actor
	}
	actor.Type = principal.SubjectType
	actor.CitizenID = principal.CitizenID
	actor.OfficerID = principal.OfficerID
	return actor
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
