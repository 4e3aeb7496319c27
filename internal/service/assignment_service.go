package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/hierarchy"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// AssignmentService routes issues to departments and officers and advances
// them through the escalation hierarchy.
type AssignmentService struct {
	issues      repository.IssueRepository
	departments repository.DepartmentRepository
	officers    repository.OfficerRepository
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	IssueRepo      repository.IssueRepository
	DepartmentRepo repository.DepartmentRepository
	OfficerRepo    repository.OfficerRepository
	Dispatcher     events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		issues:      deps.IssueRepo,
		departments: deps.DepartmentRepo,
		officers:    deps.OfficerRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// AssignInput describes an assignment request. Omitted escalation level
// defaults to the issue's current level.
type AssignInput struct {
	DepartmentID *string
	OfficerID    *string
	Escalation   *domain.EscalationLevel
}

// Assign routes the issue to a department and/or officer at the target
// escalation level. Unless the principal is super_admin, the target level
// must not exceed the principal's own. Assignment implies work has begun:
// the issue is forced to in_progress. Retired issues cannot be reassigned.
func (s *AssignmentService) Assign(ctx context.Context, principal *domain.Principal, issueID string, input AssignInput) (*domain.Issue, error) {
	if !principal.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status.IsTerminal() {
		return nil, apperrors.NewConflict("cannot reassign a retired issue",
			map[string]any{"status": issue.Status})
	}

	target := issue.Escalation
	if input.Escalation != nil {
		target = *input.Escalation
	}
	if !hierarchy.ValidLevel(target) {
		return nil, apperrors.NewValidationError("unrecognized escalation level", map[string]any{"escalation_level": target})
	}
	if !hierarchy.CanActAtLevel(principal.Role, principal.Escalation, target) {
		return nil, apperrors.NewForbidden("target escalation level exceeds your authority")
	}

	var dept *domain.Department
	if input.DepartmentID != nil {
		dept, err = s.departments.GetByID(ctx, *input.DepartmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("department", map[string]any{"department_id": *input.DepartmentID})
			}
			return nil, apperrors.MapError(err)
		}
		if !dept.IsActive {
			return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
		}
		issue.DepartmentID = &dept.ID
	}
	if input.OfficerID != nil {
		officer, err := s.officers.GetByID(ctx, *input.OfficerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("officer", map[string]any{"officer_id": *input.OfficerID})
			}
			return nil, apperrors.MapError(err)
		}
		if !officer.Active {
			return nil, apperrors.NewConflict("officer inactive", map[string]any{"officer_id": officer.ID})
		}
		if issue.DepartmentID != nil && officer.DepartmentID != nil && *officer.DepartmentID != *issue.DepartmentID {
			return nil, apperrors.NewConflict("officer outside target department",
				map[string]any{"officer_id": officer.ID})
		}
		issue.OfficerID = &officer.ID
		if issue.DepartmentID == nil {
			issue.DepartmentID = officer.DepartmentID
		}
	}

	issue.Escalation = target
	issue.Status = domain.IssueStatusInProgress

	entry := &domain.TimelineEntry{
		EventType:   domain.TimelineEventAssigned,
		Title:       "Issue assigned",
		Description: assignmentSummary(issue, dept),
		Actor:       principal.Label(),
	}
	if err := s.issues.UpdateWithTimeline(ctx, issue, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, principal, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issue.ID,
		Payload: events.IssueAssignedPayload{
			DepartmentID: issue.DepartmentID,
			OfficerID:    issue.OfficerID,
			Escalation:   issue.Escalation,
		},
	})
	return issue, nil
}

// Escalate advances the issue exactly one level up the fixed order L1..L4.
// Issues already at the top level conflict; the same authority rule as
// manual assignment applies to the new level.
func (s *AssignmentService) Escalate(ctx context.Context, principal *domain.Principal, issueID string) (*domain.Issue, error) {
	if !principal.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status.IsTerminal() {
		return nil, apperrors.NewConflict("cannot escalate a retired issue",
			map[string]any{"status": issue.Status})
	}

	next, err := hierarchy.NextLevel(issue.Escalation)
	if err != nil {
		return nil, apperrors.NewConflict("maximum escalation level",
			map[string]any{"escalation_level": issue.Escalation})
	}
	if !hierarchy.CanActAtLevel(principal.Role, principal.Escalation, next) {
		return nil, apperrors.NewForbidden("target escalation level exceeds your authority")
	}

	previous := issue.Escalation
	issue.Escalation = next
	if issue.Status == domain.IssueStatusSubmitted || issue.Status == domain.IssueStatusVerified {
		issue.Status = domain.IssueStatusInProgress
	}

	entry := &domain.TimelineEntry{
		EventType:   domain.TimelineEventEscalated,
		Title:       "Issue escalated",
		Description: fmt.Sprintf("Escalated from %s to %s", previous, next),
		Actor:       principal.Label(),
	}
	if err := s.issues.UpdateWithTimeline(ctx, issue, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, principal, events.Event{
		Type:    events.EventIssueEscalated,
		IssueID: issue.ID,
		Payload: events.IssueEscalatedPayload{
			OldLevel: previous,
			NewLevel: next,
		},
	})
	return issue, nil
}

func (s *AssignmentService) getIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": issueID})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

func assignmentSummary(issue *domain.Issue, dept *domain.Department) string {
	deptName := "unchanged department"
	if dept != nil {
		deptName = dept.Name
	}
	return fmt.Sprintf("Assigned to %s at level %s", deptName, issue.Escalation)
}

func (s *AssignmentService) publishEvent(ctx context.Context, principal *domain.Principal, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Actor = eventActor(principal)
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
