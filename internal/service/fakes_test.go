package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/geo"
	"github.com/spec-kit/civic-issue-service/internal/repository"
)

func testIssueConfig() config.IssueConfig {
	return config.IssueConfig{
		TrackingPrefix:         "TAR",
		DuplicateRadiusDegrees: 0.01,
		DailyReportLimit:       10,
	}
}

// fakeStore backs the in-memory repository fakes. Issue mutations and their
// timeline entries land together, mirroring the transactional contract of
// the real repository.
type fakeStore struct {
	issues        map[string]*domain.Issue
	entries       []domain.TimelineEntry
	departments   map[string]*domain.Department
	officers      map[string]*domain.Officer
	citizens      map[string]*domain.Citizen
	jurisdictions []domain.Jurisdiction
	seq           int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		issues:      make(map[string]*domain.Issue),
		departments: make(map[string]*domain.Department),
		officers:    make(map[string]*domain.Officer),
		citizens:    make(map[string]*domain.Citizen),
	}
}

func (s *fakeStore) appendEntry(entry *domain.TimelineEntry) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, *entry)
}

func (s *fakeStore) entriesFor(issueID string) []domain.TimelineEntry {
	var result []domain.TimelineEntry
	for _, e := range s.entries {
		if e.IssueID == issueID {
			result = append(result, e)
		}
	}
	return result
}

type fakeIssueRepo struct{ s *fakeStore }

func (r *fakeIssueRepo) Create(_ context.Context, issue *domain.Issue, entry *domain.TimelineEntry) error {
	r.s.seq++
	issue.ID = uuid.NewString()
	issue.TrackingCode = fmt.Sprintf("TAR-%d-%04d", time.Now().Year(), r.s.seq)
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	stored := *issue
	r.s.issues[issue.ID] = &stored
	entry.IssueID = issue.ID
	r.s.appendEntry(entry)
	return nil
}

func (r *fakeIssueRepo) UpdateWithTimeline(_ context.Context, issue *domain.Issue, entry *domain.TimelineEntry) error {
	if _, ok := r.s.issues[issue.ID]; !ok {
		return pgx.ErrNoRows
	}
	issue.UpdatedAt = time.Now()
	stored := *issue
	r.s.issues[issue.ID] = &stored
	entry.IssueID = issue.ID
	r.s.appendEntry(entry)
	return nil
}

func (r *fakeIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	stored, ok := r.s.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeIssueRepo) GetByTrackingCode(_ context.Context, code string) (*domain.Issue, error) {
	for _, issue := range r.s.issues {
		if issue.TrackingCode == code {
			copied := *issue
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeIssueRepo) ListWithFilter(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, error) {
	var result []domain.Issue
	for _, issue := range r.s.issues {
		if filter.ReporterID != nil && (issue.ReporterID == nil || *issue.ReporterID != *filter.ReporterID) {
			continue
		}
		if filter.DepartmentID != nil && (issue.DepartmentID == nil || *issue.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Category != nil && issue.Category != *filter.Category {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, issue.Status) {
			continue
		}
		if len(filter.Escalations) > 0 && !containsLevel(filter.Escalations, issue.Escalation) {
			continue
		}
		result = append(result, *issue)
	}
	return result, nil
}

func (r *fakeIssueRepo) FindNearby(_ context.Context, point domain.Coordinates, radius float64) ([]domain.Issue, error) {
	var result []domain.Issue
	for _, issue := range r.s.issues {
		if issue.Coordinates == nil {
			continue
		}
		if geo.WithinRadius(point, *issue.Coordinates, radius) {
			result = append(result, *issue)
		}
	}
	return result, nil
}

func containsStatus(list []domain.IssueStatus, s domain.IssueStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsLevel(list []domain.EscalationLevel, l domain.EscalationLevel) bool {
	for _, v := range list {
		if v == l {
			return true
		}
	}
	return false
}

type fakeTimelineRepo struct{ s *fakeStore }

func (r *fakeTimelineRepo) Create(_ context.Context, entry *domain.TimelineEntry) error {
	r.s.appendEntry(entry)
	return nil
}

func (r *fakeTimelineRepo) ListByIssue(_ context.Context, issueID string) ([]domain.TimelineEntry, error) {
	return r.s.entriesFor(issueID), nil
}

type fakeDepartmentRepo struct{ s *fakeStore }

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	dept.ID = uuid.NewString()
	stored := *dept
	r.s.departments[dept.ID] = &stored
	return nil
}

func (r *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := r.s.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *dept
	r.s.departments[dept.ID] = &stored
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := r.s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *dept
	return &copied, nil
}

func (r *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var result []domain.Department
	for _, d := range r.s.departments {
		if d.IsActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (r *fakeDepartmentRepo) FindByCategory(_ context.Context, category string) ([]domain.Department, error) {
	var result []domain.Department
	for _, d := range r.s.departments {
		if d.IsActive && d.Handles(category) {
			result = append(result, *d)
		}
	}
	return result, nil
}

type fakeOfficerRepo struct{ s *fakeStore }

func (r *fakeOfficerRepo) Create(_ context.Context, officer *domain.Officer) error {
	officer.ID = uuid.NewString()
	officer.CreatedAt = time.Now()
	officer.UpdatedAt = officer.CreatedAt
	stored := *officer
	r.s.officers[officer.ID] = &stored
	return nil
}

func (r *fakeOfficerRepo) Update(_ context.Context, officer *domain.Officer) error {
	if _, ok := r.s.officers[officer.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *officer
	r.s.officers[officer.ID] = &stored
	return nil
}

func (r *fakeOfficerRepo) GetByID(_ context.Context, id string) (*domain.Officer, error) {
	officer, ok := r.s.officers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *officer
	return &copied, nil
}

func (r *fakeOfficerRepo) GetByEmail(_ context.Context, email string) (*domain.Officer, error) {
	for _, officer := range r.s.officers {
		if officer.Email == email {
			copied := *officer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOfficerRepo) List(_ context.Context, filter repository.OfficerFilter) ([]domain.Officer, error) {
	var result []domain.Officer
	for _, officer := range r.s.officers {
		if filter.DepartmentID != nil && (officer.DepartmentID == nil || *officer.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Role != nil && officer.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && officer.Active != *filter.Active {
			continue
		}
		result = append(result, *officer)
	}
	return result, nil
}

type fakeCitizenRepo struct{ s *fakeStore }

func (r *fakeCitizenRepo) Create(_ context.Context, citizen *domain.Citizen) error {
	citizen.ID = uuid.NewString()
	citizen.CreatedAt = time.Now()
	citizen.UpdatedAt = citizen.CreatedAt
	stored := *citizen
	r.s.citizens[citizen.ID] = &stored
	return nil
}

func (r *fakeCitizenRepo) Update(_ context.Context, citizen *domain.Citizen) error {
	if _, ok := r.s.citizens[citizen.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *citizen
	r.s.citizens[citizen.ID] = &stored
	return nil
}

func (r *fakeCitizenRepo) GetByID(_ context.Context, id string) (*domain.Citizen, error) {
	citizen, ok := r.s.citizens[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *citizen
	return &copied, nil
}

func (r *fakeCitizenRepo) GetByEmail(_ context.Context, email string) (*domain.Citizen, error) {
	for _, citizen := range r.s.citizens {
		if citizen.Email == email {
			copied := *citizen
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeJurisdictionRepo struct{ s *fakeStore }

func (r *fakeJurisdictionRepo) GetByID(_ context.Context, id string) (*domain.Jurisdiction, error) {
	for i := range r.s.jurisdictions {
		if r.s.jurisdictions[i].ID == id {
			copied := r.s.jurisdictions[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeJurisdictionRepo) ListAll(_ context.Context) ([]domain.Jurisdiction, error) {
	return append([]domain.Jurisdiction{}, r.s.jurisdictions...), nil
}

// staffPrincipal builds a staff principal for tests.
func staffPrincipal(role domain.StaffRole, level domain.EscalationLevel) *domain.Principal {
	id := uuid.NewString()
	return &domain.Principal{
		SubjectType: domain.SubjectTypeStaff,
		OfficerID:   &id,
		Name:        "test officer",
		Role:        role,
		Escalation:  level,
	}
}

func citizenPrincipal(id string) *domain.Principal {
	return &domain.Principal{
		SubjectType: domain.SubjectTypeCitizen,
		CitizenID:   &id,
		Name:        "test citizen",
	}
}
