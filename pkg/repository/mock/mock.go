package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

// Ensure the mocks satisfy the public interfaces.
var _ repository.UserRepo = (*UserRepoMock)(nil)
var _ repository.JobRepo = (*JobRepoMock)(nil)
var _ repository.ApplicationRepo = (*ApplicationRepoMock)(nil)

// Test helpers and mocks
type Mocks struct {
	Users *UserRepoMock
	Jobs  *JobRepoMock
	Apps  *ApplicationRepoMock
}

func NewMocks() *Mocks {
	return &Mocks{
		Users: &UserRepoMock{},
		Jobs:  &JobRepoMock{ByID: map[int64]*models.JobView{}},
		Apps:  &ApplicationRepoMock{Statuses: map[int64]string{}},
	}
}

type UserRepoMock struct {
	Stored    *models.User
	CreateErr error
}

func (m *UserRepoMock) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	if m.Stored != nil && strings.EqualFold(m.Stored.Email, u.Email) {
		return 0, apperr.DuplicateEmail("email is already registered")
	}
	stored := *u
	stored.ID = 1
	m.Stored = &stored
	return 1, nil
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.Stored != nil && strings.EqualFold(m.Stored.Email, email) {
		return m.Stored, nil
	}
	return nil, nil
}

type JobRepoMock struct {
	ByID      map[int64]*models.JobView
	CreateErr error
	nextID    int64
}

func (m *JobRepoMock) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	v := &models.JobView{Job: *j}
	v.ID = m.nextID
	m.ByID[v.ID] = v
	return v.ID, nil
}

func (m *JobRepoMock) GetJob(ctx context.Context, id int64) (*models.JobView, error) {
	if v, ok := m.ByID[id]; ok {
		return v, nil
	}
	return nil, apperr.NotFound("job not found")
}

func (m *JobRepoMock) ListJobs(ctx context.Context, filter models.JobFilter, activeOnly bool) ([]models.JobView, error) {
	var out []models.JobView
	for _, v := range m.ByID {
		if activeOnly && !v.IsActive {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(v.Title), s) &&
				!strings.Contains(strings.ToLower(v.Company), s) &&
				!strings.Contains(strings.ToLower(v.Description), s) {
				continue
			}
		}
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		if filter.JobType != "" && v.JobType != filter.JobType {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(v.Location), strings.ToLower(filter.Location)) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].PostedAt.After(out[j].PostedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *JobRepoMock) UpdateJob(ctx context.Context, j *models.Job) error {
	v, ok := m.ByID[j.ID]
	if !ok {
		return apperr.NotFound("job not found")
	}
	v.Job = *j
	return nil
}

func (m *JobRepoMock) DeleteJob(ctx context.Context, id int64) error {
	if _, ok := m.ByID[id]; !ok {
		return apperr.NotFound("job not found")
	}
	delete(m.ByID, id)
	return nil
}

type ApplicationRepoMock struct {
	Created   []models.Application
	Views     []models.ApplicationView
	Statuses  map[int64]string
	CreateErr error
	nextID    int64
}

func (m *ApplicationRepoMock) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, prev := range m.Created {
		if prev.JobID == a.JobID && prev.ApplicantID == a.ApplicantID {
			return 0, apperr.DuplicateApplication("you have already applied for this job")
		}
	}
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	m.Created = append(m.Created, stored)
	m.Statuses[stored.ID] = stored.Status
	return stored.ID, nil
}

func (m *ApplicationRepoMock) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	for _, a := range m.Created {
		if a.ID == id {
			found := a
			found.Status = m.Statuses[id]
			return &found, nil
		}
	}
	return nil, apperr.NotFound("application not found")
}

func (m *ApplicationRepoMock) ListByApplicant(ctx context.Context, applicantID int64) ([]models.ApplicationView, error) {
	return m.Views, nil
}

func (m *ApplicationRepoMock) ListByJob(ctx context.Context, jobID int64) ([]models.ApplicationView, error) {
	return m.Views, nil
}

func (m *ApplicationRepoMock) ListAll(ctx context.Context) ([]models.ApplicationView, error) {
	return m.Views, nil
}

func (m *ApplicationRepoMock) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidStatus(status) {
		return apperr.Validation("invalid status value")
	}
	if _, ok := m.Statuses[id]; !ok {
		return apperr.NotFound(fmt.Sprintf("application %d not found", id))
	}
	m.Statuses[id] = status
	return nil
}
