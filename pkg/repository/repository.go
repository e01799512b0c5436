package repository

import (
	"context"

	"github.com/openhire/jobboard/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	// CreateUser inserts a new user and returns its id. A case-insensitive
	// email collision yields a DuplicateEmail domain error.
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// GetUserByEmail matches case-insensitively. Returns (nil, nil) when no
	// user holds the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	// GetJob returns the job joined with poster name and application count,
	// or a NotFound domain error.
	GetJob(ctx context.Context, id int64) (*models.JobView, error)
	// ListJobs returns jobs matching the filter, newest first. When
	// activeOnly is set, inactive postings are excluded.
	ListJobs(ctx context.Context, filter models.JobFilter, activeOnly bool) ([]models.JobView, error)
	// UpdateJob replaces all mutable fields of the job, including IsActive.
	UpdateJob(ctx context.Context, j *models.Job) error
	// DeleteJob removes the job; the schema cascades removal of its
	// applications.
	DeleteJob(ctx context.Context, id int64) error
}

type ApplicationRepo interface {
	// CreateApplication inserts a new application. A (job, applicant) pair
	// that already exists yields a DuplicateApplication domain error; the
	// unique index makes this hold under concurrent submissions.
	CreateApplication(ctx context.Context, a *models.Application) (int64, error)
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID int64) ([]models.ApplicationView, error)
	ListByJob(ctx context.Context, jobID int64) ([]models.ApplicationView, error)
	ListAll(ctx context.Context) ([]models.ApplicationView, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
