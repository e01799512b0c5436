package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

// Roles an identity can hold. Assigned at creation and never changed
// afterwards; admins exist only through first-run seeding.
const (
	RoleApplicant = "Applicant"
	RoleAdmin     = "Admin"
)

// Application statuses. Pending is the initial value; an admin may move an
// application to any of the four values in any order.
const (
	StatusPending  = "Pending"
	StatusReviewed = "Reviewed"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is one of the four enumerated statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"fullName" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	PasswordHash string    `json:"-" db:"password_hash"`
}

type Job struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Company      string     `json:"company" db:"company"`
	Location     string     `json:"location" db:"location"`
	Description  string     `json:"description" db:"description"`
	Requirements string     `json:"requirements" db:"requirements"`
	JobType      string     `json:"jobType" db:"job_type"`
	Category     string     `json:"category" db:"category"`
	SalaryRange  *string    `json:"salaryRange,omitempty" db:"salary_range"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	PostedAt     time.Time  `json:"postedAt" db:"posted_at"`
	Deadline     *time.Time `json:"deadline,omitempty" db:"deadline"`
	PostedByID   int64      `json:"postedById" db:"posted_by_id"`
}

// JobView is a Job joined with the poster's display name and the number of
// applications it has received. Every catalog read returns this shape.
type JobView struct {
	Job
	PostedBy         string `json:"postedBy"`
	ApplicationCount int    `json:"applicationCount"`
}

type Application struct {
	ID          int64     `json:"id" db:"id"`
	JobID       int64     `json:"jobId" db:"job_id"`
	ApplicantID int64     `json:"applicantId" db:"applicant_id"`
	CoverLetter string    `json:"coverLetter" db:"cover_letter"`
	ResumeURL   *string   `json:"resumeUrl,omitempty" db:"resume_url"`
	Status      string    `json:"status" db:"status"`
	AppliedAt   time.Time `json:"appliedAt" db:"applied_at"`
}

// ApplicationView is an Application joined with job and applicant display
// fields for listing endpoints.
type ApplicationView struct {
	ID             int64     `json:"id"`
	JobID          int64     `json:"jobId"`
	JobTitle       string    `json:"jobTitle"`
	Company        string    `json:"company"`
	ApplicantName  string    `json:"applicantName"`
	ApplicantEmail string    `json:"applicantEmail"`
	CoverLetter    string    `json:"coverLetter"`
	ResumeURL      *string   `json:"resumeUrl,omitempty"`
	Status         string    `json:"status"`
	AppliedAt      time.Time `json:"appliedAt"`
}

// JobFilter narrows catalog listings. Zero values mean "no filter".
type JobFilter struct {
	Search   string
	Category string
	JobType  string
	Location string
}
