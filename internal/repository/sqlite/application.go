package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
)

const applicationViewQuery = `SELECT a.id, a.job_id, j.title, j.company, u.full_name, u.email,
	a.cover_letter, a.resume_url, a.status, a.applied_at
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.applicant_id`

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}

	applied := a.AppliedAt
	if applied.IsZero() {
		applied = time.Unix(now(), 0).UTC()
	}
	status := a.Status
	if status == "" {
		status = models.StatusPending
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO applications (job_id, applicant_id, cover_letter, resume_url, status, applied_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.JobID, a.ApplicantID, a.CoverLetter, a.ResumeURL, status, applied.Unix())
	if err != nil {
		// the unique index is the backstop for concurrent duplicate
		// submissions; a lost race lands here, never as a second row
		if isUniqueViolation(err, "applications.job_id") {
			return 0, apperr.DuplicateApplication("you have already applied for this job")
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, job_id, applicant_id, cover_letter, resume_url, status, applied_at FROM applications WHERE id = ?`, id)

	var a models.Application
	var resume sql.NullString
	var applied int64
	if err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.CoverLetter, &resume, &a.Status, &applied); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("application not found")
		}
		return nil, err
	}

	if resume.Valid {
		a.ResumeURL = &resume.String
	}
	a.AppliedAt = time.Unix(applied, 0).UTC()
	return &a, nil
}

func (r *SQLiteRepo) ListByApplicant(ctx context.Context, applicantID int64) ([]models.ApplicationView, error) {
	return r.listViews(ctx, applicationViewQuery+` WHERE a.applicant_id = ? ORDER BY a.applied_at DESC, a.id DESC`, applicantID)
}

func (r *SQLiteRepo) ListByJob(ctx context.Context, jobID int64) ([]models.ApplicationView, error) {
	return r.listViews(ctx, applicationViewQuery+` WHERE a.job_id = ? ORDER BY a.applied_at DESC, a.id DESC`, jobID)
}

func (r *SQLiteRepo) ListAll(ctx context.Context) ([]models.ApplicationView, error) {
	return r.listViews(ctx, applicationViewQuery+` ORDER BY a.applied_at DESC, a.id DESC`)
}

func (r *SQLiteRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidStatus(status) {
		return apperr.Validation("invalid status value")
	}

	res, err := r.conn.Exec(ctx, `UPDATE applications SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("application not found")
	}

	return nil
}

func (r *SQLiteRepo) listViews(ctx context.Context, query string, args ...any) ([]models.ApplicationView, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ApplicationView
	for rows.Next() {
		var v models.ApplicationView
		var resume sql.NullString
		var applied int64
		if err := rows.Scan(&v.ID, &v.JobID, &v.JobTitle, &v.Company, &v.ApplicantName, &v.ApplicantEmail,
			&v.CoverLetter, &resume, &v.Status, &applied); err != nil {
			return nil, err
		}
		if resume.Valid {
			v.ResumeURL = &resume.String
		}
		v.AppliedAt = time.Unix(applied, 0).UTC()
		out = append(out, v)
	}

	return out, rows.Err()
}
