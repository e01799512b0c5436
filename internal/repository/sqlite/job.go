package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
)

const jobViewColumns = `j.id, j.title, j.company, j.location, j.description, j.requirements,
	j.job_type, j.category, j.salary_range, j.is_active, j.posted_at, j.deadline, j.posted_by_id,
	COALESCE(u.full_name, 'Admin'),
	(SELECT COUNT(1) FROM applications a WHERE a.job_id = j.id)`

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	posted := j.PostedAt
	if posted.IsZero() {
		posted = time.Unix(now(), 0).UTC()
	}

	var deadline *int64
	if j.Deadline != nil {
		d := j.Deadline.Unix()
		deadline = &d
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO jobs (title, company, location, description, requirements, job_type, category, salary_range, is_active, posted_at, deadline, posted_by_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.Title, j.Company, j.Location, j.Description, j.Requirements,
		j.JobType, j.Category, j.SalaryRange, j.IsActive, posted.Unix(), deadline, j.PostedByID)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id int64) (*models.JobView, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+jobViewColumns+` FROM jobs j LEFT JOIN users u ON u.id = j.posted_by_id WHERE j.id = ?`, id)

	v, err := scanJobView(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("job not found")
		}
		return nil, err
	}

	return v, nil
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, filter models.JobFilter, activeOnly bool) ([]models.JobView, error) {
	query := `SELECT ` + jobViewColumns + ` FROM jobs j LEFT JOIN users u ON u.id = j.posted_by_id WHERE 1=1`
	var args []any

	if activeOnly {
		query += ` AND j.is_active = 1`
	}
	if filter.Search != "" {
		// LIKE is case-insensitive for ASCII in SQLite
		pattern := "%" + filter.Search + "%"
		query += ` AND (j.title LIKE ? OR j.company LIKE ? OR j.description LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Category != "" {
		query += ` AND j.category = ?`
		args = append(args, filter.Category)
	}
	if filter.JobType != "" {
		query += ` AND j.job_type = ?`
		args = append(args, filter.JobType)
	}
	if filter.Location != "" {
		query += ` AND j.location LIKE ?`
		args = append(args, "%"+filter.Location+"%")
	}

	query += ` ORDER BY j.posted_at DESC, j.id DESC`

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JobView
	for rows.Next() {
		v, err := scanJobView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	var deadline *int64
	if j.Deadline != nil {
		d := j.Deadline.Unix()
		deadline = &d
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE jobs SET title = ?, company = ?, location = ?, description = ?, requirements = ?,
		 job_type = ?, category = ?, salary_range = ?, is_active = ?, deadline = ? WHERE id = ?`,
		j.Title, j.Company, j.Location, j.Description, j.Requirements,
		j.JobType, j.Category, j.SalaryRange, j.IsActive, deadline, j.ID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("job not found")
	}

	return nil
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	// applications referencing the job go with it (ON DELETE CASCADE)
	res, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("job not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobView(row rowScanner) (*models.JobView, error) {
	var v models.JobView
	var salary sql.NullString
	var posted int64
	var deadline sql.NullInt64

	if err := row.Scan(&v.ID, &v.Title, &v.Company, &v.Location, &v.Description, &v.Requirements,
		&v.JobType, &v.Category, &salary, &v.IsActive, &posted, &deadline, &v.PostedByID,
		&v.PostedBy, &v.ApplicationCount); err != nil {
		return nil, err
	}

	if salary.Valid {
		v.SalaryRange = &salary.String
	}
	v.PostedAt = time.Unix(posted, 0).UTC()
	if deadline.Valid {
		d := time.Unix(deadline.Int64, 0).UTC()
		v.Deadline = &d
	}

	return &v, nil
}
