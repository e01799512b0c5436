package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	created := u.CreatedAt
	if created.IsZero() {
		created = time.Unix(now(), 0).UTC()
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (full_name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.FullName, u.Email, u.PasswordHash, u.Role, created.Unix())
	if err != nil {
		// the NOCASE unique index catches case-variant duplicates too
		if isUniqueViolation(err, "users.email") {
			return 0, apperr.DuplicateEmail("email is already registered")
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, full_name, email, password_hash, role, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	// email column collates NOCASE, so equality here is case-insensitive
	row := r.conn.QueryRow(ctx, `SELECT id, full_name, email, password_hash, role, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var created int64
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}
