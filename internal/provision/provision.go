// Package provision creates the initial admin account at first run. Admin
// identities exist only through this path; there is no admin-registration
// endpoint.
package provision

import (
	"context"
	"fmt"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/openhire/jobboard/internal/config"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

// EnsureAdmin creates the configured admin user if no user holds its email
// yet. It is idempotent and safe to run at every startup. An empty seed
// (no email or password) is a no-op so development setups can run without
// an admin.
func EnsureAdmin(ctx context.Context, users repository.UserRepo, seed config.AdminSeed, logger *slog.Logger) error {
	if seed.Email == "" || seed.Password == "" {
		if logger != nil {
			logger.Warn("admin seed not configured, skipping admin provisioning")
		}
		return nil
	}

	existing, err := users.GetUserByEmail(ctx, seed.Email)
	if err != nil {
		return fmt.Errorf("look up admin seed email: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin seed password: %w", err)
	}

	name := seed.FullName
	if name == "" {
		name = "Admin"
	}

	id, err := users.CreateUser(ctx, &models.User{
		FullName:     name,
		Email:        seed.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	if logger != nil {
		logger.Info("seeded initial admin user", slog.Int64("id", id), slog.String("email", seed.Email))
	}

	return nil
}
