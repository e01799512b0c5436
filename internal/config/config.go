package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Admin         AdminSeed     `yaml:"admin"`
}

// AdminSeed describes the initial admin account provisioned at first run.
// There is no admin-registration endpoint; this seed is the only way an
// Admin identity comes into existence.
type AdminSeed struct {
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func LoadConfig(path string) (*Config, error) {
	// a missing .env file is fine; env vars may come from the environment
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getEnv("JOBBOARD_ADDR", ":8080"),
		JWTSecret:     getEnv("JOBBOARD_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("JOBBOARD_DATABASE_PATH", "jobboard.db"),
		TokenDuration: 8 * time.Hour,
		Admin: AdminSeed{
			FullName: getEnv("JOBBOARD_ADMIN_NAME", "Admin"),
			Email:    getEnv("JOBBOARD_ADMIN_EMAIL", ""),
			Password: getEnv("JOBBOARD_ADMIN_PASSWORD", ""),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must never reach production. The
// default JWT secret is only acceptable when JOBBOARD_ENV is development.
func (c *Config) Validate() error {
	if c.JWTSecret == "" || c.JWTSecret == "supersecretkey" {
		if getEnv("JOBBOARD_ENV", "") != "development" {
			return fmt.Errorf("jwt_secret must be set to a non-default value outside development")
		}
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
