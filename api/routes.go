package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openhire/jobboard/internal/config"
	"github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/internal/repository/sqlite"
	"github.com/openhire/jobboard/pkg/models"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	jobsHandler := NewJobsHandler(repo)
	appsHandler := NewApplicationsHandler(repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Catalog reads are public but honor a token when present, so an admin
	// sees inactive postings through the same endpoints.
	optionalAuth := OptionalJWTMiddleware(cfg.JWTSecret)
	r.Handle("/api/jobs", optionalAuth(http.HandlerFunc(jobsHandler.List))).Methods("GET")
	r.Handle("/api/jobs/{id:[0-9]+}", optionalAuth(http.HandlerFunc(jobsHandler.Get))).Methods("GET")

	// Protected routes
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Catalog writes (admin)
	authed.HandleFunc("/jobs", RequireRole(models.RoleAdmin, jobsHandler.Create)).Methods("POST")
	authed.HandleFunc("/jobs/admin/all", RequireRole(models.RoleAdmin, jobsHandler.ListAllAdmin)).Methods("GET")
	authed.HandleFunc("/jobs/{id:[0-9]+}", RequireRole(models.RoleAdmin, jobsHandler.Update)).Methods("PUT")
	authed.HandleFunc("/jobs/{id:[0-9]+}", RequireRole(models.RoleAdmin, jobsHandler.Delete)).Methods("DELETE")

	// Application ledger
	authed.HandleFunc("/applications/job/{jobId:[0-9]+}", RequireRole(models.RoleApplicant, appsHandler.Apply)).Methods("POST")
	authed.HandleFunc("/applications/my", RequireRole(models.RoleApplicant, appsHandler.ListMine)).Methods("GET")
	authed.HandleFunc("/applications/admin/all", RequireRole(models.RoleAdmin, appsHandler.ListAllAdmin)).Methods("GET")
	authed.HandleFunc("/applications/job/{jobId:[0-9]+}", RequireRole(models.RoleAdmin, appsHandler.ListForJob)).Methods("GET")
	authed.HandleFunc("/applications/{id:[0-9]+}/status", RequireRole(models.RoleAdmin, appsHandler.UpdateStatus)).Methods("PUT")

	return r
}
