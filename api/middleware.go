package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"log/slog"

	goerrors "github.com/go-errors/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/openhire/jobboard/pkg/models"
)

type ctxKey string

const ctxUser ctxKey = "auth_user"

// AuthUser holds the identity claims carried by a verified token. The role
// is whatever the token was issued with; a role change takes effect only
// when the token expires and a new one is issued.
type AuthUser struct {
	ID    int64
	Email string
	Name  string
	Role  string
}

func (u AuthUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// UserFromContext returns the authenticated identity, if any.
func UserFromContext(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(ctxUser).(AuthUser)
	return u, ok
}

// ContextWithUser returns a context carrying the given identity.
func ContextWithUser(ctx context.Context, u AuthUser) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				wrapped := goerrors.Wrap(rec, 2)
				logger.Error("panic",
					slog.Any("err", wrapped),
					slog.String("stack", string(wrapped.Stack())),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// JWTAuthMiddlewareWithSecret rejects requests without a valid bearer token
// and puts the token's identity claims into the request context.
func JWTAuthMiddlewareWithSecret(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromRequest(r, secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// OptionalJWTMiddleware populates the identity context when a valid token
// is present and passes the request through untouched otherwise. Public
// catalog reads use it so an admin's token widens what the same endpoint
// returns.
func OptionalJWTMiddleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := userFromRequest(r, secret); err == nil {
				r = r.WithContext(ContextWithUser(r.Context(), user))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole guards a handler behind an exact role match. A wrong role is
// a 403 regardless of whether the underlying resource exists.
func RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		if user.Role != role {
			writeJSON(w, messageResponse{Message: "forbidden"}, http.StatusForbidden)
			return
		}

		next(w, r)
	}
}

func userFromRequest(r *http.Request, secret string) (AuthUser, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return AuthUser{}, fmt.Errorf("missing Authorization header")
	}

	var tokenString string
	if _, err := fmt.Sscanf(authHeader, "Bearer %s", &tokenString); err != nil || tokenString == "" {
		return AuthUser{}, fmt.Errorf("invalid Authorization header")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return AuthUser{}, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthUser{}, fmt.Errorf("unexpected claims type")
	}

	var user AuthUser
	// handle both string and number encodings of the subject claim
	switch sub := claims["sub"].(type) {
	case string:
		if id, err := strconv.ParseInt(sub, 10, 64); err == nil {
			user.ID = id
		}
	case float64:
		user.ID = int64(sub)
	}
	if user.ID == 0 {
		return AuthUser{}, fmt.Errorf("missing sub claim")
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		user.Name = v
	}
	if v, ok := claims["role"].(string); ok {
		user.Role = v
	}

	return user, nil
}
