package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

const minPasswordLength = 6

type AuthHandler struct {
	userRepo      repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Role       string    `json:"role"`
	Expiration time.Time `json:"expiration"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request"))
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, apperr.Validation("missing fields"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, apperr.Validation("invalid email address"))
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, apperr.Validation("password must be at least 6 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, apperr.Internal("error hashing password", err))
		return
	}

	// registration always produces an applicant; admins come from seeding
	user := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleApplicant,
	}

	if _, err := h.userRepo.CreateUser(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Registration successful. Please log in."}, http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apperr.Validation("missing fields"))
		return
	}

	user, err := h.userRepo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, apperr.Internal("error looking up user", err))
		return
	}
	// same message for unknown email and wrong password
	if user == nil {
		writeError(w, apperr.InvalidCredentials("invalid email or password"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, apperr.InvalidCredentials("invalid email or password"))
		return
	}

	expiration := time.Now().Add(h.tokenDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"name":  user.FullName,
		"role":  user.Role,
		"jti":   uuid.NewString(),
		"exp":   expiration.Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, apperr.Internal("error signing token", err))
		return
	}

	writeJSON(w, loginResponse{
		Token:      tokenStr,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role,
		Expiration: expiration.UTC(),
	}, http.StatusOK)
}
