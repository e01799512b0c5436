package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/openhire/jobboard/api"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository/mock"
)

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 8 * time.Hour

	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Register_InvalidRequest",
			path:       "/register",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Name",
			path:       "/register",
			body:       map[string]string{"email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MalformedEmail",
			path:       "/register",
			body:       map[string]string{"fullName": "Alice", "email": "not-an-email", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_ShortPassword",
			path:       "/register",
			body:       map[string]string{"fullName": "Alice", "email": "alice@example.com", "password": "pw"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_Success",
			path:       "/register",
			body:       map[string]string{"fullName": "Alice", "email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("Registration successful")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name: "Register_DuplicateEmail",
			path: "/register",
			body: map[string]string{"fullName": "Dup", "email": "dup@example.com", "password": "s3cret"},
			prepare: func(m *mock.Mocks) {
				m.Users.Stored = &models.User{ID: 1, Email: "dup@example.com"}
			},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("already registered")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name: "Register_DuplicateEmail_CaseInsensitive",
			path: "/register",
			body: map[string]string{"fullName": "Dup", "email": "DUP@Example.COM", "password": "s3cret"},
			prepare: func(m *mock.Mocks) {
				m.Users.Stored = &models.User{ID: 1, Email: "dup@example.com"}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Login_InvalidRequest",
			path:       "/login",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Login_UnknownEmail",
			path:       "/login",
			body:       map[string]string{"email": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("invalid email or password")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name: "Login_WrongPassword",
			path: "/login",
			body: map[string]string{"email": "c@example.com", "password": "wrongpw"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("rightpw"), bcrypt.DefaultCost)
				m.Users.Stored = &models.User{ID: 3, Email: "c@example.com", PasswordHash: string(hash)}
			},
			wantStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, b []byte) {
				// same message as unknown email, no user enumeration
				if !bytes.Contains(b, []byte("invalid email or password")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name: "Login_Success",
			path: "/login",
			body: map[string]string{"email": "bob@example.com", "password": "hunter22"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
				m.Users.Stored = &models.User{ID: 2, FullName: "Bob", Email: "bob@example.com", Role: models.RoleApplicant, PasswordHash: string(hash)}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var resp struct {
					Token    string `json:"token"`
					Email    string `json:"email"`
					FullName string `json:"fullName"`
					Role     string `json:"role"`
				}
				if err := json.Unmarshal(b, &resp); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if resp.Token == "" {
					t.Fatalf("empty token")
				}
				if resp.Email != "bob@example.com" || resp.FullName != "Bob" || resp.Role != models.RoleApplicant {
					t.Fatalf("unexpected response: %+v", resp)
				}

				tok, err := jwt.Parse(resp.Token, func(token *jwt.Token) (any, error) { return []byte("testsecret"), nil })
				if err != nil || !tok.Valid {
					t.Fatalf("invalid token: %v", err)
				}
				claims, ok := tok.Claims.(jwt.MapClaims)
				if !ok {
					t.Fatalf("unexpected claims type")
				}
				if claims["sub"] != "2" {
					t.Fatalf("unexpected sub claim: %v", claims["sub"])
				}
				if claims["role"] != models.RoleApplicant {
					t.Fatalf("unexpected role claim: %v", claims["role"])
				}
				if jti, _ := claims["jti"].(string); jti == "" {
					t.Fatalf("missing jti claim")
				}
				if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
					t.Fatalf("invalid exp claim")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewAuthHandler(mocks.Users, secret, tokenDur)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/register":
				handler.Register(w, req)
			case "/login":
				handler.Login(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

func TestRegister_AlwaysAssignsApplicantRole(t *testing.T) {
	mocks := mock.NewMocks()
	handler := api.NewAuthHandler(mocks.Users, "testsecret", time.Hour)

	body, _ := json.Marshal(map[string]string{
		"fullName": "Mallory",
		"email":    "mallory@example.com",
		"password": "s3cret",
		"role":     models.RoleAdmin, // ignored
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if mocks.Users.Stored == nil || mocks.Users.Stored.Role != models.RoleApplicant {
		t.Fatalf("expected stored role %q, got %+v", models.RoleApplicant, mocks.Users.Stored)
	}
	if mocks.Users.Stored.PasswordHash == "s3cret" {
		t.Fatalf("raw password must never be stored")
	}
}
