package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/service"
	"github.com/MKhiriev/gesture-sense/internal/store"
	"github.com/MKhiriev/gesture-sense/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.User{
	ID:    "u1",
	Email: "a@b.com",
	Name:  "Alice",
	Role:  models.DefaultRole,
}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	var got models.CreateUserData
	users := &mockUserService{
		getUserByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			assert.Equal(t, "a@b.com", email)
			return nil, nil
		},
		createUserFn: func(_ context.Context, data models.CreateUserData) (models.User, error) {
			got = data
			return testUser, nil
		},
	}

	rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/register",
		`{"email":" a@b.com ","password":"pw123456","name":"Alice","role":"admin"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.CreateUserData{Email: "a@b.com", Password: "pw123456", Name: "Alice"}, got)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "a@b.com", body["email"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
}

func TestRegister_Duplicate(t *testing.T) {
	users := &mockUserService{
		getUserByEmailFn: func(context.Context, string) (*models.User, error) {
			return &testUser, nil
		},
	}

	rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/register", `{"email":"a@b.com","password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", errorMessage(t, rec))
}

func TestRegister_DuplicateRace(t *testing.T) {
	users := &mockUserService{
		getUserByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createUserFn: func(context.Context, models.CreateUserData) (models.User, error) {
			return models.User{}, fmt.Errorf("user creation ended with error: %w", store.ErrEmailAlreadyExists)
		},
	}

	rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/register", `{"email":"a@b.com","password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", errorMessage(t, rec))
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing password", `{"email":"a@b.com"}`, "Email and password are required"},
		{"missing email", `{"password":"pw"}`, "Email and password are required"},
		{"malformed email", `{"email":"nope","password":"pw"}`, "Invalid email address"},
		{"invalid json", `{"email":`, "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestHandler(t, nil), http.MethodPost, "/api/users/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
		})
	}
}

func TestRegister_InternalError(t *testing.T) {
	users := &mockUserService{
		getUserByEmailFn: func(context.Context, string) (*models.User, error) {
			return nil, errors.New("connection reset")
		},
	}

	rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/register", `{"email":"a@b.com","password":"pw"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create user", errorMessage(t, rec))
}

func TestInternalError_DevelopmentExposesDetail(t *testing.T) {
	users := &mockUserService{
		getUserByIDFn: func(context.Context, string) (*models.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	users.t = t
	svcs := &service.Services{UserService: users}
	h := NewHandler(svcs, testServerConfig(), config.App{Environment: config.EnvironmentDevelopment}, logger.Nop())

	rec := do(t, h, http.MethodGet, "/api/users/u1", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "connection reset", errorMessage(t, rec))
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := &mockUserService{
			validatePasswordFn: func(_ context.Context, email, password string) (*models.User, error) {
				assert.Equal(t, "a@b.com", email)
				assert.Equal(t, "pw", password)
				return &testUser, nil
			},
		}

		rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"pw"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"u1"`)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		users := &mockUserService{
			validatePasswordFn: func(context.Context, string, string) (*models.User, error) { return nil, nil },
		}

		rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"bad"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := do(t, newTestHandler(t, nil), http.MethodPost, "/api/users/login", `{"email":"a@b.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email and password are required", errorMessage(t, rec))
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		users := &mockUserService{
			validatePasswordFn: func(context.Context, string, string) (*models.User, error) {
				return nil, errors.New("db down")
			},
		}

		rec := do(t, newTestHandler(t, users), http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"pw"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Authentication failed", errorMessage(t, rec))
	})
}

func TestLogin_RateLimited(t *testing.T) {
	users := &mockUserService{
		validatePasswordFn: func(context.Context, string, string) (*models.User, error) { return nil, nil },
	}
	users.t = t
	cfg := testServerConfig()
	cfg.AuthRateLimitRPS = 0.001
	cfg.AuthRateLimitBurst = 2
	h := NewHandler(&service.Services{UserService: users}, cfg, config.App{}, logger.Nop())

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"pw"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"pw"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", errorMessage(t, rec))
}

func TestLogin_RateLimitKeyedOnRemoteAddr(t *testing.T) {
	users := &mockUserService{
		validatePasswordFn: func(context.Context, string, string) (*models.User, error) { return nil, nil },
	}
	users.t = t
	login := func(h *Handler, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		h.Init().ServeHTTP(rec, req)
		return rec.Code
	}

	tests := []struct {
		name       string
		trustProxy bool
		wantThird  int
	}{
		{"spoofed header does not reset the budget", false, http.StatusTooManyRequests},
		{"trusted proxy header names the client", true, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testServerConfig()
			cfg.AuthRateLimitRPS = 0.001
			cfg.AuthRateLimitBurst = 2
			cfg.TrustProxyHeaders = tt.trustProxy
			h := NewHandler(&service.Services{UserService: users}, cfg, config.App{}, logger.Nop())

			assert.Equal(t, http.StatusUnauthorized, login(h, "203.0.113.1"))
			assert.Equal(t, http.StatusUnauthorized, login(h, "203.0.113.2"))
			assert.Equal(t, tt.wantThird, login(h, "203.0.113.3"))
		})
	}
}

// ─────────────────────────────────────────────
// get / patch / delete user
// ─────────────────────────────────────────────

func TestGetUser(t *testing.T) {
	users := &mockUserService{
		getUserByIDFn: func(_ context.Context, id string) (*models.User, error) {
			if id == "u1" {
				return &testUser, nil
			}
			return nil, nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodGet, "/api/users/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@b.com"`)

	rec = do(t, h, http.MethodGet, "/api/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", errorMessage(t, rec))
}

func TestUpdateUser_FiltersAndForwards(t *testing.T) {
	var got models.UserUpdate
	users := &mockUserService{
		updateUserFn: func(_ context.Context, id string, update models.UserUpdate) (models.User, error) {
			assert.Equal(t, "u1", id)
			got = update
			return testUser, nil
		},
	}

	rec := do(t, newTestHandler(t, users), http.MethodPatch, "/api/users/u1",
		`{"name":"Bob","email":"evil@x.com","preferences":{"darkMode":true,"bogus":1}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Bob", *got.Name)
	require.NotNil(t, got.Preferences)
	assert.Equal(t, ptr(true), got.Preferences.DarkMode)
	assert.Nil(t, got.Password)
}

func TestUpdateUser_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"no valid fields", `{"email":"x@y.com"}`, http.StatusBadRequest, "No valid fields to update"},
		{"sessions not array", `{"security":{"sessions":{}}}`, http.StatusBadRequest, "Sessions must be an array"},
		{"bad session", `{"security":{"sessions":[{"device":"d"}]}}`, http.StatusBadRequest, "Invalid session format"},
		{"bad json", `nope`, http.StatusBadRequest, "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestHandler(t, nil), http.MethodPatch, "/api/users/u1", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
		})
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	users := &mockUserService{
		updateUserFn: func(context.Context, string, models.UserUpdate) (models.User, error) {
			return models.User{}, fmt.Errorf("user update ended with error: %w", store.ErrUserNotFound)
		},
	}

	rec := do(t, newTestHandler(t, users), http.MethodPatch, "/api/users/missing", `{"name":"x"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", errorMessage(t, rec))
}

func TestDeleteUser(t *testing.T) {
	users := &mockUserService{
		deleteUserFn: func(_ context.Context, id string) error {
			if id == "u1" {
				return nil
			}
			return store.ErrUserNotFound
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodDelete, "/api/users/u1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────
// avatar / password
// ─────────────────────────────────────────────

func TestUpdateAvatar(t *testing.T) {
	users := &mockUserService{
		updateUserFn: func(_ context.Context, _ string, update models.UserUpdate) (models.User, error) {
			require.NotNil(t, update.Avatar)
			u := testUser
			u.Avatar = *update.Avatar
			return u, nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodPatch, "/api/users/u1/avatar", `{"avatar":"https://cdn.example.com/me.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://cdn.example.com/me.png")

	rec = do(t, h, http.MethodPatch, "/api/users/u1/avatar", `{"avatar":"not-a-url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid avatar URL", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/avatar", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Avatar URL is required", errorMessage(t, rec))
}

func TestChangePassword(t *testing.T) {
	users := &mockUserService{
		changePasswordFn: func(_ context.Context, id, current, next string) error {
			if current != "old" {
				return service.ErrInvalidCredentials
			}
			assert.Equal(t, "new", next)
			return nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodPatch, "/api/users/u1/password", `{"currentPassword":"old","newPassword":"new"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/users/u1/password", `{"currentPassword":"bad","newPassword":"new"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/password", `{"currentPassword":"old"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current and new password are required", errorMessage(t, rec))
}

// ─────────────────────────────────────────────
// preferences
// ─────────────────────────────────────────────

func TestPreferences(t *testing.T) {
	prefs := models.DefaultPreferences()
	users := &mockUserService{
		getUserPreferencesFn: func(_ context.Context, id string) (*models.Preferences, error) {
			if id == "u1" {
				return &prefs, nil
			}
			return nil, nil
		},
		updateUserPreferencesFn: func(_ context.Context, _ string, update models.PreferencesUpdate) (models.Preferences, error) {
			p := prefs
			p.Apply(update)
			return p, nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodGet, "/api/users/u1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"language":"English"`)

	rec = do(t, h, http.MethodGet, "/api/users/missing/preferences", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Preferences not found", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/preferences", `{"darkMode":true,"unknown":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"darkMode":true`)

	rec = do(t, h, http.MethodPatch, "/api/users/u1/preferences", `{"darkMode":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid preference value types", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/preferences", `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No valid preference fields to update", errorMessage(t, rec))
}

// ─────────────────────────────────────────────
// security and sessions
// ─────────────────────────────────────────────

func TestSecurity(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	security := models.DefaultSecurity(now)
	users := &mockUserService{
		getUserSecurityFn: func(_ context.Context, id string) (*models.Security, error) {
			if id == "u1" {
				return &security, nil
			}
			return nil, nil
		},
		updateUserSecurityFn: func(_ context.Context, id string, update models.SecurityUpdate) (models.Security, error) {
			if id != "u1" {
				return models.Security{}, store.ErrUserNotFound
			}
			s := security
			s.Apply(update)
			return s, nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodGet, "/api/users/u1/security", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sessions":[]`)

	rec = do(t, h, http.MethodGet, "/api/users/missing/security", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Security settings not found", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/security", `{"twoFactorEnabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"twoFactorEnabled":true`)

	rec = do(t, h, http.MethodPatch, "/api/users/u1/security", `{"twoFactorEnabled":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "twoFactorEnabled must be a boolean", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/security", `{"lastPasswordChange":"not a date"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "lastPasswordChange must be a valid date", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/missing/security", `{"twoFactorEnabled":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSession(t *testing.T) {
	users := &mockUserService{
		createSessionFn: func(_ context.Context, userID, device, browser string) (models.Session, error) {
			if userID != "u1" {
				return models.Session{}, store.ErrUserNotFound
			}
			return models.Session{ID: "s1", Device: device, Browser: browser, IsActive: true}, nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodPost, "/api/users/u1/security", `{"device":"Desktop","browser":"Firefox"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isActive":true`)

	rec = do(t, h, http.MethodPost, "/api/users/u1/security", `{"device":"Desktop"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Device and browser are required", errorMessage(t, rec))

	rec = do(t, h, http.MethodPost, "/api/users/missing/security", `{"device":"Desktop","browser":"Firefox"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionIDConflict_IsBadRequest(t *testing.T) {
	users := &mockUserService{
		createSessionFn: func(context.Context, string, string, string) (models.Session, error) {
			return models.Session{}, fmt.Errorf("session creation ended with error: %w", store.ErrDuplicateSessionID)
		},
		updateUserSecurityFn: func(context.Context, string, models.SecurityUpdate) (models.Security, error) {
			return models.Security{}, fmt.Errorf("security update ended with error: %w", store.ErrDuplicateSessionID)
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodPost, "/api/users/u1/security", `{"device":"Desktop","browser":"Firefox"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate session id", errorMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/users/u1/security",
		`{"sessions":[{"id":"s-1","device":"D","browser":"B","date":"2026-05-01T12:00:00Z","isActive":true}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate session id", errorMessage(t, rec))
}

func TestRevokeSession(t *testing.T) {
	users := &mockUserService{
		revokeSessionFn: func(_ context.Context, userID, sessionID string) (models.Session, error) {
			if sessionID != "s1" {
				return models.Session{}, store.ErrSessionNotFound
			}
			return models.Session{ID: "s1", IsActive: false}, nil
		},
	}
	h := newTestHandler(t, users)

	rec := do(t, h, http.MethodDelete, "/api/users/u1/security/sessions/s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isActive":false`)

	rec = do(t, h, http.MethodDelete, "/api/users/u1/security/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", errorMessage(t, rec))
}

// ─────────────────────────────────────────────
// dev seed
// ─────────────────────────────────────────────

func TestSeed(t *testing.T) {
	h := newTestHandler(t, nil)
	h.services.SeedService = &mockSeedService{user: models.User{ID: "default", Email: "default@example.com"}}

	rec := do(t, h, http.MethodPost, "/api/dev/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"default@example.com"`)

	h.services.SeedService = &mockSeedService{err: service.ErrSeedForbidden}

	rec = do(t, h, http.MethodPost, "/api/dev/seed", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not available in production", errorMessage(t, rec))
}
