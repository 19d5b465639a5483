package service

import (
	"context"

	"github.com/MKhiriev/gesture-sense/models"
)

// UserService manages user accounts and their preferences, security
// settings and sessions. Every returned [models.User] is sanitized.
//
// Lookups return (nil, nil) when the target does not exist; mutations
// return a wrapped store.ErrUserNotFound instead.
type UserService interface {
	CreateUser(ctx context.Context, data models.CreateUserData) (models.User, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserPreferences(ctx context.Context, id string) (*models.Preferences, error)
	GetUserSecurity(ctx context.Context, id string) (*models.Security, error)

	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	UpdateUserPreferences(ctx context.Context, id string, update models.PreferencesUpdate) (models.Preferences, error)
	UpdateUserSecurity(ctx context.Context, id string, update models.SecurityUpdate) (models.Security, error)

	// ValidatePassword returns the user when email and password match and
	// (nil, nil) otherwise.
	ValidatePassword(ctx context.Context, email, password string) (*models.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error

	DeleteUser(ctx context.Context, id string) error

	CreateSession(ctx context.Context, userID, device, browser string) (models.Session, error)
	RevokeSession(ctx context.Context, userID, sessionID string) (models.Session, error)
}

// SeedService provisions the development account.
type SeedService interface {
	EnsureDefaultUser(ctx context.Context) (models.User, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

type HealthService interface {
	Check(ctx context.Context) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) (bool, error)
}

// IDGenerator produces unique identifiers.
type IDGenerator interface {
	Generate() string
}
