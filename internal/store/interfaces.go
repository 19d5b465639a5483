package store

import (
	"context"

	"github.com/MKhiriev/gesture-sense/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/user_repository_mock.go -package=mock

// UserRepository persists user accounts together with their preferences,
// security settings and sessions. Every multi-row write runs in a single
// transaction.
type UserRepository interface {
	// CreateUser inserts the user row and its preferences and security rows.
	// Returns [ErrEmailAlreadyExists] when the email is taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByID and FindUserByEmail return the full aggregate or
	// [ErrUserNotFound].
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindPreferences returns [ErrPreferencesNotFound] when no row exists.
	FindPreferences(ctx context.Context, userID string) (models.Preferences, error)

	// FindSecurity returns [ErrSecurityNotFound] when no row exists.
	FindSecurity(ctx context.Context, userID string) (models.Security, error)

	// UpdateUser applies the scalar fields, then upserts and merges the
	// nested preferences and security updates. Returns the stored aggregate.
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)

	// UpdatePreferences and UpdateSecurity create the child row with defaults
	// when it is missing, then merge the update into it.
	UpdatePreferences(ctx context.Context, userID string, update models.PreferencesUpdate) (models.Preferences, error)
	UpdateSecurity(ctx context.Context, userID string, update models.SecurityUpdate) (models.Security, error)

	// AddSession appends a session after the existing ones.
	AddSession(ctx context.Context, userID string, session models.Session) (models.Session, error)

	// SetSessionActive flips one session's active flag. Returns
	// [ErrSessionNotFound] when the session does not belong to the user.
	SetSessionActive(ctx context.Context, userID, sessionID string, active bool) (models.Session, error)

	// DeleteUser removes the user and every dependent row.
	DeleteUser(ctx context.Context, id string) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error
}
