package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/internal/store"
	"github.com/MKhiriev/gesture-sense/models"
)

// userService is the concrete implementation of UserService. Passwords are
// hashed here; the repository only ever sees hashes.
type userService struct {
	// userRepository persists users and their nested records.
	userRepository store.UserRepository

	hasher PasswordHasher
	ids    IDGenerator

	// now is replaced in tests.
	now func() time.Time

	logger *logger.Logger
}

// NewUserService constructs a UserService wired to the given repository.
//
// The returned service keeps no state between calls and is safe for
// concurrent use.
func NewUserService(userRepository store.UserRepository, hasher PasswordHasher, ids IDGenerator, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		hasher:         hasher,
		ids:            ids,
		now:            func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		logger:         logger,
	}
}

// CreateUser registers a new account with default preferences and security
// settings.
//
// Returns the sanitized user or:
//   - ErrInvalidDataProvided if Email or Password is empty.
//   - A wrapped storage error if the repository call fails (e.g. email
//     already taken, see store.ErrEmailAlreadyExists).
func (s *userService) CreateUser(ctx context.Context, data models.CreateUserData) (models.User, error) {
	log := logger.FromContext(ctx)

	email := strings.TrimSpace(data.Email)
	if email == "" || data.Password == "" {
		log.Error().Str("email", email).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := s.hasher.HashPassword(data.Password)
	if err != nil {
		log.Err(err).Str("email", email).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	role := data.Role
	if role == "" {
		role = models.DefaultRole
	}

	now := s.now()
	user := models.User{
		ID:             s.ids.Generate(),
		Email:          email,
		PasswordHash:   hash,
		Name:           data.Name,
		Avatar:         data.Avatar,
		Role:           role,
		Bio:            data.Bio,
		Location:       data.Location,
		Company:        data.Company,
		Website:        data.Website,
		TwitterHandle:  data.TwitterHandle,
		GithubHandle:   data.GithubHandle,
		LinkedinHandle: data.LinkedinHandle,
		CreatedAt:      now,
		UpdatedAt:      now,
		Preferences:    models.DefaultPreferences(),
		Security:       models.DefaultSecurity(now),
	}
	user.Preferences.UpdatedAt = now
	user.Security.UpdatedAt = now

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("user_id", created.ID).Msg("user created")

	return created.Sanitize(), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", id).Msg("user search by id failed")
		return nil, fmt.Errorf("user search by id failed: %w", err)
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("email", email).Msg("user search by email failed")
		return nil, fmt.Errorf("user search by email failed: %w", err)
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

func (s *userService) GetUserPreferences(ctx context.Context, id string) (*models.Preferences, error) {
	prefs, err := s.userRepository.FindPreferences(ctx, id)
	if errors.Is(err, store.ErrPreferencesNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", id).Msg("preferences search failed")
		return nil, fmt.Errorf("preferences search failed: %w", err)
	}

	return &prefs, nil
}

func (s *userService) GetUserSecurity(ctx context.Context, id string) (*models.Security, error) {
	security, err := s.userRepository.FindSecurity(ctx, id)
	if errors.Is(err, store.ErrSecurityNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", id).Msg("security settings search failed")
		return nil, fmt.Errorf("security settings search failed: %w", err)
	}

	return &security, nil
}

// UpdateUser applies a partial update. A non-nil Password is hashed into
// PasswordHash and bumps Security.LastPasswordChange; the plain value never
// reaches the repository.
func (s *userService) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Password != nil {
		if *update.Password == "" {
			log.Error().Str("user_id", id).Msg("empty password provided")
			return models.User{}, ErrInvalidDataProvided
		}

		if err := s.setPassword(&update, *update.Password); err != nil {
			log.Err(err).Str("user_id", id).Msg("password hashing failed")
			return models.User{}, fmt.Errorf("password hashing failed: %w", err)
		}
	}

	if update.Security != nil && update.Security.Sessions != nil {
		security := *update.Security
		sessions := s.normalizeSessions(*security.Sessions)
		security.Sessions = &sessions
		update.Security = &security
	}

	user, err := s.userRepository.UpdateUser(ctx, id, update)
	if err != nil {
		log.Err(err).Str("user_id", id).Msg("user update ended with error")
		return models.User{}, fmt.Errorf("user update ended with error: %w", err)
	}

	return user.Sanitize(), nil
}

func (s *userService) UpdateUserPreferences(ctx context.Context, id string, update models.PreferencesUpdate) (models.Preferences, error) {
	prefs, err := s.userRepository.UpdatePreferences(ctx, id, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", id).Msg("preferences update ended with error")
		return models.Preferences{}, fmt.Errorf("preferences update ended with error: %w", err)
	}

	return prefs, nil
}

func (s *userService) UpdateUserSecurity(ctx context.Context, id string, update models.SecurityUpdate) (models.Security, error) {
	if update.Sessions != nil {
		sessions := s.normalizeSessions(*update.Sessions)
		update.Sessions = &sessions
	}
	if update.LastPasswordChange != nil {
		changed := update.LastPasswordChange.UTC()
		update.LastPasswordChange = &changed
	}

	security, err := s.userRepository.UpdateSecurity(ctx, id, update)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", id).Msg("security update ended with error")
		return models.Security{}, fmt.Errorf("security update ended with error: %w", err)
	}

	return security, nil
}

// ValidatePassword checks credentials. Unknown emails and wrong passwords
// both yield (nil, nil).
func (s *userService) ValidatePassword(ctx context.Context, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrUserNotFound) {
		log.Debug().Str("email", email).Msg("login attempt for unknown email")
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return nil, fmt.Errorf("user search by email failed: %w", err)
	}

	ok, err := s.hasher.ComparePassword(user.PasswordHash, password)
	if err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("password comparison failed")
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		log.Debug().Str("user_id", user.ID).Msg("wrong password")
		return nil, nil
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

// ChangePassword verifies currentPassword before storing newPassword.
//
// Returns:
//   - ErrInvalidDataProvided if newPassword is empty.
//   - store.ErrUserNotFound (wrapped) for an unknown id.
//   - ErrInvalidCredentials if currentPassword does not match.
func (s *userService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	if newPassword == "" {
		log.Error().Str("user_id", id).Msg("empty new password provided")
		return ErrInvalidDataProvided
	}

	user, err := s.userRepository.FindUserByID(ctx, id)
	if err != nil {
		log.Err(err).Str("user_id", id).Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	ok, err := s.hasher.ComparePassword(user.PasswordHash, currentPassword)
	if err != nil {
		log.Err(err).Str("user_id", id).Msg("password comparison failed")
		return fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		log.Debug().Str("user_id", id).Msg("current password does not match")
		return ErrInvalidCredentials
	}

	var update models.UserUpdate
	if err = s.setPassword(&update, newPassword); err != nil {
		log.Err(err).Str("user_id", id).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}

	if _, err = s.userRepository.UpdateUser(ctx, id, update); err != nil {
		log.Err(err).Str("user_id", id).Msg("password update ended with error")
		return fmt.Errorf("password update ended with error: %w", err)
	}

	log.Info().Str("user_id", id).Msg("password changed")

	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepository.DeleteUser(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", id).Msg("user deletion ended with error")
		return fmt.Errorf("user deletion ended with error: %w", err)
	}

	return nil
}

// CreateSession appends an active session dated now. Existing sessions are
// left as they are.
func (s *userService) CreateSession(ctx context.Context, userID, device, browser string) (models.Session, error) {
	session := models.Session{
		ID:       s.ids.Generate(),
		Device:   device,
		Browser:  browser,
		Date:     s.now(),
		IsActive: true,
	}

	created, err := s.userRepository.AddSession(ctx, userID, session)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Msg("session creation ended with error")
		return models.Session{}, fmt.Errorf("session creation ended with error: %w", err)
	}

	return created, nil
}

func (s *userService) RevokeSession(ctx context.Context, userID, sessionID string) (models.Session, error) {
	session, err := s.userRepository.SetSessionActive(ctx, userID, sessionID, false)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("user_id", userID).
			Str("session_id", sessionID).
			Msg("session revocation ended with error")
		return models.Session{}, fmt.Errorf("session revocation ended with error: %w", err)
	}

	return session, nil
}

// setPassword hashes password into update and records the change time in
// update.Security without mutating a caller-owned SecurityUpdate.
func (s *userService) setPassword(update *models.UserUpdate, password string) error {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return err
	}

	update.PasswordHash = &hash
	update.Password = nil

	var security models.SecurityUpdate
	if update.Security != nil {
		security = *update.Security
	}
	changedAt := s.now()
	security.LastPasswordChange = &changedAt
	update.Security = &security

	return nil
}

// normalizeSessions returns a copy with UTC dates and a unique id on every
// entry. Missing and repeated ids are replaced.
func (s *userService) normalizeSessions(sessions []models.Session) []models.Session {
	normalized := make([]models.Session, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for i, session := range sessions {
		if _, dup := seen[session.ID]; dup || session.ID == "" {
			session.ID = s.ids.Generate()
		}
		seen[session.ID] = struct{}{}
		session.Date = session.Date.UTC()
		normalized[i] = session
	}

	return normalized
}
