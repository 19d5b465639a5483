package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/models"
)

// userRepository is the SQL implementation of [UserRepository]. It works
// against PostgreSQL and SQLite; queryBuilder hides the placeholder style.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db      *DB
	queries queryBuilder
	now     func() time.Time
	logger  *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Str("dialect", db.Dialect).Msg("creating user repository")
	return &userRepository{
		db:      db,
		queries: newQueryBuilder(db.Dialect),
		now:     utcNow,
		logger:  logger,
	}
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CreateUser persists the user row, its preferences and its security
// settings (with any initial sessions) in one transaction.
//
// Error handling:
//   - unique violation on email → [ErrEmailAlreadyExists].
//   - any other failure → wrapped low-level error, transaction rolled back.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	err := r.withTx(ctx, "userRepository.CreateUser", func(tx *sql.Tx) error {
		if _, err := execContext(ctx, tx, r.queries.insertUser(user)); err != nil {
			if r.db.classifier.IsUniqueViolation(err) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		if _, err := execContext(ctx, tx, r.queries.insertPreferences(user.ID, user.Preferences)); err != nil {
			return err
		}

		if _, err := execContext(ctx, tx, r.queries.insertSecurity(user.ID, user.Security)); err != nil {
			return err
		}

		return r.insertSessions(ctx, tx, user.ID, user.Security.Sessions, 0)
	})
	if err != nil {
		return models.User{}, err
	}

	if user.Security.Sessions == nil {
		user.Security.Sessions = []models.Session{}
	}

	logger.FromContext(ctx).Debug().
		Str("func", "userRepository.CreateUser").
		Str("user_id", user.ID).
		Msg("user created")

	return user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.loadUser(ctx, r.db.DB, sq.Eq{"id": id})
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.loadUser(ctx, r.db.DB, sq.Eq{"email": email})
}

func (r *userRepository) FindPreferences(ctx context.Context, userID string) (models.Preferences, error) {
	return r.loadPreferences(ctx, r.db.DB, userID)
}

func (r *userRepository) FindSecurity(ctx context.Context, userID string) (models.Security, error) {
	return r.loadSecurity(ctx, r.db.DB, userID)
}

// UpdateUser writes the scalar columns of update, bumps updated_at and then
// upserts the nested records. The result is read back inside the same
// transaction.
func (r *userRepository) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	var user models.User

	err := r.withTx(ctx, "userRepository.UpdateUser", func(tx *sql.Tx) error {
		now := r.now()

		res, err := execContext(ctx, tx, r.queries.updateUser(id, update.Columns(), now))
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		} else if affected == 0 {
			return ErrUserNotFound
		}

		if update.Preferences != nil {
			if _, err = r.upsertPreferences(ctx, tx, id, *update.Preferences, now); err != nil {
				return err
			}
		}

		if update.Security != nil {
			if _, err = r.upsertSecurity(ctx, tx, id, *update.Security, now); err != nil {
				return err
			}
		}

		user, err = r.loadUser(ctx, tx, sq.Eq{"id": id})
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID string, update models.PreferencesUpdate) (models.Preferences, error) {
	var prefs models.Preferences

	err := r.withTx(ctx, "userRepository.UpdatePreferences", func(tx *sql.Tx) error {
		if err := r.ensureUserExists(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		prefs, err = r.upsertPreferences(ctx, tx, userID, update, r.now())
		return err
	})
	if err != nil {
		return models.Preferences{}, err
	}

	return prefs, nil
}

func (r *userRepository) UpdateSecurity(ctx context.Context, userID string, update models.SecurityUpdate) (models.Security, error) {
	var security models.Security

	err := r.withTx(ctx, "userRepository.UpdateSecurity", func(tx *sql.Tx) error {
		if err := r.ensureUserExists(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		security, err = r.upsertSecurity(ctx, tx, userID, update, r.now())
		return err
	})
	if err != nil {
		return models.Security{}, err
	}

	return security, nil
}

// AddSession appends session at the end of the user's session list,
// creating the security row with defaults when it is missing.
func (r *userRepository) AddSession(ctx context.Context, userID string, session models.Session) (models.Session, error) {
	err := r.withTx(ctx, "userRepository.AddSession", func(tx *sql.Tx) error {
		if err := r.ensureUserExists(ctx, tx, userID); err != nil {
			return err
		}

		now := r.now()
		if _, err := r.upsertSecurity(ctx, tx, userID, models.SecurityUpdate{}, now); err != nil {
			return err
		}

		var position int
		if err := queryRowContext(ctx, tx, r.queries.nextSessionPosition(userID), &position); err != nil {
			return err
		}

		return r.insertSessions(ctx, tx, userID, []models.Session{session}, position)
	})
	if err != nil {
		return models.Session{}, err
	}

	return session, nil
}

func (r *userRepository) SetSessionActive(ctx context.Context, userID, sessionID string, active bool) (models.Session, error) {
	var session models.Session

	err := r.withTx(ctx, "userRepository.SetSessionActive", func(tx *sql.Tx) error {
		res, err := execContext(ctx, tx, r.queries.setSessionActive(userID, sessionID, active))
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		} else if affected == 0 {
			return ErrSessionNotFound
		}

		if _, err = execContext(ctx, tx, r.queries.touchSecurity(userID, r.now())); err != nil {
			return err
		}

		query, args, err := r.queries.selectSession(userID, sessionID).ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		session, err = scanSession(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		return models.Session{}, err
	}

	return session, nil
}

// DeleteUser removes sessions, security, preferences and the user row in
// one transaction.
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	return r.withTx(ctx, "userRepository.DeleteUser", func(tx *sql.Tx) error {
		children := []sq.Sqlizer{
			r.queries.deleteSessions(id),
			r.queries.deleteSecurity(id),
			r.queries.deletePreferences(id),
		}
		for _, stmt := range children {
			if _, err := execContext(ctx, tx, stmt); err != nil {
				return err
			}
		}

		res, err := execContext(ctx, tx, r.queries.deleteUser(id))
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

func (r *userRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// withTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error and committed otherwise.
func (r *userRepository) withTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		if !isDomainError(err) {
			log.Err(err).
				Str("func", funcName).
				Bool("retryable", r.db.classifier.Classify(err) == Retryable).
				Msg("transaction failed")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrDuplicateSessionID)
}

func (r *userRepository) ensureUserExists(ctx context.Context, q querier, id string) error {
	var one int
	err := queryRowContext(ctx, q, r.queries.userExists(id), &one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}

	return err
}

func (r *userRepository) loadUser(ctx context.Context, q querier, where sq.Eq) (models.User, error) {
	query, args, err := r.queries.selectUser(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userRepository.loadUser").Msg("failed to load user")
		return models.User{}, err
	}

	user.Preferences, err = r.loadPreferences(ctx, q, user.ID)
	if errors.Is(err, ErrPreferencesNotFound) {
		user.Preferences = models.DefaultPreferences()
		user.Preferences.UpdatedAt = user.UpdatedAt
	} else if err != nil {
		return models.User{}, err
	}

	user.Security, err = r.loadSecurity(ctx, q, user.ID)
	if errors.Is(err, ErrSecurityNotFound) {
		user.Security = models.DefaultSecurity(user.CreatedAt)
		user.Security.UpdatedAt = user.UpdatedAt
	} else if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) loadPreferences(ctx context.Context, q querier, userID string) (models.Preferences, error) {
	query, args, err := r.queries.selectPreferences(userID).ToSql()
	if err != nil {
		return models.Preferences{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	prefs, err := scanPreferences(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preferences{}, ErrPreferencesNotFound
	}

	return prefs, err
}

// loadSecurity reads the security row and the ordered session list.
func (r *userRepository) loadSecurity(ctx context.Context, q querier, userID string) (models.Security, error) {
	query, args, err := r.queries.selectSecurity(userID).ToSql()
	if err != nil {
		return models.Security{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	security, err := scanSecurity(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Security{}, ErrSecurityNotFound
	}
	if err != nil {
		return models.Security{}, err
	}

	security.Sessions, err = r.loadSessions(ctx, q, userID)
	if err != nil {
		return models.Security{}, err
	}

	return security, nil
}

func (r *userRepository) loadSessions(ctx context.Context, q querier, userID string) ([]models.Session, error) {
	query, args, err := r.queries.selectSessions(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return sessions, nil
}

// upsertPreferences loads the current preferences, or defaults when the row
// is missing, merges update into them and writes the result back.
func (r *userRepository) upsertPreferences(ctx context.Context, q querier, userID string, update models.PreferencesUpdate, now time.Time) (models.Preferences, error) {
	prefs, err := r.loadPreferences(ctx, q, userID)
	exists := true
	if errors.Is(err, ErrPreferencesNotFound) {
		prefs, exists = models.DefaultPreferences(), false
	} else if err != nil {
		return models.Preferences{}, err
	}

	prefs.Apply(update)
	prefs.UpdatedAt = now

	var stmt sq.Sqlizer = r.queries.insertPreferences(userID, prefs)
	if exists {
		stmt = r.queries.updatePreferences(userID, prefs)
	}
	if _, err = execContext(ctx, q, stmt); err != nil {
		return models.Preferences{}, err
	}

	return prefs, nil
}

// upsertSecurity is the security counterpart of upsertPreferences. A
// non-nil update.Sessions replaces the stored sessions.
func (r *userRepository) upsertSecurity(ctx context.Context, q querier, userID string, update models.SecurityUpdate, now time.Time) (models.Security, error) {
	security, err := r.loadSecurity(ctx, q, userID)
	exists := true
	if errors.Is(err, ErrSecurityNotFound) {
		security, exists = models.DefaultSecurity(now), false
	} else if err != nil {
		return models.Security{}, err
	}

	security.Apply(update)
	security.UpdatedAt = now

	var stmt sq.Sqlizer = r.queries.insertSecurity(userID, security)
	if exists {
		stmt = r.queries.updateSecurity(userID, security)
	}
	if _, err = execContext(ctx, q, stmt); err != nil {
		return models.Security{}, err
	}

	if update.Sessions != nil {
		if _, err = execContext(ctx, q, r.queries.deleteSessions(userID)); err != nil {
			return models.Security{}, err
		}
		if err = r.insertSessions(ctx, q, userID, security.Sessions, 0); err != nil {
			return models.Security{}, err
		}
	}

	return security, nil
}

// insertSessions writes sessions starting at position start. A key collision
// within the user's sessions becomes [ErrDuplicateSessionID].
func (r *userRepository) insertSessions(ctx context.Context, q querier, userID string, sessions []models.Session, start int) error {
	if len(sessions) == 0 {
		return nil
	}

	_, err := execContext(ctx, q, r.queries.insertSessions(userID, sessions, start))
	if err != nil && r.db.classifier.IsUniqueViolation(err) {
		return ErrDuplicateSessionID
	}

	return err
}

func execContext(ctx context.Context, q querier, stmt sq.Sqlizer) (sql.Result, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res, nil
}

// queryRowContext scans a single row into dest. sql.ErrNoRows is returned
// unwrapped.
func queryRowContext(ctx context.Context, q querier, stmt sq.Sqlizer, dest ...any) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = q.QueryRowContext(ctx, query, args...).Scan(dest...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return err
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Avatar, &u.Role, &u.Bio,
		&u.Location, &u.Company, &u.Website, &u.TwitterHandle, &u.GithubHandle,
		&u.LinkedinHandle, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func scanPreferences(row rowScanner) (models.Preferences, error) {
	var p models.Preferences
	err := row.Scan(&p.HandGestureDetection, &p.FacialEmotionRecognition, &p.SpeechRecognition,
		&p.Notifications, &p.DarkMode, &p.HighContrast, &p.ReducedMotion,
		&p.Language, &p.Theme, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{}, err
		}
		return models.Preferences{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanSecurity(row rowScanner) (models.Security, error) {
	var s models.Security
	err := row.Scan(&s.TwoFactorEnabled, &s.LastPasswordChange, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Security{}, err
		}
		return models.Security{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	s.LastPasswordChange = s.LastPasswordChange.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func scanSession(row rowScanner) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.Device, &s.Browser, &s.Date, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	s.Date = s.Date.UTC()
	return s, nil
}
