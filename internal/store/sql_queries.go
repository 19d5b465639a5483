package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/gesture-sense/internal/config"
	"github.com/MKhiriev/gesture-sense/models"
)

var (
	userColumns = []string{
		"id", "email", "password_hash", "name", "avatar", "role", "bio",
		"location", "company", "website", "twitter_handle", "github_handle",
		"linkedin_handle", "created_at", "updated_at",
	}

	preferencesColumns = []string{
		"hand_gesture_detection", "facial_emotion_recognition", "speech_recognition",
		"notifications", "dark_mode", "high_contrast", "reduced_motion",
		"language", "theme", "updated_at",
	}

	securityColumns = []string{"two_factor_enabled", "last_password_change", "updated_at"}

	sessionColumns = []string{"id", "device", "browser", "date", "is_active"}
)

var (
	usersTable       = models.User{}.TableName()
	preferencesTable = models.Preferences{}.TableName()
	securityTable    = models.Security{}.TableName()
	sessionsTable    = models.Session{}.TableName()
)

// queryBuilder produces dialect-specific statements: $N placeholders for
// PostgreSQL, ? for SQLite.
type queryBuilder struct {
	sb sq.StatementBuilderType
}

func newQueryBuilder(dialect string) queryBuilder {
	var format sq.PlaceholderFormat = sq.Dollar
	if dialect == config.DriverSQLite {
		format = sq.Question
	}

	return queryBuilder{sb: sq.StatementBuilder.PlaceholderFormat(format)}
}

// ── users ─────────────────────────────────────────────────────────────────────

func (q queryBuilder) insertUser(u models.User) sq.InsertBuilder {
	return q.sb.Insert(usersTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.PasswordHash, u.Name, u.Avatar, u.Role, u.Bio,
			u.Location, u.Company, u.Website, u.TwitterHandle, u.GithubHandle,
			u.LinkedinHandle, u.CreatedAt, u.UpdatedAt)
}

func (q queryBuilder) selectUser(where sq.Eq) sq.SelectBuilder {
	return q.sb.Select(userColumns...).From(usersTable).Where(where)
}

func (q queryBuilder) userExists(id string) sq.SelectBuilder {
	return q.sb.Select("1").From(usersTable).Where(sq.Eq{"id": id})
}

// updateUser sets the given columns and updated_at.
func (q queryBuilder) updateUser(id string, columns map[string]any, now time.Time) sq.UpdateBuilder {
	return q.sb.Update(usersTable).
		SetMap(columns).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})
}

func (q queryBuilder) deleteUser(id string) sq.DeleteBuilder {
	return q.sb.Delete(usersTable).Where(sq.Eq{"id": id})
}

// ── preferences ───────────────────────────────────────────────────────────────

func (q queryBuilder) insertPreferences(userID string, p models.Preferences) sq.InsertBuilder {
	return q.sb.Insert(preferencesTable).
		Columns(append([]string{"user_id"}, preferencesColumns...)...).
		Values(userID, p.HandGestureDetection, p.FacialEmotionRecognition, p.SpeechRecognition,
			p.Notifications, p.DarkMode, p.HighContrast, p.ReducedMotion,
			p.Language, p.Theme, p.UpdatedAt)
}

func (q queryBuilder) updatePreferences(userID string, p models.Preferences) sq.UpdateBuilder {
	return q.sb.Update(preferencesTable).
		SetMap(map[string]any{
			"hand_gesture_detection":     p.HandGestureDetection,
			"facial_emotion_recognition": p.FacialEmotionRecognition,
			"speech_recognition":         p.SpeechRecognition,
			"notifications":              p.Notifications,
			"dark_mode":                  p.DarkMode,
			"high_contrast":              p.HighContrast,
			"reduced_motion":             p.ReducedMotion,
			"language":                   p.Language,
			"theme":                      p.Theme,
			"updated_at":                 p.UpdatedAt,
		}).
		Where(sq.Eq{"user_id": userID})
}

func (q queryBuilder) selectPreferences(userID string) sq.SelectBuilder {
	return q.sb.Select(preferencesColumns...).From(preferencesTable).Where(sq.Eq{"user_id": userID})
}

func (q queryBuilder) deletePreferences(userID string) sq.DeleteBuilder {
	return q.sb.Delete(preferencesTable).Where(sq.Eq{"user_id": userID})
}

// ── security ──────────────────────────────────────────────────────────────────

func (q queryBuilder) insertSecurity(userID string, s models.Security) sq.InsertBuilder {
	return q.sb.Insert(securityTable).
		Columns(append([]string{"user_id"}, securityColumns...)...).
		Values(userID, s.TwoFactorEnabled, s.LastPasswordChange, s.UpdatedAt)
}

func (q queryBuilder) updateSecurity(userID string, s models.Security) sq.UpdateBuilder {
	return q.sb.Update(securityTable).
		SetMap(map[string]any{
			"two_factor_enabled":   s.TwoFactorEnabled,
			"last_password_change": s.LastPasswordChange,
			"updated_at":           s.UpdatedAt,
		}).
		Where(sq.Eq{"user_id": userID})
}

func (q queryBuilder) touchSecurity(userID string, now time.Time) sq.UpdateBuilder {
	return q.sb.Update(securityTable).Set("updated_at", now).Where(sq.Eq{"user_id": userID})
}

func (q queryBuilder) selectSecurity(userID string) sq.SelectBuilder {
	return q.sb.Select(securityColumns...).From(securityTable).Where(sq.Eq{"user_id": userID})
}

func (q queryBuilder) deleteSecurity(userID string) sq.DeleteBuilder {
	return q.sb.Delete(securityTable).Where(sq.Eq{"user_id": userID})
}

// ── sessions ──────────────────────────────────────────────────────────────────

// insertSessions inserts sessions in order, numbering positions from start.
func (q queryBuilder) insertSessions(userID string, sessions []models.Session, start int) sq.InsertBuilder {
	b := q.sb.Insert(sessionsTable).
		Columns("id", "user_id", "position", "device", "browser", "date", "is_active")
	for i, s := range sessions {
		b = b.Values(s.ID, userID, start+i, s.Device, s.Browser, s.Date, s.IsActive)
	}

	return b
}

func (q queryBuilder) selectSessions(userID string) sq.SelectBuilder {
	return q.sb.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("position ASC")
}

func (q queryBuilder) selectSession(userID, sessionID string) sq.SelectBuilder {
	return q.sb.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"user_id": userID, "id": sessionID})
}

func (q queryBuilder) nextSessionPosition(userID string) sq.SelectBuilder {
	return q.sb.Select("COALESCE(MAX(position), -1) + 1").
		From(sessionsTable).
		Where(sq.Eq{"user_id": userID})
}

func (q queryBuilder) setSessionActive(userID, sessionID string, active bool) sq.UpdateBuilder {
	return q.sb.Update(sessionsTable).
		Set("is_active", active).
		Where(sq.Eq{"user_id": userID, "id": sessionID})
}

func (q queryBuilder) deleteSessions(userID string) sq.DeleteBuilder {
	return q.sb.Delete(sessionsTable).Where(sq.Eq{"user_id": userID})
}
