package validators

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/MKhiriev/gesture-sense/models"
)

// Allow-lists for partial updates. Keys outside these lists are dropped
// silently.
var (
	UserFields = []string{
		"name", "avatar", "bio", "company", "location", "website",
		"twitterHandle", "githubHandle", "linkedinHandle",
		"preferences", "security",
	}

	PreferenceFields = []string{
		"theme", "notifications", "handGestureDetection", "facialEmotionRecognition",
		"speechRecognition", "darkMode", "highContrast", "reducedMotion", "language",
	}

	SecurityFields = []string{"twoFactorEnabled", "lastPasswordChange", "sessions"}
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateOnly,
}

// Whitelist returns the entries of raw whose keys are in allowed.
func Whitelist(raw map[string]json.RawMessage, allowed ...string) map[string]json.RawMessage {
	filtered := make(map[string]json.RawMessage, len(allowed))
	for _, key := range allowed {
		if value, ok := raw[key]; ok {
			filtered[key] = value
		}
	}

	return filtered
}

// ParseDate accepts RFC 3339 timestamps, with or without fractional
// seconds, and plain YYYY-MM-DD dates. The result is in UTC.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

// DecodeUserUpdate filters body to the user allow-list and decodes it.
// Nested preferences and security objects are filtered against their own
// lists; they may be empty after filtering. A null value never passes a
// type check.
func DecodeUserUpdate(body []byte) (models.UserUpdate, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return models.UserUpdate{}, err
	}

	fields := Whitelist(raw, UserFields...)
	if len(fields) == 0 {
		return models.UserUpdate{}, ErrNoValidFields
	}

	var update models.UserUpdate
	scalars := map[string]**string{
		"name":           &update.Name,
		"avatar":         &update.Avatar,
		"bio":            &update.Bio,
		"company":        &update.Company,
		"location":       &update.Location,
		"website":        &update.Website,
		"twitterHandle":  &update.TwitterHandle,
		"githubHandle":   &update.GithubHandle,
		"linkedinHandle": &update.LinkedinHandle,
	}
	for key, dst := range scalars {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if isNull(value) || json.Unmarshal(value, dst) != nil {
			return models.UserUpdate{}, ErrInvalidUserFieldTypes
		}
	}

	if value, ok := fields["preferences"]; ok {
		nested, err := decodeNestedObject(value, ErrPreferencesNotObject)
		if err != nil {
			return models.UserUpdate{}, err
		}
		prefs, err := decodePreferences(Whitelist(nested, PreferenceFields...))
		if err != nil {
			return models.UserUpdate{}, err
		}
		update.Preferences = &prefs
	}

	if value, ok := fields["security"]; ok {
		nested, err := decodeNestedObject(value, ErrSecurityNotObject)
		if err != nil {
			return models.UserUpdate{}, err
		}
		security, err := decodeSecurity(Whitelist(nested, SecurityFields...))
		if err != nil {
			return models.UserUpdate{}, err
		}
		update.Security = &security
	}

	return update, nil
}

// DecodePreferencesUpdate filters body to the preference allow-list,
// rejects an empty result and type-checks the values.
func DecodePreferencesUpdate(body []byte) (models.PreferencesUpdate, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return models.PreferencesUpdate{}, err
	}

	fields := Whitelist(raw, PreferenceFields...)
	if len(fields) == 0 {
		return models.PreferencesUpdate{}, ErrNoValidPreferenceFields
	}

	return decodePreferences(fields)
}

// DecodeSecurityUpdate filters body to the security allow-list, rejects an
// empty result and checks each value's shape.
func DecodeSecurityUpdate(body []byte) (models.SecurityUpdate, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return models.SecurityUpdate{}, err
	}

	fields := Whitelist(raw, SecurityFields...)
	if len(fields) == 0 {
		return models.SecurityUpdate{}, ErrNoValidSecurityFields
	}

	return decodeSecurity(fields)
}

func decodePreferences(fields map[string]json.RawMessage) (models.PreferencesUpdate, error) {
	var update models.PreferencesUpdate
	if len(fields) == 0 {
		return update, nil
	}
	for _, value := range fields {
		if isNull(value) {
			return models.PreferencesUpdate{}, ErrInvalidPreferenceTypes
		}
	}

	filtered, err := json.Marshal(fields)
	if err != nil {
		return models.PreferencesUpdate{}, ErrInvalidPreferenceTypes
	}
	if err = json.Unmarshal(filtered, &update); err != nil {
		return models.PreferencesUpdate{}, ErrInvalidPreferenceTypes
	}

	return update, nil
}

func decodeSecurity(fields map[string]json.RawMessage) (models.SecurityUpdate, error) {
	var update models.SecurityUpdate

	if value, ok := fields["twoFactorEnabled"]; ok {
		var enabled bool
		if isNull(value) || json.Unmarshal(value, &enabled) != nil {
			return models.SecurityUpdate{}, ErrTwoFactorNotBoolean
		}
		update.TwoFactorEnabled = &enabled
	}

	if value, ok := fields["lastPasswordChange"]; ok {
		changed, err := decodeDate(value)
		if err != nil {
			return models.SecurityUpdate{}, ErrInvalidLastPasswordDate
		}
		update.LastPasswordChange = &changed
	}

	if value, ok := fields["sessions"]; ok {
		sessions, err := decodeSessions(value)
		if err != nil {
			return models.SecurityUpdate{}, err
		}
		update.Sessions = &sessions
	}

	return update, nil
}

// decodeSessions requires an array of objects carrying string device,
// browser and date fields and a boolean isActive. An optional string id is
// kept.
func decodeSessions(value json.RawMessage) ([]models.Session, error) {
	var items []json.RawMessage
	if isNull(value) || json.Unmarshal(value, &items) != nil {
		return nil, ErrSessionsNotArray
	}

	sessions := make([]models.Session, 0, len(items))
	for _, item := range items {
		var entry map[string]json.RawMessage
		if isNull(item) || json.Unmarshal(item, &entry) != nil {
			return nil, ErrInvalidSessionFormat
		}

		var session models.Session
		if !decodeString(entry["device"], &session.Device) ||
			!decodeString(entry["browser"], &session.Browser) ||
			!decodeBool(entry["isActive"], &session.IsActive) {
			return nil, ErrInvalidSessionFormat
		}

		date, err := decodeDate(entry["date"])
		if err != nil {
			return nil, ErrInvalidSessionFormat
		}
		session.Date = date

		if id, ok := entry["id"]; ok && !decodeString(id, &session.ID) {
			return nil, ErrInvalidSessionFormat
		}

		sessions = append(sessions, session)
	}

	return sessions, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrInvalidJSON
	}

	return raw, nil
}

func decodeNestedObject(value json.RawMessage, notObject error) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(value, &raw); err != nil || raw == nil {
		return nil, notObject
	}

	return raw, nil
}

func decodeDate(value json.RawMessage) (time.Time, error) {
	var s string
	if !decodeString(value, &s) {
		return time.Time{}, ErrInvalidSessionFormat
	}

	return ParseDate(s)
}

// decodeString fails on a missing value, null or a non-string.
func decodeString(value json.RawMessage, dst *string) bool {
	if len(value) == 0 || isNull(value) {
		return false
	}

	return json.Unmarshal(value, dst) == nil
}

func decodeBool(value json.RawMessage, dst *bool) bool {
	if len(value) == 0 || isNull(value) {
		return false
	}

	return json.Unmarshal(value, dst) == nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
