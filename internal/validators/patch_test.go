package validators

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/MKhiriev/gesture-sense/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Whitelist
// ---------------------------------------------------------------------------

func TestWhitelist(t *testing.T) {
	raw := map[string]json.RawMessage{
		"name":     json.RawMessage(`"Alice"`),
		"email":    json.RawMessage(`"evil@example.com"`),
		"password": json.RawMessage(`"x"`),
	}

	got := Whitelist(raw, UserFields...)

	assert.Equal(t, map[string]json.RawMessage{"name": json.RawMessage(`"Alice"`)}, got)
}

func TestWhitelist_Empty(t *testing.T) {
	got := Whitelist(map[string]json.RawMessage{"role": json.RawMessage(`"admin"`)}, UserFields...)
	assert.Empty(t, got)
}

// ---------------------------------------------------------------------------
// ParseDate
// ---------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-01-02T03:04:05Z", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2026-01-02T03:04:05.123Z", time.Date(2026, 1, 2, 3, 4, 5, 123_000_000, time.UTC)},
		{"2026-01-02T06:04:05+03:00", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2026-01-02", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2026-13-01", "02/01/2026"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

// ---------------------------------------------------------------------------
// DecodeUserUpdate
// ---------------------------------------------------------------------------

func TestDecodeUserUpdate_FiltersUnknownFields(t *testing.T) {
	update, err := DecodeUserUpdate([]byte(`{"name":"Alice","email":"x@y.com","role":"admin","password":"p"}`))

	require.NoError(t, err)
	require.NotNil(t, update.Name)
	assert.Equal(t, "Alice", *update.Name)
	assert.Nil(t, update.Password)
	assert.Nil(t, update.PasswordHash)
}

func TestDecodeUserUpdate_NoValidFields(t *testing.T) {
	_, err := DecodeUserUpdate([]byte(`{"email":"x@y.com"}`))
	assert.ErrorIs(t, err, ErrNoValidFields)

	_, err = DecodeUserUpdate([]byte(`{}`))
	assert.ErrorIs(t, err, ErrNoValidFields)
}

func TestDecodeUserUpdate_InvalidJSON(t *testing.T) {
	for _, body := range []string{`not json`, `[1,2]`, `null`, `"str"`} {
		_, err := DecodeUserUpdate([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidJSON, body)
	}
}

func TestDecodeUserUpdate_WrongScalarType(t *testing.T) {
	_, err := DecodeUserUpdate([]byte(`{"name":42}`))
	assert.ErrorIs(t, err, ErrInvalidUserFieldTypes)
}

func TestDecodeUserUpdate_NestedObjectsFiltered(t *testing.T) {
	body := `{
		"bio": "hi",
		"preferences": {"darkMode": true, "secretFlag": 1},
		"security": {"twoFactorEnabled": true, "recoveryCodes": ["a"]}
	}`

	update, err := DecodeUserUpdate([]byte(body))

	require.NoError(t, err)
	require.NotNil(t, update.Preferences)
	require.NotNil(t, update.Preferences.DarkMode)
	assert.True(t, *update.Preferences.DarkMode)
	require.NotNil(t, update.Security)
	require.NotNil(t, update.Security.TwoFactorEnabled)
	assert.True(t, *update.Security.TwoFactorEnabled)
	assert.Nil(t, update.Security.Sessions)
}

func TestDecodeUserUpdate_NestedEmptyAfterFilteringIsKept(t *testing.T) {
	update, err := DecodeUserUpdate([]byte(`{"preferences":{"unknown":true}}`))

	require.NoError(t, err)
	require.NotNil(t, update.Preferences)
	assert.True(t, update.Preferences.IsEmpty())
}

func TestDecodeUserUpdate_NullValuesRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"name null", `{"name":null}`, ErrInvalidUserFieldTypes},
		{"website null next to valid field", `{"bio":"hi","website":null}`, ErrInvalidUserFieldTypes},
		{"preferences null", `{"name":"A","preferences":null}`, ErrPreferencesNotObject},
		{"security null", `{"name":"A","security":null}`, ErrSecurityNotObject},
		{"nested preference null", `{"preferences":{"theme":null}}`, ErrInvalidPreferenceTypes},
		{"nested two factor null", `{"security":{"twoFactorEnabled":null}}`, ErrTwoFactorNotBoolean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := DecodeUserUpdate([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, models.UserUpdate{}, update)
		})
	}
}

func TestDecodeUserUpdate_NullOutsideAllowListIgnored(t *testing.T) {
	update, err := DecodeUserUpdate([]byte(`{"name":"A","email":null,"preferences":{"secret":null}}`))

	require.NoError(t, err)
	require.NotNil(t, update.Name)
	assert.Equal(t, "A", *update.Name)
	require.NotNil(t, update.Preferences)
	assert.True(t, update.Preferences.IsEmpty())
}

func TestDecodeUserUpdate_NestedErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"preferences not object", `{"preferences":"dark"}`, ErrPreferencesNotObject},
		{"security not object", `{"security":[1]}`, ErrSecurityNotObject},
		{"preference wrong type", `{"preferences":{"darkMode":"yes"}}`, ErrInvalidPreferenceTypes},
		{"sessions not array", `{"security":{"sessions":"all"}}`, ErrSessionsNotArray},
		{"session missing device", `{"security":{"sessions":[{"browser":"b","date":"2026-01-01","isActive":true}]}}`, ErrInvalidSessionFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUserUpdate([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// DecodePreferencesUpdate
// ---------------------------------------------------------------------------

func TestDecodePreferencesUpdate(t *testing.T) {
	update, err := DecodePreferencesUpdate([]byte(`{"theme":"dark","language":"German","reducedMotion":true,"id":"x"}`))

	require.NoError(t, err)
	assert.Equal(t, "dark", *update.Theme)
	assert.Equal(t, "German", *update.Language)
	assert.True(t, *update.ReducedMotion)
	assert.Nil(t, update.DarkMode)
}

func TestDecodePreferencesUpdate_Errors(t *testing.T) {
	_, err := DecodePreferencesUpdate([]byte(`{"userId":"x"}`))
	assert.ErrorIs(t, err, ErrNoValidPreferenceFields)

	_, err = DecodePreferencesUpdate([]byte(`{"theme":true}`))
	assert.ErrorIs(t, err, ErrInvalidPreferenceTypes)

	_, err = DecodePreferencesUpdate([]byte(`{"notifications":"on"}`))
	assert.ErrorIs(t, err, ErrInvalidPreferenceTypes)

	_, err = DecodePreferencesUpdate([]byte(`{`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestDecodePreferencesUpdate_NullValuesRejected(t *testing.T) {
	for _, field := range PreferenceFields {
		t.Run(field, func(t *testing.T) {
			_, err := DecodePreferencesUpdate([]byte(`{"` + field + `":null}`))
			assert.ErrorIs(t, err, ErrInvalidPreferenceTypes)
		})
	}

	_, err := DecodePreferencesUpdate([]byte(`{"theme":"dark","darkMode":null}`))
	assert.ErrorIs(t, err, ErrInvalidPreferenceTypes)
}

// ---------------------------------------------------------------------------
// DecodeSecurityUpdate
// ---------------------------------------------------------------------------

func TestDecodeSecurityUpdate(t *testing.T) {
	body := `{
		"twoFactorEnabled": false,
		"lastPasswordChange": "2026-02-03",
		"sessions": [
			{"id":"s1","device":"Desktop","browser":"Chrome","date":"2026-02-03T10:00:00Z","isActive":true},
			{"device":"Phone","browser":"Safari","date":"2026-02-04T10:00:00.5+02:00","isActive":false}
		]
	}`

	update, err := DecodeSecurityUpdate([]byte(body))

	require.NoError(t, err)
	require.NotNil(t, update.TwoFactorEnabled)
	assert.False(t, *update.TwoFactorEnabled)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), *update.LastPasswordChange)

	sessions := *update.Sessions
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, "Desktop", sessions[0].Device)
	assert.True(t, sessions[0].IsActive)
	assert.Empty(t, sessions[1].ID)
	assert.Equal(t, time.Date(2026, 2, 4, 8, 0, 0, 500_000_000, time.UTC), sessions[1].Date)
}

func TestDecodeSecurityUpdate_EmptySessionsClears(t *testing.T) {
	update, err := DecodeSecurityUpdate([]byte(`{"sessions":[]}`))

	require.NoError(t, err)
	require.NotNil(t, update.Sessions)
	assert.Empty(t, *update.Sessions)
}

func TestDecodeSecurityUpdate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"nothing allowed", `{"password":"x"}`, ErrNoValidSecurityFields},
		{"two factor string", `{"twoFactorEnabled":"true"}`, ErrTwoFactorNotBoolean},
		{"two factor null", `{"twoFactorEnabled":null}`, ErrTwoFactorNotBoolean},
		{"bad date", `{"lastPasswordChange":"last week"}`, ErrInvalidLastPasswordDate},
		{"date not string", `{"lastPasswordChange":12345}`, ErrInvalidLastPasswordDate},
		{"sessions object", `{"sessions":{"device":"d"}}`, ErrSessionsNotArray},
		{"sessions null", `{"sessions":null}`, ErrSessionsNotArray},
		{"session not object", `{"sessions":["s"]}`, ErrInvalidSessionFormat},
		{"isActive string", `{"sessions":[{"device":"d","browser":"b","date":"2026-01-01","isActive":"yes"}]}`, ErrInvalidSessionFormat},
		{"date unparseable", `{"sessions":[{"device":"d","browser":"b","date":"soon","isActive":true}]}`, ErrInvalidSessionFormat},
		{"id not string", `{"sessions":[{"id":7,"device":"d","browser":"b","date":"2026-01-01","isActive":true}]}`, ErrInvalidSessionFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSecurityUpdate([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
}
