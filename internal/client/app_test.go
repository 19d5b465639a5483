// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/gesture-sense/internal/adapter"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	adapter.ServerAdapter

	registered models.RegisterRequest
	prefsID    string
	prefs      models.PreferencesUpdate
	deleted    string
	err        error
}

func (f *fakeAdapter) Register(_ context.Context, req models.RegisterRequest) (models.User, error) {
	f.registered = req
	return models.User{ID: "u1", Email: req.Email, Name: req.Name}, f.err
}

func (f *fakeAdapter) Login(_ context.Context, req models.LoginRequest) (models.User, error) {
	return models.User{ID: "u1", Email: req.Email}, f.err
}

func (f *fakeAdapter) UpdatePreferences(_ context.Context, id string, update models.PreferencesUpdate) (models.Preferences, error) {
	f.prefsID, f.prefs = id, update
	return models.Preferences{Theme: "dark"}, f.err
}

func (f *fakeAdapter) DeleteUser(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeAdapter) Health(context.Context) error { return f.err }

func (f *fakeAdapter) Version(context.Context) (string, error) { return "1.0.0", f.err }

func newTestApp(f *fakeAdapter) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return NewApp(f, &out, logger.Nop()), &out
}

func TestRun_NoCommand(t *testing.T) {
	app, out := newTestApp(&fakeAdapter{})

	err := app.Run(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoCommand)
	assert.Contains(t, out.String(), "usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(&fakeAdapter{})

	assert.ErrorIs(t, app.Run(context.Background(), []string{"fly"}), ErrUnknownCommand)
}

func TestRun_WrongArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"register without password", []string{"register", "a@b.c"}},
		{"login with extra operand", []string{"login", "a@b.c", "p", "x"}},
		{"user without id", []string{"user"}},
		{"prefs without pairs", []string{"prefs", "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(&fakeAdapter{})
			assert.ErrorIs(t, app.Run(context.Background(), tt.args), ErrWrongArguments)
		})
	}
}

func TestRun_Register(t *testing.T) {
	f := &fakeAdapter{}
	app, out := newTestApp(f)

	require.NoError(t, app.Run(context.Background(), []string{"register", "alice@example.com", "secret", "Alice"}))

	assert.Equal(t, models.RegisterRequest{Email: "alice@example.com", Password: "secret", Name: "Alice"}, f.registered)

	var printed models.User
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, "u1", printed.ID)
}

func TestRun_LoginPropagatesError(t *testing.T) {
	app, _ := newTestApp(&fakeAdapter{err: adapter.ErrUnauthorized})

	assert.ErrorIs(t, app.Run(context.Background(), []string{"login", "a@b.c", "bad"}), adapter.ErrUnauthorized)
}

func TestRun_Prefs(t *testing.T) {
	f := &fakeAdapter{}
	app, _ := newTestApp(f)

	require.NoError(t, app.Run(context.Background(), []string{"prefs", "u1", "darkMode=true", "theme=dark"}))

	assert.Equal(t, "u1", f.prefsID)
	require.NotNil(t, f.prefs.DarkMode)
	assert.True(t, *f.prefs.DarkMode)
	require.NotNil(t, f.prefs.Theme)
	assert.Equal(t, "dark", *f.prefs.Theme)
	assert.Nil(t, f.prefs.Language)
}

func TestRun_DeleteVersionHealth(t *testing.T) {
	f := &fakeAdapter{}
	app, out := newTestApp(f)

	require.NoError(t, app.Run(context.Background(), []string{"delete", "u9"}))
	assert.Equal(t, "u9", f.deleted)

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"version"}))
	assert.Equal(t, "1.0.0\n", out.String())

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"health"}))
	assert.JSONEq(t, `{"status":"ok"}`, out.String())
}

func TestParsePreferences_Errors(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
	}{
		{"missing equals", []string{"darkMode"}},
		{"unknown key", []string{"volume=3"}},
		{"bad bool", []string{"darkMode=maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePreferences(tt.pairs)
			assert.Error(t, err)
		})
	}
}
