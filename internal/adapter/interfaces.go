// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client-side transport to the user-account
// REST API.
package adapter

import (
	"context"

	"github.com/MKhiriev/gesture-sense/models"
)

// ServerAdapter is the client view of the server's HTTP routes. Every method
// maps a non-2xx response to one of the package errors.
type ServerAdapter interface {
	// Register creates an account and returns the sanitized user.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login checks credentials and returns the matching user.
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)

	// GetUser fetches a user by id.
	GetUser(ctx context.Context, id string) (models.User, error)

	// UpdatePreferences applies a partial preferences update.
	UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (models.Preferences, error)

	// DeleteUser removes the account.
	DeleteUser(ctx context.Context, id string) error

	// Seed asks a development server for its default user.
	Seed(ctx context.Context) (models.User, error)

	// Health reports whether the server can reach its database.
	Health(ctx context.Context) error

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)
}
