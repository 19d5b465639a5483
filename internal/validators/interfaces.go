// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request bodies before they reach the service
// layer.
//
// Two styles live here:
//   - Validator: struct-tag validation of fixed-shape requests (register,
//     login, avatar, session creation, password change) with optional
//     field-level scoping.
//   - Decode* functions: allow-list filtering and type checking of partial
//     PATCH bodies, producing the typed update models.
//
// Every client-facing failure is a *ValidationError whose message can be
// returned to the caller as is.
package validators

import "context"

// Validator defines a generic validation interface for request values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
