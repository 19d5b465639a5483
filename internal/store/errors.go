package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserNotFound is returned when no user matches the given id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when creating a user fails because
	// another account already uses the email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrPreferencesNotFound is returned when the user has no preferences row.
	ErrPreferencesNotFound = errors.New("preferences not found")

	// ErrSecurityNotFound is returned when the user has no security row.
	ErrSecurityNotFound = errors.New("security settings not found")

	// ErrSessionNotFound is returned when a session id does not belong to the
	// given user.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSessionID is returned when a session id is already used by
	// another session of the same user.
	ErrDuplicateSessionID = errors.New("duplicate session id")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails
	// mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
