package validators

import "errors"

// ValidationError is a client input error. Its message is safe to return in
// a response body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	ErrInvalidJSON = newValidationError("Invalid JSON body")

	ErrNoValidFields           = newValidationError("No valid fields to update")
	ErrNoValidPreferenceFields = newValidationError("No valid preference fields to update")
	ErrNoValidSecurityFields   = newValidationError("No valid security fields to update")

	ErrInvalidUserFieldTypes   = newValidationError("Invalid user field value types")
	ErrInvalidPreferenceTypes  = newValidationError("Invalid preference value types")
	ErrPreferencesNotObject    = newValidationError("Preferences must be an object")
	ErrSecurityNotObject       = newValidationError("Security must be an object")
	ErrTwoFactorNotBoolean     = newValidationError("twoFactorEnabled must be a boolean")
	ErrInvalidLastPasswordDate = newValidationError("lastPasswordChange must be a valid date")
	ErrSessionsNotArray        = newValidationError("Sessions must be an array")
	ErrInvalidSessionFormat    = newValidationError("Invalid session format")

	ErrEmailAndPasswordRequired = newValidationError("Email and password are required")
	ErrInvalidEmail             = newValidationError("Invalid email address")
	ErrAvatarRequired           = newValidationError("Avatar URL is required")
	ErrInvalidAvatarURL         = newValidationError("Invalid avatar URL")
	ErrDeviceAndBrowserRequired = newValidationError("Device and browser are required")
	ErrPasswordsRequired        = newValidationError("Current and new password are required")
)
