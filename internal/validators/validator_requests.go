package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/gesture-sense/models"
)

// Field names accepted by Validate for field-level scoping. They are the Go
// struct field names of the request models.
const (
	FieldEmail           = "Email"
	FieldPassword        = "Password"
	FieldAvatar          = "Avatar"
	FieldDevice          = "Device"
	FieldBrowser         = "Browser"
	FieldCurrentPassword = "CurrentPassword"
	FieldNewPassword     = "NewPassword"
)

// RequestValidator implements Validator for the fixed-shape request models
// using go-playground/validator struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() Validator {
	return &RequestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. When fields are given only those struct fields are
// checked.
//
// Returns ErrUnsupportedType for unknown types and a *ValidationError for
// invalid input.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.check(ctx, &value, registerMessage, fields...)
	case *models.RegisterRequest:
		return v.check(ctx, value, registerMessage, fields...)

	case models.LoginRequest:
		return v.check(ctx, &value, loginMessage, fields...)
	case *models.LoginRequest:
		return v.check(ctx, value, loginMessage, fields...)

	case models.AvatarRequest:
		return v.check(ctx, &value, avatarMessage, fields...)
	case *models.AvatarRequest:
		return v.check(ctx, value, avatarMessage, fields...)

	case models.CreateSessionRequest:
		return v.check(ctx, &value, sessionMessage, fields...)
	case *models.CreateSessionRequest:
		return v.check(ctx, value, sessionMessage, fields...)

	case models.ChangePasswordRequest:
		return v.check(ctx, &value, passwordMessage, fields...)
	case *models.ChangePasswordRequest:
		return v.check(ctx, value, passwordMessage, fields...)

	default:
		return ErrUnsupportedType
	}
}

// check runs struct validation and translates the first failure with
// toMessage.
func (v *RequestValidator) check(ctx context.Context, obj any, toMessage func(validator.FieldError) *ValidationError, fields ...string) error {
	var err error
	if len(fields) == 0 {
		err = v.validate.StructCtx(ctx, obj)
	} else {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	return toMessage(fieldErrs[0])
}

func registerMessage(fe validator.FieldError) *ValidationError {
	if fe.Field() == FieldEmail && fe.Tag() == "email" {
		return ErrInvalidEmail
	}
	return ErrEmailAndPasswordRequired
}

func loginMessage(validator.FieldError) *ValidationError {
	return ErrEmailAndPasswordRequired
}

func avatarMessage(fe validator.FieldError) *ValidationError {
	if fe.Tag() == "required" {
		return ErrAvatarRequired
	}
	return ErrInvalidAvatarURL
}

func sessionMessage(validator.FieldError) *ValidationError {
	return ErrDeviceAndBrowserRequired
}

func passwordMessage(validator.FieldError) *ValidationError {
	return ErrPasswordsRequired
}

// NormalizeEmail trims surrounding spaces. Case is preserved; emails are
// compared exactly as stored.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
