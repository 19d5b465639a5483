package models

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AvatarRequest is the body of PATCH /api/users/{id}/avatar.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,url"`
}

// CreateSessionRequest is the body of POST /api/users/{id}/security.
type CreateSessionRequest struct {
	Device  string `json:"device" validate:"required"`
	Browser string `json:"browser" validate:"required"`
}

// ChangePasswordRequest is the body of PATCH /api/users/{id}/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status string `json:"status"`
}
