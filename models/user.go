package models

import "time"

// DefaultRole is assigned to every account created without an explicit role.
const DefaultRole = "user"

// User is the account aggregate. It owns exactly one [Preferences] and one
// [Security] record for its whole lifetime.
//
// PasswordHash is write-only: it is never serialized and must be cleared via
// [User.Sanitize] before the value leaves the service layer.
type User struct {
	// ID is an opaque unique key (UUIDv7) assigned at creation.
	ID string `json:"id"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	Role           string `json:"role"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	TwitterHandle  string `json:"twitterHandle"`
	GithubHandle   string `json:"githubHandle"`
	LinkedinHandle string `json:"linkedinHandle"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Preferences Preferences `json:"preferences"`
	Security    Security    `json:"security"`
}

// Sanitize returns a copy of u without the password hash.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// CreateUserData carries the input of account creation. Password is the
// plain-text password; it is hashed before it reaches storage.
type CreateUserData struct {
	Email          string
	Password       string
	Name           string
	Avatar         string
	Role           string
	Bio            string
	Location       string
	Company        string
	Website        string
	TwitterHandle  string
	GithubHandle   string
	LinkedinHandle string
}

// UserUpdate is a partial update of a user and, optionally, of its nested
// records. Nil fields are left unchanged.
type UserUpdate struct {
	Name           *string `json:"name,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Company        *string `json:"company,omitempty"`
	Location       *string `json:"location,omitempty"`
	Website        *string `json:"website,omitempty"`
	TwitterHandle  *string `json:"twitterHandle,omitempty"`
	GithubHandle   *string `json:"githubHandle,omitempty"`
	LinkedinHandle *string `json:"linkedinHandle,omitempty"`

	// Password is the new plain-text password. The service replaces it with
	// PasswordHash before calling the repository.
	Password *string `json:"-"`

	// PasswordHash is set by the service layer only.
	PasswordHash *string `json:"-"`

	Preferences *PreferencesUpdate `json:"preferences,omitempty"`
	Security    *SecurityUpdate    `json:"security,omitempty"`
}

// IsEmpty reports whether the update carries no changes at all.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Avatar == nil && u.Bio == nil && u.Company == nil &&
		u.Location == nil && u.Website == nil && u.TwitterHandle == nil &&
		u.GithubHandle == nil && u.LinkedinHandle == nil &&
		u.Password == nil && u.PasswordHash == nil &&
		u.Preferences == nil && u.Security == nil
}

// Columns returns the user-table column values touched by the update,
// keyed by column name.
func (u UserUpdate) Columns() map[string]any {
	columns := make(map[string]any, 10)

	set := func(column string, value *string) {
		if value != nil {
			columns[column] = *value
		}
	}

	set("name", u.Name)
	set("avatar", u.Avatar)
	set("bio", u.Bio)
	set("company", u.Company)
	set("location", u.Location)
	set("website", u.Website)
	set("twitter_handle", u.TwitterHandle)
	set("github_handle", u.GithubHandle)
	set("linkedin_handle", u.LinkedinHandle)
	set("password_hash", u.PasswordHash)

	return columns
}
