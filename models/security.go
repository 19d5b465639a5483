package models

import "time"

// Security holds the account-protection state of a user.
type Security struct {
	TwoFactorEnabled   bool      `json:"twoFactorEnabled"`
	LastPasswordChange time.Time `json:"lastPasswordChange"`
	Sessions           []Session `json:"sessions"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Session records one login context of a user. It is unrelated to HTTP
// sessions: nothing authenticates with it.
type Session struct {
	ID       string    `json:"id"`
	Device   string    `json:"device"`
	Browser  string    `json:"browser"`
	Date     time.Time `json:"date"`
	IsActive bool      `json:"isActive"`
}

// DefaultSecurity returns the security record every new account starts with.
func DefaultSecurity(now time.Time) Security {
	return Security{
		TwoFactorEnabled:   false,
		LastPasswordChange: now,
		Sessions:           []Session{},
	}
}

// SecurityUpdate is a partial update of [Security].
//
// A non-nil Sessions replaces the whole session list; a nil Sessions keeps
// the stored list untouched.
type SecurityUpdate struct {
	TwoFactorEnabled   *bool      `json:"twoFactorEnabled,omitempty"`
	LastPasswordChange *time.Time `json:"lastPasswordChange,omitempty"`
	Sessions           *[]Session `json:"sessions,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u SecurityUpdate) IsEmpty() bool {
	return u.TwoFactorEnabled == nil && u.LastPasswordChange == nil && u.Sessions == nil
}

// Apply merges the set fields of u into s.
func (s *Security) Apply(u SecurityUpdate) {
	applyBool(&s.TwoFactorEnabled, u.TwoFactorEnabled)
	if u.LastPasswordChange != nil {
		s.LastPasswordChange = *u.LastPasswordChange
	}
	if u.Sessions != nil {
		s.Sessions = append([]Session{}, (*u.Sessions)...)
	}
}

// TableName returns the name of the database table
// associated with the Security model.
func (s Security) TableName() string {
	return "security"
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
