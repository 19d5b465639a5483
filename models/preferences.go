package models

import "time"

const (
	// DefaultLanguage is the language assigned to new preference records.
	DefaultLanguage = "English"
	// DefaultTheme is the theme assigned to new preference records.
	DefaultTheme = "system"
)

// Preferences holds the behavioural and UI settings of a user.
type Preferences struct {
	HandGestureDetection     bool   `json:"handGestureDetection"`
	FacialEmotionRecognition bool   `json:"facialEmotionRecognition"`
	SpeechRecognition        bool   `json:"speechRecognition"`
	Notifications            bool   `json:"notifications"`
	DarkMode                 bool   `json:"darkMode"`
	HighContrast             bool   `json:"highContrast"`
	ReducedMotion            bool   `json:"reducedMotion"`
	Language                 string `json:"language"`
	Theme                    string `json:"theme"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultPreferences returns the preferences every new account starts with:
// detection features and notifications on, accessibility toggles off.
func DefaultPreferences() Preferences {
	return Preferences{
		HandGestureDetection:     true,
		FacialEmotionRecognition: true,
		SpeechRecognition:        true,
		Notifications:            true,
		DarkMode:                 false,
		HighContrast:             false,
		ReducedMotion:            false,
		Language:                 DefaultLanguage,
		Theme:                    DefaultTheme,
	}
}

// PreferencesUpdate is a partial update of [Preferences].
// Only non-nil fields are applied.
type PreferencesUpdate struct {
	Theme                    *string `json:"theme,omitempty"`
	Notifications            *bool   `json:"notifications,omitempty"`
	HandGestureDetection     *bool   `json:"handGestureDetection,omitempty"`
	FacialEmotionRecognition *bool   `json:"facialEmotionRecognition,omitempty"`
	SpeechRecognition        *bool   `json:"speechRecognition,omitempty"`
	DarkMode                 *bool   `json:"darkMode,omitempty"`
	HighContrast             *bool   `json:"highContrast,omitempty"`
	ReducedMotion            *bool   `json:"reducedMotion,omitempty"`
	Language                 *string `json:"language,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u PreferencesUpdate) IsEmpty() bool {
	return u.Theme == nil && u.Notifications == nil && u.HandGestureDetection == nil &&
		u.FacialEmotionRecognition == nil && u.SpeechRecognition == nil &&
		u.DarkMode == nil && u.HighContrast == nil && u.ReducedMotion == nil &&
		u.Language == nil
}

// Apply merges the set fields of u into p. Unset fields keep their value.
func (p *Preferences) Apply(u PreferencesUpdate) {
	applyString(&p.Theme, u.Theme)
	applyString(&p.Language, u.Language)
	applyBool(&p.Notifications, u.Notifications)
	applyBool(&p.HandGestureDetection, u.HandGestureDetection)
	applyBool(&p.FacialEmotionRecognition, u.FacialEmotionRecognition)
	applyBool(&p.SpeechRecognition, u.SpeechRecognition)
	applyBool(&p.DarkMode, u.DarkMode)
	applyBool(&p.HighContrast, u.HighContrast)
	applyBool(&p.ReducedMotion, u.ReducedMotion)
}

// TableName returns the name of the database table
// associated with the Preferences model.
func (p Preferences) TableName() string {
	return "preferences"
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
