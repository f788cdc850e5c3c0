package domain

import (
	"strings"
	"time"

	apperrors "tempo/internal/platform/errors"
)

type ActivityType string

const (
	TypeInstant  ActivityType = "instant"
	TypeDuration ActivityType = "duration"
)

func (t ActivityType) Valid() bool {
	return t == TypeInstant || t == TypeDuration
}

// TrackingState is either Idle or Open(startedAt). The zero value is Idle.
// Fields are unexported so an open session always carries its start time.
type TrackingState struct {
	open      bool
	startedAt time.Time
}

func Idle() TrackingState { return TrackingState{} }

func Open(startedAt time.Time) TrackingState {
	return TrackingState{open: true, startedAt: startedAt}
}

func (s TrackingState) IsOpen() bool { return s.open }

func (s TrackingState) StartedAt() (time.Time, bool) {
	return s.startedAt, s.open
}

// NotificationConfig describes a reminder fired a fixed offset after the
// activity was last tracked.
type NotificationConfig struct {
	Enabled       bool
	Hours         int
	Minutes       int
	Seconds       int
	CustomMessage string
}

// Offset is defined for every config, including out-of-range ones; Validate
// is what rejects those.
func (c NotificationConfig) Offset() time.Duration {
	return time.Duration(c.Hours)*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second
}

func (c NotificationConfig) Validate() error {
	switch {
	case c.Hours < 0 || c.Hours > 24:
		return apperrors.Invalid("notification hours", "must be between 0 and 24")
	case c.Minutes < 0 || c.Minutes > 59:
		return apperrors.Invalid("notification minutes", "must be between 0 and 59")
	case c.Seconds < 0 || c.Seconds > 59:
		return apperrors.Invalid("notification seconds", "must be between 0 and 59")
	case c.Enabled && c.Offset() <= 0:
		return apperrors.Invalid("notification offset", "must be greater than zero when enabled")
	}
	return nil
}

type Activity struct {
	ID                 string
	Name               string
	Type               ActivityType
	Color              string
	Icon               string
	Tracking           TrackingState
	LastTracked        time.Time
	NotificationConfig *NotificationConfig
	LastNotificationID string
}

func (a Activity) HasLastTracked() bool { return !a.LastTracked.IsZero() }

// RemindersEnabled reports whether the activity carries an enabled config.
func (a Activity) RemindersEnabled() bool {
	return a.NotificationConfig != nil && a.NotificationConfig.Enabled
}

// Validate checks the user-editable fields.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return apperrors.Invalid("name", "must not be empty")
	}
	if !a.Type.Valid() {
		return apperrors.Invalid("type", "must be instant or duration")
	}
	if !IsPaletteColor(a.Color) {
		return apperrors.Invalid("color", "must be one of the palette colors")
	}
	if !IsKnownIcon(a.Icon) {
		return apperrors.Invalid("icon", "unknown icon "+a.Icon)
	}
	if a.NotificationConfig != nil {
		if err := a.NotificationConfig.Validate(); err != nil {
			return err
		}
	}
	if a.Type == TypeInstant && a.Tracking.IsOpen() {
		return apperrors.Invalid("tracking", "instant activities cannot be tracked")
	}
	return nil
}
