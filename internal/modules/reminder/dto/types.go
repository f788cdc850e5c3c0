package dto

import "time"

type ScheduleInput struct {
	ActivityID     string
	ActivityName   string
	Enabled        bool
	Hours          int
	Minutes        int
	Seconds        int
	CustomMessage  string
	LastTracked    time.Time
	PreviousHandle string
}

// ScheduleOutput reports the live handle after the call. Changed is false
// when the call left the previous handle untouched.
type ScheduleOutput struct {
	Handle    string
	Scheduled bool
	Changed   bool
	FireAt    time.Time
}

type PendingReminder struct {
	ActivityID string
	Handle     string
	FireAt     time.Time
}
