package dto

import "time"

// Outcome values reported by TrackOutput.
const (
	OutcomeRecorded        = "recorded"
	OutcomeStarted         = "started"
	OutcomeAlreadyTracking = "already_tracking"
	OutcomeStopped         = "stopped"
	OutcomeNotTracking     = "not_tracking"
)

type NotificationConfig struct {
	Enabled       bool
	Hours         int
	Minutes       int
	Seconds       int
	CustomMessage string
}

type AddActivityInput struct {
	Name         string
	Type         string
	Color        string
	Icon         string
	Notification *NotificationConfig
}

// UpdateActivityInput replaces the user-editable fields of an activity.
// An empty Type keeps the current type.
type UpdateActivityInput struct {
	ID           string
	Name         string
	Type         string
	Color        string
	Icon         string
	Notification *NotificationConfig
}

type ActivityOutput struct {
	ID                 string
	Name               string
	Type               string
	Color              string
	Icon               string
	Tracking           bool
	TrackingStartedAt  time.Time
	LastTracked        time.Time
	Notification       *NotificationConfig
	LastNotificationID string
}

type RecordOutput struct {
	ID         string
	ActivityID string
	Timestamp  time.Time
	End        *time.Time
	Duration   *time.Duration
	Note       string
}

// LatestAt is End when present, else Timestamp.
func (r RecordOutput) LatestAt() time.Time {
	if r.End != nil {
		return *r.End
	}
	return r.Timestamp
}

type TrackInput struct {
	ActivityID string
	At         *time.Time
}

type TrackOutput struct {
	Outcome  string
	Activity ActivityOutput
	Record   *RecordOutput
}

type ManualRecordInput struct {
	ActivityID string
	Start      time.Time
	End        time.Time
	Note       string
}

type Snapshot struct {
	Activities []ActivityOutput
	Records    []RecordOutput
}

// JoinedRecord pairs a record with its owning activity for export.
type JoinedRecord struct {
	Activity ActivityOutput
	Record   RecordOutput
}

type LoadReport struct {
	Activities        int
	Records           int
	DroppedActivities int
	DroppedRecords    int
	Errors            []string
}

type ErrorReport struct {
	Kind    string
	Message string
	At      time.Time
}
