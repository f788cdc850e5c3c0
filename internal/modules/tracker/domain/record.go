package domain

import (
	"time"

	apperrors "tempo/internal/platform/errors"
)

// ActivityRecord is a completed occurrence. Instant records carry only
// Timestamp; duration records also carry End and the derived Duration.
type ActivityRecord struct {
	ID         string
	ActivityID string
	Timestamp  time.Time
	End        *time.Time
	Duration   *time.Duration
	Note       string
}

func NewInstantRecord(id, activityID string, at time.Time) ActivityRecord {
	return ActivityRecord{ID: id, ActivityID: activityID, Timestamp: at}
}

// NewDurationRecord derives Duration from the bounds. end must be after start.
func NewDurationRecord(id, activityID string, start, end time.Time, note string) (ActivityRecord, error) {
	if !end.After(start) {
		return ActivityRecord{}, apperrors.Invalid("end", "must be after start")
	}
	d := end.Sub(start)
	return ActivityRecord{
		ID:         id,
		ActivityID: activityID,
		Timestamp:  start,
		End:        &end,
		Duration:   &d,
		Note:       note,
	}, nil
}

// LatestAt is the instant a record finished: End when present, else Timestamp.
func (r ActivityRecord) LatestAt() time.Time {
	if r.End != nil {
		return *r.End
	}
	return r.Timestamp
}

func (r ActivityRecord) Validate() error {
	if r.ID == "" || r.ActivityID == "" {
		return apperrors.Invalid("record", "id and activity id are required")
	}
	if r.Timestamp.IsZero() {
		return apperrors.Invalid("timestamp", "is required")
	}
	if (r.End == nil) != (r.Duration == nil) {
		return apperrors.Invalid("record", "end and duration must be set together")
	}
	if r.End != nil {
		if !r.End.After(r.Timestamp) {
			return apperrors.Invalid("end", "must be after start")
		}
		if *r.Duration != r.End.Sub(r.Timestamp) {
			return apperrors.Invalid("duration", "must equal end minus start")
		}
	}
	return nil
}
