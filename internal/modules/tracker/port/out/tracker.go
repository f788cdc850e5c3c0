package out

import (
	"context"

	"tempo/internal/modules/tracker/domain"
)

// Storage keys for the two persisted collections.
const (
	ActivitiesKey = "@activities"
	RecordsKey    = "@activity_records"
)

// BlobStore is a string-keyed blob store. Load reports ok=false for a
// missing key.
type BlobStore interface {
	Load(ctx context.Context, key string) (blob []byte, ok bool, err error)
	Save(ctx context.Context, key string, blob []byte) error
	RemoveMany(ctx context.Context, keys []string) error
}

// Repository maps the collections onto a BlobStore. Each collection loads
// independently so one corrupt blob does not hide the other.
type Repository interface {
	LoadActivities(ctx context.Context) ([]domain.Activity, error)
	LoadRecords(ctx context.Context) ([]domain.ActivityRecord, error)
	SaveActivities(ctx context.Context, activities []domain.Activity) error
	SaveRecords(ctx context.Context, records []domain.ActivityRecord) error
	Clear(ctx context.Context) error
}

// Reminders arms and cancels the single pending reminder of an activity.
// Schedule reports changed=false when the stored handle is still current;
// otherwise handle is the new live handle, empty if none is pending. A failed
// call may still report changed when the old reminder was already cancelled.
type Reminders interface {
	Schedule(ctx context.Context, activity domain.Activity) (handle string, changed bool, err error)
	Cancel(ctx context.Context, activityID, handle string) error
}
