package out

import (
	"context"
	"encoding/json"
	"time"

	"tempo/internal/modules/tracker/domain"
	trackerout "tempo/internal/modules/tracker/port/out"
	apperrors "tempo/internal/platform/errors"
)

// BlobRepository stores each collection as one JSON array of flat objects.
// Timestamps are ISO-8601 in UTC, durations are milliseconds, and optional
// fields are omitted.
type BlobRepository struct {
	blobs trackerout.BlobStore
}

func NewBlobRepository(blobs trackerout.BlobStore) trackerout.Repository {
	return &BlobRepository{blobs: blobs}
}

type storedNotification struct {
	Enabled       bool   `json:"enabled"`
	Hours         int    `json:"hours"`
	Minutes       int    `json:"minutes"`
	Seconds       int    `json:"seconds"`
	CustomMessage string `json:"customMessage,omitempty"`
}

type storedActivity struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Type               string              `json:"type"`
	Icon               string              `json:"icon"`
	Color              string              `json:"color"`
	NotificationConfig *storedNotification `json:"notificationConfig,omitempty"`
	IsTracking         bool                `json:"isTracking,omitempty"`
	TrackingStartTime  *time.Time          `json:"trackingStartTime,omitempty"`
	LastTracked        *time.Time          `json:"lastTracked,omitempty"`
	LastNotificationID string              `json:"lastNotificationId,omitempty"`
}

type storedRecord struct {
	ID           string     `json:"id"`
	ActivityID   string     `json:"activityId"`
	Timestamp    time.Time  `json:"timestamp"`
	EndTimestamp *time.Time `json:"endTimestamp,omitempty"`
	Duration     *int64     `json:"duration,omitempty"`
	Note         string     `json:"note,omitempty"`
}

func (r *BlobRepository) LoadActivities(ctx context.Context) ([]domain.Activity, error) {
	stored := []storedActivity{}
	if err := r.load(ctx, trackerout.ActivitiesKey, &stored); err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(stored))
	for _, s := range stored {
		out = append(out, s.toDomain())
	}
	return out, nil
}

func (r *BlobRepository) LoadRecords(ctx context.Context) ([]domain.ActivityRecord, error) {
	stored := []storedRecord{}
	if err := r.load(ctx, trackerout.RecordsKey, &stored); err != nil {
		return nil, err
	}
	out := make([]domain.ActivityRecord, 0, len(stored))
	for _, s := range stored {
		out = append(out, s.toDomain())
	}
	return out, nil
}

func (r *BlobRepository) SaveActivities(ctx context.Context, activities []domain.Activity) error {
	stored := make([]storedActivity, 0, len(activities))
	for _, a := range activities {
		stored = append(stored, activityFromDomain(a))
	}
	return r.save(ctx, trackerout.ActivitiesKey, stored)
}

func (r *BlobRepository) SaveRecords(ctx context.Context, records []domain.ActivityRecord) error {
	stored := make([]storedRecord, 0, len(records))
	for _, rec := range records {
		stored = append(stored, recordFromDomain(rec))
	}
	return r.save(ctx, trackerout.RecordsKey, stored)
}

func (r *BlobRepository) Clear(ctx context.Context) error {
	keys := []string{trackerout.ActivitiesKey, trackerout.RecordsKey}
	if err := r.blobs.RemoveMany(ctx, keys); err != nil {
		return &apperrors.PersistenceError{Op: "remove", Key: "collections", Err: err}
	}
	return nil
}

func (r *BlobRepository) load(ctx context.Context, key string, into any) error {
	blob, ok, err := r.blobs.Load(ctx, key)
	if err != nil {
		return &apperrors.PersistenceError{Op: "load", Key: key, Err: err}
	}
	if !ok || len(blob) == 0 {
		return nil
	}
	if err := json.Unmarshal(blob, into); err != nil {
		return &apperrors.PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return nil
}

func (r *BlobRepository) save(ctx context.Context, key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return &apperrors.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := r.blobs.Save(ctx, key, blob); err != nil {
		return &apperrors.PersistenceError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func activityFromDomain(a domain.Activity) storedActivity {
	s := storedActivity{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               string(a.Type),
		Icon:               a.Icon,
		Color:              a.Color,
		LastNotificationID: a.LastNotificationID,
	}
	if cfg := a.NotificationConfig; cfg != nil {
		s.NotificationConfig = &storedNotification{
			Enabled:       cfg.Enabled,
			Hours:         cfg.Hours,
			Minutes:       cfg.Minutes,
			Seconds:       cfg.Seconds,
			CustomMessage: cfg.CustomMessage,
		}
	}
	if start, open := a.Tracking.StartedAt(); open {
		s.IsTracking = true
		s.TrackingStartTime = utc(start)
	}
	if a.HasLastTracked() {
		s.LastTracked = utc(a.LastTracked)
	}
	return s
}

// toDomain maps isTracking without a start time to Idle.
func (s storedActivity) toDomain() domain.Activity {
	a := domain.Activity{
		ID:                 s.ID,
		Name:               s.Name,
		Type:               domain.ActivityType(s.Type),
		Icon:               s.Icon,
		Color:              s.Color,
		LastNotificationID: s.LastNotificationID,
	}
	if cfg := s.NotificationConfig; cfg != nil {
		a.NotificationConfig = &domain.NotificationConfig{
			Enabled:       cfg.Enabled,
			Hours:         cfg.Hours,
			Minutes:       cfg.Minutes,
			Seconds:       cfg.Seconds,
			CustomMessage: cfg.CustomMessage,
		}
	}
	if s.IsTracking && s.TrackingStartTime != nil && a.Type == domain.TypeDuration {
		a.Tracking = domain.Open(*s.TrackingStartTime)
	}
	if s.LastTracked != nil {
		a.LastTracked = *s.LastTracked
	}
	return a
}

func recordFromDomain(r domain.ActivityRecord) storedRecord {
	s := storedRecord{
		ID:         r.ID,
		ActivityID: r.ActivityID,
		Timestamp:  r.Timestamp.UTC(),
		Note:       r.Note,
	}
	if r.End != nil {
		s.EndTimestamp = utc(*r.End)
	}
	if r.Duration != nil {
		ms := r.Duration.Milliseconds()
		s.Duration = &ms
	}
	return s
}

// toDomain derives the duration from the bounds; the stored millisecond
// value only records that the record had one.
func (s storedRecord) toDomain() domain.ActivityRecord {
	r := domain.ActivityRecord{
		ID:         s.ID,
		ActivityID: s.ActivityID,
		Timestamp:  s.Timestamp,
		Note:       s.Note,
	}
	if s.EndTimestamp != nil {
		end := *s.EndTimestamp
		d := end.Sub(s.Timestamp)
		r.End = &end
		r.Duration = &d
	} else if s.Duration != nil {
		d := time.Duration(*s.Duration) * time.Millisecond
		r.Duration = &d
	}
	return r
}

func utc(t time.Time) *time.Time {
	v := t.UTC()
	return &v
}
