package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"tempo/internal/modules/tracker/domain"
	"tempo/internal/modules/tracker/service"
	apperrors "tempo/internal/platform/errors"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newStoreWith(t *testing.T, typ domain.ActivityType) (*service.Store, domain.Activity) {
	t.Helper()
	store := service.NewStore(&seqID{})
	a, err := store.AddActivity(domain.Activity{Name: "Run", Type: typ, Color: "#4CD964", Icon: "running"})
	if err != nil {
		t.Fatalf("add activity: %v", err)
	}
	return store, a
}

func TestInstantTrackAppendsRecordAndMovesLastTracked(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeInstant)

	tr, err := store.Track(a.ID, t0)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tr.Outcome != service.Recorded || tr.Record == nil || !tr.Activity.LastTracked.Equal(t0) {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if len(store.Records()) != 1 {
		t.Fatalf("expected one record, got %d", len(store.Records()))
	}
	if tr.Activity.Tracking.IsOpen() {
		t.Fatalf("instant activities never open a session")
	}
}

func TestTrackRejectsTimestampBeforeLastTracked(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeInstant)
	if _, err := store.Track(a.ID, t0); err != nil {
		t.Fatalf("track: %v", err)
	}
	_, err := store.Track(a.ID, t0.Add(-time.Minute))
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected monotonic violation, got %v", err)
	}
	if len(store.Records()) != 1 {
		t.Fatalf("rejected track must not change state")
	}
	if _, err := store.Track(a.ID, t0); err != nil {
		t.Fatalf("equal timestamp is non-decreasing and must be accepted: %v", err)
	}
}

func TestDurationStartStopCreatesCompletedRecord(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeDuration)

	started, err := store.Track(a.ID, t0)
	if err != nil || started.Outcome != service.Started {
		t.Fatalf("start: %+v %v", started, err)
	}
	again, err := store.Track(a.ID, t0.Add(time.Minute))
	if err != nil || again.Outcome != service.AlreadyTracking {
		t.Fatalf("second start must be a no-op: %+v %v", again, err)
	}
	if at, _ := again.Activity.Tracking.StartedAt(); !at.Equal(t0) {
		t.Fatalf("no-op start must keep the original start time")
	}

	stopped, err := store.Stop(a.ID, t0.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.Outcome != service.Stopped || stopped.Record == nil {
		t.Fatalf("unexpected stop transition %+v", stopped)
	}
	if *stopped.Record.Duration != 10*time.Minute || stopped.Record.Duration.Milliseconds() != 600000 {
		t.Fatalf("unexpected duration %v", *stopped.Record.Duration)
	}
	if stopped.Activity.Tracking.IsOpen() || !stopped.Activity.LastTracked.Equal(t0.Add(10*time.Minute)) {
		t.Fatalf("activity must be idle with lastTracked at end: %+v", stopped.Activity)
	}

	idle, err := store.Stop(a.ID, t0.Add(20*time.Minute))
	if err != nil || idle.Outcome != service.NotTracking {
		t.Fatalf("stop while idle must be a no-op: %+v %v", idle, err)
	}
}

func TestStopRejectsNonPositiveDuration(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeDuration)
	if _, err := store.Track(a.ID, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := store.Stop(a.ID, t0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
	current, _ := store.Activity(a.ID)
	if !current.Tracking.IsOpen() {
		t.Fatalf("failed stop must leave the session open")
	}
}

func TestManualRecordOnlyMovesLastTrackedForward(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeDuration)

	first, err := store.AddManualRecord(a.ID, t0, t0.Add(time.Hour), "morning")
	if err != nil || !first.LastTrackedMoved {
		t.Fatalf("first manual record: %+v %v", first, err)
	}
	older, err := store.AddManualRecord(a.ID, t0.Add(-48*time.Hour), t0.Add(-47*time.Hour), "")
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if older.LastTrackedMoved || !older.Activity.LastTracked.Equal(t0.Add(time.Hour)) {
		t.Fatalf("backfill must not move lastTracked backwards: %+v", older.Activity)
	}
	if _, err := store.AddManualRecord(a.ID, t0, t0.Add(-time.Second), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("end before start must be rejected, got %v", err)
	}
	if _, err := store.AddManualRecord("missing", t0, t0.Add(time.Second), ""); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown activity must be not found, got %v", err)
	}
}

func TestDeleteActivityCascadesRecords(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeInstant)
	other, err := store.AddActivity(domain.Activity{Name: "Tea", Type: domain.TypeInstant, Color: "#FF9500", Icon: "coffee"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Track(a.ID, t0.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("track: %v", err)
		}
	}
	if _, err := store.Track(other.ID, t0); err != nil {
		t.Fatalf("track other: %v", err)
	}
	snapshot := store.Records()

	if _, ok := store.DeleteActivity(a.ID); !ok {
		t.Fatalf("delete must find the activity")
	}
	for _, r := range store.Records() {
		if r.ActivityID == a.ID {
			t.Fatalf("record %s survived cascade delete", r.ID)
		}
	}
	if len(store.Records()) != 1 {
		t.Fatalf("unrelated records must survive, got %d", len(store.Records()))
	}
	if len(snapshot) != 4 {
		t.Fatalf("earlier snapshot must be unaffected by later mutations, got %d", len(snapshot))
	}
	if _, ok := store.DeleteActivity(a.ID); ok {
		t.Fatalf("second delete must report missing")
	}
}

func TestUpdateKeepsTypeAndStoreOwnedFields(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeDuration)
	if _, err := store.Track(a.ID, t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.SetNotificationHandle(a.ID, "n-1")

	_, after, err := store.UpdateActivity(domain.Activity{ID: a.ID, Name: "Long run", Color: "#007AFF", Icon: "heart"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if after.Name != "Long run" || !after.Tracking.IsOpen() || after.LastNotificationID != "n-1" || after.Type != domain.TypeDuration {
		t.Fatalf("unexpected updated activity %+v", after)
	}
	if _, _, err := store.UpdateActivity(domain.Activity{ID: a.ID, Name: "x", Type: domain.TypeInstant, Color: "#007AFF", Icon: "heart"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("type change must be rejected, got %v", err)
	}
	if _, _, err := store.UpdateActivity(domain.Activity{ID: "nope", Name: "x", Color: "#007AFF", Icon: "heart"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown id must be not found, got %v", err)
	}
}

func TestLatestRecordUsesEndWhenPresent(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeDuration)
	long, err := store.AddManualRecord(a.ID, t0, t0.Add(5*time.Hour), "")
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	if _, err := store.AddManualRecord(a.ID, t0.Add(time.Hour), t0.Add(2*time.Hour), ""); err != nil {
		t.Fatalf("manual: %v", err)
	}
	latest, ok := store.LatestRecord(a.ID)
	if !ok || latest.ID != long.Record.ID {
		t.Fatalf("expected the record ending last, got %+v", latest)
	}
	if _, ok := store.LatestRecord("missing"); ok {
		t.Fatalf("no records must report absent")
	}
}

func TestDeleteRecordsIgnoresUnknownIDs(t *testing.T) {
	t.Parallel()
	store, a := newStoreWith(t, domain.TypeInstant)
	tr, err := store.Track(a.ID, t0)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if n := store.DeleteRecords("unknown", tr.Record.ID); n != 1 {
		t.Fatalf("expected one removal, got %d", n)
	}
	if n := store.DeleteRecords("unknown"); n != 0 {
		t.Fatalf("expected no removal, got %d", n)
	}
}
