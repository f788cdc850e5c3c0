package service

import (
	"slices"
	"sync"
	"time"

	"tempo/internal/modules/tracker/domain"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/id"
)

type Outcome int

const (
	Recorded Outcome = iota
	Started
	AlreadyTracking
	Stopped
	NotTracking
)

// Transition describes what a tracking call did. Record is set when a
// completed record was appended.
type Transition struct {
	Outcome          Outcome
	Activity         domain.Activity
	Record           *domain.ActivityRecord
	LastTrackedMoved bool
}

// Store is the in-memory state of activities and records. Every mutation
// swaps in a new slice, so slices returned by readers are never modified.
type Store struct {
	ids id.Generator

	mu         sync.RWMutex
	activities []domain.Activity
	records    []domain.ActivityRecord
}

func NewStore(ids id.Generator) *Store {
	return &Store{ids: ids}
}

func (s *Store) Replace(activities []domain.Activity, records []domain.ActivityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = slices.Clip(activities)
	s.records = slices.Clip(records)
}

func (s *Store) Activities() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities
}

func (s *Store) Records() []domain.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store) Activity(id string) (domain.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Activity{}, false
	}
	return s.activities[idx], true
}

// AddActivity assigns an id and starts the activity idle and untracked.
func (s *Store) AddActivity(activity domain.Activity) (domain.Activity, error) {
	activity.ID = s.ids.New()
	activity.Tracking = domain.Idle()
	activity.LastTracked = time.Time{}
	activity.LastNotificationID = ""
	if err := activity.Validate(); err != nil {
		return domain.Activity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(slices.Clip(s.activities), activity)
	return activity, nil
}

// UpdateActivity replaces name, color, icon and notification config. The
// type cannot change and store-owned fields are kept.
func (s *Store) UpdateActivity(update domain.Activity) (before, after domain.Activity, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(update.ID)
	if idx < 0 {
		return domain.Activity{}, domain.Activity{}, apperrors.NotFound("activity", update.ID)
	}
	before = s.activities[idx]
	if update.Type == "" {
		update.Type = before.Type
	}
	if update.Type != before.Type {
		return domain.Activity{}, domain.Activity{}, apperrors.Invalid("type", "cannot change after creation")
	}
	after = before
	after.Name = update.Name
	after.Color = update.Color
	after.Icon = update.Icon
	after.NotificationConfig = update.NotificationConfig
	if err := after.Validate(); err != nil {
		return domain.Activity{}, domain.Activity{}, err
	}
	s.setActivity(idx, after)
	return before, after, nil
}

// DeleteActivity removes the activity and every record that references it.
func (s *Store) DeleteActivity(id string) (domain.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Activity{}, false
	}
	removed := s.activities[idx]
	s.activities = slices.Delete(slices.Clone(s.activities), idx, idx+1)
	s.records = slices.DeleteFunc(slices.Clone(s.records), func(r domain.ActivityRecord) bool {
		return r.ActivityID == id
	})
	return removed, true
}

// Track records an instant activity or opens a duration session at at.
func (s *Store) Track(id string, at time.Time) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Transition{}, apperrors.NotFound("activity", id)
	}
	activity := s.activities[idx]
	if activity.Type == domain.TypeDuration && activity.Tracking.IsOpen() {
		return Transition{Outcome: AlreadyTracking, Activity: activity}, nil
	}
	if activity.HasLastTracked() && at.Before(activity.LastTracked) {
		return Transition{}, apperrors.Invalid("timestamp", "must not be earlier than the last tracked time")
	}

	if activity.Type == domain.TypeDuration {
		activity.Tracking = domain.Open(at)
		s.setActivity(idx, activity)
		return Transition{Outcome: Started, Activity: activity}, nil
	}

	record := domain.NewInstantRecord(s.ids.New(), id, at)
	activity.LastTracked = at
	s.setActivity(idx, activity)
	s.records = append(slices.Clip(s.records), record)
	return Transition{Outcome: Recorded, Activity: activity, Record: &record, LastTrackedMoved: true}, nil
}

// Stop closes an open session by appending a completed record.
func (s *Store) Stop(id string, end time.Time) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Transition{}, apperrors.NotFound("activity", id)
	}
	activity := s.activities[idx]
	start, open := activity.Tracking.StartedAt()
	if !open {
		return Transition{Outcome: NotTracking, Activity: activity}, nil
	}
	if activity.HasLastTracked() && end.Before(activity.LastTracked) {
		return Transition{}, apperrors.Invalid("end", "must not be earlier than the last tracked time")
	}
	record, err := domain.NewDurationRecord(s.ids.New(), id, start, end, "")
	if err != nil {
		return Transition{}, err
	}
	activity.Tracking = domain.Idle()
	activity.LastTracked = end
	s.setActivity(idx, activity)
	s.records = append(slices.Clip(s.records), record)
	return Transition{Outcome: Stopped, Activity: activity, Record: &record, LastTrackedMoved: true}, nil
}

// AddManualRecord backfills a completed session. lastTracked only moves
// forward.
func (s *Store) AddManualRecord(activityID string, start, end time.Time, note string) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(activityID)
	if idx < 0 {
		return Transition{}, apperrors.NotFound("activity", activityID)
	}
	record, err := domain.NewDurationRecord(s.ids.New(), activityID, start, end, note)
	if err != nil {
		return Transition{}, err
	}
	activity := s.activities[idx]
	moved := !activity.HasLastTracked() || end.After(activity.LastTracked)
	if moved {
		activity.LastTracked = end
		s.setActivity(idx, activity)
	}
	s.records = append(slices.Clip(s.records), record)
	return Transition{Outcome: Recorded, Activity: activity, Record: &record, LastTrackedMoved: moved}, nil
}

// DeleteRecords removes records by id and reports how many were removed.
// Unknown ids are ignored.
func (s *Store) DeleteRecords(ids ...string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.records)
	s.records = slices.DeleteFunc(slices.Clone(s.records), func(r domain.ActivityRecord) bool {
		_, ok := drop[r.ID]
		return ok
	})
	return before - len(s.records)
}

// Clear empties both collections and returns the removed activities.
func (s *Store) Clear() []domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.activities
	s.activities = nil
	s.records = nil
	return removed
}

// LatestRecord returns the record of activityID with the greatest
// end-or-start instant.
func (s *Store) LatestRecord(activityID string) (domain.ActivityRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest domain.ActivityRecord
	found := false
	for _, r := range s.records {
		if r.ActivityID != activityID {
			continue
		}
		if !found || r.LatestAt().After(latest.LatestAt()) {
			latest = r
			found = true
		}
	}
	return latest, found
}

func (s *Store) SetNotificationConfig(id string, cfg *domain.NotificationConfig) (before, after domain.Activity, err error) {
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return domain.Activity{}, domain.Activity{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Activity{}, domain.Activity{}, apperrors.NotFound("activity", id)
	}
	before = s.activities[idx]
	after = before
	after.NotificationConfig = cfg
	s.setActivity(idx, after)
	return before, after, nil
}

// SetNotificationHandle stores the live reminder handle. It reports false if
// the activity no longer exists.
func (s *Store) SetNotificationHandle(id, handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	activity := s.activities[idx]
	if activity.LastNotificationID == handle {
		return true
	}
	activity.LastNotificationID = handle
	s.setActivity(idx, activity)
	return true
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.activities, func(a domain.Activity) bool { return a.ID == id })
}

func (s *Store) setActivity(idx int, activity domain.Activity) {
	next := slices.Clone(s.activities)
	next[idx] = activity
	s.activities = next
}
