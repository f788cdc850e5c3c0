package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tempo/internal/modules/reminder/domain"
	"tempo/internal/modules/reminder/dto"
	reminderout "tempo/internal/modules/reminder/port/out"
	"tempo/internal/observability"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
)

type pending struct {
	handle string
	fireAt time.Time
}

// Scheduler keeps at most one pending reminder per activity. Calls for the
// same activity are serialized; different activities proceed independently.
type Scheduler struct {
	clock    clock.Clock
	notifier reminderout.NotificationService
	logger   hclog.Logger

	locks sync.Map

	mu      sync.Mutex
	live    map[string]pending
	denied  bool
	checked bool
}

func NewScheduler(clk clock.Clock, notifier reminderout.NotificationService, logger hclog.Logger) *Scheduler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scheduler{clock: clk, notifier: notifier, logger: logger, live: map[string]pending{}}
}

func (s *Scheduler) Supported() bool {
	return s.notifier != nil && s.notifier.Supported()
}

// Setup asks the notification service for permission once. A denial makes
// later Schedule calls fail with permission_denied.
func (s *Scheduler) Setup(ctx context.Context) error {
	if !s.Supported() {
		return nil
	}
	granted, err := s.notifier.RequestPermission(ctx)
	s.mu.Lock()
	s.checked = true
	s.denied = err != nil || !granted
	s.mu.Unlock()
	if err != nil {
		return s.fail(apperrors.CausePermissionDenied, err)
	}
	if !granted {
		return s.fail(apperrors.CausePermissionDenied, nil)
	}
	return nil
}

func (s *Scheduler) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	// Without a last-tracked time there is nothing to remind about, and any
	// previous handle is left alone.
	if !input.Enabled || !s.Supported() || input.LastTracked.IsZero() {
		return dto.ScheduleOutput{Handle: input.PreviousHandle}, nil
	}
	if s.permissionDenied() {
		return dto.ScheduleOutput{Handle: input.PreviousHandle}, s.fail(apperrors.CausePermissionDenied, nil)
	}

	unlock := s.lock(input.ActivityID)
	defer unlock()

	previous := s.liveHandle(input.ActivityID, input.PreviousHandle)
	if previous != "" {
		if err := s.notifier.Cancel(ctx, previous); err != nil {
			return dto.ScheduleOutput{Handle: previous}, s.fail(apperrors.CauseCancelFailed, err)
		}
		s.forget(input.ActivityID)
		observability.ReminderCancelled()
	}

	cleared := dto.ScheduleOutput{Changed: previous != ""}

	policy := domain.NewPolicy(input.ActivityName, input.Hours, input.Minutes, input.Seconds, input.CustomMessage)
	now := s.clock.Now()
	decision := policy.Decide(input.LastTracked, now)
	if !decision.Schedule {
		s.logger.Debug("reminder already due, not scheduling", "activity", input.ActivityID, "elapsed", decision.Elapsed)
		return cleared, nil
	}

	handle, err := s.notifier.Schedule(ctx, policy.Content(), decision.TriggerIn)
	if err != nil {
		return cleared, s.fail(apperrors.CauseScheduleFailed, err)
	}
	fireAt := now.Add(decision.TriggerIn)
	s.mu.Lock()
	s.live[input.ActivityID] = pending{handle: handle, fireAt: fireAt}
	s.mu.Unlock()
	observability.ReminderScheduled()
	s.logger.Debug("reminder scheduled", "activity", input.ActivityID, "handle", handle, "in", decision.TriggerIn)
	return dto.ScheduleOutput{Handle: handle, Scheduled: true, Changed: true, FireAt: fireAt}, nil
}

// Cancel drops the pending reminder of activityID. handle is used when the
// scheduler has not seen the reminder itself, e.g. after a restart.
func (s *Scheduler) Cancel(ctx context.Context, activityID, handle string) error {
	if !s.Supported() {
		return nil
	}
	unlock := s.lock(activityID)
	defer unlock()

	target := s.liveHandle(activityID, handle)
	if target == "" {
		return nil
	}
	if err := s.notifier.Cancel(ctx, target); err != nil {
		return s.fail(apperrors.CauseCancelFailed, err)
	}
	s.forget(activityID)
	observability.ReminderCancelled()
	return nil
}

func (s *Scheduler) Pending() []dto.PendingReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.PendingReminder, 0, len(s.live))
	for activityID, p := range s.live {
		out = append(out, dto.PendingReminder{ActivityID: activityID, Handle: p.handle, FireAt: p.fireAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

func (s *Scheduler) lock(activityID string) func() {
	m, _ := s.locks.LoadOrStore(activityID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Scheduler) liveHandle(activityID, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.live[activityID]; ok {
		return p.handle
	}
	return fallback
}

func (s *Scheduler) forget(activityID string) {
	s.mu.Lock()
	delete(s.live, activityID)
	s.mu.Unlock()
}

func (s *Scheduler) permissionDenied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked && s.denied
}

func (s *Scheduler) fail(cause apperrors.NotificationCause, err error) error {
	var notifErr *apperrors.NotificationError
	if errors.As(err, &notifErr) {
		cause = notifErr.Cause
		err = notifErr.Err
	}
	observability.NotificationError(string(cause))
	return &apperrors.NotificationError{Cause: cause, Err: err}
}
