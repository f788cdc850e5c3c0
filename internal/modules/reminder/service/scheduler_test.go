package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tempo/internal/modules/reminder/domain"
	"tempo/internal/modules/reminder/dto"
	"tempo/internal/modules/reminder/service"
	apperrors "tempo/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type scheduled struct {
	content   domain.Content
	triggerIn time.Duration
}

type fakeNotifier struct {
	mu          sync.Mutex
	supported   bool
	granted     bool
	next        int
	live        map[string]scheduled
	scheduleErr error
	cancelErr   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{supported: true, granted: true, live: map[string]scheduled{}}
}

func (f *fakeNotifier) Supported() bool { return f.supported }

func (f *fakeNotifier) RequestPermission(context.Context) (bool, error) { return f.granted, nil }

func (f *fakeNotifier) Schedule(_ context.Context, content domain.Content, triggerIn time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.next++
	handle := fmt.Sprintf("n-%d", f.next)
	f.live[handle] = scheduled{content: content, triggerIn: triggerIn}
	return handle, nil
}

func (f *fakeNotifier) Cancel(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	delete(f.live, handle)
	return nil
}

func (f *fakeNotifier) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func input(last time.Time) dto.ScheduleInput {
	return dto.ScheduleInput{ActivityID: "a1", ActivityName: "Run", Enabled: true, Hours: 2, LastTracked: last}
}

func TestScheduleUsesRemainingTimeAndContent(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	out, err := s.Schedule(context.Background(), input(now.Add(-30*time.Minute)))
	require.NoError(t, err)
	require.True(t, out.Scheduled)
	require.True(t, out.Changed)
	require.Equal(t, now.Add(90*time.Minute), out.FireAt)

	got := notifier.live[out.Handle]
	require.Equal(t, 90*time.Minute, got.triggerIn)
	require.Equal(t, "Activity Reminder", got.content.Title)
	require.Equal(t, `Time to check your activity "Run" (2h ago)`, got.content.Body)
}

func TestScheduleSkipsWhenDisabledUnsupportedOrUntracked(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	disabled := input(now)
	disabled.Enabled = false
	out, err := s.Schedule(context.Background(), disabled)
	require.NoError(t, err)
	require.False(t, out.Scheduled)
	require.False(t, out.Changed)

	untracked := input(time.Time{})
	out, err = s.Schedule(context.Background(), untracked)
	require.NoError(t, err)
	require.False(t, out.Scheduled)
	require.False(t, out.Changed)

	notifier.supported = false
	out, err = s.Schedule(context.Background(), input(now))
	require.NoError(t, err)
	require.False(t, out.Scheduled)
	require.Zero(t, notifier.liveCount())
}

func TestScheduleSkipsWhenAlreadyDueButCancelsPrevious(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	first, err := s.Schedule(context.Background(), input(now))
	require.NoError(t, err)
	require.Equal(t, 1, notifier.liveCount())

	overdue := input(now.Add(-3 * time.Hour))
	overdue.PreviousHandle = first.Handle
	out, err := s.Schedule(context.Background(), overdue)
	require.NoError(t, err)
	require.False(t, out.Scheduled)
	require.True(t, out.Changed, "previous reminder was cancelled")
	require.Empty(t, out.Handle)
	require.Zero(t, notifier.liveCount())
}

func TestAtMostOneLiveReminderUnderRepeatedAndConcurrentCalls(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Schedule(context.Background(), input(now)); err != nil {
				t.Errorf("schedule: %v", err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, notifier.liveCount())
	require.Len(t, s.Pending(), 1)

	require.NoError(t, s.Cancel(context.Background(), "a1", ""))
	require.Zero(t, notifier.liveCount())
	require.Empty(t, s.Pending())
}

func TestCancelFailureAbortsScheduling(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	first, err := s.Schedule(context.Background(), input(now))
	require.NoError(t, err)

	notifier.cancelErr = errors.New("service busy")
	out, err := s.Schedule(context.Background(), input(now))
	var notifErr *apperrors.NotificationError
	require.ErrorAs(t, err, &notifErr)
	require.Equal(t, apperrors.CauseCancelFailed, notifErr.Cause)
	require.Equal(t, first.Handle, out.Handle)
	require.False(t, out.Changed)
	require.Equal(t, 1, notifier.liveCount())
}

func TestScheduleFailureIsClassified(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	notifier.scheduleErr = errors.New("quota")
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	_, err := s.Schedule(context.Background(), input(now))
	require.ErrorIs(t, err, apperrors.ErrNotification)
	var notifErr *apperrors.NotificationError
	require.ErrorAs(t, err, &notifErr)
	require.Equal(t, apperrors.CauseScheduleFailed, notifErr.Cause)
}

func TestPermissionDeniedBlocksScheduling(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	notifier.granted = false
	s := service.NewScheduler(fixedClock{now}, notifier, nil)

	err := s.Setup(context.Background())
	var notifErr *apperrors.NotificationError
	require.ErrorAs(t, err, &notifErr)
	require.Equal(t, apperrors.CausePermissionDenied, notifErr.Cause)

	_, err = s.Schedule(context.Background(), input(now))
	require.ErrorAs(t, err, &notifErr)
	require.Equal(t, apperrors.CausePermissionDenied, notifErr.Cause)
	require.Zero(t, notifier.liveCount())
}

func TestUntrackedScheduleKeepsPreviousHandle(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := service.NewScheduler(fixedClock{now}, notifier, nil)
	ctx := context.Background()

	first, err := s.Schedule(ctx, input(now.Add(-time.Minute)))
	require.NoError(t, err)
	require.Equal(t, 1, notifier.liveCount())

	untracked := input(time.Time{})
	untracked.PreviousHandle = first.Handle
	out, err := s.Schedule(ctx, untracked)
	require.NoError(t, err)
	require.False(t, out.Changed)
	require.Equal(t, first.Handle, out.Handle)
	require.Equal(t, 1, notifier.liveCount(), "no cancel before the last-tracked check")
}
