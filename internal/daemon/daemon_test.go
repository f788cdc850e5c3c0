package daemon_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tempo/internal/daemon"
	reminderout "tempo/internal/modules/reminder/adapter/out"
	reminderdomain "tempo/internal/modules/reminder/domain"
	reminderservice "tempo/internal/modules/reminder/service"
	reminderusecase "tempo/internal/modules/reminder/usecase"
	trackerout "tempo/internal/modules/tracker/adapter/out"
	"tempo/internal/modules/tracker/dto"
	"tempo/internal/modules/tracker/service"
	"tempo/internal/modules/tracker/usecase"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

func TestReloadFollowsStateWrittenElsewhere(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := fixedClock{now: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	blobs := trackerout.NewMemoryBlobStore()

	cli := usecase.NewInteractor(service.NewStore(&seqID{prefix: "id"}), trackerout.NewBlobRepository(blobs), nil, clk, nil, 0)
	created, err := cli.AddActivity(ctx, dto.AddActivityInput{
		Name: "Stretch", Type: "instant", Color: "#FF9500", Icon: "heart",
		Notification: &dto.NotificationConfig{Enabled: true, Hours: 1},
	})
	require.NoError(t, err)
	_, err = cli.TrackActivity(ctx, dto.TrackInput{ActivityID: created.ID})
	require.NoError(t, err)

	notifier := reminderout.NewLocalNotifier(&seqID{prefix: "n"}, func(reminderdomain.Content) {})
	t.Cleanup(notifier.Close)
	reminders := reminderusecase.NewInteractor(reminderservice.NewScheduler(clk, notifier, nil))
	tracker := usecase.NewInteractor(
		service.NewStore(&seqID{prefix: "daemon"}),
		trackerout.NewReadOnlyRepository(trackerout.NewBlobRepository(blobs)),
		trackerout.NewReminderAdapter(reminders),
		clk,
		nil,
		0,
	)
	srv := daemon.New(tracker, reminders, nil, "127.0.0.1:0", 0)

	require.NoError(t, srv.Reload(ctx))
	pending := reminders.Pending(ctx)
	require.Len(t, pending, 1)
	require.Equal(t, created.ID, pending[0].ActivityID)
	require.Equal(t, clk.now.Add(time.Hour), pending[0].FireAt)

	require.NoError(t, srv.Reload(ctx))
	require.Equal(t, 1, notifier.Pending())

	_, err = cli.UpdateNotificationConfig(ctx, created.ID, dto.NotificationConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, srv.Reload(ctx))
	require.Empty(t, reminders.Pending(ctx))
	require.Zero(t, notifier.Pending())

	raw, found, err := blobs.Load(ctx, "@activities")
	require.NoError(t, err)
	require.True(t, found)
	require.NotContains(t, string(raw), "lastNotificationId", "daemon must not write state")
}

func TestHealthAndRemindersEndpoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := fixedClock{now: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	notifier := reminderout.NewLocalNotifier(&seqID{prefix: "n"}, nil)
	t.Cleanup(notifier.Close)
	reminders := reminderusecase.NewInteractor(reminderservice.NewScheduler(clk, notifier, nil))
	tracker := usecase.NewInteractor(
		service.NewStore(&seqID{prefix: "id"}),
		trackerout.NewBlobRepository(trackerout.NewMemoryBlobStore()),
		trackerout.NewReminderAdapter(reminders),
		clk,
		nil,
		0,
	)
	created, err := tracker.AddActivity(ctx, dto.AddActivityInput{
		Name: "Water", Type: "instant", Color: "#5AC8FA", Icon: "coffee",
		Notification: &dto.NotificationConfig{Enabled: true, Minutes: 30},
	})
	require.NoError(t, err)
	_, err = tracker.TrackActivity(ctx, dto.TrackInput{ActivityID: created.ID})
	require.NoError(t, err)

	ts := httptest.NewServer(daemon.New(tracker, reminders, nil, "", 0).Router())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "ok", health["status"])
	require.EqualValues(t, 1, health["activities"])
	require.EqualValues(t, 1, health["records"])
	require.EqualValues(t, 1, health["pendingReminders"])

	resp2, err := http.Get(ts.URL + "/reminders")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var pending []map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&pending))
	require.Len(t, pending, 1)
	require.Equal(t, created.ID, pending[0]["activityId"])

	resp3, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, http.StatusOK, resp3.StatusCode)
}
