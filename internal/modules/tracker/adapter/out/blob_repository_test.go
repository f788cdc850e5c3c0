package out_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	trackerout "tempo/internal/modules/tracker/adapter/out"
	"tempo/internal/modules/tracker/domain"
	port "tempo/internal/modules/tracker/port/out"
)

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func TestBlobRepositoryWireFormat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	blobs := trackerout.NewMemoryBlobStore()
	repo := trackerout.NewBlobRepository(blobs)

	record, err := domain.NewDurationRecord("r1", "a1", t0, t0.Add(10*time.Minute), "")
	require.NoError(t, err)
	require.NoError(t, repo.SaveRecords(ctx, []domain.ActivityRecord{record}))

	raw, found, err := blobs.Load(ctx, port.RecordsKey)
	require.NoError(t, err)
	require.True(t, found)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "a1", decoded[0]["activityId"])
	require.Equal(t, "2026-06-01T08:00:00Z", decoded[0]["timestamp"])
	require.Equal(t, "2026-06-01T08:10:00Z", decoded[0]["endTimestamp"])
	require.EqualValues(t, 600000, decoded[0]["duration"])
	require.NotContains(t, decoded[0], "note")
}

func TestBlobRepositoryRoundTripsActivities(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := trackerout.NewBlobRepository(trackerout.NewMemoryBlobStore())
	local := time.FixedZone("UTC+2", 2*60*60)
	activities := []domain.Activity{
		{
			ID: "a1", Name: "Run", Type: domain.TypeDuration, Color: "#4CD964", Icon: "running",
			Tracking:           domain.Open(t0.In(local)),
			LastTracked:        t0.Add(-time.Hour),
			NotificationConfig: &domain.NotificationConfig{Enabled: true, Hours: 1, Minutes: 30, CustomMessage: "go"},
			LastNotificationID: "n-1",
		},
		{ID: "a2", Name: "Water", Type: domain.TypeInstant, Color: "#5AC8FA", Icon: "coffee"},
	}
	require.NoError(t, repo.SaveActivities(ctx, activities))

	loaded, err := repo.LoadActivities(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	start, open := loaded[0].Tracking.StartedAt()
	require.True(t, open)
	require.True(t, start.Equal(t0))
	require.True(t, loaded[0].LastTracked.Equal(t0.Add(-time.Hour)))
	require.Equal(t, "n-1", loaded[0].LastNotificationID)
	require.Equal(t, domain.NotificationConfig{Enabled: true, Hours: 1, Minutes: 30, CustomMessage: "go"}, *loaded[0].NotificationConfig)

	require.False(t, loaded[1].Tracking.IsOpen())
	require.False(t, loaded[1].HasLastTracked())
	require.Nil(t, loaded[1].NotificationConfig)
}

func TestBlobRepositoryTrackingWithoutStartIsIdle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	blobs := trackerout.NewMemoryBlobStore()
	raw := `[{"id":"a1","name":"Run","type":"duration","icon":"running","color":"#4CD964","isTracking":true}]`
	require.NoError(t, blobs.Save(ctx, port.ActivitiesKey, []byte(raw)))

	loaded, err := trackerout.NewBlobRepository(blobs).LoadActivities(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.False(t, loaded[0].Tracking.IsOpen())
}

func TestBlobRepositoryMissingCollectionsAreEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := trackerout.NewBlobRepository(trackerout.NewMemoryBlobStore())

	activities, err := repo.LoadActivities(ctx)
	require.NoError(t, err)
	require.Empty(t, activities)
	records, err := repo.LoadRecords(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}
