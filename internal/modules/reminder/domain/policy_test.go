package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tempo/internal/modules/reminder/domain"
)

func TestPolicyResolvesDefaults(t *testing.T) {
	t.Parallel()
	p := domain.NewPolicy("Run", 2, 0, 0, "")
	require.Equal(t, 2*time.Hour, p.Offset)
	require.Equal(t, `Time to check your activity "Run"`, p.Message)
	require.Equal(t, domain.Content{Title: "Activity Reminder", Body: `Time to check your activity "Run" (2h ago)`}, p.Content())

	custom := domain.NewPolicy("Run", 0, 30, 0, "  Stretch!  ")
	require.Equal(t, "Stretch! (30m ago)", custom.Content().Body)
}

func TestDecideSchedulesRemainingTime(t *testing.T) {
	t.Parallel()
	last := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	p := domain.NewPolicy("Run", 1, 0, 0, "")

	d := p.Decide(last, last.Add(20*time.Minute+500*time.Millisecond))
	require.True(t, d.Schedule)
	require.Equal(t, 20*time.Minute, d.Elapsed)
	require.Equal(t, 40*time.Minute, d.TriggerIn)

	due := p.Decide(last, last.Add(time.Hour))
	require.False(t, due.Schedule, "elapsed equal to the offset is already due")

	zero := domain.NewPolicy("Run", 0, 0, 0, "").Decide(last, last)
	require.False(t, zero.Schedule)
}
