package in_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	trackerin "tempo/internal/modules/tracker/adapter/in"
	trackerout "tempo/internal/modules/tracker/adapter/out"
	"tempo/internal/modules/tracker/service"
	"tempo/internal/modules/tracker/usecase"
	apperrors "tempo/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newHandler(t *testing.T) trackerin.CLIHandler {
	t.Helper()
	uc := usecase.NewInteractor(
		service.NewStore(&seqID{}),
		trackerout.NewBlobRepository(trackerout.NewMemoryBlobStore()),
		nil,
		fixedClock{now: t0},
		nil,
		0,
	)
	return trackerin.NewCLIHandler(uc)
}

func TestExportCSV(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHandler(t)
	run, err := h.AddActivity(ctx, "Run, outside", "duration", "#4CD964", "running", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	water, err := h.AddActivity(ctx, "Water", "instant", "#5AC8FA", "coffee", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.AddRecord(ctx, run.ID, t0.Add(-time.Hour), t0.Add(-50*time.Minute), ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := h.Track(ctx, water.ID, nil); err != nil {
		t.Fatalf("track: %v", err)
	}

	var buf bytes.Buffer
	rows, err := h.ExportCSV(ctx, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows, got %d", rows)
	}
	want := "Activity,Type,Timestamp,End Timestamp,Duration (ms)\n" +
		"\"Run, outside\",duration,2026-06-01T07:00:00Z,2026-06-01T07:10:00Z,600000\n" +
		"Water,instant,2026-06-01T08:00:00Z,,\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

func TestResolveByIDOrName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHandler(t)
	read, err := h.AddActivity(ctx, "Read", "instant", "#007AFF", "book", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	byID, err := h.Resolve(ctx, read.ID)
	if err != nil || byID.ID != read.ID {
		t.Fatalf("resolve by id: %+v %v", byID, err)
	}
	byName, err := h.Resolve(ctx, "read")
	if err != nil || byName.ID != read.ID {
		t.Fatalf("resolve by name: %+v %v", byName, err)
	}
	if _, err := h.Resolve(ctx, "nap"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := h.AddActivity(ctx, "READ", "instant", "#007AFF", "book", nil); err != nil {
		t.Fatalf("add duplicate name: %v", err)
	}
	if _, err := h.Resolve(ctx, "read"); err == nil {
		t.Fatalf("expected ambiguity error")
	}
}
