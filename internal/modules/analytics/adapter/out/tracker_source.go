package out

import (
	"context"

	"tempo/internal/modules/analytics/domain"
	analyticsout "tempo/internal/modules/analytics/port/out"
	trackerin "tempo/internal/modules/tracker/port/in"
)

// TrackerSource reads snapshots from the tracker module.
type TrackerSource struct {
	tracker trackerin.Usecase
}

func NewTrackerSource(tracker trackerin.Usecase) analyticsout.Source {
	return &TrackerSource{tracker: tracker}
}

func (s *TrackerSource) Snapshot(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	snap := s.tracker.Snapshot(ctx)
	data := domain.Dataset{
		Activities: make([]domain.Activity, 0, len(snap.Activities)),
		Records:    make([]domain.Record, 0, len(snap.Records)),
	}
	for _, a := range snap.Activities {
		data.Activities = append(data.Activities, domain.Activity{ID: a.ID, Name: a.Name, Type: a.Type, Color: a.Color})
	}
	for _, r := range snap.Records {
		data.Records = append(data.Records, domain.Record{ID: r.ID, ActivityID: r.ActivityID, Timestamp: r.Timestamp, Duration: r.Duration})
	}
	return data, nil
}
