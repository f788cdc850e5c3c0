package out

import (
	"context"

	"tempo/internal/modules/tracker/domain"
	trackerout "tempo/internal/modules/tracker/port/out"
)

// ReadOnlyRepository loads through the wrapped repository and drops every
// write. The daemon uses it so it never overwrites what the CLI saved.
type ReadOnlyRepository struct {
	inner trackerout.Repository
}

func NewReadOnlyRepository(inner trackerout.Repository) trackerout.Repository {
	return ReadOnlyRepository{inner: inner}
}

func (r ReadOnlyRepository) LoadActivities(ctx context.Context) ([]domain.Activity, error) {
	return r.inner.LoadActivities(ctx)
}

func (r ReadOnlyRepository) LoadRecords(ctx context.Context) ([]domain.ActivityRecord, error) {
	return r.inner.LoadRecords(ctx)
}

func (ReadOnlyRepository) SaveActivities(context.Context, []domain.Activity) error { return nil }

func (ReadOnlyRepository) SaveRecords(context.Context, []domain.ActivityRecord) error { return nil }

func (ReadOnlyRepository) Clear(context.Context) error { return nil }
