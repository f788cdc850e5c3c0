package out

import (
	"context"

	"tempo/internal/modules/analytics/domain"
)

// Source supplies a consistent snapshot of activities and records.
type Source interface {
	Snapshot(ctx context.Context) (domain.Dataset, error)
}
