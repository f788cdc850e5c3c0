package out

import (
	"context"
	"time"

	"tempo/internal/modules/reminder/domain"
	reminderout "tempo/internal/modules/reminder/port/out"
)

// UnsupportedNotifier stands in on hosts without local notifications. Every
// call is a no-op that returns no handle.
type UnsupportedNotifier struct{}

func NewUnsupportedNotifier() reminderout.NotificationService {
	return UnsupportedNotifier{}
}

func (UnsupportedNotifier) Supported() bool { return false }

func (UnsupportedNotifier) RequestPermission(context.Context) (bool, error) { return false, nil }

func (UnsupportedNotifier) Schedule(context.Context, domain.Content, time.Duration) (string, error) {
	return "", nil
}

func (UnsupportedNotifier) Cancel(context.Context, string) error { return nil }
