package out

import (
	"context"
	"time"

	"tempo/internal/modules/reminder/domain"
)

// NotificationService delivers one-shot local notifications.
type NotificationService interface {
	Supported() bool
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, content domain.Content, triggerIn time.Duration) (string, error)
	Cancel(ctx context.Context, handle string) error
}
