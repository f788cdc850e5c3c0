package in

import (
	"context"

	"tempo/internal/modules/reminder/dto"
)

type Usecase interface {
	Setup(ctx context.Context) error
	Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error)
	Cancel(ctx context.Context, activityID, handle string) error
	Pending(ctx context.Context) []dto.PendingReminder
	Supported() bool
}
