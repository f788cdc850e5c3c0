package usecase

import (
	"context"

	"tempo/internal/modules/reminder/dto"
	reminderin "tempo/internal/modules/reminder/port/in"
	"tempo/internal/modules/reminder/service"
)

type Interactor struct {
	svc *service.Scheduler
}

func NewInteractor(svc *service.Scheduler) reminderin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Setup(ctx context.Context) error {
	return i.svc.Setup(ctx)
}

func (i *Interactor) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	return i.svc.Schedule(ctx, input)
}

func (i *Interactor) Cancel(ctx context.Context, activityID, handle string) error {
	return i.svc.Cancel(ctx, activityID, handle)
}

func (i *Interactor) Pending(context.Context) []dto.PendingReminder {
	return i.svc.Pending()
}

func (i *Interactor) Supported() bool {
	return i.svc.Supported()
}
