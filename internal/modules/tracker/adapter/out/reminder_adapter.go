package out

import (
	"context"

	reminderdto "tempo/internal/modules/reminder/dto"
	reminderin "tempo/internal/modules/reminder/port/in"
	"tempo/internal/modules/tracker/domain"
	trackerout "tempo/internal/modules/tracker/port/out"
)

// ReminderAdapter exposes the reminder module to the tracker.
type ReminderAdapter struct {
	reminders reminderin.Usecase
}

func NewReminderAdapter(reminders reminderin.Usecase) trackerout.Reminders {
	return &ReminderAdapter{reminders: reminders}
}

func (a *ReminderAdapter) Schedule(ctx context.Context, activity domain.Activity) (string, bool, error) {
	input := reminderdto.ScheduleInput{
		ActivityID:     activity.ID,
		ActivityName:   activity.Name,
		LastTracked:    activity.LastTracked,
		PreviousHandle: activity.LastNotificationID,
	}
	if cfg := activity.NotificationConfig; cfg != nil {
		input.Enabled = cfg.Enabled
		input.Hours = cfg.Hours
		input.Minutes = cfg.Minutes
		input.Seconds = cfg.Seconds
		input.CustomMessage = cfg.CustomMessage
	}
	out, err := a.reminders.Schedule(ctx, input)
	return out.Handle, out.Changed, err
}

func (a *ReminderAdapter) Cancel(ctx context.Context, activityID, handle string) error {
	return a.reminders.Cancel(ctx, activityID, handle)
}
