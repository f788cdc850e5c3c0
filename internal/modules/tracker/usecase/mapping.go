package usecase

import (
	"strings"

	"tempo/internal/modules/tracker/domain"
	"tempo/internal/modules/tracker/dto"
)

func toActivityOutput(a domain.Activity) dto.ActivityOutput {
	out := dto.ActivityOutput{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               string(a.Type),
		Color:              a.Color,
		Icon:               a.Icon,
		LastTracked:        a.LastTracked,
		LastNotificationID: a.LastNotificationID,
	}
	if start, open := a.Tracking.StartedAt(); open {
		out.Tracking = true
		out.TrackingStartedAt = start
	}
	if cfg := a.NotificationConfig; cfg != nil {
		out.Notification = &dto.NotificationConfig{
			Enabled:       cfg.Enabled,
			Hours:         cfg.Hours,
			Minutes:       cfg.Minutes,
			Seconds:       cfg.Seconds,
			CustomMessage: cfg.CustomMessage,
		}
	}
	return out
}

func toRecordOutput(r domain.ActivityRecord) dto.RecordOutput {
	out := dto.RecordOutput{ID: r.ID, ActivityID: r.ActivityID, Timestamp: r.Timestamp, Note: r.Note}
	if r.End != nil {
		end := *r.End
		out.End = &end
	}
	if r.Duration != nil {
		d := *r.Duration
		out.Duration = &d
	}
	return out
}

func toDomainConfig(cfg *dto.NotificationConfig) *domain.NotificationConfig {
	if cfg == nil {
		return nil
	}
	return &domain.NotificationConfig{
		Enabled:       cfg.Enabled,
		Hours:         cfg.Hours,
		Minutes:       cfg.Minutes,
		Seconds:       cfg.Seconds,
		CustomMessage: strings.TrimSpace(cfg.CustomMessage),
	}
}

func activityOutputs(activities []domain.Activity) []dto.ActivityOutput {
	out := make([]dto.ActivityOutput, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityOutput(a))
	}
	return out
}

func recordOutputs(records []domain.ActivityRecord) []dto.RecordOutput {
	out := make([]dto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordOutput(r))
	}
	return out
}
