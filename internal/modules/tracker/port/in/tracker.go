package in

import (
	"context"
	"iter"

	"tempo/internal/modules/tracker/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.LoadReport, error)
	AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error)
	UpdateActivity(ctx context.Context, input dto.UpdateActivityInput) (dto.ActivityOutput, error)
	DeleteActivity(ctx context.Context, id string) error
	TrackActivity(ctx context.Context, input dto.TrackInput) (dto.TrackOutput, error)
	StopTracking(ctx context.Context, input dto.TrackInput) (dto.TrackOutput, error)
	AddManualDurationRecord(ctx context.Context, input dto.ManualRecordInput) (dto.RecordOutput, error)
	DeleteRecord(ctx context.Context, id string) error
	DeleteSelectedRecords(ctx context.Context, ids []string) error
	ClearAllActivities(ctx context.Context) error
	UpdateNotificationConfig(ctx context.Context, activityID string, config dto.NotificationConfig) (dto.ActivityOutput, error)
	RescheduleAll(ctx context.Context) error

	GetActivity(ctx context.Context, id string) (dto.ActivityOutput, error)
	ListActivities(ctx context.Context) []dto.ActivityOutput
	ListRecords(ctx context.Context) []dto.RecordOutput
	GetLatestRecord(ctx context.Context, activityID string) (dto.RecordOutput, bool)
	Snapshot(ctx context.Context) dto.Snapshot
	Joined(ctx context.Context) iter.Seq[dto.JoinedRecord]
	LastError(ctx context.Context) (dto.ErrorReport, bool)

	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}
