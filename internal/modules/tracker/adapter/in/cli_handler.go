package in

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tempo/internal/modules/tracker/dto"
	trackerin "tempo/internal/modules/tracker/port/in"
)

var exportHeader = []string{"Activity", "Type", "Timestamp", "End Timestamp", "Duration (ms)"}

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Load(ctx context.Context) (dto.LoadReport, error) {
	return h.usecase.Load(ctx)
}

// Resolve finds an activity by id, then by case-insensitive name.
func (h CLIHandler) Resolve(ctx context.Context, ref string) (dto.ActivityOutput, error) {
	if out, err := h.usecase.GetActivity(ctx, ref); err == nil {
		return out, nil
	}
	var match []dto.ActivityOutput
	for _, a := range h.usecase.ListActivities(ctx) {
		if strings.EqualFold(a.Name, strings.TrimSpace(ref)) {
			match = append(match, a)
		}
	}
	switch len(match) {
	case 0:
		return h.usecase.GetActivity(ctx, ref)
	case 1:
		return match[0], nil
	default:
		return dto.ActivityOutput{}, fmt.Errorf("activity name %q is ambiguous, use the id", ref)
	}
}

func (h CLIHandler) AddActivity(ctx context.Context, name, activityType, color, icon string, notify *dto.NotificationConfig) (dto.ActivityOutput, error) {
	return h.usecase.AddActivity(ctx, dto.AddActivityInput{
		Name:         name,
		Type:         activityType,
		Color:        color,
		Icon:         icon,
		Notification: notify,
	})
}

func (h CLIHandler) UpdateActivity(ctx context.Context, input dto.UpdateActivityInput) (dto.ActivityOutput, error) {
	return h.usecase.UpdateActivity(ctx, input)
}

func (h CLIHandler) DeleteActivity(ctx context.Context, id string) error {
	return h.usecase.DeleteActivity(ctx, id)
}

func (h CLIHandler) ListActivities(ctx context.Context) []dto.ActivityOutput {
	return h.usecase.ListActivities(ctx)
}

func (h CLIHandler) Track(ctx context.Context, activityID string, at *time.Time) (dto.TrackOutput, error) {
	return h.usecase.TrackActivity(ctx, dto.TrackInput{ActivityID: activityID, At: at})
}

func (h CLIHandler) Stop(ctx context.Context, activityID string, at *time.Time) (dto.TrackOutput, error) {
	return h.usecase.StopTracking(ctx, dto.TrackInput{ActivityID: activityID, At: at})
}

func (h CLIHandler) AddRecord(ctx context.Context, activityID string, start, end time.Time, note string) (dto.RecordOutput, error) {
	return h.usecase.AddManualDurationRecord(ctx, dto.ManualRecordInput{ActivityID: activityID, Start: start, End: end, Note: note})
}

func (h CLIHandler) DeleteRecords(ctx context.Context, ids []string) error {
	if len(ids) == 1 {
		return h.usecase.DeleteRecord(ctx, ids[0])
	}
	return h.usecase.DeleteSelectedRecords(ctx, ids)
}

func (h CLIHandler) LatestRecord(ctx context.Context, activityID string) (dto.RecordOutput, bool) {
	return h.usecase.GetLatestRecord(ctx, activityID)
}

// Records lists records, optionally only those of activityID.
func (h CLIHandler) Records(ctx context.Context, activityID string) []dto.RecordOutput {
	all := h.usecase.ListRecords(ctx)
	if activityID == "" {
		return all
	}
	out := make([]dto.RecordOutput, 0, len(all))
	for _, r := range all {
		if r.ActivityID == activityID {
			out = append(out, r)
		}
	}
	return out
}

func (h CLIHandler) SetReminder(ctx context.Context, activityID string, config dto.NotificationConfig) (dto.ActivityOutput, error) {
	return h.usecase.UpdateNotificationConfig(ctx, activityID, config)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.ClearAllActivities(ctx)
}

func (h CLIHandler) LastError(ctx context.Context) (dto.ErrorReport, bool) {
	return h.usecase.LastError(ctx)
}

func (h CLIHandler) Flush(ctx context.Context) error {
	return h.usecase.Flush(ctx)
}

// ExportCSV writes every record joined with its activity, oldest first, and
// returns the number of data rows.
func (h CLIHandler) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	rows := 0
	for joined := range h.usecase.Joined(ctx) {
		if err := cw.Write(exportRow(joined)); err != nil {
			return rows, err
		}
		rows++
	}
	cw.Flush()
	return rows, cw.Error()
}

func exportRow(j dto.JoinedRecord) []string {
	row := []string{j.Activity.Name, j.Activity.Type, j.Record.Timestamp.UTC().Format(time.RFC3339Nano), "", ""}
	if j.Record.End != nil {
		row[3] = j.Record.End.UTC().Format(time.RFC3339Nano)
	}
	if j.Record.Duration != nil {
		row[4] = strconv.FormatInt(j.Record.Duration.Milliseconds(), 10)
	}
	return row
}
