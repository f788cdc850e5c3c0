package usecase

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tempo/internal/modules/tracker/domain"
	"tempo/internal/modules/tracker/dto"
	trackerin "tempo/internal/modules/tracker/port/in"
	trackerout "tempo/internal/modules/tracker/port/out"
	"tempo/internal/modules/tracker/service"
	"tempo/internal/observability"
	"tempo/internal/platform/clock"
	"tempo/internal/platform/debounce"
	apperrors "tempo/internal/platform/errors"
)

// Interactor owns every mutation of the tracker state. Mutations run one at a
// time together with their side effects: a debounced save of both
// collections and, where lastTracked or the reminder config changed, a
// reminder reschedule. Persistence and notification failures never fail the
// call; they are logged and kept in the last-error slot.
type Interactor struct {
	store     *service.Store
	repo      trackerout.Repository
	reminders trackerout.Reminders
	clock     clock.Clock
	logger    hclog.Logger
	saver     *debounce.Debouncer
	lastErr   apperrors.Slot

	mu sync.Mutex
}

func NewInteractor(
	store *service.Store,
	repo trackerout.Repository,
	reminders trackerout.Reminders,
	clk clock.Clock,
	logger hclog.Logger,
	debounceWindow time.Duration,
) trackerin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	i := &Interactor{store: store, repo: repo, reminders: reminders, clock: clk, logger: logger}
	i.saver = debounce.New(debounceWindow, i.save, func(err error) {
		i.logger.Warn("debounced save failed", "error", err)
	})
	return i
}

// Load restores both collections. A collection that cannot be read starts
// empty and is reported. Activities that fail validation are dropped, and so
// are records that reference unknown activities or break record invariants.
func (i *Interactor) Load(ctx context.Context) (dto.LoadReport, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	report := dto.LoadReport{}
	activities, err := i.repo.LoadActivities(ctx)
	if err != nil {
		initErr := &apperrors.InitError{Collection: "activities", Err: err}
		i.record(initErr)
		report.Errors = append(report.Errors, initErr.Error())
		activities = nil
	}
	records, err := i.repo.LoadRecords(ctx)
	if err != nil {
		initErr := &apperrors.InitError{Collection: "records", Err: err}
		i.record(initErr)
		report.Errors = append(report.Errors, initErr.Error())
		records = nil
	}
	if err := ctx.Err(); err != nil {
		return dto.LoadReport{}, err
	}

	known := make(map[string]struct{}, len(activities))
	keptActivities := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a.ID == "" {
			continue
		}
		if _, dup := known[a.ID]; dup {
			continue
		}
		if err := a.Validate(); err != nil {
			i.logger.Warn("dropping invalid activity on load", "activity", a.ID, "error", err)
			report.DroppedActivities++
			continue
		}
		known[a.ID] = struct{}{}
		keptActivities = append(keptActivities, a)
	}
	keptRecords := make([]domain.ActivityRecord, 0, len(records))
	for _, r := range records {
		if _, ok := known[r.ActivityID]; !ok || r.Validate() != nil {
			report.DroppedRecords++
			continue
		}
		keptRecords = append(keptRecords, r)
	}

	i.store.Replace(keptActivities, keptRecords)
	report.Activities = len(keptActivities)
	report.Records = len(keptRecords)
	if report.DroppedActivities > 0 || report.DroppedRecords > 0 {
		i.logger.Warn("dropped inconsistent state on load", "activities", report.DroppedActivities, "records", report.DroppedRecords)
		if len(report.Errors) == 0 {
			i.persist()
		}
	}
	observability.SetOpenSessions(countOpen(keptActivities))
	return report, nil
}

func (i *Interactor) AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	created, err := i.store.AddActivity(domain.Activity{
		Name:               strings.TrimSpace(input.Name),
		Type:               domain.ActivityType(input.Type),
		Color:              input.Color,
		Icon:               input.Icon,
		NotificationConfig: toDomainConfig(input.Notification),
	})
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	i.persist()
	i.reschedule(ctx, created)
	return i.output(created.ID), nil
}

func (i *Interactor) UpdateActivity(ctx context.Context, input dto.UpdateActivityInput) (dto.ActivityOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	_, after, err := i.store.UpdateActivity(domain.Activity{
		ID:                 input.ID,
		Name:               strings.TrimSpace(input.Name),
		Type:               domain.ActivityType(input.Type),
		Color:              input.Color,
		Icon:               input.Icon,
		NotificationConfig: toDomainConfig(input.Notification),
	})
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	i.persist()
	if after.RemindersEnabled() {
		i.reschedule(ctx, after)
	} else {
		i.cancelReminder(ctx, after)
	}
	return i.output(after.ID), nil
}

func (i *Interactor) DeleteActivity(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	activity, ok := i.store.Activity(id)
	if !ok {
		return nil
	}
	i.cancelReminder(ctx, activity)
	i.store.DeleteActivity(id)
	i.persist()
	return nil
}

func (i *Interactor) TrackActivity(ctx context.Context, input dto.TrackInput) (dto.TrackOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	transition, err := i.store.Track(input.ActivityID, i.at(input.At))
	if err != nil {
		return dto.TrackOutput{}, err
	}
	switch transition.Outcome {
	case service.Recorded:
		observability.RecordCreated(string(transition.Activity.Type))
		i.persist()
		i.reschedule(ctx, transition.Activity)
	case service.Started:
		i.persist()
	}
	return i.trackOutput(transition), nil
}

func (i *Interactor) StopTracking(ctx context.Context, input dto.TrackInput) (dto.TrackOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	transition, err := i.store.Stop(input.ActivityID, i.at(input.At))
	if err != nil {
		return dto.TrackOutput{}, err
	}
	if transition.Outcome == service.Stopped {
		observability.RecordCreated(string(transition.Activity.Type))
		i.persist()
		i.reschedule(ctx, transition.Activity)
	}
	return i.trackOutput(transition), nil
}

func (i *Interactor) AddManualDurationRecord(ctx context.Context, input dto.ManualRecordInput) (dto.RecordOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	transition, err := i.store.AddManualRecord(input.ActivityID, input.Start, input.End, strings.TrimSpace(input.Note))
	if err != nil {
		return dto.RecordOutput{}, err
	}
	observability.RecordCreated(string(transition.Activity.Type))
	i.persist()
	if transition.LastTrackedMoved {
		i.reschedule(ctx, transition.Activity)
	}
	return toRecordOutput(*transition.Record), nil
}

func (i *Interactor) DeleteRecord(ctx context.Context, id string) error {
	return i.DeleteSelectedRecords(ctx, []string{id})
}

func (i *Interactor) DeleteSelectedRecords(_ context.Context, ids []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.store.DeleteRecords(ids...) > 0 {
		i.persist()
	}
	return nil
}

// ClearAllActivities cancels every pending reminder, empties both
// collections and removes their persisted blobs.
func (i *Interactor) ClearAllActivities(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, a := range i.store.Activities() {
		i.cancelReminder(ctx, a)
	}
	i.store.Clear()
	observability.SetOpenSessions(0)
	if err := i.saver.Flush(ctx); err != nil {
		i.logger.Warn("flush before clear failed", "error", err)
	}
	if err := i.repo.Clear(ctx); err != nil {
		i.record(err)
	}
	return nil
}

func (i *Interactor) UpdateNotificationConfig(ctx context.Context, activityID string, config dto.NotificationConfig) (dto.ActivityOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	_, after, err := i.store.SetNotificationConfig(activityID, toDomainConfig(&config))
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	i.persist()
	if config.Enabled {
		i.reschedule(ctx, after)
	} else {
		i.cancelReminder(ctx, after)
	}
	return i.output(activityID), nil
}

// RescheduleAll re-arms reminders for every enabled activity, e.g. when a
// daemon takes over delivery after a restart.
func (i *Interactor) RescheduleAll(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, a := range i.store.Activities() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.RemindersEnabled() {
			i.reschedule(ctx, a)
		}
	}
	return nil
}

func (i *Interactor) GetActivity(_ context.Context, id string) (dto.ActivityOutput, error) {
	a, ok := i.store.Activity(id)
	if !ok {
		return dto.ActivityOutput{}, apperrors.NotFound("activity", id)
	}
	return toActivityOutput(a), nil
}

func (i *Interactor) ListActivities(context.Context) []dto.ActivityOutput {
	return activityOutputs(i.store.Activities())
}

func (i *Interactor) ListRecords(context.Context) []dto.RecordOutput {
	return recordOutputs(i.store.Records())
}

func (i *Interactor) GetLatestRecord(_ context.Context, activityID string) (dto.RecordOutput, bool) {
	r, ok := i.store.LatestRecord(activityID)
	if !ok {
		return dto.RecordOutput{}, false
	}
	return toRecordOutput(r), true
}

func (i *Interactor) Snapshot(context.Context) dto.Snapshot {
	return dto.Snapshot{
		Activities: activityOutputs(i.store.Activities()),
		Records:    recordOutputs(i.store.Records()),
	}
}

// Joined yields every record with its activity, oldest first. It iterates a
// snapshot taken when called.
func (i *Interactor) Joined(context.Context) iter.Seq[dto.JoinedRecord] {
	activities := i.store.Activities()
	records := slices.Clone(i.store.Records())
	return func(yield func(dto.JoinedRecord) bool) {
		byID := make(map[string]domain.Activity, len(activities))
		for _, a := range activities {
			byID[a.ID] = a
		}
		slices.SortStableFunc(records, func(a, b domain.ActivityRecord) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
		for _, r := range records {
			a, ok := byID[r.ActivityID]
			if !ok {
				continue
			}
			if !yield(dto.JoinedRecord{Activity: toActivityOutput(a), Record: toRecordOutput(r)}) {
				return
			}
		}
	}
}

func (i *Interactor) LastError(context.Context) (dto.ErrorReport, bool) {
	last, ok := i.lastErr.Last()
	if !ok {
		return dto.ErrorReport{}, false
	}
	return dto.ErrorReport{Kind: last.Kind, Message: last.Err.Error(), At: last.At}, true
}

func (i *Interactor) Flush(ctx context.Context) error {
	return i.saver.Flush(ctx)
}

func (i *Interactor) Close(ctx context.Context) error {
	return i.saver.Close(ctx)
}

func (i *Interactor) save(ctx context.Context) error {
	started := time.Now()
	activities := i.store.Activities()
	records := i.store.Records()
	err := errors.Join(
		i.repo.SaveActivities(ctx, activities),
		i.repo.SaveRecords(ctx, records),
	)
	observability.RecordFlush(started, err)
	if err != nil {
		i.record(err)
	}
	return err
}

func (i *Interactor) persist() {
	observability.SetOpenSessions(countOpen(i.store.Activities()))
	i.saver.Trigger()
}

func (i *Interactor) reschedule(ctx context.Context, activity domain.Activity) {
	if i.reminders == nil || !activity.RemindersEnabled() {
		return
	}
	handle, changed, err := i.reminders.Schedule(ctx, activity)
	if err != nil {
		i.record(err)
	}
	if changed && i.store.SetNotificationHandle(activity.ID, handle) {
		i.persist()
	}
}

func (i *Interactor) cancelReminder(ctx context.Context, activity domain.Activity) {
	if i.reminders == nil {
		return
	}
	if err := i.reminders.Cancel(ctx, activity.ID, activity.LastNotificationID); err != nil {
		i.record(err)
		return
	}
	if activity.LastNotificationID != "" && i.store.SetNotificationHandle(activity.ID, "") {
		i.persist()
	}
}

func (i *Interactor) record(err error) {
	i.lastErr.Record(err, i.clock.Now())
	i.logger.Warn("non-fatal failure", "kind", apperrors.Kind(err), "error", err)
}

func (i *Interactor) at(override *time.Time) time.Time {
	if override != nil {
		return *override
	}
	return i.clock.Now()
}

func (i *Interactor) output(id string) dto.ActivityOutput {
	a, _ := i.store.Activity(id)
	return toActivityOutput(a)
}

func (i *Interactor) trackOutput(t service.Transition) dto.TrackOutput {
	out := dto.TrackOutput{Activity: i.output(t.Activity.ID)}
	switch t.Outcome {
	case service.Recorded:
		out.Outcome = dto.OutcomeRecorded
	case service.Started:
		out.Outcome = dto.OutcomeStarted
	case service.AlreadyTracking:
		out.Outcome = dto.OutcomeAlreadyTracking
	case service.Stopped:
		out.Outcome = dto.OutcomeStopped
	case service.NotTracking:
		out.Outcome = dto.OutcomeNotTracking
	}
	if t.Record != nil {
		rec := toRecordOutput(*t.Record)
		out.Record = &rec
	}
	return out
}

func countOpen(activities []domain.Activity) int {
	n := 0
	for _, a := range activities {
		if a.Tracking.IsOpen() {
			n++
		}
	}
	return n
}
