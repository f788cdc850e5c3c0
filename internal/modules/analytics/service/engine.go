package service

import (
	"context"

	"tempo/internal/modules/analytics/domain"
	"tempo/internal/modules/analytics/dto"
	analyticsout "tempo/internal/modules/analytics/port/out"
	"tempo/internal/platform/clock"
	apperrors "tempo/internal/platform/errors"
)

// DefaultTrendDays is used when a caller asks for a non-positive window.
const DefaultTrendDays = 30

// Engine answers read-only queries over a fresh snapshot per call. Calendar
// days follow the clock's location.
type Engine struct {
	clock  clock.Clock
	source analyticsout.Source
}

func NewEngine(clk clock.Clock, source analyticsout.Source) *Engine {
	return &Engine{clock: clk, source: source}
}

func (e *Engine) Filter(ctx context.Context, input dto.FilterInput) ([]dto.RecordOutput, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if input.Start != nil && input.End != nil && input.End.Before(*input.Start) {
		return nil, apperrors.Invalid("end", "must not be before start")
	}
	records := domain.FilterRecords(data.Activities, data.Records, domain.Filter{
		ActivityID: input.ActivityID,
		Type:       input.Type,
		Start:      input.Start,
		End:        input.End,
	})
	out := make([]dto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RecordOutput{ID: r.ID, ActivityID: r.ActivityID, Timestamp: r.Timestamp, Duration: r.Duration})
	}
	return out, nil
}

func (e *Engine) Statistics(ctx context.Context, activityID string) (dto.StatisticsOutput, error) {
	data, activity, err := e.activity(ctx, activityID)
	if err != nil {
		return dto.StatisticsOutput{}, err
	}
	return statisticsOutput(activity, domain.ComputeStatistics(activity.ID, data.Records, e.clock.Now())), nil
}

func (e *Engine) AllStatistics(ctx context.Context) ([]dto.StatisticsOutput, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := e.clock.Now()
	out := make([]dto.StatisticsOutput, 0, len(data.Activities))
	for _, a := range data.Activities {
		out = append(out, statisticsOutput(a, domain.ComputeStatistics(a.ID, data.Records, now)))
	}
	return out, nil
}

func (e *Engine) Trends(ctx context.Context, activityID string, days int) ([]dto.TrendOutput, error) {
	data, activity, err := e.activity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultTrendDays
	}
	buckets := domain.Trends(activity.ID, data.Records, days, e.clock.Now())
	out := make([]dto.TrendOutput, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.TrendOutput{Day: b.Day, Count: b.Count, TotalDuration: b.TotalDuration, AverageDuration: b.AverageDuration})
	}
	return out, nil
}

func (e *Engine) ProductiveHours(ctx context.Context, activityID string) ([]dto.HourCount, error) {
	data, activity, err := e.activity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	hours := domain.ProductiveHours(activity.ID, data.Records, e.clock.Now().Location())
	out := make([]dto.HourCount, 0, len(hours))
	for hour, count := range hours {
		out = append(out, dto.HourCount{Hour: hour, Count: count})
	}
	return out, nil
}

func (e *Engine) Suggestions(ctx context.Context) ([]dto.SuggestionOutput, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := domain.Suggestions(data.Activities, data.Records, e.clock.Now())
	out := make([]dto.SuggestionOutput, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionOutput(s))
	}
	return out, nil
}

func (e *Engine) SuggestNext(ctx context.Context) (dto.SuggestionOutput, bool, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return dto.SuggestionOutput{}, false, err
	}
	next, ok := domain.SuggestNext(data.Activities, data.Records, e.clock.Now())
	if !ok {
		return dto.SuggestionOutput{}, false, nil
	}
	return suggestionOutput(next), true, nil
}

func (e *Engine) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return dto.OverviewOutput{}, err
	}
	out := dto.OverviewOutput{Activities: len(data.Activities), Records: len(data.Records)}
	for _, day := range domain.WeeklyOverview(data.Records, e.clock.Now()) {
		out.Week = append(out.Week, dto.DayCount{Day: day.Day, Count: day.Count})
	}
	for _, share := range domain.Distribution(data.Activities, data.Records) {
		out.Distribution = append(out.Distribution, dto.ShareOutput{
			ActivityID: share.Activity.ID,
			Name:       share.Activity.Name,
			Color:      share.Activity.Color,
			Count:      share.Count,
			Percent:    share.Percent,
		})
	}
	return out, nil
}

func (e *Engine) activity(ctx context.Context, id string) (domain.Dataset, domain.Activity, error) {
	data, err := e.source.Snapshot(ctx)
	if err != nil {
		return domain.Dataset{}, domain.Activity{}, err
	}
	activity, ok := data.Activity(id)
	if !ok {
		return domain.Dataset{}, domain.Activity{}, apperrors.NotFound("activity", id)
	}
	return data, activity, nil
}

func statisticsOutput(a domain.Activity, s domain.Statistics) dto.StatisticsOutput {
	return dto.StatisticsOutput{
		ActivityID:      a.ID,
		ActivityName:    a.Name,
		TotalDuration:   s.TotalDuration,
		AverageDuration: s.AverageDuration,
		LongestSession:  s.LongestSession,
		ShortestSession: s.ShortestSession,
		RecordCount:     s.RecordCount,
		LastTracked:     s.LastTracked,
		Streak:          s.Streak,
		CompletionRate:  s.CompletionRate,
	}
}

func suggestionOutput(s domain.Suggestion) dto.SuggestionOutput {
	return dto.SuggestionOutput{
		ActivityID:  s.Activity.ID,
		Name:        s.Activity.Name,
		Color:       s.Activity.Color,
		LastTracked: s.LastTracked,
	}
}
