package in

import (
	"context"

	"tempo/internal/modules/analytics/dto"
)

type Usecase interface {
	Filter(ctx context.Context, input dto.FilterInput) ([]dto.RecordOutput, error)
	Statistics(ctx context.Context, activityID string) (dto.StatisticsOutput, error)
	AllStatistics(ctx context.Context) ([]dto.StatisticsOutput, error)
	Trends(ctx context.Context, activityID string, days int) ([]dto.TrendOutput, error)
	ProductiveHours(ctx context.Context, activityID string) ([]dto.HourCount, error)
	Suggestions(ctx context.Context) ([]dto.SuggestionOutput, error)
	SuggestNext(ctx context.Context) (dto.SuggestionOutput, bool, error)
	Overview(ctx context.Context) (dto.OverviewOutput, error)
}
