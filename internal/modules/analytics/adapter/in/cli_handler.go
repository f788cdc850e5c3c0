package in

import (
	"context"

	"tempo/internal/modules/analytics/dto"
	analyticsin "tempo/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Stats returns statistics for one activity, or for all when activityID is
// empty.
func (h CLIHandler) Stats(ctx context.Context, activityID string) ([]dto.StatisticsOutput, error) {
	if activityID == "" {
		return h.usecase.AllStatistics(ctx)
	}
	out, err := h.usecase.Statistics(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return []dto.StatisticsOutput{out}, nil
}

func (h CLIHandler) Trends(ctx context.Context, activityID string, days int) ([]dto.TrendOutput, error) {
	return h.usecase.Trends(ctx, activityID, days)
}

func (h CLIHandler) Hours(ctx context.Context, activityID string) ([]dto.HourCount, error) {
	return h.usecase.ProductiveHours(ctx, activityID)
}

func (h CLIHandler) Suggest(ctx context.Context, all bool) ([]dto.SuggestionOutput, error) {
	if all {
		return h.usecase.Suggestions(ctx)
	}
	next, ok, err := h.usecase.SuggestNext(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return []dto.SuggestionOutput{next}, nil
}

func (h CLIHandler) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	return h.usecase.Overview(ctx)
}

func (h CLIHandler) Filter(ctx context.Context, input dto.FilterInput) ([]dto.RecordOutput, error) {
	return h.usecase.Filter(ctx, input)
}
