package usecase

import (
	"context"

	"tempo/internal/modules/analytics/dto"
	analyticsin "tempo/internal/modules/analytics/port/in"
	"tempo/internal/modules/analytics/service"
)

type Interactor struct {
	svc *service.Engine
}

func NewInteractor(svc *service.Engine) analyticsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Filter(ctx context.Context, input dto.FilterInput) ([]dto.RecordOutput, error) {
	return i.svc.Filter(ctx, input)
}

func (i *Interactor) Statistics(ctx context.Context, activityID string) (dto.StatisticsOutput, error) {
	return i.svc.Statistics(ctx, activityID)
}

func (i *Interactor) AllStatistics(ctx context.Context) ([]dto.StatisticsOutput, error) {
	return i.svc.AllStatistics(ctx)
}

func (i *Interactor) Trends(ctx context.Context, activityID string, days int) ([]dto.TrendOutput, error) {
	return i.svc.Trends(ctx, activityID, days)
}

func (i *Interactor) ProductiveHours(ctx context.Context, activityID string) ([]dto.HourCount, error) {
	return i.svc.ProductiveHours(ctx, activityID)
}

func (i *Interactor) Suggestions(ctx context.Context) ([]dto.SuggestionOutput, error) {
	return i.svc.Suggestions(ctx)
}

func (i *Interactor) SuggestNext(ctx context.Context) (dto.SuggestionOutput, bool, error) {
	return i.svc.SuggestNext(ctx)
}

func (i *Interactor) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	return i.svc.Overview(ctx)
}
