package api

import (
	"context"

	"github.com/bodycomp-io/bodycomp-api/common"
	"github.com/bodycomp-io/bodycomp-api/schema"
	"github.com/bodycomp-io/bodycomp-api/usecase"
)

type ChartDataUseCase interface {
	GetScatter(ctx context.Context, traceID string, startDate string, endDate string, xField string, yField string) (*usecase.MetricsRelationshipChart, *common.DetailedError)
	GetTimeProgression(ctx context.Context, traceID string, startDate string, endDate string, measureField string, groupTime int) (*usecase.TimeProgressionChart, *common.DetailedError)
	GetVariationCards(ctx context.Context, traceID string, startDate string, endDate string) ([]usecase.VariationCard, *common.DetailedError)
	GetMonthlyStats(ctx context.Context, traceID string, startDate string, endDate string) ([]usecase.MonthlyStat, *common.DetailedError)
	GetDataRange(ctx context.Context, traceID string) (*schema.TimeRange, *common.DetailedError)
}

type ExporterUseCase interface {
	Export(traceID string, startDate string, endDate string)
}

type DatabaseAdapter interface {
	Ping() error
}
