package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bodycomp-io/bodycomp-api/common"
	"github.com/bodycomp-io/bodycomp-api/schema"
)

// minGroupTime is the smallest accepted bucket width in days.
const minGroupTime = 7

var errorInvalidGroupTime = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_group_time", Message: "groupTime must be an integer of at least 7 days"}

// getScatter returns the day-averaged relationship between two metrics.
//
// GET /v1/measurements?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD&xField=muscleMass&yField=weight
func (a *API) getScatter(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.URL.Query()
	chart, detailedErr := a.charts.GetScatter(ctx, res.TraceID,
		query.Get("startDate"), query.Get("endDate"),
		query.Get("xField"), query.Get("yField"))
	if detailedErr != nil {
		return res.WriteError(detailedErr)
	}
	return res.WriteJSON(chart)
}

// getTimeProgression returns the bucketed progression of one metric.
//
// GET /v1/time-progression?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD&measureField=weight&groupTime=28
func (a *API) getTimeProgression(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.URL.Query()
	groupTime, err := strconv.Atoi(query.Get("groupTime"))
	if err != nil || groupTime < minGroupTime {
		e := errorInvalidGroupTime
		return res.WriteError(&e)
	}
	chart, detailedErr := a.charts.GetTimeProgression(ctx, res.TraceID,
		query.Get("startDate"), query.Get("endDate"),
		query.Get("measureField"), groupTime)
	if detailedErr != nil {
		return res.WriteError(detailedErr)
	}
	return res.WriteJSON(chart)
}

// getVariationCards returns one period-over-period card per metric with
// data in the range.
//
// GET /v1/variation-card?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (a *API) getVariationCards(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.URL.Query()
	cards, detailedErr := a.charts.GetVariationCards(ctx, res.TraceID,
		query.Get("startDate"), query.Get("endDate"))
	if detailedErr != nil {
		return res.WriteError(detailedErr)
	}
	return res.WriteJSON(cards)
}

// getMonthlyStats returns the by-month rollup of all metrics.
//
// GET /v1/monthly-stats?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (a *API) getMonthlyStats(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.URL.Query()
	stats, detailedErr := a.charts.GetMonthlyStats(ctx, res.TraceID,
		query.Get("startDate"), query.Get("endDate"))
	if detailedErr != nil {
		return res.WriteError(detailedErr)
	}
	return res.WriteJSON(stats)
}

// getDataRange returns the first and last stored measurement times as a
// two-element array.
//
// GET /v1/range
func (a *API) getDataRange(ctx context.Context, res *common.HttpResponseWriter) error {
	timeRange, detailedErr := a.charts.GetDataRange(ctx, res.TraceID)
	if detailedErr != nil {
		return res.WriteError(detailedErr)
	}
	return res.WriteJSON([]string{
		timeRange.Start.Format(schema.DayFormat),
		timeRange.End.Format(schema.DayFormat),
	})
}
