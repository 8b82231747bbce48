package api

import (
	"context"

	"github.com/bodycomp-io/bodycomp-api/common"
)

// exportData launches an asynchronous CSV export of the requested range to
// the export bucket. Always returns 200; the export outcome only shows in
// the logs.
//
// GET /export?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (a *API) exportData(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.URL.Query()
	startDate := query.Get("startDate")
	endDate := query.Get("endDate")

	go a.exporter.Export(res.TraceID, startDate, endDate)
	return nil
}
