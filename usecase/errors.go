package usecase

import "errors"

// Sentinel errors of the aggregation pipeline. The api layer maps them to
// DetailedError codes, the ingest CLI prints them as-is.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidDateRange  = errors.New("start date must be before end date")
	ErrMalformedInput    = errors.New("input is missing required columns")
	ErrEmptyResult       = errors.New("no data found for the specified date range")
	ErrNoData            = errors.New("no metric could be analyzed over the specified date range")
)
