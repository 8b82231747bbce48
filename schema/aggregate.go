package schema

type (
	// DailyAverage is one day-grouped row of the scatter aggregation
	// pipeline: the per-day mean of the two selected metrics. A nil average
	// means the day carried no value for that metric.
	DailyAverage struct {
		Day  string   `bson:"_id"`
		AvgX *float64 `bson:"avgX"`
		AvgY *float64 `bson:"avgY"`
	}

	// UpsertResult reports the outcome of a bulk ingestion write.
	UpsertResult struct {
		Inserted int64
		Updated  int64
	}
)
