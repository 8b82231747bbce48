package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

const (
	measurementCollectionName = "body_composition"
	idxMeasureTimeDeviceID    = "MeasureTimeDeviceIdUnique"
	idxMeasureTime            = "MeasureTime"
)

var withoutObjectID = bson.M{"_id": 0}

var measurementIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{{Key: "measureTime", Value: 1}, {Key: "deviceId", Value: 1}},
		Options: options.Index().
			SetName(idxMeasureTimeDeviceID).
			SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "measureTime", Value: -1}},
		Options: options.Index().SetName(idxMeasureTime),
	},
}

// MeasurementMongoRepository is the mongo implementation of the measurement
// store.
type MeasurementMongoRepository struct {
	*StoreClient
}

// NewMeasurementMongoRepository wraps the store client and ensures the
// collection indexes, including the (measureTime, deviceId) uniqueness
// backing the upsert semantics.
func NewMeasurementMongoRepository(ctx context.Context, store *StoreClient) (*MeasurementMongoRepository, error) {
	repo := &MeasurementMongoRepository{StoreClient: store}
	_, err := repo.measurements().Indexes().CreateMany(ctx, measurementIndexes)
	if err != nil {
		return nil, fmt.Errorf("create measurement indexes: %w", err)
	}
	return repo, nil
}

func (r *MeasurementMongoRepository) measurements() *mongo.Collection {
	return r.Collection(measurementCollectionName)
}

// UpsertMeasurements bulk writes the records, replacing any stored document
// with the same (measureTime, deviceId). Last write wins.
func (r *MeasurementMongoRepository) UpsertMeasurements(ctx context.Context, records []schema.Measurement) (*schema.UpsertResult, error) {
	if len(records) == 0 {
		return &schema.UpsertResult{}, nil
	}
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"measureTime": rec.MeasureTime, "deviceId": rec.DeviceID}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	result, err := r.measurements().BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return nil, err
	}
	return &schema.UpsertResult{
		Inserted: result.UpsertedCount,
		Updated:  result.ModifiedCount,
	}, nil
}

// rangeQuery builds the measureTime filter for a date range. An inclusive
// end covers the whole end day.
func rangeQuery(timeRange schema.TimeRange) bson.M {
	end := timeRange.End
	if timeRange.IncludeEnd {
		end = schema.TruncateDay(end).Add(24 * time.Hour)
	}
	return bson.M{
		"measureTime": bson.M{"$gte": timeRange.Start, "$lt": end},
	}
}

// GetMeasurements returns the raw measurements of the range sorted
// ascending by measureTime.
func (r *MeasurementMongoRepository) GetMeasurements(ctx context.Context, traceID string, timeRange schema.TimeRange) ([]schema.Measurement, error) {
	opts := options.Find()
	opts.SetProjection(withoutObjectID)
	opts.SetSort(bson.D{primitive.E{Key: "measureTime", Value: 1}})
	opts.SetComment(traceID)

	cursor, err := r.measurements().Find(ctx, rangeQuery(timeRange), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []schema.Measurement
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetDailyAverages runs the day-grouped aggregation of the scatter view in
// the store: match the range, derive the day string, average the two
// selected fields per day, sort by day ascending.
func (r *MeasurementMongoRepository) GetDailyAverages(ctx context.Context, traceID string, timeRange schema.TimeRange, xField schema.Metric, yField schema.Metric) ([]schema.DailyAverage, error) {
	pipeline := []bson.M{
		{"$match": rangeQuery(timeRange)},
		{"$addFields": bson.M{
			"day": bson.M{
				"$dateToString": bson.M{
					"format": "%Y-%m-%d",
					"date":   "$measureTime",
				},
			},
		}},
		{"$group": bson.M{
			"_id":  "$day",
			"avgX": bson.M{"$avg": "$" + string(xField)},
			"avgY": bson.M{"$avg": "$" + string(yField)},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	opts := options.Aggregate()
	opts.SetComment(traceID)

	cursor, err := r.measurements().Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []schema.DailyAverage
	if err := cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// GetDataRange returns the first and last stored measurement times, nil
// when the collection is empty.
func (r *MeasurementMongoRepository) GetDataRange(ctx context.Context, traceID string) (*schema.TimeRange, error) {
	var rec schema.Measurement

	opts := options.FindOne()
	opts.SetProjection(bson.M{"_id": 0, "measureTime": 1})
	opts.SetComment(traceID)

	// Last measurement (sort measureTime DESC)
	opts.SetSort(bson.D{primitive.E{Key: "measureTime", Value: -1}})
	err := r.measurements().FindOne(ctx, bson.M{}, opts).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	last := rec.MeasureTime

	// First measurement (sort measureTime ASC)
	opts.SetSort(bson.D{primitive.E{Key: "measureTime", Value: 1}})
	if err := r.measurements().FindOne(ctx, bson.M{}, opts).Decode(&rec); err != nil {
		return nil, err
	}

	timeRange := schema.NewTimeRange(rec.MeasureTime, last)
	return &timeRange, nil
}
