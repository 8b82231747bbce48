package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// StoreClient owns the mongo connection handle. It is constructed once by
// the composition root, injected wherever store access is needed, and closed
// on shutdown.
type StoreClient struct {
	client   *mongo.Client
	database string
	logger   *logrus.Logger
}

// NewStoreClient connects to mongo and verifies the connection with a ping.
func NewStoreClient(ctx context.Context, uri string, database string, logger *logrus.Logger) (*StoreClient, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Infof("connected to mongo database %s", database)
	return &StoreClient{
		client:   client,
		database: database,
		logger:   logger,
	}, nil
}

// Collection returns a handle on a collection of the configured database.
func (s *StoreClient) Collection(name string) *mongo.Collection {
	return s.client.Database(s.database).Collection(name)
}

// Ping checks the store connection, used by the status route.
func (s *StoreClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close tears the connection down.
func (s *StoreClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
