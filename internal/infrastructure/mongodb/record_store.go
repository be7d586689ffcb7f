// Package mongodb persists validation records to the remote record store.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/palletwise/backend/internal/domain"
)

// Config holds record store configuration.
type Config struct {
	URI        string        `mapstructure:"mongo_uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RecordStore writes validation rows to MongoDB. Writes go through a circuit
// breaker: while the breaker is open the caller gets
// domain.ErrRecordStoreUnavailable immediately and the local mirror stands as
// the authoritative copy.
type RecordStore struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
	timeout    time.Duration
}

// Connect dials MongoDB and returns a store over the configured collection.
func Connect(ctx context.Context, config Config) (*RecordStore, error) {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting record store: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging record store: %w", err)
	}

	collection := config.Collection
	if collection == "" {
		collection = "validation_records"
	}
	return NewRecordStore(client.Database(config.Database).Collection(collection), config.Timeout), nil
}

// NewRecordStore wraps an existing collection, mainly for tests.
func NewRecordStore(collection *mongo.Collection, timeout time.Duration) *RecordStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "record-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &RecordStore{collection: collection, breaker: breaker, timeout: timeout}
}

// Upsert writes one validation record keyed on (source, document_ref), so
// reprocessing a document replaces rather than duplicates its row.
func (s *RecordStore) Upsert(ctx context.Context, rec *domain.ValidationRecord) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		filter := bson.M{"source": rec.Source, "document_ref": rec.DocumentRef}
		update := bson.M{"$set": rec}
		_, err := s.collection.UpdateOne(opCtx, filter, update, options.Update().SetUpsert(true))
		return nil, err
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("%w: circuit open", domain.ErrRecordStoreUnavailable)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRecordStoreUnavailable, err)
	}
	return nil
}
