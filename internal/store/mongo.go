// Package store is the document-store layer: orders, foods and the singleton
// admin settings live in MongoDB. The core packages never touch it directly;
// they receive materialized snapshots and the services in internal/orders do
// the reads and single-field writes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrNotFound = errors.New("not found")

const (
	ordersCollection   = "orders"
	foodsCollection    = "foods"
	settingsCollection = "adminData"

	// settingsDocID keys the singleton settings document.
	settingsDocID = "settings"
)

type Store struct {
	orders   *mongo.Collection
	foods    *mongo.Collection
	settings *mongo.Collection
}

// Dial connects, pings and returns the store plus the client for shutdown.
func Dial(ctx context.Context, uri, dbName string) (*Store, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	db := client.Database(dbName)
	return New(db), client, nil
}

func New(db *mongo.Database) *Store {
	return &Store{
		orders:   db.Collection(ordersCollection),
		foods:    db.Collection(foodsCollection),
		settings: db.Collection(settingsCollection),
	}
}
