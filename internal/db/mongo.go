package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-sprout/internal/config/configs"
)

// NewMongoClient connects to MongoDB and pings the primary. The caller must
// call CloseMongo when done.
func NewMongoClient(ctx context.Context, cfg configs.Mongo) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is empty")
	}

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	ctxConn, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctxConn, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err = client.Ping(ctxPing, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// CloseMongo disconnects the client.
func CloseMongo(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}
