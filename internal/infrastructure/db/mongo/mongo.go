package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

// Config captures the settings of the transcript archive connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Archive owns the MongoDB client backing the transcript archive.
type Archive struct {
	client *mongo.Client
	DB     *mongo.Database
}

// Connect establishes a MongoDB client and verifies connectivity with a ping.
// Writes are acknowledged by the primary only.
func Connect(ctx context.Context, cfg Config) (*Archive, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("site-archive").
		SetTimeout(timeout).
		SetWriteConcern(writeconcern.W1())
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Archive{client: client, DB: client.Database(cfg.Database)}, nil
}

// Close disconnects the client, waiting at most disconnectTimeout.
func (a *Archive) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return a.client.Disconnect(ctx)
}
