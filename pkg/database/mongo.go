package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gdpranavl/SanjeevanAI/pkg/config"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
)

// Connection owns the process-wide pooled MongoDB client. It is
// constructed once at startup and injected into every repository.
type Connection struct {
	client *mongo.Client
	db     *mongo.Database
	config *config.DatabaseConfig
	logger *logger.Logger
}

// NewConnection creates a pooled MongoDB client and verifies
// connectivity with a ping before returning.
func NewConnection(cfg *config.DatabaseConfig, log *logger.Logger) (*Connection, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeout) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"database":      cfg.Name,
		"max_pool_size": cfg.MaxPoolSize,
	}).Info("Connected to MongoDB")

	return &Connection{
		client: client,
		db:     client.Database(cfg.Name),
		config: cfg,
		logger: log,
	}, nil
}

// WrapClient builds a Connection around an already constructed client.
// Lets callers that own the client lifecycle, such as driver-level
// tests on a mock deployment, reuse the repository layer.
func WrapClient(client *mongo.Client, cfg *config.DatabaseConfig, log *logger.Logger) *Connection {
	return &Connection{
		client: client,
		db:     client.Database(cfg.Name),
		config: cfg,
		logger: log,
	}
}

// Database returns the configured database handle
func (c *Connection) Database() *mongo.Database {
	return c.db
}

// Collection returns a collection handle by name
func (c *Connection) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// OperationTimeout returns the configured per-operation timeout
func (c *Connection) OperationTimeout() time.Duration {
	return time.Duration(c.config.OperationTimeout) * time.Second
}

// Health checks database connectivity
func (c *Connection) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client, draining the pool
func (c *Connection) Close(ctx context.Context) error {
	c.logger.Info("Closing MongoDB connection")
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
