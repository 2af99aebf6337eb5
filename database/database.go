// database/database.go
package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"collegedir/apperr"
	"collegedir/config"
)

// Store owns the shared MongoDB client for the life of the process.
type Store struct {
	client         *mongo.Client
	db             *mongo.Database
	institutions   string
	healthInterval time.Duration

	// unix nanos of the last successful ping
	lastHealthy atomic.Int64
}

// Connect creates the client and verifies the deployment is reachable.
func Connect(ctx context.Context, cfg *config.Config) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(20 * time.Second).
		SetServerSelectionTimeout(15 * time.Second).
		SetMaxPoolSize(50)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	defer cancelPing()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB (check URI, credentials and network access): %w", err)
	}

	s := &Store{
		client:         client,
		db:             client.Database(cfg.MongoDatabase),
		institutions:   cfg.InstitutionsCollection,
		healthInterval: cfg.StoreHealthInterval,
	}
	s.lastHealthy.Store(time.Now().UnixNano())

	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")
	return s, nil
}

func (s *Store) Institutions() *mongo.Collection {
	return s.db.Collection(s.institutions)
}

// Database is the handle lead collections are resolved from.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping always round-trips to the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	s.lastHealthy.Store(time.Now().UnixNano())
	return nil
}

// EnsureHealthy pings only when the last successful ping is older than the
// health interval.
func (s *Store) EnsureHealthy(ctx context.Context) error {
	last := time.Unix(0, s.lastHealthy.Load())
	if s.healthInterval > 0 && time.Since(last) < s.healthInterval {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		return apperr.WrapUnavailable(err, "Database unavailable.")
	}
	return nil
}

func (s *Store) Disconnect(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("MongoDB disconnect failed")
	}
}
