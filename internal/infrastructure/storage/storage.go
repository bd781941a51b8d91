// Package storage opens the key-value persistence surface selected by
// STORAGE_DRIVER.
package storage

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/database/postgres"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/database/redis"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
)

// Storage is an opened persistence backend.
type Storage struct {
	Driver string
	Store  kv.Store

	redis    *redis.Client
	database *postgres.Database
	pgStore  *kv.PostgresStore
}

// Open connects the configured driver and returns a store rooted at the
// configured key prefix.
func Open(cfg *config.Config, logger *logrus.Logger) (*Storage, error) {
	s := &Storage{Driver: cfg.Storage.Driver}

	var base kv.Store
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		base = kv.NewMemoryStore()
	case config.StorageRedis:
		client, err := redis.NewConnection(cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		s.redis = client
		base = kv.NewRedisStore(client.GetClient(), cfg.Storage.GuestCartTTL)
	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.NewMigration(db.GetDB(), logger).RunAutoMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		s.database = db
		s.pgStore = kv.NewPostgresStore(db.GetDB(), cfg.Storage.GuestCartTTL)
		base = s.pgStore
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.KeyPrefix != "" {
		base = kv.Namespace(base, cfg.Storage.KeyPrefix)
	}
	s.Store = base

	logger.WithField("driver", s.Driver).Info("Storage ready")
	return s, nil
}

// RedisClient returns the Redis client when the redis driver is in use.
func (s *Storage) RedisClient() *goredis.Client {
	if s.redis == nil {
		return nil
	}
	return s.redis.GetClient()
}

// Health checks the backing service, if any.
func (s *Storage) Health(ctx context.Context) error {
	switch {
	case s.redis != nil:
		return s.redis.Health(ctx)
	case s.database != nil:
		return s.database.Health(ctx)
	}
	return nil
}

// Housekeep removes expired rows for drivers that do not expire keys on
// their own.
func (s *Storage) Housekeep(ctx context.Context) (int64, error) {
	if s.pgStore == nil {
		return 0, nil
	}
	return s.pgStore.PurgeExpired(ctx)
}

// Close releases the backing connections.
func (s *Storage) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.database != nil {
		errs = append(errs, s.database.Close())
	}
	return errors.Join(errs...)
}
