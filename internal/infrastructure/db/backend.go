// Package db opens the storage backend selected by configuration.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/ports"
	"github.com/taskflow/auth-service/internal/infrastructure/config"
	"github.com/taskflow/auth-service/internal/infrastructure/db/memory"
	"github.com/taskflow/auth-service/internal/infrastructure/db/mongo"
	"github.com/taskflow/auth-service/internal/infrastructure/db/postgres"
	"github.com/taskflow/auth-service/internal/infrastructure/db/redis"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the account repository, the refresh-token denylist and
// the connections behind them.
type Backend struct {
	Accounts    ports.AccountRepository
	Revocations ports.TokenRevocations
	Checks      map[string]Pinger

	closers []func(context.Context) error
}

// Open connects to the store named by cfg.StoreDriver. Mongo and Postgres
// keep revocations in Redis; the memory driver keeps everything in process.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	b := &Backend{Checks: make(map[string]Pinger)}

	if cfg.StoreDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		b.Accounts = memory.NewAccountRepository()
		b.Revocations = memory.NewRevocations()
		return b, nil
	}

	if err := b.openAccounts(ctx, cfg, log); err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}
	b.closers = append(b.closers, func(context.Context) error { return rdb.Close() })
	b.Revocations = redis.NewRevocations(rdb)
	b.Checks["redis"] = redis.Pinger{Client: rdb}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	return b, nil
}

func (b *Backend) openAccounts(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, client.Disconnect)

		repo := mongo.NewAccountRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		b.Accounts = repo
		b.Checks["mongo"] = mongo.Pinger{Client: client}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })

		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		b.Accounts = postgres.NewAccountRepository(pool)
		b.Checks["postgres"] = pool
		log.Info().Msg("connected to postgres")

	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return nil
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i](ctx))
	}
	b.closers = nil
	return errors.Join(errs...)
}
