package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

var shared struct {
	mu    sync.RWMutex
	group singleflight.Group
	pool  *pgxpool.Pool
}

// SharedPool returns the process-wide connection pool, dialing it on first
// use. Concurrent first callers are collapsed onto a single in-flight dial
// via singleflight, so a failed attempt is not cached and the next caller
// retries.
func SharedPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	shared.mu.RLock()
	pool := shared.pool
	shared.mu.RUnlock()
	if pool != nil {
		return pool, nil
	}

	value, err, _ := shared.group.Do("pool", func() (any, error) {
		shared.mu.RLock()
		existing := shared.pool
		shared.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		pool, err := newPool(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		shared.mu.Lock()
		shared.pool = pool
		shared.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*pgxpool.Pool), nil
}

// CloseSharedPool closes and forgets the shared pool. Called on shutdown and
// between tests.
func CloseSharedPool() {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.pool != nil {
		shared.pool.Close()
		shared.pool = nil
	}
}

func newPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres: database URL is empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}
