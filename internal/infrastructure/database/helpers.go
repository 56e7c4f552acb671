package database

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Ping verifies the database connection is alive and responsive.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close shuts down the pool. Safe to call multiple times.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Println("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil

	return nil
}

// PoolStats is a snapshot of connection pool metrics for monitoring.
type PoolStats struct {
	AcquiredConns int32
	IdleConns     int32
	TotalConns    int32
	MaxConns      int32
	AcquireCount  int64
	NewConnsCount int64
}

// Stats returns current pool statistics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquiredConns: raw.AcquiredConns(),
		IdleConns:     raw.IdleConns(),
		TotalConns:    raw.TotalConns(),
		MaxConns:      raw.MaxConns(),
		AcquireCount:  raw.AcquireCount(),
		NewConnsCount: raw.NewConnsCount(),
	}, nil
}
