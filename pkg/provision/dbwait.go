package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsagent/provision/pkg/logger"
)

var dbWaitLog = logger.New("provision:dbwait")

const dbPollInterval = 2 * time.Second

// waitForDatabase pings the engine's backing database until it answers or
// the timeout elapses. The engine's import commands need the database up;
// a timeout is reported as a warning by the caller, never as a fatal error.
func waitForDatabase(ctx context.Context, connString string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for {
		lastErr = pingDatabase(ctx, connString)
		if lastErr == nil {
			return nil
		}
		dbWaitLog.Printf("database not ready: %v", lastErr)

		select {
		case <-ctx.Done():
			return fmt.Errorf("database not reachable within %s: %w", timeout, lastErr)
		case <-time.After(dbPollInterval):
		}
	}
}

func pingDatabase(ctx context.Context, connString string) error {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
