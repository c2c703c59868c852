package postgresql

import (
	"context"
	"database/sql"

	"savingsadmin/internal/logger"
	"savingsadmin/internal/port"
)

type advisoryLocker struct {
	db *sql.DB
}

// NewLocker serialises work per key across every process sharing the
// database, using session-level advisory locks.
func NewLocker(db *sql.DB) port.Locker {
	return &advisoryLocker{db: db}
}

func (l *advisoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	// advisory locks belong to a session, so lock and unlock must share a connection
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		return err
	}
	defer func() {
		// the caller's context may already be cancelled
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("failed to release advisory lock")
		}
	}()

	return fn(ctx)
}
