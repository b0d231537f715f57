package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sittersafe/carelog/internal/common"
	"github.com/sittersafe/carelog/internal/dbx"
)

// DefaultQuotaBytes mirrors the storage budget of a browser localStorage
// origin, the environment the snapshot layout was designed for.
const DefaultQuotaBytes = 5 << 20

// SQLiteStore implements Store over a local SQLite database. Quota accounting
// and the upsert run in one transaction, so a rejected write cannot leave a
// partial snapshot behind.
type SQLiteStore struct {
	db    *sql.DB
	quota int64
}

// NewSQLiteStore returns a store bound to db. quota <= 0 selects
// DefaultQuotaBytes.
func NewSQLiteStore(db *sql.DB, quota int64) *SQLiteStore {
	if quota <= 0 {
		quota = DefaultQuotaBytes
	}
	return &SQLiteStore{db: db, quota: quota}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var used int64
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(value)), 0) FROM snapshots WHERE key != ?`, key).Scan(&used)
		if err != nil {
			return fmt.Errorf("failed to read storage usage: %w", err)
		}
		if used+int64(len(value)) > s.quota {
			return fmt.Errorf("snapshot[%s] needs %d bytes, %d in use of %d: %w",
				key, len(value), used, s.quota, common.ErrQuotaExceeded)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshots (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to set snapshot[%s]: %w", key, err)
		}
		return nil
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot[%s]: %w", key, err)
	}
	return nil
}
