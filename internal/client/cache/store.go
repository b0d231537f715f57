// Package cache implements the local cache store: a synchronous,
// quota-bounded key/value layer holding whole-document JSON snapshots.
// It is the single source of truth the UI renders from; every write either
// fully replaces the stored snapshot or fails with the prior value intact.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is the persistence contract of the local cache.
type Store interface {
	// Get returns the stored snapshot for key, or (nil, nil) if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set atomically replaces the snapshot under key. When the write
	// would push total stored bytes over the quota it fails with
	// common.ErrQuotaExceeded and leaves the prior snapshot unchanged.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the snapshot under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// GetJSON unmarshals the snapshot under key into out. It reports whether a
// snapshot was present; a missing key leaves out untouched.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot[%s]: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot[%s]: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
