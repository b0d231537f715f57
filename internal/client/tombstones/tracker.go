// Package tombstones tracks recent local profile deletions so a stale remote
// read cannot resurrect a record the user just removed.
//
// The windows are deliberately short: they absorb the gap between a local
// delete and the following sync pass, they are not a deletion log. Deletion
// is also propagated pessimistically to the remote store, so the tombstone is
// a backstop, not the only mechanism.
package tombstones

import (
	"context"
	"time"

	"github.com/sittersafe/carelog/internal/client/cache"
	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/common"
	"github.com/sittersafe/carelog/internal/logging"
)

const (
	// DefaultRecency is how long a tombstone suppresses re-insertion of
	// its id from remote data.
	DefaultRecency = 60 * time.Second

	// DefaultRetention is how long a tombstone is kept before being purged.
	DefaultRetention = 300 * time.Second
)

// Tracker persists tombstones through the local cache store.
type Tracker struct {
	store     cache.Store
	log       logging.Logger
	now       func() time.Time
	recency   time.Duration
	retention time.Duration
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithWindows overrides the recency and retention windows. Non-positive
// values keep the defaults.
func WithWindows(recency, retention time.Duration) Option {
	return func(t *Tracker) {
		if recency > 0 {
			t.recency = recency
		}
		if retention > 0 {
			t.retention = retention
		}
	}
}

func NewTracker(store cache.Store, log logging.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		log:       log,
		now:       time.Now,
		recency:   DefaultRecency,
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends a tombstone for id and persists the list.
func (t *Tracker) Record(ctx context.Context, id string) error {
	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	list = append(list, models.Tombstone{ID: id, DeletedAt: t.now()})
	return cache.SetJSON(ctx, t.store, common.KeyTombstones, list)
}

// IsRecentlyDeleted reports whether id was deleted within the recency window.
// Load failures count as "not deleted": the caller falls back to the normal
// merge path rather than silently dropping a record.
func (t *Tracker) IsRecentlyDeleted(ctx context.Context, id string) bool {
	list, err := t.load(ctx)
	if err != nil {
		t.log.Warn(ctx, "failed to load tombstones", "error", err)
		return false
	}
	cutoff := t.now().Add(-t.recency)
	for _, ts := range list {
		if ts.ID == id && ts.DeletedAt.After(cutoff) {
			return true
		}
	}
	return false
}

// PurgeExpired drops tombstones older than the retention window and persists
// the reduced list. The write is skipped when nothing expired.
func (t *Tracker) PurgeExpired(ctx context.Context) error {
	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	cutoff := t.now().Add(-t.retention)
	kept := list[:0]
	for _, ts := range list {
		if ts.DeletedAt.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return cache.SetJSON(ctx, t.store, common.KeyTombstones, kept)
}

func (t *Tracker) load(ctx context.Context) ([]models.Tombstone, error) {
	var list []models.Tombstone
	if _, err := cache.GetJSON(ctx, t.store, common.KeyTombstones, &list); err != nil {
		return nil, err
	}
	return list, nil
}
