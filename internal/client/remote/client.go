// Package remote implements the typed CRUD client for the hosted backend:
// two tables (profiles, events) scoped by the authenticated owner.
//
// Every failure crossing this boundary is mapped onto the soft sentinels
// common.ErrUnavailable and common.ErrSchemaMissing; callers log them and
// proceed with the local cache instead of surfacing them to the user.
package remote

import (
	"context"
	"time"

	"github.com/sittersafe/carelog/internal/client/models"
)

// Client is the remote store contract used by the reconcilers.
type Client interface {
	// Ping probes backend reachability.
	Ping(ctx context.Context) error

	// ListProfiles returns all profile rows owned by ownerID, newest first.
	ListProfiles(ctx context.Context, ownerID string) ([]models.RemoteProfileRow, error)

	// UpsertProfile inserts or fully replaces a profile row by id.
	UpsertProfile(ctx context.Context, row models.RemoteProfileRow) error

	// DeleteProfile removes the profile row. Missing rows are a no-op.
	DeleteProfile(ctx context.Context, ownerID, id string) error

	// ListEventsSince returns event rows with event_time >= since, newest first.
	ListEventsSince(ctx context.Context, ownerID string, since time.Time) ([]models.RemoteEventRow, error)

	// InsertEvents bulk-inserts one row per child and returns the created
	// row ids in input order.
	InsertEvents(ctx context.Context, rows []models.RemoteEventRow) ([]string, error)

	// DeleteEventRow removes a single event row by id. Missing rows are a no-op.
	DeleteEventRow(ctx context.Context, id string) error

	// DeleteEventsMatching removes event rows for one child and type whose
	// event_time falls inside [from, to]. This is the heuristic fallback for
	// events that never recorded their remote ids; it can over- or
	// under-delete when two same-type events for the same child land inside
	// the window.
	DeleteEventsMatching(ctx context.Context, ownerID, childID string, eventType models.ActivityType, from, to time.Time) error

	// DeleteEventsForChild removes every event row of one child, independent
	// of type. Used by the profile-deletion cascade.
	DeleteEventsForChild(ctx context.Context, ownerID, childID string) error
}
