package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/common"
)

// remoteFake records calls and serves canned data. Setting unavailable makes
// every operation fail softly, as the real client does while offline.
type remoteFake struct {
	profiles []models.RemoteProfileRow
	events   []models.RemoteEventRow

	unavailable bool

	upserted       []models.RemoteProfileRow
	deletedIDs     []string
	insertedRows   []models.RemoteEventRow
	insertedIDs    []string
	deletedRows    []string
	matchDeletes   []matchDelete
	cascadeDeletes []string
	nextRowID      int
}

type matchDelete struct {
	childID   string
	eventType models.ActivityType
	from, to  time.Time
}

func (f *remoteFake) err(op string) error {
	return fmt.Errorf("%s: %w", op, common.ErrUnavailable)
}

func (f *remoteFake) Ping(ctx context.Context) error {
	if f.unavailable {
		return f.err("ping")
	}
	return nil
}

func (f *remoteFake) ListProfiles(ctx context.Context, ownerID string) ([]models.RemoteProfileRow, error) {
	if f.unavailable {
		return nil, f.err("list profiles")
	}
	return f.profiles, nil
}

func (f *remoteFake) UpsertProfile(ctx context.Context, row models.RemoteProfileRow) error {
	if f.unavailable {
		return f.err("upsert profile")
	}
	f.upserted = append(f.upserted, row)
	return nil
}

func (f *remoteFake) DeleteProfile(ctx context.Context, ownerID, id string) error {
	if f.unavailable {
		return f.err("delete profile")
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *remoteFake) ListEventsSince(ctx context.Context, ownerID string, since time.Time) ([]models.RemoteEventRow, error) {
	if f.unavailable {
		return nil, f.err("list events")
	}
	return f.events, nil
}

func (f *remoteFake) InsertEvents(ctx context.Context, rows []models.RemoteEventRow) ([]string, error) {
	if f.unavailable {
		return nil, f.err("insert events")
	}
	ids := make([]string, 0, len(rows))
	for range rows {
		f.nextRowID++
		ids = append(ids, fmt.Sprintf("r%d", f.nextRowID))
	}
	f.insertedRows = append(f.insertedRows, rows...)
	f.insertedIDs = append(f.insertedIDs, ids...)
	return ids, nil
}

func (f *remoteFake) DeleteEventRow(ctx context.Context, id string) error {
	if f.unavailable {
		return f.err("delete event row")
	}
	f.deletedRows = append(f.deletedRows, id)
	return nil
}

func (f *remoteFake) DeleteEventsMatching(ctx context.Context, ownerID, childID string, eventType models.ActivityType, from, to time.Time) error {
	if f.unavailable {
		return f.err("delete events matching")
	}
	f.matchDeletes = append(f.matchDeletes, matchDelete{childID: childID, eventType: eventType, from: from, to: to})
	return nil
}

func (f *remoteFake) DeleteEventsForChild(ctx context.Context, ownerID, childID string) error {
	if f.unavailable {
		return f.err("delete events for child")
	}
	f.cascadeDeletes = append(f.cascadeDeletes, childID)
	return nil
}
