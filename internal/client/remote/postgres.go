package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sittersafe/carelog/internal/client/models"
)

// PostgresClient implements Client over the hosted Postgres tables.
type PostgresClient struct{ db *DB }

// NewPostgresClient constructs a remote client on the given pool.
func NewPostgresClient(db *DB) *PostgresClient { return &PostgresClient{db: db} }

func (c *PostgresClient) Ping(ctx context.Context) error {
	var one int
	if err := c.db.Pool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return wrap("ping", err)
	}
	return nil
}

func (c *PostgresClient) ListProfiles(ctx context.Context, ownerID string) ([]models.RemoteProfileRow, error) {
	const query = `
		SELECT id, owner_id, data, avatar_photo, created_at
		FROM profiles
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := c.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, wrap("list profiles", err)
	}
	defer rows.Close()

	var result []models.RemoteProfileRow
	for rows.Next() {
		var (
			row  models.RemoteProfileRow
			data []byte
		)
		if err := rows.Scan(&row.ID, &row.OwnerID, &data, &row.AvatarPhoto, &row.CreatedAt); err != nil {
			return nil, wrap("scan profile row", err)
		}
		if err := json.Unmarshal(data, &row.Data); err != nil {
			return nil, fmt.Errorf("failed to decode profile document %s: %w", row.ID, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate profile rows", err)
	}
	return result, nil
}

func (c *PostgresClient) UpsertProfile(ctx context.Context, row models.RemoteProfileRow) error {
	data, err := json.Marshal(row.Data)
	if err != nil {
		return fmt.Errorf("failed to encode profile document %s: %w", row.ID, err)
	}

	const query = `
		INSERT INTO profiles (id, owner_id, data, avatar_photo)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			data = excluded.data,
			avatar_photo = excluded.avatar_photo`

	if _, err := c.db.Pool.Exec(ctx, query, row.ID, row.OwnerID, data, row.AvatarPhoto); err != nil {
		return wrap("upsert profile", err)
	}
	return nil
}

func (c *PostgresClient) DeleteProfile(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM profiles WHERE id = $1 AND owner_id = $2`
	if _, err := c.db.Pool.Exec(ctx, query, id, ownerID); err != nil {
		return wrap("delete profile", err)
	}
	return nil
}

func (c *PostgresClient) ListEventsSince(ctx context.Context, ownerID string, since time.Time) ([]models.RemoteEventRow, error) {
	const query = `
		SELECT id, owner_id, child_id, event_type, event_time, mood, details, icon, color
		FROM events
		WHERE owner_id = $1 AND event_time >= $2
		ORDER BY event_time DESC`

	rows, err := c.db.Pool.Query(ctx, query, ownerID, since)
	if err != nil {
		return nil, wrap("list events", err)
	}
	defer rows.Close()

	var result []models.RemoteEventRow
	for rows.Next() {
		var (
			row     models.RemoteEventRow
			details []byte
		)
		if err := rows.Scan(&row.ID, &row.OwnerID, &row.ChildID, &row.EventType,
			&row.EventTime, &row.Mood, &details, &row.Icon, &row.Color); err != nil {
			return nil, wrap("scan event row", err)
		}
		if err := json.Unmarshal(details, &row.Details); err != nil {
			return nil, fmt.Errorf("failed to decode event details %s: %w", row.ID, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate event rows", err)
	}
	return result, nil
}

func (c *PostgresClient) InsertEvents(ctx context.Context, eventRows []models.RemoteEventRow) (ids []string, err error) {
	if len(eventRows) == 0 {
		return nil, nil
	}

	tx, err := c.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, wrap("begin insert events", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			ids, err = nil, wrap("commit insert events", e)
		}
	}()

	const query = `
		INSERT INTO events (owner_id, child_id, event_type, event_time, mood, details, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	ids = make([]string, 0, len(eventRows))
	for _, row := range eventRows {
		details, mErr := json.Marshal(row.Details)
		if mErr != nil {
			err = fmt.Errorf("failed to encode event details: %w", mErr)
			return nil, err
		}
		var id string
		if err = tx.QueryRow(ctx, query, row.OwnerID, row.ChildID, row.EventType,
			row.EventTime, row.Mood, details, row.Icon, row.Color).Scan(&id); err != nil {
			err = wrap("insert event", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *PostgresClient) DeleteEventRow(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
	if _, err := c.db.Pool.Exec(ctx, query, id); err != nil {
		return wrap("delete event row", err)
	}
	return nil
}

func (c *PostgresClient) DeleteEventsMatching(ctx context.Context, ownerID, childID string, eventType models.ActivityType, from, to time.Time) error {
	const query = `
		DELETE FROM events
		WHERE owner_id = $1 AND child_id = $2 AND event_type = $3
		  AND event_time >= $4 AND event_time <= $5`
	if _, err := c.db.Pool.Exec(ctx, query, ownerID, childID, eventType, from, to); err != nil {
		return wrap("delete events by match", err)
	}
	return nil
}

func (c *PostgresClient) DeleteEventsForChild(ctx context.Context, ownerID, childID string) error {
	const query = `DELETE FROM events WHERE owner_id = $1 AND child_id = $2`
	if _, err := c.db.Pool.Exec(ctx, query, ownerID, childID); err != nil {
		return wrap("delete events for child", err)
	}
	return nil
}
