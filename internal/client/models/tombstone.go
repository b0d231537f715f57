package models

import "time"

// Tombstone records a recent local deletion of a profile so a stale remote
// read cannot resurrect it. Tombstones are short-lived: they suppress
// re-insertion only for a recency window and are purged after a retention
// window.
type Tombstone struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}
