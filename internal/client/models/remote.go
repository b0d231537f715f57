package models

import "time"

// RemoteProfileRow is one row of the remote profiles table. Data carries the
// full ProfileRecord as an opaque document; AvatarPhoto duplicates the inline
// photo for fast access.
type RemoteProfileRow struct {
	ID          string
	OwnerID     string
	Data        ProfileRecord
	AvatarPhoto string
	CreatedAt   time.Time
}

// RemoteEventRow is one row of the remote events table. The remote schema is
// per-(owner, child, event): a multi-child client event fans out into several
// rows that share Details.LocalEventID and Details.SharedChildIDs.
type RemoteEventRow struct {
	ID        string
	OwnerID   string
	ChildID   string
	EventType ActivityType
	EventTime time.Time
	Mood      string
	Details   EventDetails
	Icon      string
	Color     string
}
