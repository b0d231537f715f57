package common

// Keys of the three whole-document JSON snapshots held by the local cache
// store. Each value is a full blob that is replaced atomically on write.
const (
	KeyProfiles    = "carelog_children"
	KeyTombstones  = "carelog_deleted_children"
	KeyEventsToday = "carelog_events_today"
)
