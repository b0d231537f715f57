package models

// ActivityType classifies a care event.
type ActivityType string

const (
	ActivityFeeding ActivityType = "feeding"
	ActivitySleep   ActivityType = "sleep"
	ActivityDiaper  ActivityType = "diaper"
	ActivityPlay    ActivityType = "play"
)

// Moods the tracker offers; stored verbatim on the event.
const (
	MoodHappy   = "😊"
	MoodNeutral = "😐"
	MoodCrying  = "😢"
	MoodTired   = "😴"
)

// CareEvent is the client-visible event entry. One CareEvent may represent
// care given to several dependents simultaneously; RemoteIDs lists the
// per-child remote rows backing it, one per child, and may be shorter than
// ChildIDs after a partial sync.
type CareEvent struct {
	ID        string       `json:"id"`
	Time      string       `json:"time"` // display time, HH:MM
	Type      ActivityType `json:"activityType"`
	Activity  string       `json:"activity"` // display text, embeds child names
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	Details   EventDetails `json:"details"`
	ChildIDs  []string     `json:"childIds"`
	Mood      string       `json:"mood"`
	RemoteIDs []string     `json:"remoteIds,omitempty"`
}

// FeedingDetails describes a feeding event.
type FeedingDetails struct {
	Food   string `json:"food,omitempty"`
	Amount string `json:"amount,omitempty"`
}

// SleepDetails describes a sleep event. From and To are HH:MM clock values;
// To earlier than From means the sleep crossed midnight.
type SleepDetails struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// DiaperDetails describes a diaper change.
type DiaperDetails struct {
	DiaperKind string `json:"kind,omitempty"`
}

// PlayDetails describes a play session.
type PlayDetails struct {
	PlayActivity string `json:"playActivity,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// EventDetails is the typed union of per-activity detail clusters. The
// embedded structs flatten into one JSON object, preserving the wire shape
// of the remote details document. Only the cluster matching the event type
// carries values; the rest stay empty and are omitted.
type EventDetails struct {
	FeedingDetails
	SleepDetails
	DiaperDetails
	PlayDetails

	Notes string `json:"notes,omitempty"`

	// ActivityText is the rendered display text duplicated into the
	// remote document so other devices can show it without a lookup.
	ActivityText string `json:"activity_text,omitempty"`

	// SharedChildIDs is the fan-out list: all children the originating
	// client event applied to, recorded on every per-child row.
	SharedChildIDs []string `json:"shared_child_ids,omitempty"`

	// LocalEventID correlates the per-child rows back to the client
	// event that produced them.
	LocalEventID string `json:"local_event_id,omitempty"`
}
