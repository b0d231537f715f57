// Package models contains the client-side data model: dependent profiles,
// care events with typed detail clusters, deletion tombstones and the row
// shapes of the remote store.
package models

import "encoding/json"

// ProfileRecord is one dependent's profile. ID is immutable and is the sole
// join key between the local snapshot and the remote row; exactly one record
// per id may exist in the merged view.
type ProfileRecord struct {
	ID         string     `json:"id"`
	Basis      Basis      `json:"basis"`
	Safety     Safety     `json:"safety"`
	Routine    Routine    `json:"routine"`
	Rules      Rules      `json:"rules"`
	Psychology Psychology `json:"psychology"`

	// Logs is a legacy event array carried for wire compatibility.
	// Nothing reads it; it marshals as [] when empty.
	Logs []json.RawMessage `json:"logs"`
}

// Basis holds identity fields. Photo is an inline encoded image (data URL),
// not a reference to external storage.
type Basis struct {
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	Birthdate string `json:"birthdate"`
	Photo     string `json:"photo"`
}

// Safety holds emergency and medical notes.
type Safety struct {
	EmergencyContacts string   `json:"emergencyContacts"`
	Allergies         string   `json:"allergies"`
	Medication        []string `json:"medication"`
	Doctor            string   `json:"doctor"`
	Insurance         string   `json:"insurance"`
}

// Routine holds the daily-routine notes.
type Routine struct {
	MealPlan      string `json:"mealPlan"`
	BedtimeRitual string `json:"bedtimeRitual"`
	Hygiene       string `json:"hygiene"`
}

// Rules holds the household rules.
type Rules struct {
	ScreenTime    string `json:"screenTime"`
	Sweets        string `json:"sweets"`
	OffLimitAreas string `json:"offLimitAreas"`
}

// Psychology holds caregiving strategy notes.
type Psychology struct {
	Fears           string `json:"fears"`
	CalmingStrategy string `json:"calmingStrategy"`
	RewardSystem    string `json:"rewardSystem"`
}

// DisplayName returns the nickname when set, otherwise the full name.
func (p *ProfileRecord) DisplayName() string {
	if p.Basis.Nickname != "" {
		return p.Basis.Nickname
	}
	return p.Basis.Name
}
