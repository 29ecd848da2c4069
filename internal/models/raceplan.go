// internal/models/raceplan.go

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RaceIDs is a JSON-column-backed []string, same pattern as StartEntryIDs.
type RaceIDs []string

func (r *RaceIDs) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RaceIDs", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, r)
}

func (r RaceIDs) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Raceplan is the complete per-event schedule of races. One per event.
type Raceplan struct {
	ID                string  `json:"id" db:"id"`
	EventID           string  `json:"event_id" db:"event_id"`
	NoOfContestants   int     `json:"no_of_contestants" db:"no_of_contestants"`
	Races             RaceIDs `json:"races" db:"races"`
}
