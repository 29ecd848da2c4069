// internal/models/raceresult.go

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TimeEventIDs is a JSON-column-backed []string, the authoritative ordering
// of TimeEvent ids at one (race_id, timing_point) pair.
type TimeEventIDs []string

func (t *TimeEventIDs) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into TimeEventIDs", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, t)
}

func (t TimeEventIDs) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// RaceResult is the ranked list of TimeEvents at one (race_id, timing_point)
// pair. At most one RaceResult exists per pair (invariant 5 in spec §3).
type RaceResult struct {
	ID              string       `json:"id" db:"id"`
	RaceID          string       `json:"race_id" db:"race_id"`
	TimingPoint     string       `json:"timing_point" db:"timing_point"`
	NoOfContestants int          `json:"no_of_contestants" db:"no_of_contestants"`
	RankingSequence TimeEventIDs `json:"ranking_sequence" db:"ranking_sequence"`
}
