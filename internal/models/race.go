// internal/models/race.go
// Race is a tagged-variant entity: IntervalStartRace or IndividualSprintRace.
// Both shapes share a common envelope; sprint-only fields are left at their
// zero values (empty strings, 0, nil map) for interval races, following the teacher's Match/ScoreDetails
// tagged-union pattern (see models/changelog.go, models/raceplan.go).

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RaceDatatype discriminates the two Race shapes.
type RaceDatatype string

const (
	DatatypeIntervalStart    RaceDatatype = "IntervalStartRace"
	DatatypeIndividualSprint RaceDatatype = "IndividualSprintRace"

	// The remaining competition formats (spec.md §4.D.4) all emit a single
	// race per raceclass with no sprint-only fields populated; they are
	// tagged distinctly from IntervalStartRace only so API consumers can
	// tell them apart, not because the Go shape differs.
	DatatypeMassStart  RaceDatatype = "MassStartRace"
	DatatypeSkiathlon  RaceDatatype = "SkiathlonRace"
	DatatypePursuit    RaceDatatype = "PursuitRace"
	DatatypeTeamSprint RaceDatatype = "TeamSprintRace"
	DatatypeRelay      RaceDatatype = "RelayRace"
)

// SprintRound names the bracket round of an IndividualSprintRace.
type SprintRound string

const (
	RoundQ  SprintRound = "Q"
	RoundS  SprintRound = "S"
	RoundF  SprintRound = "F"
	RoundNA SprintRound = ""
)

// SprintIndex names the heat index within a round ("", A, B, C).
type SprintIndex string

const (
	IndexNone SprintIndex = ""
	IndexA    SprintIndex = "A"
	IndexB    SprintIndex = "B"
	IndexC    SprintIndex = "C"
)

// A rule target is a round/index label ("SA", "SC", "FA", "FB", "FC") or
// "OUT"; "REST" is the matrix key for all remaining finishers.
const (
	RuleTargetRest = "REST"
	RuleTargetOut  = "OUT"
)

// ProgressionRule maps a target round/index label to how many finishers
// advance there. A count of -1 means all remaining (non-enumerated)
// finishers of the heat; a target of "OUT" with any count means eliminated.
type ProgressionRule map[string]int

func (r *ProgressionRule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into ProgressionRule", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, r)
}

func (r ProgressionRule) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// TimingPointResults maps a timing point name to the RaceResult id produced
// at that point for this race.
type TimingPointResults map[string]string

func (t *TimingPointResults) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into TimingPointResults", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, t)
}

func (t TimingPointResults) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// StartEntryIDs is a JSON-column-backed []string.
type StartEntryIDs []string

func (s *StartEntryIDs) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StartEntryIDs", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

func (s StartEntryIDs) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Race is a single starting group: for interval-start formats, the sole
// race of a raceclass; for sprint, one heat in the bracket.
type Race struct {
	ID                  string              `json:"id" db:"id"`
	Datatype            RaceDatatype        `json:"datatype" db:"datatype"`
	Raceclass           string              `json:"raceclass" db:"raceclass"`
	Order               int                 `json:"order" db:"order"`
	StartTime           time.Time           `json:"start_time" db:"start_time"`
	MaxNoOfContestants  int                 `json:"max_no_of_contestants" db:"max_no_of_contestants"`
	NoOfContestants     int                 `json:"no_of_contestants" db:"no_of_contestants"`
	EventID             string              `json:"event_id" db:"event_id"`
	RaceplanID          string              `json:"raceplan_id" db:"raceplan_id"`
	StartEntries        StartEntryIDs       `json:"start_entries" db:"start_entries"`
	Results             TimingPointResults  `json:"results" db:"results"`

	// Sprint-only fields; zero-valued for IntervalStartRace.
	Round SprintRound     `json:"round,omitempty" db:"round"`
	Index SprintIndex     `json:"index,omitempty" db:"index"`
	Heat  int             `json:"heat,omitempty" db:"heat"`
	Rule  ProgressionRule `json:"rule,omitempty" db:"rule"`
}

// IsSprint reports whether this is an IndividualSprintRace.
func (r *Race) IsSprint() bool {
	return r.Datatype == DatatypeIndividualSprint
}

// ResultFor returns the RaceResult id recorded for a timing point, if any.
func (r *Race) ResultFor(timingPoint string) (string, bool) {
	if r.Results == nil {
		return "", false
	}
	id, ok := r.Results[timingPoint]
	return id, ok
}
