// internal/models/event.go
// DTOs for the external collaborators described in spec.md §6: the Events
// service, the Competition-format service, and the implicit Raceclass /
// Contestant lists they expose. These are never persisted locally — they
// are fetched fresh via internal/adapters on every generation command.

package models

import "time"

// Event is the external event record driving raceplan/startlist generation.
type Event struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	DateOfEvent            time.Time `json:"date_of_event"`
	TimeOfEvent            string    `json:"time_of_event"` // "HH:MM:SS"
	CompetitionFormatName  string    `json:"competition_format"`
}

// StartingOrder is the CompetitionFormat.StartingOrder enum.
type StartingOrder string

const (
	StartingOrderInterval StartingOrder = "interval_start"
	StartingOrderDraw     StartingOrder = "draw"
)

// ProgressionRow is one row of the Individual Sprint progression matrix
// (spec.md §6, the normative table). Each rule maps a per-heat count ("4",
// "5", ...) or "REST" to the target label(s) those finishers advance to
// ("SA", "SC", "FA", "FB", "FC", "OUT"; several labels are comma-separated);
// "REST" means all remaining, non-enumerated finishers.
type ProgressionRow struct {
	MaxNoOfContestants int
	QHeats             int
	QRule              map[string]string // "5":"SA", "REST":"SC" etc. -> parsed by matrix helpers
	SHeats             int
	SRule              map[string]string
	SCHeats            int
	SCRule             map[string]string
	Finals             []string // e.g. ["FA","FB","FC"]
}

// CompetitionFormat is the external format descriptor (spec.md §6).
type CompetitionFormat struct {
	Name                          string
	StartingOrder                 StartingOrder
	StartProcedure                string
	TimeBetweenGroups             time.Duration
	TimeBetweenRounds             time.Duration
	TimeBetweenRaces              time.Duration
	TimeBetweenHeats              time.Duration // defaults to TimeBetweenRaces when zero
	TimeBetweenClasses            time.Duration
	Intervals                     time.Duration
	MaxNoOfContestantsInRaceclass int
	RaceConfigNonRanked           []ProgressionRow
	RaceConfigRanked              []ProgressionRow
}

// HeatGap returns the configured gap between heats of the same round,
// defaulting to TimeBetweenRaces per spec.md §4.D.3.
func (f CompetitionFormat) HeatGap() time.Duration {
	if f.TimeBetweenHeats > 0 {
		return f.TimeBetweenHeats
	}
	return f.TimeBetweenRaces
}

// Raceclass groups contestants under one competition format and ordering.
type Raceclass struct {
	Name            string
	Ageclasses      []string
	NoOfContestants int
	Ranking         bool
	Order           int
	Group           int
}

// Contestant is one registered competitor for a raceclass, as returned by
// the Events service. Bib is required before startlist generation (spec
// §4.E precondition).
type Contestant struct {
	ID            string
	Bib           *int
	Name          string
	Club          string
	Raceclass     string
	SeedingPoints int
}
