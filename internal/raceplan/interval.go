// internal/raceplan/interval.go
// Interval Start raceplan generation (spec.md §4.D.2).

package raceplan

import (
	"time"

	"github.com/nsf-ski/race-service/internal/models"
)

type intervalBuilder struct{}

func (intervalBuilder) Build(raceplanID string, event models.Event, format models.CompetitionFormat, rc models.Raceclass, clock *Clock) ([]*models.Race, error) {
	race := &models.Race{
		ID:                 newRaceID(),
		Datatype:           models.DatatypeIntervalStart,
		Raceclass:          rc.Name,
		Order:              clock.NextOrder(),
		StartTime:          clock.Now(),
		MaxNoOfContestants: rc.NoOfContestants,
		NoOfContestants:    0, // populated by the Startlist Generator
		EventID:            event.ID,
		RaceplanID:         raceplanID,
	}

	// Contestants haven't been seeded yet at plan time; the clock advances
	// assuming the full roster starts at the configured interval, and the
	// Startlist Generator only assigns times within this window (§4.E.5).
	clock.Advance(time.Duration(rc.NoOfContestants) * format.Intervals)
	clock.Advance(format.TimeBetweenClasses)

	return []*models.Race{race}, nil
}
