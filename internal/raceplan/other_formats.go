// internal/raceplan/other_formats.go
// Mass Start, Skiathlon, Pursuit, Team Sprint, and Relay raceplan
// generation (spec.md §4.D.4): each emits exactly one race per raceclass
// with a format-specific contestant cap. Pursuit and Skiathlon are
// multi-stage in real competition but the plan surface they expose here is
// identical to the other single-race formats, per spec.

package raceplan

import "github.com/nsf-ski/race-service/internal/models"

// massStartBuilder implements Mass Start, Skiathlon, Pursuit, Team Sprint,
// and Relay: one race, capped at the format's configured maximum (falling
// back to the raceclass's own roster size when the format doesn't cap it).
type massStartBuilder struct {
	maxDefault int
}

func (b massStartBuilder) Build(raceplanID string, event models.Event, format models.CompetitionFormat, rc models.Raceclass, clock *Clock) ([]*models.Race, error) {
	max := format.MaxNoOfContestantsInRaceclass
	if max <= 0 {
		max = rc.NoOfContestants
	}

	race := &models.Race{
		ID:                 newRaceID(),
		Datatype:           datatypeForFormat(format.Name),
		Raceclass:          rc.Name,
		Order:              clock.NextOrder(),
		StartTime:          clock.Now(),
		MaxNoOfContestants: max,
		NoOfContestants:    0,
		EventID:            event.ID,
		RaceplanID:         raceplanID,
	}

	clock.Advance(format.TimeBetweenClasses)

	return []*models.Race{race}, nil
}

func datatypeForFormat(name string) models.RaceDatatype {
	switch name {
	case FormatSkiathlon:
		return models.DatatypeSkiathlon
	case FormatPursuit:
		return models.DatatypePursuit
	case FormatTeamSprint:
		return models.DatatypeTeamSprint
	case FormatRelay:
		return models.DatatypeRelay
	default:
		return models.DatatypeMassStart
	}
}
