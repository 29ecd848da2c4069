// internal/startlist/generator.go
// Startlist generation (spec.md §4.E): seed contestants into first-round
// races, assign starting positions and scheduled start times, and return
// the Startlist plus every first-round StartEntry to persist.

package startlist

import (
	"sort"
	"time"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/utils"
)

// FirstRoundRace is the minimal view of a race this package needs: its id,
// raceclass, datatype (to pick the start-time rule), start time, and heat
// index within its round (0 for non-sprint races; Generate deals sprint
// heats in ascending heat order).
type FirstRoundRace struct {
	ID          string
	Raceclass   string
	Datatype    models.RaceDatatype
	StartTime   time.Time
	Heat        int
}

// Result is the generated startlist plus the per-race updates the caller
// must persist (new start entries, and each race's resulting roster size).
type Result struct {
	Startlist   *models.Startlist
	StartEntries []*models.StartEntry
	// RaceContestantCounts maps a first-round race id to how many entries
	// it received, for updating Race.no_of_contestants.
	RaceContestantCounts map[string]int
}

// Generate builds the startlist for an event. contestantsByRaceclass must
// already be ordered by seed key (spec.md §4.E.3: "the order returned from
// the events service"). firstRoundRaces must contain, for every raceclass,
// its first-round races in heat order (for sprint: the Q heats, or the SA
// heats if the format has no Q round; for every other format: the sole
// race, passed as a single-element slice with Heat 0).
func Generate(startlistID, eventID string, interval time.Duration, contestantsByRaceclass map[string][]models.Contestant, firstRoundRaces map[string][]FirstRoundRace) (*Result, error) {
	result := &Result{
		StartEntries:         make([]*models.StartEntry, 0),
		RaceContestantCounts: make(map[string]int),
	}

	var allEntryIDs models.StartEntryIDs
	total := 0

	for raceclass, roster := range contestantsByRaceclass {
		races, ok := firstRoundRaces[raceclass]
		if !ok || len(races) == 0 {
			return nil, apperrors.Validationf("no first-round races found for raceclass %q", raceclass)
		}

		for _, c := range roster {
			if c.Bib == nil {
				return nil, apperrors.Validationf("contestant %s in raceclass %q has no bib assigned", c.ID, raceclass)
			}
		}

		heats := Deal(roster, len(races))
		sort.Slice(races, func(i, j int) bool { return races[i].Heat < races[j].Heat })

		for i, race := range races {
			if i >= len(heats) {
				continue
			}
			for pos, c := range heats[i].Contestants {
				startingPosition := pos + 1
				scheduled := race.StartTime
				if race.Datatype == models.DatatypeIntervalStart {
					scheduled = race.StartTime.Add(time.Duration(pos) * interval)
				}

				entry := &models.StartEntry{
					ID:                 utils.GenerateUUID(),
					RaceID:             race.ID,
					StartlistID:        startlistID,
					Bib:                *c.Bib,
					Name:               c.Name,
					Club:               c.Club,
					StartingPosition:   startingPosition,
					ScheduledStartTime: scheduled,
					Status:             models.StatusNone,
				}
				result.StartEntries = append(result.StartEntries, entry)
				allEntryIDs = append(allEntryIDs, entry.ID)
				result.RaceContestantCounts[race.ID]++
				total++
			}
		}
	}

	result.Startlist = &models.Startlist{
		ID:              startlistID,
		EventID:         eventID,
		NoOfContestants: total,
		StartEntries:    allEntryIDs,
	}
	return result, nil
}
