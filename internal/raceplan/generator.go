// internal/raceplan/generator.go
// Raceplan generation (spec.md §4.D): dispatch by competition-format name to
// a per-raceclass builder, sharing one global clock across raceclasses.
// Grounded on the teacher's GenerateFixtures dispatch switch
// (internal/services/tournament_service.go), generalized per spec.md §9's
// design note into a registry keyed on a variant tag instead of a fixed
// switch, since the format set here is configuration-driven rather than a
// closed enum the teacher hardcodes.

package raceplan

import (
	"sort"
	"time"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/utils"
)

// Format name constants as returned by the Competition Format service.
const (
	FormatIntervalStart    = "Interval Start"
	FormatIndividualSprint = "Individual Sprint"
	FormatMassStart        = "Mass Start"
	FormatSkiathlon        = "Skiathlon"
	FormatPursuit          = "Pursuit"
	FormatTeamSprint       = "Team Sprint"
	FormatRelay            = "Relay"
)

// Clock tracks the running start-time cursor and the monotonic race order
// counter shared across every raceclass in one raceplan.
type Clock struct {
	t     time.Time
	order int
}

// NewClock starts a Clock at event.date_of_event + event.time_of_event.
func NewClock(event models.Event) (*Clock, error) {
	tod, err := models.ParseHMS(event.TimeOfEvent)
	if err != nil {
		return nil, apperrors.Validationf("invalid time_of_event %q: %v", event.TimeOfEvent, err)
	}
	start := time.Date(
		event.DateOfEvent.Year(), event.DateOfEvent.Month(), event.DateOfEvent.Day(),
		0, 0, 0, 0, event.DateOfEvent.Location(),
	).Add(tod)
	return &Clock{t: start.Truncate(time.Second)}, nil
}

// Now returns the current clock position.
func (c *Clock) Now() time.Time { return c.t }

// Advance moves the clock forward by d, rounding to whole seconds.
func (c *Clock) Advance(d time.Duration) {
	c.t = c.t.Add(d).Truncate(time.Second)
}

// NextOrder returns the next strictly monotonic Race.order value.
func (c *Clock) NextOrder() int {
	c.order++
	return c.order
}

// RaceclassBuilder builds the races for one raceclass, advancing clock past
// them. Implementations are the per-format variants (interval, sprint,
// mass-start family).
type RaceclassBuilder interface {
	Build(raceplanID string, event models.Event, format models.CompetitionFormat, rc models.Raceclass, clock *Clock) ([]*models.Race, error)
}

// registry maps a format name to the builder responsible for it.
var registry = map[string]RaceclassBuilder{
	FormatIntervalStart:    intervalBuilder{},
	FormatIndividualSprint: sprintBuilder{},
	FormatMassStart:        massStartBuilder{maxDefault: 0},
	FormatSkiathlon:        massStartBuilder{maxDefault: 0},
	FormatPursuit:          massStartBuilder{maxDefault: 0},
	FormatTeamSprint:       massStartBuilder{maxDefault: 0},
	FormatRelay:            massStartBuilder{maxDefault: 0},
}

// Generate builds the complete Raceplan + Races for an event (spec.md
// §4.D.1, the common framework). Raceclasses are sorted by (group, order);
// the clock advances by time_between_groups between group boundaries and
// is otherwise left to each builder to advance past its own races.
func Generate(raceplanID string, event models.Event, format models.CompetitionFormat, raceclasses []models.Raceclass) (*models.Raceplan, []*models.Race, error) {
	builder, ok := registry[format.Name]
	if !ok {
		return nil, nil, apperrors.Validationf("unsupported competition format %q", format.Name)
	}

	sorted := append([]models.Raceclass(nil), raceclasses...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Group != sorted[j].Group {
			return sorted[i].Group < sorted[j].Group
		}
		return sorted[i].Order < sorted[j].Order
	})

	clock, err := NewClock(event)
	if err != nil {
		return nil, nil, err
	}

	var allRaces []*models.Race
	prevGroup := -1
	for i, rc := range sorted {
		if i > 0 && rc.Group != prevGroup {
			clock.Advance(format.TimeBetweenGroups)
		}
		prevGroup = rc.Group

		races, err := builder.Build(raceplanID, event, format, rc, clock)
		if err != nil {
			return nil, nil, err
		}
		allRaces = append(allRaces, races...)
	}

	plan := &models.Raceplan{
		ID:              raceplanID,
		EventID:         event.ID,
		NoOfContestants: 0, // populated by the Startlist Generator, §4.E
		Races:           raceIDs(allRaces),
	}
	return plan, allRaces, nil
}

func raceIDs(races []*models.Race) models.RaceIDs {
	ids := make(models.RaceIDs, 0, len(races))
	for _, r := range races {
		ids = append(ids, r.ID)
	}
	return ids
}

func newRaceID() string {
	return utils.GenerateUUID()
}
