package raceplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsf-ski/race-service/internal/models"
)

func testEvent() models.Event {
	return models.Event{
		ID:          "event-1",
		Name:        "Test Cup",
		DateOfEvent: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TimeOfEvent: "10:00:00",
	}
}

func TestGenerate_IntervalStart_SpacesRacesByConfiguredInterval(t *testing.T) {
	format := models.CompetitionFormat{
		Name:               FormatIntervalStart,
		Intervals:          30 * time.Second,
		TimeBetweenClasses: 2 * time.Minute,
	}
	raceclasses := []models.Raceclass{
		{Name: "M21", NoOfContestants: 10, Order: 1, Group: 1},
		{Name: "W21", NoOfContestants: 5, Order: 2, Group: 1},
	}

	plan, races, err := Generate("plan-1", testEvent(), format, raceclasses)

	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, "plan-1", plan.ID)

	m21 := races[0]
	w21 := races[1]
	assert.Equal(t, "M21", m21.Raceclass)
	assert.Equal(t, "W21", w21.Raceclass)

	gap := w21.StartTime.Sub(m21.StartTime)
	assert.Equal(t, time.Duration(10)*30*time.Second+2*time.Minute, gap)
}

func TestGenerate_RaceOrderIsStrictlyMonotonicAndBijective(t *testing.T) {
	format := models.CompetitionFormat{
		Name:               FormatIntervalStart,
		Intervals:          15 * time.Second,
		TimeBetweenClasses: time.Minute,
		TimeBetweenGroups:  5 * time.Minute,
	}
	raceclasses := []models.Raceclass{
		{Name: "C", NoOfContestants: 4, Order: 3, Group: 1},
		{Name: "A", NoOfContestants: 4, Order: 1, Group: 1},
		{Name: "B", NoOfContestants: 4, Order: 2, Group: 2},
	}

	_, races, err := Generate("plan-2", testEvent(), format, raceclasses)
	require.NoError(t, err)
	require.Len(t, races, 3)

	seenOrders := map[int]bool{}
	for i, r := range races {
		assert.Equal(t, i+1, r.Order, "race %d should carry order %d", i, i+1)
		assert.False(t, seenOrders[r.Order], "order %d emitted more than once", r.Order)
		seenOrders[r.Order] = true
	}
	assert.Equal(t, "A", races[0].Raceclass)
}

func TestGenerate_UnsupportedFormatIsRejected(t *testing.T) {
	format := models.CompetitionFormat{Name: "Biathlon Pursuit Relay"}
	_, _, err := Generate("plan-3", testEvent(), format, []models.Raceclass{{Name: "X", NoOfContestants: 1}})
	assert.Error(t, err)
}

func TestGenerate_IndividualSprint_N32HeatCounts(t *testing.T) {
	format := models.CompetitionFormat{
		Name:               FormatIndividualSprint,
		TimeBetweenRounds:  5 * time.Minute,
		TimeBetweenRaces:   90 * time.Second,
		TimeBetweenClasses: 10 * time.Minute,
	}
	raceclasses := []models.Raceclass{
		{Name: "M21", NoOfContestants: 32, Order: 1, Group: 1},
	}

	_, races, err := Generate("plan-4", testEvent(), format, raceclasses)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, r := range races {
		key := string(r.Round) + string(r.Index)
		counts[key]++
	}

	assert.Equal(t, 4, counts["Q"], "N=32 row specifies 4 qualification heats")
	assert.Equal(t, 2, counts["SA"], "N=32 row specifies 2 A-semifinal heats")
	assert.Equal(t, 2, counts["SC"], "N=32 row specifies 2 C-semifinal heats")
	assert.Equal(t, 1, counts["FA"])
	assert.Equal(t, 1, counts["FB"])
	assert.Equal(t, 1, counts["FC"])
}

func TestGenerate_IndividualSprint_FinalCapacityMatchesRoutedTotals(t *testing.T) {
	format := models.CompetitionFormat{
		Name:               FormatIndividualSprint,
		TimeBetweenRounds:  5 * time.Minute,
		TimeBetweenRaces:   90 * time.Second,
		TimeBetweenClasses: 10 * time.Minute,
	}
	raceclasses := []models.Raceclass{
		{Name: "M21", NoOfContestants: 16, Order: 1, Group: 1},
	}

	_, races, err := Generate("plan-5", testEvent(), format, raceclasses)
	require.NoError(t, err)

	var fa, fb *models.Race
	for _, r := range races {
		switch {
		case r.Round == models.RoundF && r.Index == models.IndexA:
			fa = r
		case r.Round == models.RoundF && r.Index == models.IndexB:
			fb = r
		}
	}
	require.NotNil(t, fa)
	require.NotNil(t, fb)
	// N=16 row: 2 SA heats of 8 each, "4":"FA", "REST":"FB" -> 4 into FA, 4
	// into FB per heat, 8 and 8 total across both heats.
	assert.Equal(t, 8, fa.MaxNoOfContestants)
	assert.Equal(t, 8, fb.MaxNoOfContestants)
}
