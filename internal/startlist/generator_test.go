package startlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsf-ski/race-service/internal/models"
)

func contestant(id string, bib int) models.Contestant {
	b := bib
	return models.Contestant{ID: id, Bib: &b, Name: "Contestant " + id}
}

func TestGenerate_IntervalStart_SpacesEntriesByInterval(t *testing.T) {
	roster := []models.Contestant{contestant("a", 1), contestant("b", 2), contestant("c", 3)}
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	races := map[string][]FirstRoundRace{
		"M21": {{ID: "race-1", Raceclass: "M21", Datatype: models.DatatypeIntervalStart, StartTime: start, Heat: 0}},
	}

	result, err := Generate("sl-1", "event-1", 30*time.Second, map[string][]models.Contestant{"M21": roster}, races)

	require.NoError(t, err)
	require.Len(t, result.StartEntries, 3)
	assert.Equal(t, 3, result.Startlist.NoOfContestants)
	assert.Equal(t, 3, result.RaceContestantCounts["race-1"])

	for i, entry := range result.StartEntries {
		assert.Equal(t, i+1, entry.StartingPosition)
		assert.Equal(t, start.Add(time.Duration(i)*30*time.Second), entry.ScheduledStartTime)
	}
}

func TestGenerate_NonIntervalFormatsShareOneStartTime(t *testing.T) {
	roster := []models.Contestant{contestant("a", 1), contestant("b", 2)}
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	races := map[string][]FirstRoundRace{
		"M21": {{ID: "race-1", Raceclass: "M21", Datatype: models.DatatypeMassStart, StartTime: start, Heat: 0}},
	}

	result, err := Generate("sl-2", "event-1", 0, map[string][]models.Contestant{"M21": roster}, races)

	require.NoError(t, err)
	for _, entry := range result.StartEntries {
		assert.True(t, entry.ScheduledStartTime.Equal(start))
	}
}

func TestGenerate_DealsAcrossMultipleFirstRoundHeatsInOrder(t *testing.T) {
	roster := []models.Contestant{
		contestant("a", 1), contestant("b", 2), contestant("c", 3), contestant("d", 4),
	}
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	races := map[string][]FirstRoundRace{
		"M21": {
			{ID: "heat-2", Raceclass: "M21", Datatype: models.DatatypeIndividualSprint, StartTime: start.Add(time.Minute), Heat: 2},
			{ID: "heat-1", Raceclass: "M21", Datatype: models.DatatypeIndividualSprint, StartTime: start, Heat: 1},
		},
	}

	result, err := Generate("sl-3", "event-1", 0, map[string][]models.Contestant{"M21": roster}, races)

	require.NoError(t, err)
	assert.Equal(t, 2, result.RaceContestantCounts["heat-1"])
	assert.Equal(t, 2, result.RaceContestantCounts["heat-2"])
}

func TestGenerate_RejectsContestantMissingBib(t *testing.T) {
	roster := []models.Contestant{{ID: "a", Name: "No Bib"}}
	races := map[string][]FirstRoundRace{
		"M21": {{ID: "race-1", Raceclass: "M21", Datatype: models.DatatypeMassStart, Heat: 0}},
	}

	_, err := Generate("sl-4", "event-1", 0, map[string][]models.Contestant{"M21": roster}, races)
	assert.Error(t, err)
}

func TestGenerate_RejectsRaceclassWithNoFirstRoundRaces(t *testing.T) {
	roster := []models.Contestant{contestant("a", 1)}
	_, err := Generate("sl-5", "event-1", 0, map[string][]models.Contestant{"M21": roster}, map[string][]FirstRoundRace{})
	assert.Error(t, err)
}

func TestGenerate_TotalEntryCountMatchesRosterSize(t *testing.T) {
	roster := []models.Contestant{contestant("a", 1), contestant("b", 2), contestant("c", 3), contestant("d", 4), contestant("e", 5)}
	races := map[string][]FirstRoundRace{
		"M21": {
			{ID: "heat-1", Raceclass: "M21", Datatype: models.DatatypeIndividualSprint, Heat: 1},
			{ID: "heat-2", Raceclass: "M21", Datatype: models.DatatypeIndividualSprint, Heat: 2},
		},
	}

	result, err := Generate("sl-6", "event-1", 0, map[string][]models.Contestant{"M21": roster}, races)

	require.NoError(t, err)
	assert.Len(t, result.StartEntries, len(roster))
	assert.Equal(t, len(roster), result.Startlist.NoOfContestants)
	assert.Len(t, result.Startlist.StartEntries, len(roster))
}
