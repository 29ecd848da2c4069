package timeevent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nsf-ski/race-service/internal/models"
)

func finisher(bib int, name string) models.TimeEvent {
	return models.TimeEvent{Bib: bibPtr(bib), Name: name, Status: models.TimeEventOK}
}

func TestPropagate_ExplicitCountsThenRest(t *testing.T) {
	ranked := []models.TimeEvent{
		finisher(1, "first"),
		finisher(2, "second"),
		finisher(3, "third"),
		finisher(4, "fourth"),
	}
	rule := models.ProgressionRule{
		"A":                   2,
		models.RuleTargetRest: -1,
	}

	placements := Propagate(rule, ranked)

	byLabel := map[string][]int{}
	for _, p := range placements {
		byLabel[p.TargetLabel] = append(byLabel[p.TargetLabel], p.Bib)
	}
	assert.Equal(t, []int{1, 2}, byLabel["A"])
	assert.Equal(t, []int{3, 4}, byLabel[models.RuleTargetRest])
}

func TestPropagate_StartingPositionsResetPerTarget(t *testing.T) {
	ranked := []models.TimeEvent{
		finisher(1, "first"),
		finisher(2, "second"),
		finisher(3, "third"),
	}
	rule := models.ProgressionRule{
		"A": 1,
		"B": 2,
	}

	placements := Propagate(rule, ranked)

	assert.Equal(t, 1, placements[0].StartingPosition)
	assert.Equal(t, "A", placements[0].TargetLabel)
	assert.Equal(t, 1, placements[1].StartingPosition)
	assert.Equal(t, "B", placements[1].TargetLabel)
	assert.Equal(t, 2, placements[2].StartingPosition)
	assert.Equal(t, "B", placements[2].TargetLabel)
}

func TestPropagate_OutTargetDropsContestantsSilently(t *testing.T) {
	ranked := []models.TimeEvent{
		finisher(1, "first"),
		finisher(2, "second"),
		finisher(3, "third"),
	}
	rule := models.ProgressionRule{
		"A":                  1,
		models.RuleTargetOut: 1,
		"B":                  1,
	}

	placements := Propagate(rule, ranked)

	for _, p := range placements {
		assert.NotEqual(t, models.RuleTargetOut, p.TargetLabel)
	}
	assert.Len(t, placements, 2)
	assert.Equal(t, "A", placements[0].TargetLabel)
	assert.Equal(t, "B", placements[1].TargetLabel)
	assert.Equal(t, 2, placements[1].Bib)
}

func TestPropagate_ConservesTotalCountWhenEveryoneIsClaimed(t *testing.T) {
	ranked := make([]models.TimeEvent, 0, 8)
	for i := 1; i <= 8; i++ {
		ranked = append(ranked, finisher(i, "contestant"))
	}
	rule := models.ProgressionRule{
		models.RuleTargetRest: -1,
	}

	placements := Propagate(rule, ranked)

	assert.Len(t, placements, len(ranked))
}

func TestPropagate_FewerFinishersThanExplicitCountDoesNotPanic(t *testing.T) {
	ranked := []models.TimeEvent{finisher(1, "only")}
	rule := models.ProgressionRule{"A": 5}

	placements := Propagate(rule, ranked)

	assert.Len(t, placements, 1)
	assert.Equal(t, "A", placements[0].TargetLabel)
}
