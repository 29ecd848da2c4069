package timeevent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nsf-ski/race-service/internal/models"
)

func bibPtr(b int) *int { return &b }

func eventAt(id string, bib int, t time.Time, status models.TimeEventStatus) models.TimeEvent {
	return models.TimeEvent{
		ID:               id,
		Bib:              bibPtr(bib),
		RegistrationTime: t,
		Status:           status,
	}
}

func TestRank_OrdersByRegistrationTimeAscending(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []models.TimeEvent{
		eventAt("c", 3, base.Add(2*time.Minute), models.TimeEventOK),
		eventAt("a", 1, base, models.TimeEventOK),
		eventAt("b", 2, base.Add(1*time.Minute), models.TimeEventOK),
	}

	ranked := Rank(events)

	assert.Equal(t, []string{"a", "b", "c"}, Sequence(ranked))
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Equal(t, 2, *ranked[1].Rank)
	assert.Equal(t, 3, *ranked[2].Rank)
}

func TestRank_TiesBreakOnBibAscending(t *testing.T) {
	tie := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []models.TimeEvent{
		eventAt("high-bib", 9, tie, models.TimeEventOK),
		eventAt("low-bib", 2, tie, models.TimeEventOK),
	}

	ranked := Rank(events)

	assert.Equal(t, []string{"low-bib", "high-bib"}, Sequence(ranked))
}

func TestRank_ExcludedStatusesSortLastAndCarryNoRank(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []models.TimeEvent{
		eventAt("errored", 1, base, models.TimeEventError),
		eventAt("finisher", 2, base.Add(time.Minute), models.TimeEventOK),
	}

	ranked := Rank(events)

	assert.Equal(t, "finisher", ranked[0].ID)
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Equal(t, "errored", ranked[1].ID)
	assert.Nil(t, ranked[1].Rank)
}

func TestRank_IsAPermutationOfItsInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := make([]models.TimeEvent, 0, 10)
	for i := 0; i < 10; i++ {
		status := models.TimeEventOK
		if i%4 == 0 {
			status = models.TimeEventError
		}
		events = append(events, eventAt(string(rune('a'+i)), i, base.Add(time.Duration(9-i)*time.Minute), status))
	}

	ranked := Rank(events)

	assert.Len(t, ranked, len(events))
	seen := make(map[string]bool, len(ranked))
	for _, e := range ranked {
		seen[e.ID] = true
	}
	for _, e := range events {
		assert.True(t, seen[e.ID], "ranked output dropped id %s", e.ID)
	}
}

func TestRank_DoesNotMutateInputSlice(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []models.TimeEvent{
		eventAt("b", 2, base.Add(time.Minute), models.TimeEventOK),
		eventAt("a", 1, base, models.TimeEventOK),
	}

	_ = Rank(events)

	assert.Equal(t, "b", events[0].ID)
	assert.Nil(t, events[0].Rank)
}
