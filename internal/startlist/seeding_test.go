package startlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nsf-ski/race-service/internal/models"
)

func roster(n int) []models.Contestant {
	out := make([]models.Contestant, n)
	for i := 0; i < n; i++ {
		out[i] = models.Contestant{ID: string(rune('a' + i))}
	}
	return out
}

func TestDeal_SerpentineOrderAcrossThreeHeats(t *testing.T) {
	heats := Deal(roster(9), 3)

	require := func(idx int, want []string) {
		got := make([]string, len(heats[idx].Contestants))
		for i, c := range heats[idx].Contestants {
			got[i] = c.ID
		}
		assert.Equal(t, want, got)
	}

	// Serpentine deal 1..3, 3..1, 1..3 across 9 contestants a..i:
	// heat1 <- a(1), f(6), g(7)
	// heat2 <- b(2), e(5), h(8)
	// heat3 <- c(3), d(4), i(9)
	require(0, []string{"a", "f", "g"})
	require(1, []string{"b", "e", "h"})
	require(2, []string{"c", "d", "i"})
}

func TestDeal_ConservesEveryContestantExactlyOnce(t *testing.T) {
	in := roster(17)
	heats := Deal(in, 4)

	total := 0
	seen := map[string]bool{}
	for _, h := range heats {
		for _, c := range h.Contestants {
			assert.False(t, seen[c.ID], "contestant %s dealt twice", c.ID)
			seen[c.ID] = true
			total++
		}
	}
	assert.Equal(t, len(in), total)
}

func TestDeal_ShorterRosterThanHeatCountLeavesTrailingHeatsEmpty(t *testing.T) {
	heats := Deal(roster(2), 5)

	assert.Len(t, heats, 5)
	assert.Len(t, heats[0].Contestants, 1)
	assert.Len(t, heats[1].Contestants, 1)
	for _, h := range heats[2:] {
		assert.Empty(t, h.Contestants)
	}
}

func TestDeal_ZeroHeatCountReturnsNoHeats(t *testing.T) {
	heats := Deal(roster(4), 0)
	assert.Empty(t, heats)
}

func TestDeal_WithinHeatOrderIsDealOrder(t *testing.T) {
	heats := Deal(roster(4), 1)
	require_ := heats[0].Contestants
	for i, c := range require_ {
		assert.Equal(t, string(rune('a'+i)), c.ID)
	}
}
