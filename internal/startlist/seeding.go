// internal/startlist/seeding.go
// Serpentine seeding (spec.md §4.E.3): contestants are dealt across a
// raceclass's first-round heats 1..H, H..1, 1..H, … until exhausted.
// Grounded on the teacher's applySeedingMethod (a switch over seeding
// strategies for bracket participants), generalized here into the single
// deal strategy this domain actually uses.

package startlist

import "github.com/nsf-ski/race-service/internal/models"

// Heat is one destination bucket in serpentine order, holding the
// contestants dealt to it in deal order (which doubles as starting
// position order within the heat, spec.md §4.E.4).
type Heat struct {
	Contestants []models.Contestant
}

// Deal distributes roster (already sorted by seed key) across heatCount
// heats in serpentine order: 1..H, H..1, 1..H, ... If the roster is
// shorter than heatCount, only the first len(roster) heats receive an
// entry.
func Deal(roster []models.Contestant, heatCount int) []Heat {
	heats := make([]Heat, heatCount)
	if heatCount <= 0 {
		return heats
	}

	forward := true
	idx := 0
	for _, c := range roster {
		heats[idx].Contestants = append(heats[idx].Contestants, c)

		if forward {
			idx++
			if idx == heatCount {
				idx = heatCount - 1
				forward = false
			}
		} else {
			idx--
			if idx < 0 {
				idx = 0
				forward = true
			}
		}
	}
	return heats
}
