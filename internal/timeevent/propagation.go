// internal/timeevent/propagation.go
// Pure qualifier propagation (spec.md §4.F.4, and the design note in §9
// calling for "bracket propagation... implemented as a pure function...
// separate from the persistence step that may fail on overflow"). Grounded
// on the bracket-advance split used by the pack's tournament generators
// (cliffdoyle-gamer_world's bracket generator, Dosada05-tournament-system's
// bracket_service.go both compute next-round placements before writing
// matches); adapted here to heats/rounds instead of elimination matches.

package timeevent

import (
	"sort"

	"github.com/nsf-ski/race-service/internal/models"
)

// Placement is one contestant moving from a finished race into a target
// race at a specific starting position.
type Placement struct {
	Bib              int
	Name             string
	Club             string
	TargetLabel      string
	StartingPosition int
}

// Propagate applies rule to a ranked sequence of Finish events (already
// ordered and ranked by Rank, in rank order, DNS/DNF/Error entries already
// absent) and returns the placements into each target label. Targets with
// an explicit count receive the next `count` ranked finishers in order;
// the target whose count is negative (the matrix's REST entry, if present)
// absorbs everyone left over, in rank order. A target named "OUT" is a
// sink: its contestants are not
// propagated anywhere and are simply omitted from the result.
func Propagate(rule models.ProgressionRule, ranked []models.TimeEvent) []Placement {
	labels, counts := orderedTargets(rule)

	var placements []Placement
	idx := 0
	for i, label := range labels {
		if label == models.RuleTargetOut {
			idx += counts[i]
			continue
		}
		count := counts[i]
		if count < 0 {
			count = len(ranked) - idx
		}
		for pos := 0; pos < count && idx < len(ranked); pos, idx = pos+1, idx+1 {
			e := ranked[idx]
			placements = append(placements, Placement{
				Bib:              bibOf(e),
				Name:             e.Name,
				Club:             e.Club,
				TargetLabel:      label,
				StartingPosition: pos + 1,
			})
		}
	}
	return placements
}

// orderedTargets returns rule's targets sorted so that every explicit
// (non-REST, non-negative) count is applied before the REST bucket, which
// must run last since it claims everyone not yet claimed. Order among
// explicit targets is alphabetical, for determinism.
func orderedTargets(rule models.ProgressionRule) ([]string, []int) {
	var explicit []string
	rest := ""
	for label, count := range rule {
		if count < 0 {
			rest = label
			continue
		}
		explicit = append(explicit, label)
	}
	sort.Strings(explicit)

	labels := explicit
	counts := make([]int, len(explicit))
	for i, l := range explicit {
		counts[i] = rule[l]
	}
	if rest != "" {
		labels = append(labels, rest)
		counts = append(counts, -1)
	}
	return labels, counts
}
