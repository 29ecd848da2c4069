// internal/timeevent/ranking.go
// Pure ranking logic (spec.md §4.F.2-3). Kept free of any repository or
// network dependency so it can be unit tested directly, following the
// compute/persist split the pack's bracket generators use (see
// propagation.go for the companion function on the propagation side).

package timeevent

import (
	"sort"

	"github.com/nsf-ski/race-service/internal/models"
)

// Rank orders events at one (race_id, timing_point) pair and returns a copy
// with Rank populated 1..n. Start and intermediate points rank by arrival
// order (registration_time ascending); Finish ranks by elapsed/time order,
// which for this domain is also registration_time ascending (the clock at
// the timing point, not a computed split). Ties break on earlier
// registration_time, then bib ascending. Excluded statuses (DNS/DNF/error)
// retain no rank and sort after every ranked event.
func Rank(events []models.TimeEvent) []models.TimeEvent {
	ranked := append([]models.TimeEvent(nil), events...)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		aExcluded := excluded(a)
		bExcluded := excluded(b)
		if aExcluded != bExcluded {
			return !aExcluded
		}
		if !a.RegistrationTime.Equal(b.RegistrationTime) {
			return a.RegistrationTime.Before(b.RegistrationTime)
		}
		return bibOf(a) < bibOf(b)
	})

	rank := 1
	for i := range ranked {
		if excluded(ranked[i]) {
			ranked[i].Rank = nil
			continue
		}
		r := rank
		ranked[i].Rank = &r
		rank++
	}
	return ranked
}

func excluded(e models.TimeEvent) bool {
	return e.Status != models.TimeEventOK
}

func bibOf(e models.TimeEvent) int {
	if e.Bib == nil {
		return 0
	}
	return *e.Bib
}

// Sequence extracts the ranking_sequence (ordered ids) from a ranked slice.
func Sequence(ranked []models.TimeEvent) models.TimeEventIDs {
	ids := make(models.TimeEventIDs, 0, len(ranked))
	for _, e := range ranked {
		ids = append(ids, e.ID)
	}
	return ids
}
