// internal/raceplan/sprint.go
// Individual Sprint (bracket) raceplan generation (spec.md §4.D.3). The
// heat counts and progression rules come straight from the progression
// matrix (matrix.go); this file only computes, for each round, how many
// contestants the previous round routes into it, so that
// max_no_of_contestants per heat can be derived as ⌈sources/heats⌉ before
// any contestant has actually raced.

package raceplan

import (
	"github.com/nsf-ski/race-service/internal/models"
)

type sprintBuilder struct{}

func (sprintBuilder) Build(raceplanID string, event models.Event, format models.CompetitionFormat, rc models.Raceclass, clock *Clock) ([]*models.Race, error) {
	rows := format.RaceConfigNonRanked
	if rc.Ranking {
		rows = format.RaceConfigRanked
	}
	row, err := SelectRow(rows, rc.NoOfContestants)
	if err != nil {
		return nil, err
	}

	n := rc.NoOfContestants
	var allRaces []*models.Race

	// Q round, sourced directly from the raceclass roster. Some matrix rows
	// (N=7, N=16) have no Q round at all; their first round is SA instead.
	qTotals := map[string]int{"SA": n}
	if row.QHeats > 0 {
		qRule := ParseHeatRule(row.QRule)
		qRaces := buildHeats(raceplanID, event, format, rc, clock, models.RoundQ, models.IndexNone, row.QHeats, n, qRule)
		allRaces = append(allRaces, qRaces...)
		clock.Advance(format.TimeBetweenRounds)

		qHeatSize := ceilDiv(n, row.QHeats)
		qTotals = routeTotals(qRule, qHeatSize, row.QHeats)
	}

	// Emission order per spec.md §4.D.3: all Q heats, then SC, then SA.
	scTotals := map[string]int{}
	if row.SCHeats > 0 {
		scRule := ParseHeatRule(row.SCRule)
		scSource := qTotals["SC"]
		scRaces := buildHeats(raceplanID, event, format, rc, clock, models.RoundS, models.IndexC, row.SCHeats, scSource, scRule)
		allRaces = append(allRaces, scRaces...)
		clock.Advance(format.TimeBetweenRounds)

		scHeatSize := ceilDiv(scSource, row.SCHeats)
		scTotals = routeTotals(scRule, scHeatSize, row.SCHeats)
	}

	saTotals := map[string]int{}
	if row.SHeats > 0 {
		saRule := ParseHeatRule(row.SRule)
		saSource := qTotals["SA"]
		saRaces := buildHeats(raceplanID, event, format, rc, clock, models.RoundS, models.IndexA, row.SHeats, saSource, saRule)
		allRaces = append(allRaces, saRaces...)
		clock.Advance(format.TimeBetweenRounds)

		saHeatSize := ceilDiv(saSource, row.SHeats)
		saTotals = routeTotals(saRule, saHeatSize, row.SHeats)
	}

	// Finals, emitted FC, FB, FA; each is a single heat whose capacity is
	// whatever the earlier rounds routed into it (the N=24 row sends Q
	// heats straight to FC).
	for i, label := range []string{"FC", "FB", "FA"} {
		if !containsLabel(row.Finals, label) {
			continue
		}
		total := qTotals[label] + scTotals[label] + saTotals[label]
		finalRaces := buildHeats(raceplanID, event, format, rc, clock, models.RoundF, finalIndex(label), 1, total, nil)
		allRaces = append(allRaces, finalRaces...)
		if i < 2 {
			clock.Advance(format.HeatGap())
		}
	}

	clock.Advance(format.TimeBetweenClasses)
	return allRaces, nil
}

// buildHeats emits `heats` races of one round/index, each capped at
// ⌈sourceCount/heats⌉ contestants and carrying the same progression rule.
func buildHeats(raceplanID string, event models.Event, format models.CompetitionFormat, rc models.Raceclass, clock *Clock, round models.SprintRound, index models.SprintIndex, heats, sourceCount int, rule models.ProgressionRule) []*models.Race {
	if heats <= 0 {
		return nil
	}
	max := ceilDiv(sourceCount, heats)

	races := make([]*models.Race, 0, heats)
	for h := 1; h <= heats; h++ {
		race := &models.Race{
			ID:                 newRaceID(),
			Datatype:           models.DatatypeIndividualSprint,
			Raceclass:          rc.Name,
			Order:              clock.NextOrder(),
			StartTime:          clock.Now(),
			MaxNoOfContestants: max,
			EventID:            event.ID,
			RaceplanID:         raceplanID,
			Round:              round,
			Index:              index,
			Heat:               h,
			Rule:               rule,
		}
		races = append(races, race)
		if h < heats {
			clock.Advance(format.HeatGap())
		}
	}
	return races
}

// routeTotals sums, across every heat of a round, how many contestants the
// round's rule sends to each target label. Exactly one target per rule may
// be the "REST" bucket (count == -1), absorbing whatever a heat doesn't
// explicitly enumerate.
func routeTotals(rule models.ProgressionRule, heatSize, heats int) map[string]int {
	totals := map[string]int{}
	explicitSum := 0
	restTarget := ""

	for target, count := range rule {
		if count < 0 {
			restTarget = target
			continue
		}
		totals[target] += count * heats
		explicitSum += count
	}

	if restTarget != "" {
		restPerHeat := heatSize - explicitSum
		if restPerHeat < 0 {
			restPerHeat = 0
		}
		totals[restTarget] += restPerHeat * heats
	}
	return totals
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func finalIndex(label string) models.SprintIndex {
	switch label {
	case "FA":
		return models.IndexA
	case "FB":
		return models.IndexB
	case "FC":
		return models.IndexC
	default:
		return models.IndexNone
	}
}
