// internal/raceplan/matrix.go
// The Individual Sprint progression matrix (spec.md §6) is a normative data
// table, not an approximation: given N contestants in a raceclass, the row
// whose MaxNoOfContestants is the smallest value ≥ N dictates heat counts
// and progression rules for every round. Encoded as a literal slice rather
// than derived arithmetic, mirroring how the teacher keeps its own
// configuration-shaped data (see internal/config/config.go) as literal
// structs instead of computed defaults.

package raceplan

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// DefaultProgressionMatrix is the full normative row set from spec.md §6.
// Used when the Competition Format service does not supply its own
// race_config_ranked/race_config_non_ranked rows for a format.
var DefaultProgressionMatrix = []models.ProgressionRow{
	{
		MaxNoOfContestants: 7,
		QHeats:             0,
		SHeats:             1,
		SRule:              map[string]string{"REST": "FA"},
		SCHeats:            0,
		Finals:             []string{"FA"},
	},
	{
		MaxNoOfContestants: 16,
		QHeats:             0,
		SHeats:             2,
		SRule:              map[string]string{"4": "FA", "REST": "FB"},
		SCHeats:            0,
		Finals:             []string{"FA", "FB"},
	},
	{
		MaxNoOfContestants: 24,
		QHeats:             3,
		QRule:              map[string]string{"5": "SA", "REST": "FC"},
		SHeats:             2,
		SRule:              map[string]string{"4": "FA", "REST": "FB"},
		SCHeats:            0,
		Finals:             []string{"FA", "FB", "FC"},
	},
	{
		MaxNoOfContestants: 32,
		QHeats:             4,
		QRule:              map[string]string{"4": "SA", "REST": "SC"},
		SHeats:             2,
		SRule:              map[string]string{"4": "FA", "REST": "FB"},
		SCHeats:            2,
		SCRule:             map[string]string{"4": "FC", "REST": "OUT"},
		Finals:             []string{"FA", "FB", "FC"},
	},
	{
		MaxNoOfContestants: 40,
		QHeats:             5,
		QRule:              map[string]string{"5": "SA", "REST": "SC"},
		SHeats:             3,
		SRule:              map[string]string{"3": "FA,FB", "REST": "OUT"},
		SCHeats:            2,
		SCRule:             map[string]string{"4": "FC", "REST": "OUT"},
		Finals:             []string{"FA", "FB", "FC"},
	},
	{
		MaxNoOfContestants: 48,
		QHeats:             6,
		QRule:              map[string]string{"4": "SA", "REST": "SC"},
		SHeats:             3,
		SRule:              map[string]string{"3": "FA,FB", "REST": "OUT"},
		SCHeats:            3,
		SCRule:             map[string]string{"3": "FC", "REST": "OUT"},
		Finals:             []string{"FA", "FB", "FC"},
	},
	{
		MaxNoOfContestants: 56,
		QHeats:             7,
		QRule:              map[string]string{"5": "SA", "REST": "SC"},
		SHeats:             4,
		SRule:              map[string]string{"2": "FA,FB", "REST": "OUT"},
		SCHeats:            3,
		SCRule:             map[string]string{"3": "FC", "REST": "OUT"},
		Finals:             []string{"FA", "FB", "FC"},
	},
	{
		MaxNoOfContestants: 80,
		QHeats:             8,
		QRule:              map[string]string{"4": "SA", "REST": "SC"},
		SHeats:             4,
		SRule:              map[string]string{"2": "FA,FB", "REST": "OUT"},
		SCHeats:            4,
		SCRule:             map[string]string{"2": "FC", "REST": "OUT"},
		Finals:             []string{"FA", "FB", "FC"},
	},
}

// SelectRow returns the row whose MaxNoOfContestants is the smallest value
// ≥ n, from the supplied rows (format-specific, falling back to
// DefaultProgressionMatrix when the format carries none).
func SelectRow(rows []models.ProgressionRow, n int) (models.ProgressionRow, error) {
	if len(rows) == 0 {
		rows = DefaultProgressionMatrix
	}
	sorted := append([]models.ProgressionRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxNoOfContestants < sorted[j].MaxNoOfContestants })

	for _, row := range sorted {
		if row.MaxNoOfContestants >= n {
			return row, nil
		}
	}
	return models.ProgressionRow{}, apperrors.Validationf(
		"no progression matrix row covers %d contestants (largest supported is %d)",
		n, sorted[len(sorted)-1].MaxNoOfContestants,
	)
}

// ParseHeatRule turns a matrix row's raw rule ("5":"SA", "REST":"SC") into
// the per-race ProgressionRule recorded on a source heat: target label ->
// count, with -1 meaning "all remaining, non-enumerated finishers of this
// heat". Rule entries naming more than one target at the same count (e.g.
// "3":"FA,FB") are split in alphabetical target order, each consuming
// `count` contestants from the ranked sequence before the next target
// starts — the semantics applied per heat, matching scenario 2 of the
// testable properties (top-k of each heat populate the first target).
func ParseHeatRule(raw map[string]string) models.ProgressionRule {
	rule := models.ProgressionRule{}
	for key, value := range raw {
		targets := strings.Split(value, ",")
		sort.Strings(targets)

		if key == models.RuleTargetRest {
			for _, t := range targets {
				rule[strings.TrimSpace(t)] = -1
			}
			continue
		}

		count, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		for _, t := range targets {
			rule[strings.TrimSpace(t)] = count
		}
	}
	return rule
}
