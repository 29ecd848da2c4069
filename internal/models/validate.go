// internal/models/validate.go
// Small validators shared by generators and services, grounded on the
// teacher's internal/utils/validators.go free-function style.

package models

import (
	"fmt"
	"time"
)

// ParseHMS parses a "HH:MM:SS" duration string, as used for
// intervals/time_between_* fields in CompetitionFormat.
func ParseHMS(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatHMS renders a duration back to "HH:MM:SS".
func FormatHMS(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ValidateBibUniqueness checks invariant 4 (spec §3): bibs unique within a
// race.
func ValidateBibUniqueness(entries []StartEntry) error {
	seen := make(map[int]string, len(entries))
	for _, e := range entries {
		if existing, ok := seen[e.Bib]; ok {
			return fmt.Errorf("duplicate bib %d in race (entries %s, %s)", e.Bib, existing, e.ID)
		}
		seen[e.Bib] = e.ID
	}
	return nil
}

// ValidateStartingPositions checks invariant 4 (spec §3): starting
// positions unique and dense 1..n within a race.
func ValidateStartingPositions(entries []StartEntry) error {
	n := len(entries)
	seen := make(map[int]bool, n)
	for _, e := range entries {
		if e.StartingPosition < 1 || e.StartingPosition > n {
			return fmt.Errorf("starting position %d out of range 1..%d", e.StartingPosition, n)
		}
		if seen[e.StartingPosition] {
			return fmt.Errorf("duplicate starting position %d", e.StartingPosition)
		}
		seen[e.StartingPosition] = true
	}
	return nil
}
