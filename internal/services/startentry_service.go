// internal/services/startentry_service.go
// StartEntry CRUD, scoped under a race (spec.md §6: /races/{rid}/start-entries).

package services

import (
	"context"
	"log"

	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
)

// StartEntryService handles start-entry CRUD.
type StartEntryService struct {
	repos  *repositories.Container
	logger *log.Logger
}

// NewStartEntryService constructs a StartEntryService.
func NewStartEntryService(repos *repositories.Container, logger *log.Logger) *StartEntryService {
	return &StartEntryService{repos: repos, logger: logger}
}

func (s *StartEntryService) GetByID(ctx context.Context, id string) (*models.StartEntry, error) {
	return s.repos.StartEntry.GetByID(ctx, id)
}

func (s *StartEntryService) ListByRace(ctx context.Context, raceID string) ([]*models.StartEntry, error) {
	return s.repos.StartEntry.List(ctx, repositories.StartEntryFilter{RaceID: raceID})
}

// Create inserts a start entry and keeps its race's start_entries and
// no_of_contestants in sync (invariant 2 in spec.md §3).
func (s *StartEntryService) Create(ctx context.Context, e *models.StartEntry) error {
	race, err := s.repos.Race.GetByID(ctx, e.RaceID)
	if err != nil {
		return err
	}

	if err := s.repos.StartEntry.Create(ctx, e); err != nil {
		return err
	}

	race.StartEntries = append(race.StartEntries, e.ID)
	race.NoOfContestants++
	return s.repos.Race.Update(ctx, race)
}

// UpdateStatus records a status change (DNS/DNF/DSQ/OK) and appends a
// changelog entry, used by operators correcting entries outside the
// automatic time-event flow.
func (s *StartEntryService) UpdateStatus(ctx context.Context, id string, status models.StartEntryStatus, userID, comment string) (*models.StartEntry, error) {
	e, err := s.repos.StartEntry.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Status = status
	e.Changelog = e.Changelog.Append(userID, comment)
	if err := s.repos.StartEntry.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes a start entry and keeps its race's roster in sync.
func (s *StartEntryService) Delete(ctx context.Context, id string) error {
	e, err := s.repos.StartEntry.GetByID(ctx, id)
	if err != nil {
		return err
	}
	race, err := s.repos.Race.GetByID(ctx, e.RaceID)
	if err != nil {
		return err
	}

	if err := s.repos.StartEntry.Delete(ctx, id); err != nil {
		return err
	}

	remaining := make(models.StartEntryIDs, 0, len(race.StartEntries))
	for _, existing := range race.StartEntries {
		if existing != id {
			remaining = append(remaining, existing)
		}
	}
	race.StartEntries = remaining
	race.NoOfContestants--
	return s.repos.Race.Update(ctx, race)
}
