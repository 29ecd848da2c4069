// internal/services/race_service.go
// Race CRUD (spec.md §4.G). Updating start_time cascades to the
// scheduled_start_time of every start-entry in the race (interval: recompute
// from position; other formats: set to the new start_time for every entry).

package services

import (
	"context"
	"log"
	"time"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
)

// RaceService handles race CRUD and cascading start-time updates.
type RaceService struct {
	repos  *repositories.Container
	locks  *LockService
	logger *log.Logger
}

// NewRaceService constructs a RaceService.
func NewRaceService(repos *repositories.Container, locks *LockService, logger *log.Logger) *RaceService {
	return &RaceService{repos: repos, locks: locks, logger: logger}
}

func (s *RaceService) GetByID(ctx context.Context, id string) (*models.Race, error) {
	return s.repos.Race.GetByID(ctx, id)
}

func (s *RaceService) List(ctx context.Context, filter repositories.RaceFilter) ([]*models.Race, error) {
	return s.repos.Race.List(ctx, filter)
}

// Create inserts a race directly (manual race management outside
// generation, e.g. correcting a plan before any contestant has started).
func (s *RaceService) Create(ctx context.Context, race *models.Race) error {
	return s.repos.Race.Create(ctx, race)
}

// UpdateStartTime changes a race's start_time and cascades the recomputed
// scheduled_start_time to every start-entry already assigned to it
// (spec.md §4.G).
func (s *RaceService) UpdateStartTime(ctx context.Context, raceID string, newStart time.Time, interval time.Duration) (*models.Race, error) {
	unlock, err := s.locks.Lock(ctx, "race:"+raceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	race, err := s.repos.Race.GetByID(ctx, raceID)
	if err != nil {
		return nil, err
	}
	race.StartTime = newStart

	entries, err := s.repos.StartEntry.List(ctx, repositories.StartEntryFilter{RaceID: raceID})
	if err != nil {
		return nil, err
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not start cascade transaction", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if race.Datatype == models.DatatypeIntervalStart {
			e.ScheduledStartTime = newStart.Add(time.Duration(e.StartingPosition-1) * interval)
		} else {
			e.ScheduledStartTime = newStart
		}
		if err := s.repos.StartEntry.UpdateWithTx(tx, e); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Race.UpdateWithTx(tx, race); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not commit start-time cascade", err)
	}
	return race, nil
}

// Delete removes a race directly. Callers should prefer
// RaceplanService.Delete when removing an entire plan so dependent
// start-entries and race-results cascade correctly.
func (s *RaceService) Delete(ctx context.Context, id string) error {
	return s.repos.Race.Delete(ctx, id)
}
