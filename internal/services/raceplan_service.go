// internal/services/raceplan_service.go
// Raceplan command service (spec.md §4.D, §4.G): CRUD plus the
// generate-raceplan-for-event command. Grounded on the teacher's
// TournamentService (fetch → validate → generate fixtures → persist under
// one transaction), generalized from a single-elimination bracket builder
// to the format-dispatching raceplan.Generate.

package services

import (
	"context"
	"log"

	"github.com/nsf-ski/race-service/internal/adapters"
	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/raceplan"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/utils"
)

// RaceplanService handles raceplan CRUD and generation.
type RaceplanService struct {
	repos   *repositories.Container
	events  *adapters.EventsClient
	formats *adapters.CompetitionFormatClient
	locks   *LockService
	logger  *log.Logger
}

// NewRaceplanService constructs a RaceplanService.
func NewRaceplanService(repos *repositories.Container, events *adapters.EventsClient, formats *adapters.CompetitionFormatClient, locks *LockService, logger *log.Logger) *RaceplanService {
	return &RaceplanService{repos: repos, events: events, formats: formats, locks: locks, logger: logger}
}

func (s *RaceplanService) GetByID(ctx context.Context, id string) (*models.Raceplan, error) {
	return s.repos.Raceplan.GetByID(ctx, id)
}

func (s *RaceplanService) List(ctx context.Context, eventID string) ([]*models.Raceplan, error) {
	return s.repos.Raceplan.List(ctx, eventID)
}

// Create inserts a raceplan directly, for callers managing a plan outside
// the generation command (e.g. restoring from an external source).
func (s *RaceplanService) Create(ctx context.Context, plan *models.Raceplan) error {
	return s.repos.Raceplan.Create(ctx, plan)
}

// GenerateForEvent is the generate_raceplan_for_event command (spec.md
// §4.D.1): fetch the event, its format and raceclasses, build the plan and
// every race in memory, then persist them all in one transaction. Fails
// CONFLICT if a raceplan already exists for the event.
func (s *RaceplanService) GenerateForEvent(ctx context.Context, eventID string) (*models.Raceplan, []*models.Race, error) {
	unlock, err := s.locks.Lock(ctx, "event:"+eventID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	if existing, err := s.repos.Raceplan.GetByEventID(ctx, eventID); err == nil {
		return nil, nil, apperrors.Conflictf("raceplan already exists for event %s", existing.EventID)
	} else if apperrors.KindOf(err) != apperrors.NotFound {
		return nil, nil, err
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	format, err := s.formats.GetFormat(ctx, event.CompetitionFormatName)
	if err != nil {
		return nil, nil, err
	}
	raceclasses, err := s.events.GetRaceclasses(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if len(raceclasses) == 0 {
		return nil, nil, apperrors.Validationf("event %s has no raceclasses to plan", eventID)
	}

	plan, races, err := raceplan.Generate(utils.GenerateUUID(), *event, *format, raceclasses)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Internal, "could not start raceplan transaction", err)
	}
	defer tx.Rollback()

	if err := s.repos.Raceplan.CreateWithTx(tx, plan); err != nil {
		return nil, nil, err
	}
	for _, race := range races {
		if err := s.repos.Race.CreateWithTx(tx, race); err != nil {
			return nil, nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Internal, "could not commit raceplan", err)
	}

	return plan, races, nil
}

// Update applies mutable field changes (spec.md §4.G: updating a race's
// start_time cascades; raceplan itself only has no_of_contestants/races
// mutated internally by generation commands, so Update here is limited to
// what external callers may legitimately change).
func (s *RaceplanService) Update(ctx context.Context, plan *models.Raceplan) error {
	return s.repos.Raceplan.Update(ctx, plan)
}

// Delete removes a raceplan and cascades per spec.md §4.G: its races,
// their start-entries, their race-results, and (if it was the last plan
// for the event) the event's startlist.
func (s *RaceplanService) Delete(ctx context.Context, id string) error {
	plan, err := s.repos.Raceplan.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "could not start delete transaction", err)
	}
	defer tx.Rollback()

	for _, raceID := range plan.Races {
		entries, err := s.repos.StartEntry.List(ctx, repositories.StartEntryFilter{RaceID: raceID})
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := s.repos.StartEntry.DeleteWithTx(tx, e.ID); err != nil {
				return err
			}
		}

		results, err := s.repos.RaceResult.List(ctx, raceID)
		if err != nil {
			return err
		}
		for _, r := range results {
			if err := s.repos.RaceResult.Delete(ctx, r.ID); err != nil {
				return err
			}
		}

		if err := s.repos.Race.DeleteWithTx(tx, raceID); err != nil {
			return err
		}
	}

	if err := s.repos.Raceplan.DeleteWithTx(tx, id); err != nil {
		return err
	}

	remaining, err := s.repos.Raceplan.List(ctx, plan.EventID)
	if err != nil {
		return err
	}
	// List reads outside the open transaction, so it still sees this plan.
	others := 0
	for _, p := range remaining {
		if p.ID != id {
			others++
		}
	}
	if others == 0 {
		if list, err := s.repos.Startlist.GetByEventID(ctx, plan.EventID); err == nil {
			if err := s.repos.Startlist.DeleteWithTx(tx, list.ID); err != nil {
				return err
			}
		} else if apperrors.KindOf(err) != apperrors.NotFound {
			return err
		}
	}

	return tx.Commit()
}
