// internal/services/startlist_service.go
// Startlist command service (spec.md §4.E, §4.G): the
// generate-startlist-for-event command, wrapping internal/startlist's pure
// seeding/generation logic with the repository fetches and persistence it
// needs. Grounded on the same fetch/generate/persist-in-one-tx shape as
// RaceplanService.GenerateForEvent.

package services

import (
	"context"
	"log"

	"github.com/nsf-ski/race-service/internal/adapters"
	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/startlist"
	"github.com/nsf-ski/race-service/internal/utils"
)

// StartlistService handles startlist CRUD and generation.
type StartlistService struct {
	repos   *repositories.Container
	events  *adapters.EventsClient
	formats *adapters.CompetitionFormatClient
	locks   *LockService
	logger  *log.Logger
}

// NewStartlistService constructs a StartlistService.
func NewStartlistService(repos *repositories.Container, events *adapters.EventsClient, formats *adapters.CompetitionFormatClient, locks *LockService, logger *log.Logger) *StartlistService {
	return &StartlistService{repos: repos, events: events, formats: formats, locks: locks, logger: logger}
}

func (s *StartlistService) GetByID(ctx context.Context, id string) (*models.Startlist, error) {
	return s.repos.Startlist.GetByID(ctx, id)
}

func (s *StartlistService) List(ctx context.Context, eventID string) ([]*models.Startlist, error) {
	return s.repos.Startlist.List(ctx, eventID)
}

// Create inserts a startlist directly.
func (s *StartlistService) Create(ctx context.Context, list *models.Startlist) error {
	return s.repos.Startlist.Create(ctx, list)
}

// Update replaces a startlist's mutable fields.
func (s *StartlistService) Update(ctx context.Context, list *models.Startlist) error {
	return s.repos.Startlist.Update(ctx, list)
}

// Delete removes a startlist directly. Callers should prefer
// RaceplanService.Delete's cascade when removing an event's last raceplan.
func (s *StartlistService) Delete(ctx context.Context, id string) error {
	return s.repos.Startlist.Delete(ctx, id)
}

// GenerateForEvent is the generate_startlist_for_event command (spec.md
// §4.E): fetch the event's raceplan and races, fetch contestants per
// raceclass, seed them into first-round heats, assign starting positions
// and scheduled start times, then persist everything in one transaction.
// Fails CONFLICT if a startlist already exists for the event.
func (s *StartlistService) GenerateForEvent(ctx context.Context, eventID string) (*models.Startlist, error) {
	unlock, err := s.locks.Lock(ctx, "event:"+eventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if existing, err := s.repos.Startlist.GetByEventID(ctx, eventID); err == nil {
		return nil, apperrors.Conflictf("startlist already exists for event %s", existing.EventID)
	} else if apperrors.KindOf(err) != apperrors.NotFound {
		return nil, err
	}

	plan, err := s.repos.Raceplan.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	raceclasses, err := s.events.GetRaceclasses(ctx, eventID)
	if err != nil {
		return nil, err
	}
	format, err := s.formats.GetFormat(ctx, event.CompetitionFormatName)
	if err != nil {
		return nil, err
	}

	races, err := s.repos.Race.List(ctx, repositories.RaceFilter{RaceplanID: plan.ID})
	if err != nil {
		return nil, err
	}

	firstRound, err := firstRoundRaces(races)
	if err != nil {
		return nil, err
	}

	contestantsByRaceclass := map[string][]models.Contestant{}
	for _, rc := range raceclasses {
		contestants, err := s.events.GetContestants(ctx, eventID, rc.Name)
		if err != nil {
			return nil, err
		}
		contestantsByRaceclass[rc.Name] = contestants
	}

	result, err := startlist.Generate(utils.GenerateUUID(), eventID, format.Intervals, contestantsByRaceclass, firstRound)
	if err != nil {
		return nil, err
	}

	tx, err := s.repos.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not start startlist transaction", err)
	}
	defer tx.Rollback()

	if err := s.repos.Startlist.CreateWithTx(tx, result.Startlist); err != nil {
		return nil, err
	}
	for _, entry := range result.StartEntries {
		if err := s.repos.StartEntry.CreateWithTx(tx, entry); err != nil {
			return nil, err
		}
	}

	for _, race := range races {
		count, ok := result.RaceContestantCounts[race.ID]
		if !ok {
			continue
		}
		race.NoOfContestants = count
		for _, entry := range result.StartEntries {
			if entry.RaceID == race.ID {
				race.StartEntries = append(race.StartEntries, entry.ID)
			}
		}
		if err := s.repos.Race.UpdateWithTx(tx, race); err != nil {
			return nil, err
		}
	}

	plan.NoOfContestants = result.Startlist.NoOfContestants
	if err := s.repos.Raceplan.UpdateWithTx(tx, plan); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not commit startlist", err)
	}

	return result.Startlist, nil
}

// firstRoundRaces groups races by raceclass and picks out the first round
// per raceclass: the sole race for interval/mass-start formats, or the Q
// heats (falling back to SA when a progression row has no Q round) for
// Individual Sprint.
func firstRoundRaces(races []*models.Race) (map[string][]startlist.FirstRoundRace, error) {
	byClass := map[string][]*models.Race{}
	for _, r := range races {
		byClass[r.Raceclass] = append(byClass[r.Raceclass], r)
	}

	out := map[string][]startlist.FirstRoundRace{}
	for rc, group := range byClass {
		if !group[0].IsSprint() {
			out[rc] = []startlist.FirstRoundRace{{
				ID: group[0].ID, Raceclass: rc, Datatype: group[0].Datatype,
				StartTime: group[0].StartTime, Heat: 0,
			}}
			continue
		}

		var firstRound []*models.Race
		for _, r := range group {
			if r.Round == models.RoundQ {
				firstRound = append(firstRound, r)
			}
		}
		if len(firstRound) == 0 {
			for _, r := range group {
				if r.Round == models.RoundS && r.Index == models.IndexA {
					firstRound = append(firstRound, r)
				}
			}
		}
		if len(firstRound) == 0 {
			return nil, apperrors.Validationf("raceclass %q has no first-round sprint heats", rc)
		}

		frr := make([]startlist.FirstRoundRace, 0, len(firstRound))
		for _, r := range firstRound {
			frr = append(frr, startlist.FirstRoundRace{
				ID: r.ID, Raceclass: rc, Datatype: r.Datatype, StartTime: r.StartTime, Heat: r.Heat,
			})
		}
		out[rc] = frr
	}
	return out, nil
}
