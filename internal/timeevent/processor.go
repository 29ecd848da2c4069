// internal/timeevent/processor.go
// Time-event ingestion state machine (spec.md §4.F). Grounded on the
// teacher's MatchService.ReportScore (internal/services/match_service.go):
// look up the entity, validate, open a transaction, apply the score/result,
// cascade to the next stage of the bracket, commit or roll back. Generalized
// here from a single match->next-match edge into a ranked heat that may
// propagate to more than one downstream race.
//
// Ingest writes to Mongo (the event itself) and MySQL (the race result row)
// for the same logical change, so it stages the Mongo write in a
// unitOfWork and only calls Done once both have landed; rerank failing
// partway rolls the orphaned event back out.

package timeevent

import (
	"context"
	"log"
	"strings"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/utils"
)

// Locker serializes processing per key (spec.md §5: a per-(race_id,
// timing_point) logical mutex). Implemented by services.LockService
// (Redis SET NX) in production; injected here as an interface to keep this
// package free of a Redis dependency.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Processor implements the per-event handling described in spec.md §4.F.
type Processor struct {
	races      RaceStore
	events     TimeEventStore
	results    RaceResultStore
	entries    StartEntryStore
	startlists StartlistStore
	txs        TxBeginner
	locks      Locker
	logger     *log.Logger
}

// NewProcessor constructs a Processor against a live repository container.
func NewProcessor(repos *repositories.Container, locks Locker, logger *log.Logger) *Processor {
	return NewProcessorWithStores(
		raceStoreAdapter{repos.Race},
		repos.TimeEvent,
		repos.RaceResult,
		startEntryStoreAdapter{repos.StartEntry},
		repos.Startlist,
		txBeginnerAdapter{repos},
		locks,
		logger,
	)
}

// NewProcessorWithStores constructs a Processor directly from its Store
// dependencies, bypassing repositories.Container. Used by NewProcessor in
// production and by tests wiring in-memory fakes.
func NewProcessorWithStores(races RaceStore, events TimeEventStore, results RaceResultStore, entries StartEntryStore, startlists StartlistStore, txs TxBeginner, locks Locker, logger *log.Logger) *Processor {
	return &Processor{
		races:      races,
		events:     events,
		results:    results,
		entries:    entries,
		startlists: startlists,
		txs:        txs,
		locks:      locks,
		logger:     logger,
	}
}

// Ingest accepts one TimeEvent: validates the timing point, appends it to
// the ranking sequence for (race_id, timing_point), recomputes rank, and
// (Finish events on bracket formats, when the heat is complete) propagates
// qualifiers into downstream races.
func (p *Processor) Ingest(ctx context.Context, event *models.TimeEvent) (*models.TimeEvent, error) {
	race, err := p.races.GetByID(ctx, event.RaceID)
	if err != nil {
		return nil, err
	}

	if !models.ValidTimingPoint(event.TimingPoint, race.IsSprint()) {
		event.ID = utils.GenerateUUID()
		event.Status = models.TimeEventError
		event.Changelog = event.Changelog.Append(models.SystemUser, "rejected: unrecognized timing_point "+event.TimingPoint)
		if cerr := p.events.Create(ctx, event); cerr != nil {
			return nil, cerr
		}
		return event, apperrors.Validationf("unrecognized timing_point %q for race %s", event.TimingPoint, race.ID)
	}

	lockKey := "timeevent:" + race.ID + ":" + event.TimingPoint
	unlock, err := p.locks.Lock(ctx, lockKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Dependency, "could not acquire processing lock", err)
	}
	defer unlock()

	if dup, derr := p.events.FindDuplicate(ctx, race.ID, event.TimingPoint, bibOf(*event)); derr != nil {
		return nil, derr
	} else if dup != nil {
		return nil, apperrors.Conflictf("bib %d already has a recorded %s time for race %s", bibOf(*event), event.TimingPoint, race.ID)
	}

	uow := newUnitOfWork(p.logger)
	defer uow.Rollback(ctx)

	event.ID = utils.GenerateUUID()
	event.Status = models.TimeEventOK
	if err := p.events.Create(ctx, event); err != nil {
		return nil, err
	}
	eventID := event.ID
	uow.Stage(func(ctx context.Context) error {
		return p.events.Delete(ctx, eventID)
	})

	ranked, result, err := p.rerank(ctx, race, event.TimingPoint)
	if err != nil {
		return nil, err
	}
	uow.Done()

	var finalEvent *models.TimeEvent
	for i := range ranked {
		if ranked[i].ID == event.ID {
			finalEvent = &ranked[i]
			break
		}
	}
	if finalEvent == nil {
		finalEvent = event
	}

	if event.TimingPoint != models.TimingPointFinish || !race.IsSprint() {
		return finalEvent, nil
	}

	complete, err := p.heatComplete(ctx, result, race)
	if err != nil {
		return nil, err
	}
	if !complete {
		return finalEvent, nil
	}

	if err := p.propagate(ctx, race, ranked); err != nil {
		if _, ok := apperrors.As(err); ok {
			finalEvent.Status = models.TimeEventError
			finalEvent.Changelog = finalEvent.Changelog.Append(models.SystemUser, "propagation failed: "+err.Error())
			_ = p.events.Update(ctx, finalEvent)
		}
		return finalEvent, err
	}

	return finalEvent, nil
}

// rerank recomputes the ranking sequence for (race.ID, timingPoint),
// persisting the updated RaceResult and every event's new rank.
func (p *Processor) rerank(ctx context.Context, race *models.Race, timingPoint string) ([]models.TimeEvent, *models.RaceResult, error) {
	events, err := p.events.List(ctx, repositories.TimeEventFilter{RaceID: race.ID, TimingPoint: timingPoint})
	if err != nil {
		return nil, nil, err
	}

	plain := make([]models.TimeEvent, 0, len(events))
	for _, e := range events {
		plain = append(plain, *e)
	}
	ranked := Rank(plain)

	for i := range ranked {
		if err := p.events.Update(ctx, &ranked[i]); err != nil {
			return nil, nil, err
		}
	}

	result, err := p.results.GetByRaceAndTimingPoint(ctx, race.ID, timingPoint)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.NotFound {
			return nil, nil, err
		}
		result = &models.RaceResult{ID: utils.GenerateUUID(), RaceID: race.ID, TimingPoint: timingPoint}
		result.NoOfContestants = len(ranked)
		result.RankingSequence = Sequence(ranked)
		if err := p.results.Create(ctx, result); err != nil {
			return nil, nil, err
		}
		return ranked, result, nil
	}

	result.NoOfContestants = len(ranked)
	result.RankingSequence = Sequence(ranked)
	if err := p.results.Update(ctx, result); err != nil {
		return nil, nil, err
	}
	return ranked, result, nil
}

// heatComplete reports whether every contestant entered in the race has
// either an OK Finish time or a DNS/DNF/DSQ status (spec.md §4.F.4). A
// withdrawn contestant never produces a Finish time-event, so completion
// can't be read off RankingSequence alone; the count of excluded statuses
// on the race's own start entries has to make up the difference.
func (p *Processor) heatComplete(ctx context.Context, result *models.RaceResult, race *models.Race) (bool, error) {
	if len(result.RankingSequence) >= race.NoOfContestants {
		return true, nil
	}

	entries, err := p.entries.List(ctx, repositories.StartEntryFilter{RaceID: race.ID})
	if err != nil {
		return false, err
	}
	excluded := 0
	for _, e := range entries {
		if e.Status.Excluded() {
			excluded++
		}
	}
	return len(result.RankingSequence)+excluded >= race.NoOfContestants, nil
}

// propagate applies race.Rule to the ranked Finish events and writes the
// resulting start entries into each target race, inside one transaction so
// an overflow on any target rolls every write back. After the commit it
// records each propagated contestant's target race as NextRaceID on their
// event.
func (p *Processor) propagate(ctx context.Context, race *models.Race, ranked []models.TimeEvent) error {
	okEvents := make([]models.TimeEvent, 0, len(ranked))
	for _, e := range ranked {
		if e.Status == models.TimeEventOK {
			okEvents = append(okEvents, e)
		}
	}

	placements := Propagate(race.Rule, okEvents)
	if len(placements) == 0 {
		return nil
	}

	byLabel := map[string][]Placement{}
	for _, pl := range placements {
		byLabel[pl.TargetLabel] = append(byLabel[pl.TargetLabel], pl)
	}

	startlistID := ""
	if sl, err := p.startlists.GetByEventID(ctx, race.EventID); err == nil {
		startlistID = sl.ID
	} else if apperrors.KindOf(err) != apperrors.NotFound {
		return err
	}

	tx, err := p.txs.BeginTx(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "could not start propagation transaction", err)
	}
	defer tx.Rollback()

	nextRace := map[int]string{}
	for label, group := range byLabel {
		round, index, ok := labelToRoundIndex(label)
		if !ok {
			continue
		}
		targets, err := p.races.ListByNextRace(ctx, race.EventID, race.Raceclass, round, index)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return apperrors.Validationf("no target race found for propagation label %q", label)
		}

		// A round can span several heats (e.g. SA/SC heats ≥ 2 for N≥32).
		// Fill them in heat order, spilling into the next target once one
		// fills, instead of dumping every source heat's contingent into
		// targets[0] and leaving the rest empty.
		touched := map[string]*models.Race{}
		ti := 0
		for _, pl := range group {
			for ti < len(targets) && targets[ti].NoOfContestants >= targets[ti].MaxNoOfContestants {
				ti++
			}
			if ti >= len(targets) {
				return apperrors.Conflictf(
					"propagating bib %d from race %s to label %q would exceed max_no_of_contestants across all %d target heat(s)",
					pl.Bib, race.ID, label, len(targets),
				)
			}
			target := targets[ti]
			touched[target.ID] = target
			nextRace[pl.Bib] = target.ID
			position := target.NoOfContestants + 1

			existing, err := p.entries.GetByRaceAndBib(ctx, target.ID, pl.Bib)
			if err != nil && apperrors.KindOf(err) != apperrors.NotFound {
				return err
			}
			if existing != nil {
				existing.StartingPosition = position
				existing.Changelog = existing.Changelog.Append(models.SystemUser, "PROPAGATED_FROM:"+race.ID)
				if err := p.entries.UpdateWithTx(tx, existing); err != nil {
					return err
				}
			} else {
				entry := &models.StartEntry{
					ID:               utils.GenerateUUID(),
					RaceID:           target.ID,
					StartlistID:      startlistID,
					Bib:              pl.Bib,
					Name:             pl.Name,
					Club:             pl.Club,
					StartingPosition: position,
					Status:           models.StatusNone,
				}
				entry.Changelog = entry.Changelog.Append(models.SystemUser, "PROPAGATED_FROM:"+race.ID)
				if err := p.entries.CreateWithTx(tx, entry); err != nil {
					return err
				}
				target.StartEntries = append(target.StartEntries, entry.ID)
			}
			target.NoOfContestants++
		}

		for _, target := range touched {
			if err := p.races.UpdateWithTx(tx, target); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for i := range ranked {
		raceID, ok := nextRace[bibOf(ranked[i])]
		if !ok || ranked[i].Status != models.TimeEventOK {
			continue
		}
		ranked[i].NextRaceID = raceID
		if err := p.events.Update(ctx, &ranked[i]); err != nil {
			return err
		}
	}
	return nil
}

func labelToRoundIndex(label string) (models.SprintRound, models.SprintIndex, bool) {
	if label == models.RuleTargetOut || len(label) != 2 {
		return "", "", false
	}
	round := models.SprintRound(strings.ToUpper(label[:1]))
	index := models.SprintIndex(strings.ToUpper(label[1:]))
	switch round {
	case models.RoundQ, models.RoundS, models.RoundF:
	default:
		return "", "", false
	}
	return round, index, true
}
