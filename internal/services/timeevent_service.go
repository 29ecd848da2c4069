// internal/services/timeevent_service.go
// TimeEvent command service: wraps internal/timeevent.Processor for
// ingestion, plus reads and the deletion/correction path (spec.md §4.F
// "Deletion / correction").

package services

import (
	"context"
	"log"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/timeevent"
)

// TimeEventService handles time-event ingestion, reads, and deletion.
type TimeEventService struct {
	repos       *repositories.Container
	processor   *timeevent.Processor
	logger      *log.Logger
	broadcaster Broadcaster
}

// NewTimeEventService constructs a TimeEventService.
func NewTimeEventService(repos *repositories.Container, processor *timeevent.Processor, logger *log.Logger) *TimeEventService {
	return &TimeEventService{repos: repos, processor: processor, logger: logger}
}

// Ingest accepts a new time-event (spec.md §4.F).
func (s *TimeEventService) Ingest(ctx context.Context, event *models.TimeEvent) (*models.TimeEvent, error) {
	stored, err := s.processor.Ingest(ctx, event)
	if s.broadcaster == nil || stored == nil {
		return stored, err
	}
	if err != nil {
		s.broadcaster.BroadcastRaceUpdate(stored.RaceID, "time_event_rejected", stored)
		return stored, err
	}
	s.broadcaster.BroadcastRaceUpdate(stored.RaceID, "time_event_received", stored)
	if stored.NextRaceID != "" {
		s.broadcaster.BroadcastRaceUpdate(stored.NextRaceID, "propagation_completed", stored)
	}
	return stored, nil
}

func (s *TimeEventService) GetByID(ctx context.Context, id string) (*models.TimeEvent, error) {
	return s.repos.TimeEvent.GetByID(ctx, id)
}

func (s *TimeEventService) List(ctx context.Context, filter repositories.TimeEventFilter) ([]*models.TimeEvent, error) {
	return s.repos.TimeEvent.List(ctx, filter)
}

// Delete removes a time-event and triggers re-ranking of its
// (race_id, timing_point) pair. If the event had already triggered
// propagation, the derived downstream start-entries are removed provided
// none of them has a dependent time-event of its own; otherwise the
// deletion fails CONFLICT.
func (s *TimeEventService) Delete(ctx context.Context, id string) error {
	event, err := s.repos.TimeEvent.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if event.NextRaceID != "" {
		downstream, err := s.repos.TimeEvent.List(ctx, repositories.TimeEventFilter{RaceID: event.NextRaceID, Bib: event.Bib})
		if err != nil {
			return err
		}
		if len(downstream) > 0 {
			return apperrors.Conflictf(
				"cannot delete time-event %s: contestant already has time-events in propagated race %s",
				id, event.NextRaceID,
			)
		}

		target, err := s.repos.Race.GetByID(ctx, event.NextRaceID)
		if err != nil {
			return err
		}
		entry, err := s.repos.StartEntry.GetByRaceAndBib(ctx, event.NextRaceID, bibOf(event))
		if err == nil {
			if derr := s.repos.StartEntry.Delete(ctx, entry.ID); derr != nil {
				return derr
			}
			remaining := make(models.StartEntryIDs, 0, len(target.StartEntries))
			for _, id := range target.StartEntries {
				if id != entry.ID {
					remaining = append(remaining, id)
				}
			}
			target.StartEntries = remaining
			target.NoOfContestants--
			if uerr := s.repos.Race.Update(ctx, target); uerr != nil {
				return uerr
			}
		} else if apperrors.KindOf(err) != apperrors.NotFound {
			return err
		}
	}

	if err := s.repos.TimeEvent.Delete(ctx, id); err != nil {
		return err
	}

	return s.rerank(ctx, event.RaceID, event.TimingPoint)
}

func (s *TimeEventService) rerank(ctx context.Context, raceID, timingPoint string) error {
	events, err := s.repos.TimeEvent.List(ctx, repositories.TimeEventFilter{RaceID: raceID, TimingPoint: timingPoint})
	if err != nil {
		return err
	}
	plain := make([]models.TimeEvent, 0, len(events))
	for _, e := range events {
		plain = append(plain, *e)
	}
	ranked := timeevent.Rank(plain)
	for i := range ranked {
		if err := s.repos.TimeEvent.Update(ctx, &ranked[i]); err != nil {
			return err
		}
	}

	result, err := s.repos.RaceResult.GetByRaceAndTimingPoint(ctx, raceID, timingPoint)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.NotFound {
			return nil
		}
		return err
	}
	result.NoOfContestants = len(ranked)
	result.RankingSequence = timeevent.Sequence(ranked)
	if err := s.repos.RaceResult.Update(ctx, result); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRaceUpdate(raceID, "race_result_updated", result)
	}
	return nil
}

func bibOf(e *models.TimeEvent) int {
	if e.Bib == nil {
		return 0
	}
	return *e.Bib
}
