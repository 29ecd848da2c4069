// internal/services/raceresult_service.go
// RaceResult read access, scoped under a race (spec.md §6: /races/{rid}/race-results,
// query params timingPoint, idsOnly). Results are created and updated only
// through internal/timeevent.Processor and TimeEventService's re-ranking;
// Delete below is the one direct write.

package services

import (
	"context"
	"log"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
)

// RaceResultService handles race-result reads.
type RaceResultService struct {
	repos  *repositories.Container
	logger *log.Logger
}

// NewRaceResultService constructs a RaceResultService.
func NewRaceResultService(repos *repositories.Container, logger *log.Logger) *RaceResultService {
	return &RaceResultService{repos: repos, logger: logger}
}

func (s *RaceResultService) GetByID(ctx context.Context, id string) (*models.RaceResult, error) {
	return s.repos.RaceResult.GetByID(ctx, id)
}

func (s *RaceResultService) ListByRace(ctx context.Context, raceID, timingPoint string) ([]*models.RaceResult, error) {
	results, err := s.repos.RaceResult.List(ctx, raceID)
	if err != nil {
		return nil, err
	}
	if timingPoint == "" {
		return results, nil
	}

	filtered := make([]*models.RaceResult, 0, len(results))
	for _, r := range results {
		if r.TimingPoint == timingPoint {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, apperrors.NotFoundf("no race result for race %s at %s", raceID, timingPoint)
	}
	return filtered, nil
}

// Delete removes a race result. Only legitimate before any time-event
// references it; the event-triggered deletion/re-ranking path described in
// spec.md §4.F is TimeEventService.Delete.
func (s *RaceResultService) Delete(ctx context.Context, id string) error {
	return s.repos.RaceResult.Delete(ctx, id)
}
