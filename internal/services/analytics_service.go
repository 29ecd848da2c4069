// internal/services/analytics_service.go
// Admin read-only stats surface (SPEC_FULL.md §9), grounded on the
// teacher's AnalyticsService (GetPlatformStats: cache-through counters over
// Mongo), generalized from tournament/user counts to counts of the
// raceplans/races/time-events this domain processes.

package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nsf-ski/race-service/internal/repositories"
)

// AnalyticsService handles read-only aggregate counters for the admin
// stats endpoint.
type AnalyticsService struct {
	db     *mongo.Database
	repos  *repositories.Container
	cache  *CacheService
	logger *log.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(db *mongo.Database, repos *repositories.Container, cache *CacheService, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, repos: repos, cache: cache, logger: logger}
}

// Stats is the admin stats surface payload.
type Stats struct {
	TotalRaceplans    int `json:"total_raceplans"`
	TotalRaces        int `json:"total_races"`
	TotalTimeEvents   int `json:"total_time_events"`
	TimeEventsErrored int `json:"time_events_errored"`
}

const statsCacheKey = "admin_platform_stats"

// GetPlatformStats returns aggregate counters, cached for a short window
// since time-events arrive at high volume and an admin dashboard does not
// need per-request freshness.
func (s *AnalyticsService) GetPlatformStats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	plans, err := s.repos.Raceplan.List(ctx, "")
	if err != nil {
		return nil, err
	}
	races, err := s.repos.Race.List(ctx, repositories.RaceFilter{})
	if err != nil {
		return nil, err
	}

	total, err := s.db.Collection("time_events").CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	errored, err := s.db.Collection("time_events").CountDocuments(ctx, bson.M{"status": "Error"})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalRaceplans:    len(plans),
		TotalRaces:        len(races),
		TotalTimeEvents:   int(total),
		TimeEventsErrored: int(errored),
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, 30*time.Second); err != nil {
		s.logger.Printf("failed to cache platform stats: %v", err)
	}
	return stats, nil
}
