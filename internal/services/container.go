// internal/services/container.go
// Service container provides dependency injection for all business logic services.
// This pattern makes testing easier and keeps services loosely coupled.

package services

import (
	"errors"
	"log"
	"time"

	"github.com/nsf-ski/race-service/internal/adapters"
	"github.com/nsf-ski/race-service/internal/config"
	"github.com/nsf-ski/race-service/internal/database"
	"github.com/nsf-ski/race-service/internal/repositories"
	"github.com/nsf-ski/race-service/internal/timeevent"
)

// Container holds all service instances and provides them to handlers
type Container struct {
	Raceplan   *RaceplanService
	Startlist  *StartlistService
	Race       *RaceService
	StartEntry *StartEntryService
	RaceResult *RaceResultService
	TimeEvent  *TimeEventService
	Cache      *CacheService
	Lock       *LockService
	Analytics  *AnalyticsService

	Events  *adapters.EventsClient
	Formats *adapters.CompetitionFormatClient
	Users   *adapters.UsersClient

	Broadcaster Broadcaster
}

// Broadcaster pushes a race-scoped update to live subscribers. Implemented
// by internal/websocket.Hub; kept as an interface here so that package
// cannot import this one back. Nil when the websocket feed is disabled.
type Broadcaster interface {
	BroadcastRaceUpdate(raceID string, updateType string, data interface{})
}

// SetBroadcaster wires the live feed once it has been constructed. Called
// by internal/server right after the websocket hub is built (before its Run
// loop starts), since the hub itself depends on this container.
func (c *Container) SetBroadcaster(b Broadcaster) {
	c.Broadcaster = b
	c.TimeEvent.broadcaster = b
}

// NewContainer creates a new service container with all dependencies
func NewContainer(db *database.Connections, cfg *config.Config, logger *log.Logger) *Container {
	// Initialize repositories
	repos := repositories.NewContainer(db)

	// Initialize cache and lock services
	cache := NewCacheService(db.Redis, logger)
	lock := NewLockService(cache, 15*time.Second, 5*time.Second)

	// Initialize external adapters
	events := adapters.NewEventsClient(cfg.Adapters.EventsBaseURL, cfg.Adapters.RequestTimeout)
	formats := adapters.NewCompetitionFormatClient(cfg.Adapters.CompetitionFormatBaseURL, cfg.Adapters.RequestTimeout)
	users := adapters.NewUsersClient(cfg.Adapters.UsersBaseURL, cfg.Adapters.AdminUsername, cfg.Adapters.AdminPassword, cfg.Adapters.RequestTimeout)

	processor := timeevent.NewProcessor(repos, lock, logger)

	return &Container{
		Raceplan:   NewRaceplanService(repos, events, formats, lock, logger),
		Startlist:  NewStartlistService(repos, events, formats, lock, logger),
		Race:       NewRaceService(repos, lock, logger),
		StartEntry: NewStartEntryService(repos, logger),
		RaceResult: NewRaceResultService(repos, logger),
		TimeEvent:  NewTimeEventService(repos, processor, logger),
		Cache:      cache,
		Lock:       lock,
		Analytics:  NewAnalyticsService(db.MongoDB, repos, cache, logger),
		Events:     events,
		Formats:    formats,
		Users:      users,
	}
}

// Common errors used across services
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
