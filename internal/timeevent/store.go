// internal/timeevent/store.go
// Narrow persistence interfaces for Processor, declared at the consumer
// rather than the repositories package (same shape as the Locker interface
// in processor.go). Letting Processor depend on these instead of
// *repositories.Container directly means its orchestration — the hard part
// of spec.md §4.F — can be exercised against an in-memory fake instead of a
// live MySQL/MongoDB pair.

package timeevent

import (
	"context"

	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
)

// Tx is the transaction handle propagate commits or rolls back once every
// target race for a heat has been written. *sql.Tx satisfies this directly.
type Tx interface {
	Commit() error
	Rollback() error
}

// TxBeginner opens the transaction propagate stages its multi-race writes in.
type TxBeginner interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// RaceStore is the slice of race persistence Processor depends on.
type RaceStore interface {
	GetByID(ctx context.Context, id string) (*models.Race, error)
	ListByNextRace(ctx context.Context, eventID, raceclass string, round models.SprintRound, index models.SprintIndex) ([]*models.Race, error)
	UpdateWithTx(tx Tx, race *models.Race) error
}

// TimeEventStore is the slice of time-event persistence Processor depends on.
type TimeEventStore interface {
	Create(ctx context.Context, e *models.TimeEvent) error
	Update(ctx context.Context, e *models.TimeEvent) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repositories.TimeEventFilter) ([]*models.TimeEvent, error)
	FindDuplicate(ctx context.Context, raceID, timingPoint string, bib int) (*models.TimeEvent, error)
}

// RaceResultStore is the slice of race-result persistence Processor depends on.
type RaceResultStore interface {
	GetByRaceAndTimingPoint(ctx context.Context, raceID, timingPoint string) (*models.RaceResult, error)
	Create(ctx context.Context, r *models.RaceResult) error
	Update(ctx context.Context, r *models.RaceResult) error
}

// StartEntryStore is the slice of start-entry persistence Processor depends on.
type StartEntryStore interface {
	List(ctx context.Context, filter repositories.StartEntryFilter) ([]*models.StartEntry, error)
	GetByRaceAndBib(ctx context.Context, raceID string, bib int) (*models.StartEntry, error)
	CreateWithTx(tx Tx, e *models.StartEntry) error
	UpdateWithTx(tx Tx, e *models.StartEntry) error
}

// StartlistStore is the slice of startlist persistence Processor depends on.
type StartlistStore interface {
	GetByEventID(ctx context.Context, eventID string) (*models.Startlist, error)
}
