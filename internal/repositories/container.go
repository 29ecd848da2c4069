// internal/repositories/container.go
// Repository container for dependency injection

package repositories

import (
	"context"
	"database/sql"

	"github.com/nsf-ski/race-service/internal/database"
)

// Container holds all repository instances
type Container struct {
	Raceplan   *RaceplanRepository
	Race       *RaceRepository
	StartEntry *StartEntryRepository
	Startlist  *StartlistRepository
	RaceResult *RaceResultRepository
	TimeEvent  *TimeEventRepository
	db         *sql.DB
}

// NewContainer creates a new repository container
func NewContainer(conn *database.Connections) *Container {
	return &Container{
		Raceplan:   NewRaceplanRepository(conn.MySQL),
		Race:       NewRaceRepository(conn.MySQL),
		StartEntry: NewStartEntryRepository(conn.MySQL),
		Startlist:  NewStartlistRepository(conn.MySQL),
		RaceResult: NewRaceResultRepository(conn.MySQL),
		TimeEvent:  NewTimeEventRepository(conn.MongoDB),
		db:         conn.MySQL,
	}
}

// BeginTx starts a new database transaction
func (c *Container) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}
