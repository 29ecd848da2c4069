// internal/timeevent/repoadapter.go
// Bridges *repositories.Container's concrete, *sql.Tx-typed repositories to
// the Store interfaces in store.go. The only gap between them is the
// transaction type: repositories.RaceRepository.UpdateWithTx and
// repositories.StartEntryRepository.{Create,Update}WithTx take a concrete
// *sql.Tx, so they need a one-line cast back from the Tx interface. Every
// other repository method already matches its Store interface exactly.

package timeevent

import (
	"context"
	"database/sql"

	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
)

type raceStoreAdapter struct{ repo *repositories.RaceRepository }

func (a raceStoreAdapter) GetByID(ctx context.Context, id string) (*models.Race, error) {
	return a.repo.GetByID(ctx, id)
}

func (a raceStoreAdapter) ListByNextRace(ctx context.Context, eventID, raceclass string, round models.SprintRound, index models.SprintIndex) ([]*models.Race, error) {
	return a.repo.ListByNextRace(ctx, eventID, raceclass, round, index)
}

func (a raceStoreAdapter) UpdateWithTx(tx Tx, race *models.Race) error {
	return a.repo.UpdateWithTx(tx.(*sql.Tx), race)
}

type startEntryStoreAdapter struct{ repo *repositories.StartEntryRepository }

func (a startEntryStoreAdapter) List(ctx context.Context, filter repositories.StartEntryFilter) ([]*models.StartEntry, error) {
	return a.repo.List(ctx, filter)
}

func (a startEntryStoreAdapter) GetByRaceAndBib(ctx context.Context, raceID string, bib int) (*models.StartEntry, error) {
	return a.repo.GetByRaceAndBib(ctx, raceID, bib)
}

func (a startEntryStoreAdapter) CreateWithTx(tx Tx, e *models.StartEntry) error {
	return a.repo.CreateWithTx(tx.(*sql.Tx), e)
}

func (a startEntryStoreAdapter) UpdateWithTx(tx Tx, e *models.StartEntry) error {
	return a.repo.UpdateWithTx(tx.(*sql.Tx), e)
}

type txBeginnerAdapter struct{ repos *repositories.Container }

func (a txBeginnerAdapter) BeginTx(ctx context.Context) (Tx, error) {
	return a.repos.BeginTx(ctx)
}
