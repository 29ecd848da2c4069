// internal/repositories/race_repository.go
// Race data access layer

package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// RaceRepository handles race data access
type RaceRepository struct {
	db *sql.DB
}

// NewRaceRepository creates a new race repository
func NewRaceRepository(db *sql.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

const raceColumns = `id, datatype, raceclass, race_order, start_time, max_no_of_contestants,
	no_of_contestants, event_id, raceplan_id, start_entries, results, round, sprint_index, heat, rule`

func scanRace(row interface{ Scan(...interface{}) error }) (*models.Race, error) {
	var race models.Race
	err := row.Scan(
		&race.ID, &race.Datatype, &race.Raceclass, &race.Order, &race.StartTime,
		&race.MaxNoOfContestants, &race.NoOfContestants, &race.EventID, &race.RaceplanID,
		&race.StartEntries, &race.Results, &race.Round, &race.Index, &race.Heat, &race.Rule,
	)
	if err != nil {
		return nil, err
	}
	return &race, nil
}

// Create inserts a new race
func (r *RaceRepository) Create(ctx context.Context, race *models.Race) error {
	return r.insert(ctx, r.db, race)
}

// CreateWithTx creates a race within a transaction
func (r *RaceRepository) CreateWithTx(tx *sql.Tx, race *models.Race) error {
	return r.insert(context.Background(), tx, race)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *RaceRepository) insert(ctx context.Context, ex execer, race *models.Race) error {
	query := `
		INSERT INTO races (` + raceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		race.ID, race.Datatype, race.Raceclass, race.Order, race.StartTime,
		race.MaxNoOfContestants, race.NoOfContestants, race.EventID, race.RaceplanID,
		race.StartEntries, race.Results, race.Round, race.Index, race.Heat, race.Rule,
	)
	return err
}

// GetByID retrieves a race by ID
func (r *RaceRepository) GetByID(ctx context.Context, id string) (*models.Race, error) {
	query := `SELECT ` + raceColumns + ` FROM races WHERE id = ?`
	race, err := scanRace(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("race %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return race, nil
}

// Update updates a race's mutable fields (start time, results, status bookkeeping).
func (r *RaceRepository) Update(ctx context.Context, race *models.Race) error {
	return r.update(ctx, r.db, race)
}

// UpdateWithTx updates a race within a transaction
func (r *RaceRepository) UpdateWithTx(tx *sql.Tx, race *models.Race) error {
	return r.update(context.Background(), tx, race)
}

func (r *RaceRepository) update(ctx context.Context, ex execer, race *models.Race) error {
	query := `
		UPDATE races
		SET start_time = ?, no_of_contestants = ?, start_entries = ?, results = ?
		WHERE id = ?
	`
	res, err := ex.ExecContext(ctx, query, race.StartTime, race.NoOfContestants, race.StartEntries, race.Results, race.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res, "race", race.ID)
}

// Delete removes a race
func (r *RaceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM races WHERE id = ?`, id)
	return err
}

// DeleteWithTx removes a race within a transaction
func (r *RaceRepository) DeleteWithTx(tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(context.Background(), `DELETE FROM races WHERE id = ?`, id)
	return err
}

// RaceFilter narrows a List call down to a subset of races.
type RaceFilter struct {
	EventID    string
	RaceplanID string
	Raceclass  string
}

// List retrieves races matching the filter, ordered by race_order.
func (r *RaceRepository) List(ctx context.Context, filter RaceFilter) ([]*models.Race, error) {
	query := `SELECT ` + raceColumns + ` FROM races`
	var clauses []string
	var args []interface{}

	if filter.EventID != "" {
		clauses = append(clauses, "event_id = ?")
		args = append(args, filter.EventID)
	}
	if filter.RaceplanID != "" {
		clauses = append(clauses, "raceplan_id = ?")
		args = append(args, filter.RaceplanID)
	}
	if filter.Raceclass != "" {
		clauses = append(clauses, "raceclass = ?")
		args = append(args, filter.Raceclass)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY race_order ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	races := make([]*models.Race, 0)
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, err
		}
		races = append(races, race)
	}
	return races, nil
}

// ListByNextRace finds the races whose raceclass+round+index match a progression target,
// used by the time-event processor to resolve a next_race tag to a concrete race id.
func (r *RaceRepository) ListByNextRace(ctx context.Context, eventID, raceclass string, round models.SprintRound, index models.SprintIndex) ([]*models.Race, error) {
	query := `SELECT ` + raceColumns + ` FROM races
		WHERE event_id = ? AND raceclass = ? AND round = ? AND sprint_index = ?
		ORDER BY heat ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID, raceclass, round, index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	races := make([]*models.Race, 0)
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, err
		}
		races = append(races, race)
	}
	return races, nil
}
