// internal/repositories/startentry_repository.go
// StartEntry data access layer

package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// StartEntryRepository handles start entry data access
type StartEntryRepository struct {
	db *sql.DB
}

// NewStartEntryRepository creates a new start entry repository
func NewStartEntryRepository(db *sql.DB) *StartEntryRepository {
	return &StartEntryRepository{db: db}
}

const startEntryColumns = `id, race_id, startlist_id, bib, name, club, starting_position,
	scheduled_start_time, actual_start_time, status, changelog`

func scanStartEntry(row interface{ Scan(...interface{}) error }) (*models.StartEntry, error) {
	var e models.StartEntry
	err := row.Scan(
		&e.ID, &e.RaceID, &e.StartlistID, &e.Bib, &e.Name, &e.Club, &e.StartingPosition,
		&e.ScheduledStartTime, &e.ActualStartTime, &e.Status, &e.Changelog,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new start entry
func (r *StartEntryRepository) Create(ctx context.Context, e *models.StartEntry) error {
	return r.insert(ctx, r.db, e)
}

// CreateWithTx creates a start entry within a transaction
func (r *StartEntryRepository) CreateWithTx(tx *sql.Tx, e *models.StartEntry) error {
	return r.insert(context.Background(), tx, e)
}

func (r *StartEntryRepository) insert(ctx context.Context, ex execer, e *models.StartEntry) error {
	query := `
		INSERT INTO start_entries (` + startEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		e.ID, e.RaceID, e.StartlistID, e.Bib, e.Name, e.Club, e.StartingPosition,
		e.ScheduledStartTime, e.ActualStartTime, e.Status, e.Changelog,
	)
	return err
}

// GetByID retrieves a start entry by ID
func (r *StartEntryRepository) GetByID(ctx context.Context, id string) (*models.StartEntry, error) {
	query := `SELECT ` + startEntryColumns + ` FROM start_entries WHERE id = ?`
	e, err := scanStartEntry(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("start entry %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Update persists status, actual start time, and an appended changelog entry.
func (r *StartEntryRepository) Update(ctx context.Context, e *models.StartEntry) error {
	return r.update(ctx, r.db, e)
}

// UpdateWithTx updates a start entry within a transaction
func (r *StartEntryRepository) UpdateWithTx(tx *sql.Tx, e *models.StartEntry) error {
	return r.update(context.Background(), tx, e)
}

func (r *StartEntryRepository) update(ctx context.Context, ex execer, e *models.StartEntry) error {
	query := `
		UPDATE start_entries
		SET bib = ?, starting_position = ?, actual_start_time = ?, status = ?, changelog = ?
		WHERE id = ?
	`
	res, err := ex.ExecContext(ctx, query, e.Bib, e.StartingPosition, e.ActualStartTime, e.Status, e.Changelog, e.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res, "start entry", e.ID)
}

// Delete removes a start entry
func (r *StartEntryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM start_entries WHERE id = ?`, id)
	return err
}

// DeleteWithTx removes a start entry within a transaction
func (r *StartEntryRepository) DeleteWithTx(tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(context.Background(), `DELETE FROM start_entries WHERE id = ?`, id)
	return err
}

// StartEntryFilter narrows a List call.
type StartEntryFilter struct {
	RaceID      string
	StartlistID string
}

// List retrieves start entries matching the filter, ordered by starting position.
func (r *StartEntryRepository) List(ctx context.Context, filter StartEntryFilter) ([]*models.StartEntry, error) {
	query := `SELECT ` + startEntryColumns + ` FROM start_entries`
	var clauses []string
	var args []interface{}

	if filter.RaceID != "" {
		clauses = append(clauses, "race_id = ?")
		args = append(args, filter.RaceID)
	}
	if filter.StartlistID != "" {
		clauses = append(clauses, "startlist_id = ?")
		args = append(args, filter.StartlistID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY starting_position ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.StartEntry, 0)
	for rows.Next() {
		e, err := scanStartEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetByRaceAndBib looks up a contestant's start entry for a given race by bib number,
// used by the time-event processor to resolve an incoming reading to an entry.
func (r *StartEntryRepository) GetByRaceAndBib(ctx context.Context, raceID string, bib int) (*models.StartEntry, error) {
	query := `SELECT ` + startEntryColumns + ` FROM start_entries WHERE race_id = ? AND bib = ?`
	e, err := scanStartEntry(r.db.QueryRowContext(ctx, query, raceID, bib))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("no start entry for race %s bib %d", raceID, bib)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
