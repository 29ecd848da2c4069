// internal/repositories/startlist_repository.go
// Startlist data access layer

package repositories

import (
	"context"
	"database/sql"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// StartlistRepository handles startlist data access
type StartlistRepository struct {
	db *sql.DB
}

// NewStartlistRepository creates a new startlist repository
func NewStartlistRepository(db *sql.DB) *StartlistRepository {
	return &StartlistRepository{db: db}
}

// Create inserts a new startlist
func (r *StartlistRepository) Create(ctx context.Context, list *models.Startlist) error {
	return r.insert(ctx, r.db, list)
}

// CreateWithTx creates a startlist within a transaction
func (r *StartlistRepository) CreateWithTx(tx *sql.Tx, list *models.Startlist) error {
	return r.insert(context.Background(), tx, list)
}

func (r *StartlistRepository) insert(ctx context.Context, ex execer, list *models.Startlist) error {
	query := `
		INSERT INTO startlists (id, event_id, no_of_contestants, start_entries)
		VALUES (?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query, list.ID, list.EventID, list.NoOfContestants, list.StartEntries)
	return err
}

// GetByID retrieves a startlist by ID
func (r *StartlistRepository) GetByID(ctx context.Context, id string) (*models.Startlist, error) {
	query := `SELECT id, event_id, no_of_contestants, start_entries FROM startlists WHERE id = ?`

	var list models.Startlist
	err := r.db.QueryRowContext(ctx, query, id).Scan(&list.ID, &list.EventID, &list.NoOfContestants, &list.StartEntries)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("startlist %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetByEventID retrieves the one startlist for an event, if any.
func (r *StartlistRepository) GetByEventID(ctx context.Context, eventID string) (*models.Startlist, error) {
	query := `SELECT id, event_id, no_of_contestants, start_entries FROM startlists WHERE event_id = ?`

	var list models.Startlist
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&list.ID, &list.EventID, &list.NoOfContestants, &list.StartEntries)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("no startlist for event %s", eventID)
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Update updates a startlist
func (r *StartlistRepository) Update(ctx context.Context, list *models.Startlist) error {
	query := `UPDATE startlists SET no_of_contestants = ?, start_entries = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, list.NoOfContestants, list.StartEntries, list.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res, "startlist", list.ID)
}

// UpdateWithTx updates a startlist within a transaction
func (r *StartlistRepository) UpdateWithTx(tx *sql.Tx, list *models.Startlist) error {
	query := `UPDATE startlists SET no_of_contestants = ?, start_entries = ? WHERE id = ?`
	_, err := tx.ExecContext(context.Background(), query, list.NoOfContestants, list.StartEntries, list.ID)
	return err
}

// Delete removes a startlist
func (r *StartlistRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM startlists WHERE id = ?`, id)
	return err
}

// DeleteWithTx removes a startlist within a transaction
func (r *StartlistRepository) DeleteWithTx(tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(context.Background(), `DELETE FROM startlists WHERE id = ?`, id)
	return err
}

// List retrieves all startlists, optionally filtered by event id.
func (r *StartlistRepository) List(ctx context.Context, eventID string) ([]*models.Startlist, error) {
	query := `SELECT id, event_id, no_of_contestants, start_entries FROM startlists`
	args := []interface{}{}
	if eventID != "" {
		query += ` WHERE event_id = ?`
		args = append(args, eventID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]*models.Startlist, 0)
	for rows.Next() {
		var l models.Startlist
		if err := rows.Scan(&l.ID, &l.EventID, &l.NoOfContestants, &l.StartEntries); err != nil {
			return nil, err
		}
		lists = append(lists, &l)
	}
	return lists, nil
}
