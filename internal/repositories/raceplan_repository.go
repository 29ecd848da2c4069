// internal/repositories/raceplan_repository.go
// Raceplan data access layer

package repositories

import (
	"context"
	"database/sql"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// RaceplanRepository handles raceplan data access
type RaceplanRepository struct {
	db *sql.DB
}

// NewRaceplanRepository creates a new raceplan repository
func NewRaceplanRepository(db *sql.DB) *RaceplanRepository {
	return &RaceplanRepository{db: db}
}

// Create inserts a new raceplan
func (r *RaceplanRepository) Create(ctx context.Context, plan *models.Raceplan) error {
	query := `
		INSERT INTO raceplans (id, event_id, no_of_contestants, races)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, plan.ID, plan.EventID, plan.NoOfContestants, plan.Races)
	return err
}

// CreateWithTx creates a raceplan within a transaction
func (r *RaceplanRepository) CreateWithTx(tx *sql.Tx, plan *models.Raceplan) error {
	query := `
		INSERT INTO raceplans (id, event_id, no_of_contestants, races)
		VALUES (?, ?, ?, ?)
	`
	_, err := tx.ExecContext(context.Background(), query, plan.ID, plan.EventID, plan.NoOfContestants, plan.Races)
	return err
}

// GetByID retrieves a raceplan by ID
func (r *RaceplanRepository) GetByID(ctx context.Context, id string) (*models.Raceplan, error) {
	query := `SELECT id, event_id, no_of_contestants, races FROM raceplans WHERE id = ?`

	var plan models.Raceplan
	err := r.db.QueryRowContext(ctx, query, id).Scan(&plan.ID, &plan.EventID, &plan.NoOfContestants, &plan.Races)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("raceplan %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByEventID retrieves the one raceplan for an event, if any.
func (r *RaceplanRepository) GetByEventID(ctx context.Context, eventID string) (*models.Raceplan, error) {
	query := `SELECT id, event_id, no_of_contestants, races FROM raceplans WHERE event_id = ?`

	var plan models.Raceplan
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&plan.ID, &plan.EventID, &plan.NoOfContestants, &plan.Races)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("no raceplan for event %s", eventID)
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update updates a raceplan
func (r *RaceplanRepository) Update(ctx context.Context, plan *models.Raceplan) error {
	query := `UPDATE raceplans SET no_of_contestants = ?, races = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, plan.NoOfContestants, plan.Races, plan.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res, "raceplan", plan.ID)
}

// UpdateWithTx updates a raceplan within a transaction
func (r *RaceplanRepository) UpdateWithTx(tx *sql.Tx, plan *models.Raceplan) error {
	query := `UPDATE raceplans SET no_of_contestants = ?, races = ? WHERE id = ?`
	_, err := tx.ExecContext(context.Background(), query, plan.NoOfContestants, plan.Races, plan.ID)
	return err
}

// Delete removes a raceplan
func (r *RaceplanRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM raceplans WHERE id = ?`, id)
	return err
}

// DeleteWithTx removes a raceplan within a transaction
func (r *RaceplanRepository) DeleteWithTx(tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(context.Background(), `DELETE FROM raceplans WHERE id = ?`, id)
	return err
}

// List retrieves raceplans, optionally filtered by event id.
func (r *RaceplanRepository) List(ctx context.Context, eventID string) ([]*models.Raceplan, error) {
	query := `SELECT id, event_id, no_of_contestants, races FROM raceplans`
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

	plans := make([]*models.Raceplan, 0)
	for rows.Next() {
		var p models.Raceplan
		if err := rows.Scan(&p.ID, &p.EventID, &p.NoOfContestants, &p.Races); err != nil {
			return nil, err
		}
		plans = append(plans, &p)
	}
	return plans, nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf("%s %s not found", entity, id)
	}
	return nil
}
