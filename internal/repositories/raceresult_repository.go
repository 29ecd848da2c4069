// internal/repositories/raceresult_repository.go
// RaceResult data access layer

package repositories

import (
	"context"
	"database/sql"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// RaceResultRepository handles race result data access
type RaceResultRepository struct {
	db *sql.DB
}

// NewRaceResultRepository creates a new race result repository
func NewRaceResultRepository(db *sql.DB) *RaceResultRepository {
	return &RaceResultRepository{db: db}
}

const raceResultColumns = `id, race_id, timing_point, no_of_contestants, ranking_sequence`

func scanRaceResult(row interface{ Scan(...interface{}) error }) (*models.RaceResult, error) {
	var res models.RaceResult
	err := row.Scan(&res.ID, &res.RaceID, &res.TimingPoint, &res.NoOfContestants, &res.RankingSequence)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserts a new race result
func (r *RaceResultRepository) Create(ctx context.Context, res *models.RaceResult) error {
	return r.insert(ctx, r.db, res)
}

// CreateWithTx creates a race result within a transaction
func (r *RaceResultRepository) CreateWithTx(tx *sql.Tx, res *models.RaceResult) error {
	return r.insert(context.Background(), tx, res)
}

func (r *RaceResultRepository) insert(ctx context.Context, ex execer, res *models.RaceResult) error {
	query := `
		INSERT INTO race_results (` + raceResultColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query, res.ID, res.RaceID, res.TimingPoint, res.NoOfContestants, res.RankingSequence)
	return err
}

// GetByID retrieves a race result by ID
func (r *RaceResultRepository) GetByID(ctx context.Context, id string) (*models.RaceResult, error) {
	query := `SELECT ` + raceResultColumns + ` FROM race_results WHERE id = ?`
	res, err := scanRaceResult(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("race result %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByRaceAndTimingPoint retrieves the result document for a race/timing-point pair, if any.
func (r *RaceResultRepository) GetByRaceAndTimingPoint(ctx context.Context, raceID, timingPoint string) (*models.RaceResult, error) {
	query := `SELECT ` + raceResultColumns + ` FROM race_results WHERE race_id = ? AND timing_point = ?`
	res, err := scanRaceResult(r.db.QueryRowContext(ctx, query, raceID, timingPoint))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("no race result for race %s at %s", raceID, timingPoint)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update replaces the ranking sequence of an existing race result, e.g. as new
// time events arrive and the ranking is recomputed.
func (r *RaceResultRepository) Update(ctx context.Context, res *models.RaceResult) error {
	return r.update(ctx, r.db, res)
}

// UpdateWithTx updates a race result within a transaction
func (r *RaceResultRepository) UpdateWithTx(tx *sql.Tx, res *models.RaceResult) error {
	return r.update(context.Background(), tx, res)
}

func (r *RaceResultRepository) update(ctx context.Context, ex execer, res *models.RaceResult) error {
	query := `UPDATE race_results SET no_of_contestants = ?, ranking_sequence = ? WHERE id = ?`
	result, err := ex.ExecContext(ctx, query, res.NoOfContestants, res.RankingSequence, res.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "race result", res.ID)
}

// Delete removes a race result
func (r *RaceResultRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM race_results WHERE id = ?`, id)
	return err
}

// List retrieves all results for a race.
func (r *RaceResultRepository) List(ctx context.Context, raceID string) ([]*models.RaceResult, error) {
	query := `SELECT ` + raceResultColumns + ` FROM race_results WHERE race_id = ?`
	rows, err := r.db.QueryContext(ctx, query, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.RaceResult, 0)
	for rows.Next() {
		res, err := scanRaceResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
