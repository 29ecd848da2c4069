// internal/repositories/timeevent_repository.go
// TimeEvent data access (MongoDB), grounded on the teacher's
// UserPreferencesRepository collection-per-entity / bson.M query style,
// generalized from a single-document-per-key store into an event stream
// whose documents are inserted on ingest and later replaced (rank, status,
// next race) or deleted.

package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
)

// TimeEventRepository handles time event data access
type TimeEventRepository struct {
	collection *mongo.Collection
}

// NewTimeEventRepository creates a new time event repository
func NewTimeEventRepository(db *mongo.Database) *TimeEventRepository {
	return &TimeEventRepository{
		collection: db.Collection("time_events"),
	}
}

// Create inserts a new time event
func (r *TimeEventRepository) Create(ctx context.Context, event *models.TimeEvent) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetByID retrieves a time event by ID
func (r *TimeEventRepository) GetByID(ctx context.Context, id string) (*models.TimeEvent, error) {
	var event models.TimeEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFoundf("time event %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update replaces a time event's mutable fields (status, next-race resolution, changelog).
func (r *TimeEventRepository) Update(ctx context.Context, event *models.TimeEvent) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("time event %s not found", event.ID)
	}
	return nil
}

// Delete removes a time event
func (r *TimeEventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// TimeEventFilter narrows a List call.
type TimeEventFilter struct {
	EventID     string
	RaceID      string
	TimingPoint string
	Bib         *int
}

func (f TimeEventFilter) toQuery() bson.M {
	query := bson.M{}
	if f.EventID != "" {
		query["event_id"] = f.EventID
	}
	if f.RaceID != "" {
		query["race_id"] = f.RaceID
	}
	if f.TimingPoint != "" {
		query["timing_point"] = f.TimingPoint
	}
	if f.Bib != nil {
		query["bib"] = *f.Bib
	}
	return query
}

// List retrieves time events matching the filter, ordered by registration time.
func (r *TimeEventRepository) List(ctx context.Context, filter TimeEventFilter) ([]*models.TimeEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registration_time", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter.toQuery(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*models.TimeEvent, 0)
	for cursor.Next(ctx) {
		var e models.TimeEvent
		if err := cursor.Decode(&e); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, cursor.Err()
}

// FindDuplicate looks for an existing OK time event at the same race, timing
// point, and bib, used to enforce the idempotent-ingestion invariant: a
// second reading for a contestant already timed at a point is a conflict,
// not a new ranked result.
func (r *TimeEventRepository) FindDuplicate(ctx context.Context, raceID, timingPoint string, bib int) (*models.TimeEvent, error) {
	query := bson.M{
		"race_id":      raceID,
		"timing_point": timingPoint,
		"bib":          bib,
		"status":       models.TimeEventOK,
	}
	var e models.TimeEvent
	err := r.collection.FindOne(ctx, query).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByNextRaceID retrieves the time events whose contestants were
// propagated into a downstream race, in rank order.
func (r *TimeEventRepository) ListByNextRaceID(ctx context.Context, nextRaceID string) ([]*models.TimeEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"next_race_id": nextRaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*models.TimeEvent, 0)
	for cursor.Next(ctx) {
		var e models.TimeEvent
		if err := cursor.Decode(&e); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, cursor.Err()
}
