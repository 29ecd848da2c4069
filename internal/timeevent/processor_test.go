// internal/timeevent/processor_test.go
// Exercises Processor.Ingest against in-memory fakes of the Store
// interfaces in store.go, covering the two orchestration paths that
// previously had no test: DNS/DNF-aware heat completion (heatComplete)
// and propagation fanning out across more than one target heat
// (propagate). Fakes replace a live MySQL/MongoDB pair entirely, so
// these run without any driver or network dependency.

package timeevent

import (
	"context"
	"log"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsf-ski/race-service/internal/apperrors"
	"github.com/nsf-ski/race-service/internal/models"
	"github.com/nsf-ski/race-service/internal/repositories"
)

// --- fakes -----------------------------------------------------------

type fakeTx struct {
	committed bool
	rolled    bool
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolled = true
	}
	return nil
}

type fakeTxBeginner struct{}

func (fakeTxBeginner) BeginTx(ctx context.Context) (Tx, error) {
	return &fakeTx{}, nil
}

type fakeRaceStore struct {
	races map[string]*models.Race
}

func newFakeRaceStore(races ...*models.Race) *fakeRaceStore {
	s := &fakeRaceStore{races: map[string]*models.Race{}}
	for _, r := range races {
		s.races[r.ID] = r
	}
	return s
}

func (s *fakeRaceStore) GetByID(ctx context.Context, id string) (*models.Race, error) {
	r, ok := s.races[id]
	if !ok {
		return nil, apperrors.NotFoundf("race %s not found", id)
	}
	return r, nil
}

func (s *fakeRaceStore) ListByNextRace(ctx context.Context, eventID, raceclass string, round models.SprintRound, index models.SprintIndex) ([]*models.Race, error) {
	var out []*models.Race
	for _, r := range s.races {
		if r.EventID == eventID && r.Raceclass == raceclass && r.Round == round && r.Index == index {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Heat < out[j].Heat })
	return out, nil
}

func (s *fakeRaceStore) UpdateWithTx(tx Tx, race *models.Race) error {
	s.races[race.ID] = race
	return nil
}

type fakeTimeEventStore struct {
	events map[string]*models.TimeEvent
}

func newFakeTimeEventStore() *fakeTimeEventStore {
	return &fakeTimeEventStore{events: map[string]*models.TimeEvent{}}
}

func (s *fakeTimeEventStore) Create(ctx context.Context, e *models.TimeEvent) error {
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *fakeTimeEventStore) Update(ctx context.Context, e *models.TimeEvent) error {
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *fakeTimeEventStore) Delete(ctx context.Context, id string) error {
	delete(s.events, id)
	return nil
}

func (s *fakeTimeEventStore) List(ctx context.Context, filter repositories.TimeEventFilter) ([]*models.TimeEvent, error) {
	var out []*models.TimeEvent
	for _, e := range s.events {
		if filter.RaceID != "" && e.RaceID != filter.RaceID {
			continue
		}
		if filter.TimingPoint != "" && e.TimingPoint != filter.TimingPoint {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeTimeEventStore) FindDuplicate(ctx context.Context, raceID, timingPoint string, bib int) (*models.TimeEvent, error) {
	for _, e := range s.events {
		if e.RaceID == raceID && e.TimingPoint == timingPoint && e.Bib != nil && *e.Bib == bib {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeRaceResultStore struct {
	results map[string]*models.RaceResult
}

func newFakeRaceResultStore() *fakeRaceResultStore {
	return &fakeRaceResultStore{results: map[string]*models.RaceResult{}}
}

func (s *fakeRaceResultStore) key(raceID, timingPoint string) string { return raceID + "/" + timingPoint }

func (s *fakeRaceResultStore) GetByRaceAndTimingPoint(ctx context.Context, raceID, timingPoint string) (*models.RaceResult, error) {
	r, ok := s.results[s.key(raceID, timingPoint)]
	if !ok {
		return nil, apperrors.NotFoundf("no race result for race %s at %s", raceID, timingPoint)
	}
	return r, nil
}

func (s *fakeRaceResultStore) Create(ctx context.Context, r *models.RaceResult) error {
	s.results[s.key(r.RaceID, r.TimingPoint)] = r
	return nil
}

func (s *fakeRaceResultStore) Update(ctx context.Context, r *models.RaceResult) error {
	s.results[s.key(r.RaceID, r.TimingPoint)] = r
	return nil
}

type fakeStartEntryStore struct {
	entries map[string]*models.StartEntry
}

func newFakeStartEntryStore(entries ...*models.StartEntry) *fakeStartEntryStore {
	s := &fakeStartEntryStore{entries: map[string]*models.StartEntry{}}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return s
}

func (s *fakeStartEntryStore) List(ctx context.Context, filter repositories.StartEntryFilter) ([]*models.StartEntry, error) {
	var out []*models.StartEntry
	for _, e := range s.entries {
		if filter.RaceID != "" && e.RaceID != filter.RaceID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeStartEntryStore) GetByRaceAndBib(ctx context.Context, raceID string, bib int) (*models.StartEntry, error) {
	for _, e := range s.entries {
		if e.RaceID == raceID && e.Bib == bib {
			return e, nil
		}
	}
	return nil, apperrors.NotFoundf("no start entry for race %s bib %d", raceID, bib)
}

func (s *fakeStartEntryStore) CreateWithTx(tx Tx, e *models.StartEntry) error {
	s.entries[e.ID] = e
	return nil
}

func (s *fakeStartEntryStore) UpdateWithTx(tx Tx, e *models.StartEntry) error {
	s.entries[e.ID] = e
	return nil
}

type fakeStartlistStore struct{}

func (fakeStartlistStore) GetByEventID(ctx context.Context, eventID string) (*models.Startlist, error) {
	return nil, apperrors.NotFoundf("no startlist for event %s", eventID)
}

type fakeLocker struct{}

func (fakeLocker) Lock(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

// --- tests -------------------------------------------------------------

func finishEvent(eventID, raceID string, bib int, at time.Time) *models.TimeEvent {
	return &models.TimeEvent{
		EventID:          eventID,
		RaceID:           raceID,
		Bib:              bibPtr(bib),
		TimingPoint:      models.TimingPointFinish,
		RegistrationTime: at,
	}
}

// A DNS contestant never submits a Finish time-event. heatComplete must
// still fire once every non-withdrawn contestant has finished, by
// counting the race's DNS/DNF/DSQ start entries alongside the ranked
// sequence (spec.md §4.F.4), and propagation must then run against only
// the finishers who actually crossed the line.
func TestProcessor_HeatCompletesAndPropagatesWithDNSContestant(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	q1 := &models.Race{
		ID:                 "q1",
		Datatype:           models.DatatypeIndividualSprint,
		EventID:            "ev1",
		Raceclass:          "M",
		Round:              models.RoundQ,
		Index:              models.IndexA,
		Heat:               1,
		NoOfContestants:    3,
		MaxNoOfContestants: 3,
		Rule:               models.ProgressionRule{"FA": -1},
	}

	fa1 := &models.Race{
		ID:                 "fa1",
		Datatype:           models.DatatypeIndividualSprint,
		EventID:            "ev1",
		Raceclass:          "M",
		Round:              models.RoundF,
		Index:              models.IndexA,
		Heat:               1,
		NoOfContestants:    0,
		MaxNoOfContestants: 8,
	}

	entries := newFakeStartEntryStore(
		&models.StartEntry{ID: "se1", RaceID: "q1", Bib: 1, Status: models.StatusOK},
		&models.StartEntry{ID: "se2", RaceID: "q1", Bib: 2, Status: models.StatusOK},
		&models.StartEntry{ID: "se3", RaceID: "q1", Bib: 3, Status: models.StatusDNS},
	)

	p := NewProcessorWithStores(
		newFakeRaceStore(q1, fa1),
		newFakeTimeEventStore(),
		newFakeRaceResultStore(),
		entries,
		fakeStartlistStore{},
		fakeTxBeginner{},
		fakeLocker{},
		log.Default(),
	)

	ctx := context.Background()

	_, err := p.Ingest(ctx, finishEvent("ev1", "q1", 1, base))
	require.NoError(t, err)
	assert.Equal(t, 0, fa1.NoOfContestants, "heat must not be complete until bib 2 finishes too")

	_, err = p.Ingest(ctx, finishEvent("ev1", "q1", 2, base.Add(time.Second)))
	require.NoError(t, err)

	assert.Equal(t, 2, fa1.NoOfContestants, "bib 3's DNS must count toward heat completion alongside the two finishers")
	var bibs []int
	for _, id := range fa1.StartEntries {
		bibs = append(bibs, entries.entries[id].Bib)
	}
	sort.Ints(bibs)
	assert.Equal(t, []int{1, 2}, bibs)
}

// A label can resolve to more than one target heat (e.g. SA with
// SHeats=2 for N>=32). Propagation must fill each target heat up to its
// own capacity and spill into the next one, rather than piling every
// placement into the first target and leaving the rest empty.
func TestProcessor_PropagatesAcrossMultipleTargetHeats(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	q1 := &models.Race{
		ID:                 "q1",
		Datatype:           models.DatatypeIndividualSprint,
		EventID:            "ev1",
		Raceclass:          "M",
		Round:              models.RoundQ,
		Index:              models.IndexA,
		Heat:               1,
		NoOfContestants:    4,
		MaxNoOfContestants: 4,
		Rule:               models.ProgressionRule{"SA": -1},
	}

	sa1 := &models.Race{
		ID:                 "sa1",
		Datatype:           models.DatatypeIndividualSprint,
		EventID:            "ev1",
		Raceclass:          "M",
		Round:              models.RoundS,
		Index:              models.IndexA,
		Heat:               1,
		NoOfContestants:    0,
		MaxNoOfContestants: 2,
	}
	sa2 := &models.Race{
		ID:                 "sa2",
		Datatype:           models.DatatypeIndividualSprint,
		EventID:            "ev1",
		Raceclass:          "M",
		Round:              models.RoundS,
		Index:              models.IndexA,
		Heat:               2,
		NoOfContestants:    0,
		MaxNoOfContestants: 2,
	}

	entries := newFakeStartEntryStore(
		&models.StartEntry{ID: "se1", RaceID: "q1", Bib: 1, Status: models.StatusOK},
		&models.StartEntry{ID: "se2", RaceID: "q1", Bib: 2, Status: models.StatusOK},
		&models.StartEntry{ID: "se3", RaceID: "q1", Bib: 3, Status: models.StatusOK},
		&models.StartEntry{ID: "se4", RaceID: "q1", Bib: 4, Status: models.StatusOK},
	)

	p := NewProcessorWithStores(
		newFakeRaceStore(q1, sa1, sa2),
		newFakeTimeEventStore(),
		newFakeRaceResultStore(),
		entries,
		fakeStartlistStore{},
		fakeTxBeginner{},
		fakeLocker{},
		log.Default(),
	)

	ctx := context.Background()
	var err error
	_, err = p.Ingest(ctx, finishEvent("ev1", "q1", 1, base))
	require.NoError(t, err)
	_, err = p.Ingest(ctx, finishEvent("ev1", "q1", 2, base.Add(1*time.Second)))
	require.NoError(t, err)
	_, err = p.Ingest(ctx, finishEvent("ev1", "q1", 3, base.Add(2*time.Second)))
	require.NoError(t, err)
	_, err = p.Ingest(ctx, finishEvent("ev1", "q1", 4, base.Add(3*time.Second)))
	require.NoError(t, err)

	assert.Equal(t, 2, sa1.NoOfContestants, "first target heat should fill to capacity before spilling over")
	assert.Equal(t, 2, sa2.NoOfContestants, "second target heat should receive the overflow")

	bibsIn := func(race *models.Race) []int {
		var bibs []int
		for _, id := range race.StartEntries {
			bibs = append(bibs, entries.entries[id].Bib)
		}
		sort.Ints(bibs)
		return bibs
	}
	assert.Equal(t, []int{1, 2}, bibsIn(sa1))
	assert.Equal(t, []int{3, 4}, bibsIn(sa2))
}
