package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/oikos/disc-backend/internal/database"
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/flow"
	"github.com/oikos/disc-backend/internal/metrics"
	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/repository"
	"github.com/oikos/disc-backend/internal/repository/sqlite"
)

var (
	hong    = model.UserInfo{Name: "Hong", Email: "hong@x.com"}
	admin   = model.UserInfo{Name: "Admin", Email: "admin@oikos.edu"}
	errDown = errors.New("store unavailable")
)

// memStates is an in-memory FlowStateStore that round-trips through JSON
// like the Redis repository does.
type memStates struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStates() *memStates {
	return &memStates{data: map[string][]byte{}}
}

func (m *memStates) Load(_ context.Context, id string) (flow.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[id]
	if !ok {
		return flow.State{}, repository.ErrSessionNotFound
	}
	var s flow.State
	err := json.Unmarshal(raw, &s)
	return s, err
}

func (m *memStates) Save(_ context.Context, id string, s flow.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = raw
	return nil
}

func (m *memStates) CompareAndSwap(_ context.Context, id string, prev, next flow.State) error {
	next.Version = prev.Version + 1
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.data[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	var stored flow.State
	if err := json.Unmarshal(current, &stored); err != nil {
		return err
	}
	if stored.Version != prev.Version {
		return repository.ErrStateConflict
	}
	m.data[id] = raw
	return nil
}

func (m *memStates) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *memStates) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok, nil
}

type memPublisher struct {
	payloads [][]byte
}

func (p *memPublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type failingUsers struct{}

func (failingUsers) Create(context.Context, *model.UserRecord) error { return errDown }

// flakyResults wraps a ResultStore and fails the selected operations.
type flakyResults struct {
	ResultStore
	failCreate bool
	failList   bool
}

func (f *flakyResults) Create(ctx context.Context, res *model.TestResult) error {
	if f.failCreate {
		return errDown
	}
	return f.ResultStore.Create(ctx, res)
}

func (f *flakyResults) ListAll(ctx context.Context) ([]model.TestResult, error) {
	if f.failList {
		return nil, errDown
	}
	return f.ResultStore.ListAll(ctx)
}

func (f *flakyResults) ListByEmail(ctx context.Context, email string) ([]model.TestResult, error) {
	if f.failList {
		return nil, errDown
	}
	return f.ResultStore.ListByEmail(ctx, email)
}

type fixture struct {
	flow      *FlowService
	results   *ResultService
	users     UserStore
	store     *flakyResults
	states    *memStates
	publisher *memPublisher
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	catalog   *disc.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog, err := disc.LoadCatalog("")
	require.NoError(t, err)
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	fx := &fixture{
		users:     sqlite.NewUserRepository(db),
		store:     &flakyResults{ResultStore: sqlite.NewResultRepository(db)},
		states:    newMemStates(),
		publisher: &memPublisher{},
		metrics:   m,
		registry:  registry,
		catalog:   catalog,
	}
	log := zerolog.Nop()
	fx.results = NewResultService(fx.store, sqlite.NewDashboardRepository(db), log)
	fx.flow = NewFlowService(NewPresenter(catalog), fx.users, fx.results, fx.states, fx.publisher, m, log)
	return fx
}

// dispatch applies an action and fails the test on error.
func (fx *fixture) dispatch(t *testing.T, session string, a flow.Action) *View {
	t.Helper()
	v, err := fx.flow.Dispatch(context.Background(), session, a)
	require.NoError(t, err)
	return v
}

// answerAll gives every question the same 4-3-2-1 permutation over D, I, S, C.
func (fx *fixture) answerAll(t *testing.T, session string, perm [4]int) *View {
	t.Helper()
	var v *View
	for q := 0; q < fx.catalog.QuestionCount(); q++ {
		for i, d := range disc.Dimensions {
			v = fx.dispatch(t, session, flow.SetAnswer{Question: q, Dimension: d, Value: perm[i]})
		}
	}
	return v
}
