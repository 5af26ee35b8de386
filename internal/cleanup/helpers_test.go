package cleanup

import (
	"context"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/inlinegames/internal/games"
	"github.com/aatumaykin/inlinegames/internal/storage"
)

// fakeClock only moves when told to or when something sleeps on it.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// spyStore records calls and injects failures on top of a MemoryStore.
type spyStore struct {
	*storage.MemoryStore
	listErr   error
	deleteErr map[string]error
	gets      []string
	deletes   []string
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryStore: storage.NewMemoryStore(), deleteErr: map[string]error{}}
}

func (s *spyStore) ListStale(ctx context.Context, threshold time.Duration) (iter.Seq2[storage.Candidate, error], error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.MemoryStore.ListStale(ctx, threshold)
}

func (s *spyStore) Get(ctx context.Context, id string) (*storage.Record, error) {
	s.gets = append(s.gets, id)
	return s.MemoryStore.Get(ctx, id)
}

func (s *spyStore) Delete(ctx context.Context, id string) (bool, error) {
	s.deletes = append(s.deletes, id)
	if err := s.deleteErr[id]; err != nil {
		return false, err
	}
	return s.MemoryStore.Delete(ctx, id)
}

func (s *spyStore) add(t *testing.T, id, gameCode string, age time.Duration) {
	t.Helper()
	payload := fmt.Sprintf(`{"game_code":%q,"data":{}}`, gameCode)
	require.NoError(t, s.Save(context.Background(), storage.Record{
		ID:         id,
		Payload:    []byte(payload),
		LastActive: time.Now().Add(-age),
	}))
}

// fakeGateway records notifications. cost advances the clock per clear.
type fakeGateway struct {
	clock   *fakeClock
	cost    time.Duration
	fail    map[string]string
	onClear func()
	signals int
	cleared []string
	notices []Notice
	stamps  []time.Time
}

func newFakeGateway(clock *fakeClock) *fakeGateway {
	return &fakeGateway{clock: clock, fail: map[string]string{}}
}

func (g *fakeGateway) SignalActivity(context.Context) {
	g.signals++
}

func (g *fakeGateway) ClearSession(ctx context.Context, sessionID string, notice Notice) NotifyResult {
	g.stamps = append(g.stamps, g.clock.Now())
	g.cleared = append(g.cleared, sessionID)
	g.notices = append(g.notices, notice)
	g.clock.Advance(g.cost)

	if g.onClear != nil {
		g.onClear()
	}
	// a real request is dropped once its context is done
	if err := ctx.Err(); err != nil {
		return NotifyResult{OK: false, Description: err.Error()}
	}

	if desc, ok := g.fail[sessionID]; ok {
		return NotifyResult{OK: false, Description: desc}
	}
	return NotifyResult{OK: true}
}

// expireAfter reports expired once it has been checked more than n times.
type expireAfter struct {
	n      int
	checks int
}

func (e *expireAfter) Expired() bool {
	e.checks++
	return e.checks > e.n
}

func (e *expireAfter) Remaining() time.Duration {
	if e.checks > e.n {
		return 0
	}
	return time.Minute
}

type recorderFunc func(Stats)

func (f recorderFunc) Observe(s Stats) { f(s) }

func newTestRunner(store SessionStore, gw Gateway, clock Clock, cfg Config, disabled ...string) *Runner {
	return NewRunner(cfg, Deps{
		Store:   store,
		Gateway: gw,
		Games:   games.NewRegistry(games.Builtin, disabled),
		Clock:   clock,
	})
}
