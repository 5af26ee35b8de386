package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aatumaykin/inlinegames/internal/logger"
)

func TestDeadline(t *testing.T) {
	clock := newFakeClock()
	d := NewDeadline(clock, 89*time.Second)

	assert.False(t, d.Expired())
	assert.Equal(t, 89*time.Second, d.Remaining())

	clock.Advance(88 * time.Second)
	assert.False(t, d.Expired())
	assert.Equal(t, time.Second, d.Remaining())

	clock.Advance(time.Second)
	assert.True(t, d.Expired())
	assert.Zero(t, d.Remaining())

	clock.Advance(time.Minute)
	assert.True(t, d.Expired())
	assert.Zero(t, d.Remaining())
}

func TestDeadline_NonPositiveBudget(t *testing.T) {
	clock := newFakeClock()
	assert.True(t, NewDeadline(clock, 0).Expired())
	assert.True(t, NewDeadline(clock, -time.Second).Expired())
}

func TestThrottle_SpacesCalls(t *testing.T) {
	clock := newFakeClock()
	th := NewThrottle(clock, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, th.Wait(ctx))
	assert.Empty(t, clock.slept)

	clock.Advance(3 * time.Second)
	require.NoError(t, th.Wait(ctx))
	assert.Equal(t, []time.Duration{7 * time.Second}, clock.slept)

	// enough time already passed
	clock.Advance(15 * time.Second)
	require.NoError(t, th.Wait(ctx))
	assert.Len(t, clock.slept, 1)
}

func TestThrottle_CancelledWait(t *testing.T) {
	clock := newFakeClock()
	th := NewThrottle(clock, 10*time.Second)

	require.NoError(t, th.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, th.Wait(ctx), context.Canceled)
}

func TestSystemClock_Sleep(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := SystemClock{}

	start := time.Now()
	require.NoError(t, clock.Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, clock.Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, clock.Sleep(context.Background(), 0))
}

func TestTempJanitor_Sweep(t *testing.T) {
	clock := newFakeClock()
	dir := t.TempDir()

	old := writeAged(t, dir, "old.png", clock.Now().Add(-120*time.Second))
	fresh := writeAged(t, dir, "fresh.png", clock.Now().Add(-10*time.Second))
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0755))
	require.NoError(t, os.Chtimes(nested, clock.Now().Add(-time.Hour), clock.Now().Add(-time.Hour)))
	deep := writeAged(t, nested, "deep.png", clock.Now().Add(-time.Hour))

	removed := NewTempJanitor(clock, logger.Nop()).Sweep(dir, time.Minute)

	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.DirExists(t, nested)
	assert.FileExists(t, deep)
}

func TestTempJanitor_MissingDir(t *testing.T) {
	j := NewTempJanitor(newFakeClock(), logger.Nop())

	assert.Zero(t, j.Sweep(filepath.Join(t.TempDir(), "missing"), time.Minute))
	assert.Zero(t, j.Sweep("", time.Minute))
}
