package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCommitsAfterInactivity(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	var commits []string
	d := New("", 500*time.Millisecond, func(v string) { commits = append(commits, v) })
	d.afterFunc = clock.AfterFunc

	d.Type("g")
	d.Type("go")
	d.Type("gol")
	assert.Equal(t, "gol", d.Draft(), "draft updates synchronously")
	assert.Empty(t, commits)
	require.Len(t, clock.timers, 3)
	assert.Equal(t, 500*time.Millisecond, clock.timers[2].delay)

	// Earlier timers were reset; firing them is a no-op.
	clock.timers[0].fire()
	clock.timers[1].fire()
	assert.Empty(t, commits)

	clock.timers[2].fire()
	assert.Equal(t, []string{"gol"}, commits)
	assert.False(t, d.Pending())
}

func TestDebouncerSkipsUnchangedValue(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	calls := 0
	d := New("go", 0, func(string) { calls++ })
	d.afterFunc = clock.AfterFunc

	d.Type("gol")
	d.Type("go")
	clock.last().fire()
	assert.Equal(t, 0, calls)
}

func TestDebouncerSyncCancelsPending(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	calls := 0
	d := New("", 0, func(string) { calls++ })
	d.afterFunc = clock.AfterFunc

	d.Type("rust")
	d.Sync("")
	clock.last().fire()

	assert.Equal(t, 0, calls)
	assert.Equal(t, "", d.Draft())
	assert.True(t, clock.last().stopped)
}

func TestDebouncerFlush(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	var got string
	d := New("", 0, func(v string) { got = v })
	d.afterFunc = clock.AfterFunc

	d.Flush()
	assert.Equal(t, "", got)

	d.Type("java")
	d.Flush()
	assert.Equal(t, "java", got)

	clock.last().fire()
	assert.Equal(t, "java", got)
}

func TestDebouncerRealTimer(t *testing.T) {
	t.Parallel()

	done := make(chan string, 1)
	d := New("", 20*time.Millisecond, func(v string) { done <- v })
	d.Type("kotlin")

	select {
	case v := <-done:
		assert.Equal(t, "kotlin", v)
	case <-time.After(time.Second):
		t.Fatal("debounced value was not committed")
	}
}

// --- stubs ---

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[len(c.timers)-1]
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fire 模拟计时器到期；即使已 Stop 也调用回调，以验证过期回调被忽略。
func (t *fakeTimer) fire() {
	t.f()
}
