package virtual

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chainMsg struct {
	name string
	left int
}

func TestDrainOverlapsTimers(t *testing.T) {
	t.Parallel()

	clock := NewSimulatedClock(epoch)
	var fired []string
	var at []time.Duration

	chain := func(name string, every time.Duration, left int) tea.Cmd {
		return clock.Tick(every, func(time.Time) tea.Msg {
			return chainMsg{name: name, left: left}
		})
	}
	periods := map[string]time.Duration{"slow": 100 * time.Millisecond, "fast": 30 * time.Millisecond}
	update := func(msg tea.Msg) tea.Cmd {
		m := msg.(chainMsg)
		fired = append(fired, m.name)
		at = append(at, clock.Elapsed(epoch))
		if m.left == 0 {
			return nil
		}
		return chain(m.name, periods[m.name], m.left-1)
	}

	delivered := Drain(tea.Batch(chain("slow", 100*time.Millisecond, 0), chain("fast", 30*time.Millisecond, 2)), update, 100)

	require.Equal(t, 4, delivered)
	assert.Equal(t, []string{"fast", "fast", "fast", "slow"}, fired)
	assert.Equal(t, []time.Duration{
		30 * time.Millisecond,
		60 * time.Millisecond,
		90 * time.Millisecond,
		100 * time.Millisecond,
	}, at)
	assert.Equal(t, 100*time.Millisecond, clock.Elapsed(epoch), "chains overlap instead of adding up")
}

func TestDrainLimit(t *testing.T) {
	t.Parallel()

	clock := NewSimulatedClock(epoch)
	tick := func() tea.Cmd {
		return clock.Tick(time.Second, func(time.Time) tea.Msg { return chainMsg{} })
	}
	delivered := Drain(tick(), func(tea.Msg) tea.Cmd { return tick() }, 5)

	assert.Equal(t, 5, delivered)
	assert.Equal(t, 5*time.Second, clock.Elapsed(epoch))
}
