package virtual

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// SimulatedClock is a TickFunc source that never sleeps. Running a command
// it produced schedules a timer at now plus the tick's duration; Drain
// fires pending timers in deadline order and moves the clock to each
// deadline, so timer chains that run side by side overlap in time.
type SimulatedClock struct {
	now time.Time
	seq int
}

func NewSimulatedClock(start time.Time) *SimulatedClock {
	return &SimulatedClock{now: start}
}

func (c *SimulatedClock) Now() time.Time {
	return c.now
}

// Elapsed returns how far the clock moved since start.
func (c *SimulatedClock) Elapsed(start time.Time) time.Duration {
	return c.now.Sub(start)
}

func (c *SimulatedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// timerMsg is a scheduled tick waiting in a Drain loop.
type timerMsg struct {
	clock    *SimulatedClock
	deadline time.Time
	seq      int
	fn       func(time.Time) tea.Msg
}

func (t timerMsg) before(o timerMsg) bool {
	if t.deadline.Equal(o.deadline) {
		return t.seq < o.seq
	}
	return t.deadline.Before(o.deadline)
}

func (t timerMsg) fire() tea.Msg {
	if t.deadline.After(t.clock.now) {
		t.clock.now = t.deadline
	}
	return t.fn(t.clock.now)
}

// Tick implements TickFunc.
func (c *SimulatedClock) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		c.seq++
		return timerMsg{clock: c, deadline: c.now.Add(d), seq: c.seq, fn: fn}
	}
}

// Drain runs cmd and every command produced by feeding its messages to
// update, until nothing is left or limit messages were delivered. Batches
// are flattened. Commands run first; simulated timers then fire one at a
// time, earliest deadline first. It returns the number of messages
// delivered.
func Drain(cmd tea.Cmd, update func(tea.Msg) tea.Cmd, limit int) int {
	queue := []tea.Cmd{cmd}
	var timers []timerMsg
	delivered := 0
	for delivered < limit {
		var msg tea.Msg
		switch {
		case len(queue) > 0:
			next := queue[0]
			queue = queue[1:]
			if next == nil {
				continue
			}
			msg = next()
		case len(timers) > 0:
			first := 0
			for i := range timers {
				if timers[i].before(timers[first]) {
					first = i
				}
			}
			t := timers[first]
			timers = append(timers[:first], timers[first+1:]...)
			msg = t.fire()
		default:
			return delivered
		}

		switch m := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, m...)
			continue
		case timerMsg:
			timers = append(timers, m)
			continue
		}
		delivered++
		queue = append(queue, update(msg))
	}
	return delivered
}
