package virtual

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// Scroller is the imperative scroll channel a host exposes to the
// navigator. Setting the offset directly must cancel any smooth scroll the
// host still has in flight. A host whose SmoothScrollTo returns a command
// is still animating and reports the end with Navigator.SmoothScrollEnded.
type Scroller interface {
	ScrollOffset() float64
	SetScrollOffset(offset float64)
	SmoothScrollTo(offset float64) tea.Cmd
	SetBlurred(blurred bool)
}

// TickFunc schedules fn after d. tea.Tick satisfies it; tests and the
// headless simulator substitute a SimulatedClock.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options tunes the navigator. Durations are wall-clock, distances are in
// layout units.
type Options struct {
	Strategy Strategy
	// Threshold is the smart-hybrid index distance. Zero selects the
	// default for the layout.
	Threshold         int
	BlurDelay         time.Duration
	BlurSettle        time.Duration
	FrameInterval     time.Duration
	FlashDuration     time.Duration
	FlashSkipDistance float64
	FlashSkipRatio    float64
}

// DefaultOptions returns the navigator defaults. FlashSkipDistance is in
// pixel-like units; terminal hosts usually lower it.
func DefaultOptions() Options {
	return Options{
		Strategy:          SmartHybrid,
		BlurDelay:         200 * time.Millisecond,
		BlurSettle:        80 * time.Millisecond,
		FrameInterval:     16 * time.Millisecond,
		FlashDuration:     800 * time.Millisecond,
		FlashSkipDistance: 3000,
		FlashSkipRatio:    DefaultSkipRatio,
	}
}

type SessionState int

const (
	SessionRunning SessionState = iota
	SessionDone
	SessionSuperseded
)

func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionDone:
		return "done"
	case SessionSuperseded:
		return "superseded"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Session describes one navigation. The navigator owns it; callers may
// read it but should not modify it.
type Session struct {
	TargetIndex  int
	TargetOffset float64
	Requested    Strategy
	Strategy     Strategy
	StartOffset  float64
	StartIndex   int
	IndexDiff    int
	Rationale    string
	Generation   uint64
	State        SessionState
}

type (
	blurSnapMsg   struct{ gen uint64 }
	blurClearMsg  struct{ gen uint64 }
	flashFrameMsg struct {
		gen uint64
		at  time.Time
	}
)

type flashPlan struct {
	start     float64
	distance  float64
	target    float64
	skip      bool
	startedAt time.Time
}

// Navigator moves a host's viewport to a target item using one of the
// scroll strategies. Only the latest session is ever acted on: messages
// from earlier sessions are dropped by generation.
type Navigator struct {
	layout Layout
	host   Scroller
	opts   Options
	tick   TickFunc
	now    func() time.Time

	gen     uint64
	session *Session
	flash   flashPlan
	blurred bool
}

type NavigatorOption func(*Navigator)

// WithOptions replaces all options at once.
func WithOptions(opts Options) NavigatorOption {
	return func(n *Navigator) {
		n.opts = opts
	}
}

func WithStrategy(s Strategy) NavigatorOption {
	return func(n *Navigator) {
		n.opts.Strategy = s
	}
}

func WithThreshold(threshold int) NavigatorOption {
	return func(n *Navigator) {
		n.opts.Threshold = threshold
	}
}

// WithTicker sets how delayed work is scheduled.
func WithTicker(tick TickFunc) NavigatorOption {
	return func(n *Navigator) {
		n.tick = tick
	}
}

// WithClock sets the time source flash-skip progress is measured against.
func WithClock(now func() time.Time) NavigatorOption {
	return func(n *Navigator) {
		n.now = now
	}
}

func NewNavigator(layout Layout, host Scroller, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		layout: layout,
		host:   host,
		opts:   DefaultOptions(),
		tick:   tea.Tick,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	if !n.opts.Strategy.Valid() {
		n.opts.Strategy = SmartHybrid
	}
	return n
}

func (n *Navigator) Options() Options {
	return n.opts
}

func (n *Navigator) Strategy() Strategy {
	return n.opts.Strategy
}

func (n *Navigator) SetStrategy(s Strategy) {
	if s.Valid() {
		n.opts.Strategy = s
	}
}

// Threshold returns the effective smart-hybrid threshold.
func (n *Navigator) Threshold() int {
	if n.opts.Threshold > 0 {
		return n.opts.Threshold
	}
	return DefaultThreshold(n.layout)
}

func (n *Navigator) SetThreshold(threshold int) {
	n.opts.Threshold = max(threshold, 0)
}

// Session returns the latest session, or nil before the first navigation.
func (n *Navigator) Session() *Session {
	return n.session
}

// NavigateInput parses user input with ParseTarget and navigates to it.
// Unparseable input is a no-op.
func (n *Navigator) NavigateInput(input string) (*Session, tea.Cmd) {
	target, ok := ParseTarget(input)
	if !ok {
		slog.Debug("Ignoring navigation input", "input", input)
		return nil, nil
	}
	return n.NavigateTo(target)
}

// NavigateTo starts a new session towards target and supersedes the
// previous one. It returns nil when the list is empty.
func (n *Navigator) NavigateTo(target Target) (*Session, tea.Cmd) {
	index, ok := target.Resolve(n.layout.Len())
	if !ok {
		return nil, nil
	}

	if n.session != nil && n.session.State == SessionRunning {
		n.session.State = SessionSuperseded
	}
	n.gen++

	startOffset := n.host.ScrollOffset()
	startIndex := n.layout.ResolveStart(startOffset)
	diff := index - startIndex
	if diff < 0 {
		diff = -diff
	}
	chosen := Choose(n.opts.Strategy, diff, n.Threshold())

	s := &Session{
		TargetIndex:  index,
		TargetOffset: n.layout.Top(index),
		Requested:    n.opts.Strategy,
		Strategy:     chosen,
		StartOffset:  startOffset,
		StartIndex:   startIndex,
		IndexDiff:    diff,
		Generation:   n.gen,
		State:        SessionRunning,
	}
	s.Rationale = n.rationale(s)
	n.session = s

	slog.Debug("Navigating",
		"target", target.String(),
		"index", index,
		"offset", s.TargetOffset,
		"strategy", chosen,
		"rationale", s.Rationale,
	)

	if chosen != BlurTeleport && n.blurred {
		n.setBlurred(false)
	}

	switch chosen {
	case NativeSmooth:
		cmd := n.host.SmoothScrollTo(s.TargetOffset)
		if cmd == nil {
			s.State = SessionDone
		}
		return s, cmd
	case BlurTeleport:
		n.setBlurred(true)
		gen := n.gen
		return s, n.tick(n.opts.BlurDelay, func(time.Time) tea.Msg {
			return blurSnapMsg{gen: gen}
		})
	case FlashSkip:
		distance := s.TargetOffset - startOffset
		n.flash = flashPlan{
			start:     startOffset,
			distance:  distance,
			target:    s.TargetOffset,
			skip:      math.Abs(distance) > n.opts.FlashSkipDistance,
			startedAt: n.now(),
		}
		return s, n.nextFrame()
	}
	return s, nil
}

// Update consumes the navigator's own timer and frame messages. Messages
// of superseded sessions are ignored.
func (n *Navigator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case blurSnapMsg:
		if !n.current(msg.gen) {
			return nil
		}
		// Items measured while blurred may have moved the target.
		n.session.TargetOffset = n.layout.Top(n.session.TargetIndex)
		n.host.SetScrollOffset(n.session.TargetOffset)
		gen := n.gen
		return n.tick(n.opts.FrameInterval+n.opts.BlurSettle, func(time.Time) tea.Msg {
			return blurClearMsg{gen: gen}
		})
	case blurClearMsg:
		if !n.current(msg.gen) {
			return nil
		}
		n.setBlurred(false)
		n.session.State = SessionDone
		return nil
	case flashFrameMsg:
		if !n.current(msg.gen) {
			return nil
		}
		return n.flashFrame(msg.at)
	}
	return nil
}

// SmoothScrollEnded ends a running native-smooth session once the host's
// animation settled or was interrupted.
func (n *Navigator) SmoothScrollEnded() {
	if n.session != nil && n.session.Strategy == NativeSmooth && n.session.State == SessionRunning {
		n.session.State = SessionDone
	}
}

// Owns reports whether msg is one of the navigator's internal messages.
func (n *Navigator) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case blurSnapMsg, blurClearMsg, flashFrameMsg:
		return true
	}
	return false
}

func (n *Navigator) flashFrame(at time.Time) tea.Cmd {
	var progress float64
	if n.opts.FlashDuration > 0 {
		progress = float64(at.Sub(n.flash.startedAt)) / float64(n.opts.FlashDuration)
	} else {
		progress = 1
	}

	if progress >= 1 {
		n.host.SetScrollOffset(n.flash.target)
		n.session.State = SessionDone
		return nil
	}
	ratio := n.opts.FlashSkipRatio
	if ratio <= 0 {
		ratio = DefaultSkipRatio
	}
	n.host.SetScrollOffset(FlashOffset(n.flash.start, n.flash.distance, progress, n.flash.skip, ratio))
	return n.nextFrame()
}

func (n *Navigator) nextFrame() tea.Cmd {
	gen := n.gen
	return n.tick(n.opts.FrameInterval, func(t time.Time) tea.Msg {
		return flashFrameMsg{gen: gen, at: t}
	})
}

func (n *Navigator) current(gen uint64) bool {
	return n.session != nil && gen == n.gen && n.session.State == SessionRunning
}

func (n *Navigator) setBlurred(blurred bool) {
	n.blurred = blurred
	n.host.SetBlurred(blurred)
}

func (n *Navigator) rationale(s *Session) string {
	switch {
	case s.Requested == SmartHybrid && s.Strategy == NativeSmooth:
		return fmt.Sprintf("near (%d) -> smooth scroll", s.IndexDiff)
	case s.Requested == SmartHybrid:
		return fmt.Sprintf("far (%d) -> blur teleport", s.IndexDiff)
	case s.Strategy == NativeSmooth:
		return "native smooth scroll"
	case s.Strategy == BlurTeleport:
		return "blur teleport"
	case s.Strategy == FlashSkip:
		distance := math.Abs(s.TargetOffset - s.StartOffset)
		if distance > n.opts.FlashSkipDistance {
			return fmt.Sprintf("flash skip (%.0f) -> skipping the middle", distance)
		}
		return fmt.Sprintf("flash skip (%.0f)", distance)
	}
	return string(s.Strategy)
}
