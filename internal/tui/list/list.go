// Package list is a terminal host for the virtualizer: it owns the scroll
// offset, renders the mounted window, reports rendered heights back to the
// layout and implements the scroll channel the navigator drives.
package list

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/zeebo/xxh3"

	"github.com/tujuhre12/vscroll/internal/virtual"
)

type Item interface {
	ID() string
	// Render returns the item laid out for width. The number of lines in
	// the result is the item's height.
	Render(width int) string
}

const (
	ViewportDefaultScrollSize = 2

	// maxMeasurePasses bounds how often a relayout re-resolves the window
	// after measurements moved it.
	maxMeasurePasses = 3

	smoothFPS       = 60
	smoothFrequency = 6.0
	smoothDamping   = 1.0
)

type confOptions struct {
	width, height   int
	overrender      int
	estimatedHeight float64
	fixedHeight     int
	keyMap          KeyMap
	navOpts         []virtual.NavigatorOption
	scrollbar       bool
	enableMouse     bool
	tick            virtual.TickFunc
	blurStyle       lipgloss.Style
	thumbStyle      lipgloss.Style
	trackStyle      lipgloss.Style
}

type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

// WithOverrender sets the minimum number of items mounted past the start
// index. The list always mounts enough to fill its height.
func WithOverrender(n int) ListOption {
	return func(l *confOptions) {
		l.overrender = n
	}
}

// WithEstimatedHeight sets the height unrendered items are assumed to have.
func WithEstimatedHeight(rows float64) ListOption {
	return func(l *confOptions) {
		l.estimatedHeight = rows
	}
}

// WithFixedHeight switches to the constant-height layout. Every item is
// cut or padded to rows lines.
func WithFixedHeight(rows int) ListOption {
	return func(l *confOptions) {
		l.fixedHeight = rows
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

// WithNavigatorOptions configures the navigator driving the list.
func WithNavigatorOptions(opts ...virtual.NavigatorOption) ListOption {
	return func(l *confOptions) {
		l.navOpts = append(l.navOpts, opts...)
	}
}

func WithScrollbar(enabled bool) ListOption {
	return func(l *confOptions) {
		l.scrollbar = enabled
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// WithTicker sets how smooth scroll frames are scheduled. It is also handed
// to the navigator.
func WithTicker(tick virtual.TickFunc) ListOption {
	return func(l *confOptions) {
		l.tick = tick
	}
}

// WithStyles sets the blur veil and scrollbar styles.
func WithStyles(blur, thumb, track lipgloss.Style) ListOption {
	return func(l *confOptions) {
		l.blurStyle = blur
		l.thumbStyle = thumb
		l.trackStyle = track
	}
}

type smoothStepMsg struct {
	id int
}

type List struct {
	*confOptions

	items []Item
	virt  *virtual.Virtualizer

	offset  float64
	blurred bool

	// Smooth scrolling state. smoothID invalidates frames of an
	// interrupted animation.
	smoothID       int
	smoothing      bool
	smoothTarget   float64
	smoothVelocity float64
	spring         harmonica.Spring

	viewCache map[uint64]string
	window    virtual.Window
	visible   virtual.Window
	rendered  string
}

var _ virtual.Scroller = (*List)(nil)

func New(items []Item, opts ...ListOption) *List {
	l := &List{
		confOptions: &confOptions{
			overrender:      10,
			estimatedHeight: 4,
			keyMap:          DefaultKeyMap(),
			scrollbar:       true,
			tick:            tea.Tick,
			blurStyle:       lipgloss.NewStyle().Faint(true),
		},
		items:     items,
		viewCache: make(map[uint64]string),
		spring:    harmonica.NewSpring(harmonica.FPS(smoothFPS), smoothFrequency, smoothDamping),
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}

	var layout virtual.Layout
	if l.fixedHeight > 0 {
		layout = virtual.NewFixed(len(items), float64(l.fixedHeight))
	} else {
		layout = virtual.NewTable(len(items), l.estimatedHeight)
	}
	navOpts := append([]virtual.NavigatorOption{virtual.WithTicker(l.tick)}, l.navOpts...)
	l.virt = virtual.New(layout, l, l.effectiveOverrender(), navOpts...)
	l.relayout()
	return l
}

func (l *List) Init() tea.Cmd {
	return nil
}

func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	switch msg := msg.(type) {
	case smoothStepMsg:
		if msg.id != l.smoothID || !l.smoothing {
			return l, nil
		}
		return l, l.smoothStep()
	case tea.MouseWheelMsg:
		if l.enableMouse {
			return l, l.handleMouseWheel(msg)
		}
		return l, nil
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, l.keyMap.Down):
			l.MoveDown(1)
		case key.Matches(msg, l.keyMap.Up):
			l.MoveUp(1)
		case key.Matches(msg, l.keyMap.DownOneItem):
			l.scrollToItem(l.virt.Layout().ResolveStart(l.offset) + 1)
		case key.Matches(msg, l.keyMap.UpOneItem):
			l.scrollToItem(l.previousItem())
		case key.Matches(msg, l.keyMap.HalfPageDown):
			l.MoveDown(l.height / 2)
		case key.Matches(msg, l.keyMap.HalfPageUp):
			l.MoveUp(l.height / 2)
		case key.Matches(msg, l.keyMap.PageDown):
			l.MoveDown(l.height)
		case key.Matches(msg, l.keyMap.PageUp):
			l.MoveUp(l.height)
		}
		return l, nil
	}
	if l.virt.Navigator().Owns(msg) {
		cmd := l.virt.Update(msg)
		l.relayout()
		return l, cmd
	}
	return l, nil
}

func (l *List) handleMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseWheelDown:
		l.MoveDown(ViewportDefaultScrollSize)
	case tea.MouseWheelUp:
		l.MoveUp(ViewportDefaultScrollSize)
	}
	return nil
}

func (l *List) View() string {
	return l.rendered
}

// Navigate starts a programmatic jump.
func (l *List) Navigate(target virtual.Target) (*virtual.Session, tea.Cmd) {
	session, cmd := l.virt.Navigate(target)
	l.relayout()
	return session, cmd
}

func (l *List) Navigator() *virtual.Navigator {
	return l.virt.Navigator()
}

func (l *List) Layout() virtual.Layout {
	return l.virt.Layout()
}

func (l *List) Len() int {
	return len(l.items)
}

// Window returns the mounted range of items.
func (l *List) Window() virtual.Window {
	return l.window
}

// Visible returns the range of items with at least one row on screen.
func (l *List) Visible() virtual.Window {
	return l.visible
}

func (l *List) Blurred() bool {
	return l.blurred
}

func (l *List) Smoothing() bool {
	return l.smoothing
}

// MaxOffset is the largest offset that still fills the viewport.
func (l *List) MaxOffset() float64 {
	return math.Max(l.virt.TotalHeight()-float64(l.height), 0)
}

// ScrollOffset implements virtual.Scroller.
func (l *List) ScrollOffset() float64 {
	return l.offset
}

// SetScrollOffset implements virtual.Scroller. It stops any smooth scroll
// in progress.
func (l *List) SetScrollOffset(offset float64) {
	l.stopSmooth()
	l.offset = offset
	l.relayout()
}

// SmoothScrollTo implements virtual.Scroller by animating the offset with a
// critically damped spring.
func (l *List) SmoothScrollTo(offset float64) tea.Cmd {
	l.smoothID++
	l.smoothing = true
	l.smoothTarget = math.Min(math.Max(offset, 0), l.MaxOffset())
	l.smoothVelocity = 0
	return l.nextSmoothFrame()
}

// SetBlurred implements virtual.Scroller.
func (l *List) SetBlurred(blurred bool) {
	if l.blurred == blurred {
		return
	}
	l.blurred = blurred
	l.rendered = l.compose()
}

func (l *List) MoveDown(n int) {
	l.SetScrollOffset(l.offset + float64(n))
}

func (l *List) MoveUp(n int) {
	l.SetScrollOffset(l.offset - float64(n))
}

func (l *List) GetSize() (int, int) {
	return l.width, l.height
}

func (l *List) SetSize(width, height int) {
	if width != l.width {
		clear(l.viewCache)
	}
	l.width = width
	l.height = height
	l.virt.SetOverrender(l.effectiveOverrender())
	l.relayout()
}

// SetStyles replaces the blur veil and scrollbar styles.
func (l *List) SetStyles(blur, thumb, track lipgloss.Style) {
	l.blurStyle = blur
	l.thumbStyle = thumb
	l.trackStyle = track
	l.rendered = l.compose()
}

// Invalidate drops the cached renders of the given items, or of every item
// when no id is given, and lays the list out again.
func (l *List) Invalidate(ids ...string) {
	if len(ids) == 0 {
		clear(l.viewCache)
	}
	width := l.contentWidth()
	for _, id := range ids {
		delete(l.viewCache, cacheKey(id, width))
	}
	l.relayout()
}

func (l *List) scrollToItem(index int) {
	index = min(max(index, 0), len(l.items)-1)
	if index < 0 {
		return
	}
	l.SetScrollOffset(l.virt.Top(index))
}

func (l *List) previousItem() int {
	start := l.virt.Layout().ResolveStart(l.offset)
	if start < len(l.items) && l.virt.Top(start) < l.offset {
		return start
	}
	return start - 1
}

func (l *List) effectiveOverrender() int {
	return max(l.overrender, l.height+1)
}

func (l *List) contentWidth() int {
	if l.scrollbar {
		return max(l.width-1, 0)
	}
	return l.width
}

func (l *List) clampOffset() {
	if math.IsNaN(l.offset) {
		l.offset = 0
	}
	l.offset = math.Min(math.Max(l.offset, 0), l.MaxOffset())
}

// relayout resolves the window for the current offset, measures what is
// mounted and composes the view. Measurements can move the window, so it
// is resolved again until the layout settles.
func (l *List) relayout() {
	if len(l.items) == 0 || l.width <= 0 || l.height <= 0 {
		l.window = virtual.Window{}
		l.visible = virtual.Window{}
		l.rendered = ""
		return
	}

	// An offset at the end stays there while measurements move the end.
	pinned := l.offset > 0 && l.offset >= l.MaxOffset()
	l.clampOffset()
	for range maxMeasurePasses {
		l.window = l.virt.Window(l.offset)
		changed := false
		for i := l.window.Start; i < l.window.End; i++ {
			view := l.itemView(i)
			if l.virt.Measure(i, float64(lipgloss.Height(view))) {
				changed = true
			}
		}
		if pinned {
			l.offset = l.MaxOffset()
		}
		if !changed {
			break
		}
		l.clampOffset()
	}
	// The last clamp may have moved the offset above the measured window.
	l.window = l.virt.Window(l.offset)
	l.rendered = l.compose()
}

func (l *List) compose() string {
	if len(l.items) == 0 || l.width <= 0 || l.height <= 0 {
		return ""
	}

	width := l.contentWidth()
	top := int(math.Floor(l.offset))
	lines := make([]string, 0, l.height)
	l.visible = virtual.Window{Start: l.window.Start, End: l.window.Start}

	for i := l.window.Start; i < l.window.End && len(lines) < l.height; i++ {
		itemTop := int(math.Round(l.virt.Top(i)))
		itemLines := l.itemLines(i)
		skip := max(top-itemTop, 0)
		if skip >= len(itemLines) {
			continue
		}
		for _, line := range itemLines[skip:] {
			if len(lines) == l.height {
				break
			}
			lines = append(lines, line)
		}
		l.visible.End = i + 1
	}

	for len(lines) < l.height {
		lines = append(lines, "")
	}

	var glyphs []string
	var thumb []bool
	if l.scrollbar {
		glyphs, thumb = scrollbarGlyphs(l.height, l.virt.TotalHeight(), float64(l.height), l.offset)
	}

	var sb strings.Builder
	for row, line := range lines {
		if row > 0 {
			sb.WriteByte('\n')
		}
		line = ansi.Truncate(line, width, "")
		if l.blurred {
			line = veil(line, l.blurStyle)
		}
		sb.WriteString(line)
		if pad := width - ansi.StringWidth(line); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		if l.scrollbar {
			if thumb[row] {
				sb.WriteString(l.thumbStyle.Render(glyphs[row]))
			} else {
				sb.WriteString(l.trackStyle.Render(glyphs[row]))
			}
		}
	}
	return sb.String()
}

// itemLines returns the rendered lines of the item, exactly as many as the
// layout says it is tall.
func (l *List) itemLines(index int) []string {
	lines := strings.Split(l.itemView(index), "\n")
	height := int(math.Round(l.virt.Layout().Height(index)))
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (l *List) itemView(index int) string {
	item := l.items[index]
	width := l.contentWidth()
	k := cacheKey(item.ID(), width)
	if view, ok := l.viewCache[k]; ok {
		return view
	}
	view := item.Render(width)
	if l.fixedHeight > 0 {
		lines := strings.Split(view, "\n")
		if len(lines) > l.fixedHeight {
			lines = lines[:l.fixedHeight]
		}
		for len(lines) < l.fixedHeight {
			lines = append(lines, "")
		}
		view = strings.Join(lines, "\n")
	}
	l.viewCache[k] = view
	return view
}

func cacheKey(id string, width int) uint64 {
	return xxh3.HashString(fmt.Sprintf("%s:%d", id, width))
}

func (l *List) stopSmooth() {
	if l.smoothing {
		l.smoothing = false
		l.smoothID++
		l.virt.Navigator().SmoothScrollEnded()
	}
}

func (l *List) smoothStep() tea.Cmd {
	// Measuring items on the way can shrink the content below the target.
	l.smoothTarget = math.Min(l.smoothTarget, l.MaxOffset())
	l.offset, l.smoothVelocity = l.spring.Update(l.offset, l.smoothVelocity, l.smoothTarget)
	if math.Abs(l.offset-l.smoothTarget) < 0.5 && math.Abs(l.smoothVelocity) < 0.5 {
		l.offset = l.smoothTarget
		l.smoothing = false
		l.relayout()
		l.virt.Navigator().SmoothScrollEnded()
		return nil
	}
	l.relayout()
	return l.nextSmoothFrame()
}

func (l *List) nextSmoothFrame() tea.Cmd {
	id := l.smoothID
	return l.tick(time.Second/smoothFPS, func(time.Time) tea.Msg {
		return smoothStepMsg{id: id}
	})
}
