package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/tujuhre12/vscroll/internal/config"
	"github.com/tujuhre12/vscroll/internal/demo"
	"github.com/tujuhre12/vscroll/internal/tui/list"
	"github.com/tujuhre12/vscroll/internal/tui/logo"
	"github.com/tujuhre12/vscroll/internal/tui/markdown"
	"github.com/tujuhre12/vscroll/internal/tui/styles"
	"github.com/tujuhre12/vscroll/internal/virtual"
)

const (
	sidebarWidth  = 34
	footerHeight  = 1
	logoMinHeight = 40

	footerNote = "Unmeasured rows use an estimated height, so a long jump may " +
		"settle a few rows off until the rows around the target are measured."
)

// ConfigChangedMsg carries the preferences that changed on disk. Empty
// fields did not change and leave the running choice alone.
type ConfigChangedMsg struct {
	Changed config.Preferences
}

type Option func(*appModel)

// WithClock sets how timers are scheduled and what time it is; tests pass
// a simulated clock.
func WithClock(tick virtual.TickFunc, now func() time.Time) Option {
	return func(m *appModel) {
		m.tick = tick
		m.now = now
	}
}

// WithoutPersistence keeps preference changes in memory only.
func WithoutPersistence() Option {
	return func(m *appModel) {
		m.persist = false
	}
}

type appModel struct {
	cfg     *config.Config
	theme   *styles.Theme
	md      *markdown.Renderer
	keyMap  KeyMap
	rows    []*row
	list    *list.List
	input   textinput.Model
	help    help.Model
	tick    virtual.TickFunc
	now     func() time.Time
	persist bool

	width, height int
	jumping       bool
	target        int
	message       string
	session       *virtual.Session
}

// New returns the interactive list demo.
func New(cfg *config.Config, items []demo.Item, opts ...Option) tea.Model {
	m := &appModel{
		cfg:     cfg,
		theme:   styles.ByName(cfg.Theme()),
		keyMap:  DefaultKeyMap(),
		tick:    tea.Tick,
		now:     time.Now,
		persist: true,
		target:  -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.md = markdown.New(m.theme.Name)

	fixed := cfg.List.Fixed
	m.rows = make([]*row, len(items))
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		m.rows[i] = &row{item: item, theme: m.theme, md: m.md, compact: fixed}
		listItems[i] = m.rows[i]
	}

	listOpts := []list.ListOption{
		list.WithOverrender(cfg.List.Overrender),
		list.WithEstimatedHeight(cfg.List.EstimatedHeight),
		list.WithKeyMap(m.keyMap.List),
		list.WithEnableMouse(),
		list.WithTicker(m.tick),
		list.WithNavigatorOptions(
			virtual.WithOptions(cfg.NavigatorOptions(fixed)),
			virtual.WithClock(m.now),
		),
	}
	if fixed {
		listOpts = append(listOpts, list.WithFixedHeight(cfg.List.ItemHeight))
	}
	m.list = list.New(listItems, listOpts...)
	m.applyListStyles()

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.Placeholder = "index, top or bottom"
	m.input.CharLimit = 24

	m.help = help.New()
	return m
}

func (m *appModel) Init() tea.Cmd {
	return nil
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.listWidth(), max(m.height-footerHeight, 0))
		return m, nil
	case ConfigChangedMsg:
		m.applyPreferences(msg.Changed)
		return m, nil
	case tea.KeyPressMsg:
		if m.jumping {
			return m, m.updateJump(msg)
		}
		return m, m.handleKey(msg)
	}

	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m *appModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keyMap.Jump):
		m.jumping = true
		return m.input.Focus()
	case key.Matches(msg, m.keyMap.First):
		return m.navigate(virtual.First)
	case key.Matches(msg, m.keyMap.Last):
		return m.navigate(virtual.Last)
	case key.Matches(msg, m.keyMap.NextStrategy):
		m.setStrategy(m.list.Navigator().Strategy().Next())
		return nil
	case key.Matches(msg, m.keyMap.Theme):
		next := config.ThemeLight
		if m.theme.Name == config.ThemeLight {
			next = config.ThemeDark
		}
		m.setTheme(next)
		if m.persist {
			if err := m.cfg.SetTheme(next); err != nil {
				slog.Warn("Failed to save theme", "error", err)
			}
		}
		return nil
	}
	for i, b := range m.keyMap.strategyBindings() {
		if key.Matches(msg, b) {
			m.setStrategy(virtual.Strategies()[i])
			return nil
		}
	}

	_, cmd := m.list.Update(msg)
	return cmd
}

func (m *appModel) updateJump(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.jumping = false
		m.input.Blur()
		return nil
	case key.Matches(msg, m.keyMap.Submit):
		m.jumping = false
		m.input.Blur()
		target, ok := virtual.ParseTarget(m.input.Value())
		if !ok {
			slog.Debug("Ignoring jump input", "input", m.input.Value())
			return nil
		}
		return m.navigate(target)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.highlight(m.input.Value())
	return cmd
}

func (m *appModel) navigate(target virtual.Target) tea.Cmd {
	session, cmd := m.list.Navigate(target)
	if session == nil {
		return nil
	}
	m.session = session
	m.message = session.Rationale
	return cmd
}

// highlight marks the row whose index matches input.
func (m *appModel) highlight(input string) {
	index := -1
	if target, ok := virtual.ParseTarget(input); ok {
		if raw, isIndex := target.Value(); isIndex {
			if raw >= 0 && raw < len(m.rows) {
				index = raw
			}
		} else if i, ok := target.Resolve(len(m.rows)); ok {
			index = i
		}
	}
	if index == m.target {
		return
	}

	var changed []string
	if m.target >= 0 {
		m.rows[m.target].target = false
		changed = append(changed, m.rows[m.target].ID())
	}
	if index >= 0 {
		m.rows[index].target = true
		changed = append(changed, m.rows[index].ID())
	}
	m.target = index
	m.list.Invalidate(changed...)
}

func (m *appModel) setStrategy(s virtual.Strategy) {
	if m.list.Navigator().Strategy() == s {
		return
	}
	m.list.Navigator().SetStrategy(s)
	m.message = ""
	if m.persist {
		if err := m.cfg.SetStrategy(s); err != nil {
			slog.Warn("Failed to save strategy", "error", err)
		}
	}
}

func (m *appModel) setTheme(name string) {
	if name == m.theme.Name {
		return
	}
	m.theme = styles.ByName(name)
	m.md.SetStyle(m.theme.Name)
	for _, r := range m.rows {
		r.theme = m.theme
	}
	m.applyListStyles()
	m.list.Invalidate()
}

func (m *appModel) applyPreferences(p config.Preferences) {
	// Only preferences apply live; the list itself keeps its shape.
	if p.Strategy != "" {
		s, err := virtual.ParseStrategy(p.Strategy)
		if err != nil {
			slog.Warn("Ignoring unknown strategy", "strategy", p.Strategy)
		} else {
			m.cfg.Scroll.Strategy = string(s)
			if s != m.list.Navigator().Strategy() {
				m.list.Navigator().SetStrategy(s)
				m.message = ""
			}
		}
	}
	if p.Theme != "" {
		if m.cfg.Options.TUI == nil {
			m.cfg.Options.TUI = &config.TUIOptions{}
		}
		m.cfg.Options.TUI.Theme = p.Theme
		m.setTheme(p.Theme)
	}
}

func (m *appModel) applyListStyles() {
	t := m.theme
	s := t.S()
	m.list.SetStyles(
		s.Base.Foreground(t.Fade(t.FgMuted, 0.5)).Faint(true),
		s.Thumb,
		s.Track,
	)
}

func (m *appModel) listWidth() int {
	return max(m.width-sidebarWidth-1, 0)
}

func (m *appModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m *appModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebar(),
		" ",
		m.list.View(),
	)
	footer := m.theme.S().Note.
		Width(m.width).
		MaxHeight(footerHeight).
		Render(footerNote)
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m *appModel) sidebar() string {
	t := m.theme
	s := t.S()
	layout := m.list.Layout()

	var b strings.Builder
	if m.height-footerHeight >= logoMinHeight {
		b.WriteString(logo.Render(t.Primary, t.Secondary))
		b.WriteString("\n")
	}
	b.WriteString(s.Title.Render("vscroll"))
	b.WriteString("\n")
	mode := "variable height"
	if m.cfg.List.Fixed {
		mode = "fixed height"
	}
	b.WriteString(s.Muted.Render(fmt.Sprintf("%d items · %s", layout.Len(), mode)))
	b.WriteString("\n\n")

	visible := m.list.Visible()
	b.WriteString(s.Status.Render(fmt.Sprintf("View: %d - %d", visible.Start, max(visible.End-1, visible.Start))))
	b.WriteString("\n")
	if tbl, ok := layout.(*virtual.Table); ok {
		b.WriteString(s.Subtle.Render(fmt.Sprintf("Measured %d / %d", tbl.MeasuredCount(), tbl.Len())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(s.Title.Render("Strategy"))
	b.WriteString("\n")
	current := m.list.Navigator().Strategy()
	for i, st := range virtual.Strategies() {
		label := fmt.Sprintf("%d %s", i+1, st.Label())
		if st == current {
			b.WriteString(s.Selected.Render("› " + label))
		} else {
			b.WriteString(s.Base.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString(s.Muted.Render(current.Description()))
	b.WriteString("\n\n")

	b.WriteString(s.Title.Render("Jump to"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.message != "" {
		b.WriteString(s.Key.Render(m.message))
		b.WriteString("\n")
	}
	if m.session != nil {
		b.WriteString(s.Subtle.Render(fmt.Sprintf("#%d %s (%s)",
			m.session.TargetIndex, m.session.Strategy.Label(), m.session.State)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keyMap))

	return s.Panel.
		Width(sidebarWidth).
		Height(max(m.height-footerHeight, 0)).
		MaxHeight(max(m.height-footerHeight, 0)).
		Render(b.String())
}
