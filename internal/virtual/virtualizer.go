package virtual

import tea "github.com/charmbracelet/bubbletea/v2"

// Virtualizer bundles a layout, the window resolution around it and a
// navigator driving the host.
type Virtualizer struct {
	layout     Layout
	overrender int
	nav        *Navigator
}

// New returns a virtualizer over layout. overrender is the number of items
// mounted from the start index on.
func New(layout Layout, host Scroller, overrender int, opts ...NavigatorOption) *Virtualizer {
	return &Virtualizer{
		layout:     layout,
		overrender: max(overrender, 1),
		nav:        NewNavigator(layout, host, opts...),
	}
}

func (v *Virtualizer) Layout() Layout {
	return v.layout
}

func (v *Virtualizer) Navigator() *Navigator {
	return v.nav
}

func (v *Virtualizer) Overrender() int {
	return v.overrender
}

func (v *Virtualizer) SetOverrender(n int) {
	v.overrender = max(n, 1)
}

// Window returns the items to mount for a scroll offset.
func (v *Virtualizer) Window(offset float64) Window {
	return VisibleWindow(v.layout.ResolveStart(offset), v.overrender, v.layout.Len())
}

func (v *Virtualizer) Measure(index int, height float64) bool {
	return v.layout.Measure(index, height)
}

func (v *Virtualizer) TotalHeight() float64 {
	return v.layout.TotalHeight()
}

func (v *Virtualizer) Top(index int) float64 {
	return v.layout.Top(index)
}

func (v *Virtualizer) Len() int {
	return v.layout.Len()
}

func (v *Virtualizer) Navigate(target Target) (*Session, tea.Cmd) {
	return v.nav.NavigateTo(target)
}

func (v *Virtualizer) Update(msg tea.Msg) tea.Cmd {
	return v.nav.Update(msg)
}
