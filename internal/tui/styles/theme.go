package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgRowEven color.Color
	BgRowOdd  color.Color
	BgSubtle  color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color
	FgInvert color.Color

	Success color.Color
	Warning color.Color
	Info    color.Color

	styles *Styles
}

type Styles struct {
	Base     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Target   lipgloss.Style
	Selected lipgloss.Style
	Key      lipgloss.Style
	Panel    lipgloss.Style
	Track    lipgloss.Style
	Thumb    lipgloss.Style
	Status   lipgloss.Style
	Note     lipgloss.Style
}

func NewDark() *Theme {
	return &Theme{
		Name:   "dark",
		IsDark: true,

		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Tertiary:  charmtone.Julep,
		Accent:    charmtone.Coral,

		BgBase:    charmtone.Pepper,
		BgRowEven: charmtone.Pepper,
		BgRowOdd:  charmtone.BBQ,
		BgSubtle:  charmtone.Charcoal,

		FgBase:   charmtone.Ash,
		FgMuted:  charmtone.Squid,
		FgSubtle: charmtone.Oyster,
		FgInvert: charmtone.Butter,

		Success: charmtone.Guac,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,
	}
}

func NewLight() *Theme {
	return &Theme{
		Name:   "light",
		IsDark: false,

		Primary:   charmtone.Charple,
		Secondary: charmtone.Malibu,
		Tertiary:  charmtone.Guac,
		Accent:    charmtone.Coral,

		BgBase:    charmtone.Salt,
		BgRowEven: charmtone.Salt,
		BgRowOdd:  charmtone.Smoke,
		BgSubtle:  charmtone.Ash,

		FgBase:   charmtone.Pepper,
		FgMuted:  charmtone.Squid,
		FgSubtle: charmtone.Oyster,
		FgInvert: charmtone.Salt,

		Success: charmtone.Guac,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,
	}
}

// ByName returns the light theme for "light" and the dark theme otherwise.
func ByName(name string) *Theme {
	if name == "light" {
		return NewLight()
	}
	return NewDark()
}

func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),
		Title:  base.Foreground(t.Primary).Bold(true),
		Badge: base.
			Foreground(t.FgInvert).
			Background(t.Primary).
			Padding(0, 1),
		Target: base.Foreground(t.Accent).Bold(true),
		Selected: base.
			Foreground(t.FgInvert).
			Background(t.Secondary).
			Padding(0, 1),
		Key:   base.Foreground(t.Tertiary),
		Panel: base.Padding(0, 1),
		Track: base.Foreground(t.BgSubtle),
		Thumb: base.Foreground(t.Primary),
		Status: base.
			Foreground(t.FgInvert).
			Background(t.Info).
			Padding(0, 1),
		Note: base.Foreground(t.FgSubtle).Italic(true),
	}
}

// RowBackground returns the alternating row shade.
func (t *Theme) RowBackground(odd bool) color.Color {
	if odd {
		return t.BgRowOdd
	}
	return t.BgRowEven
}

// Fade blends c towards the theme background. amount 0 returns c, 1 the
// background.
func (t *Theme) Fade(c color.Color, amount float64) color.Color {
	return Blend(c, t.BgBase, amount)
}

// Blend mixes two colors in the Lab color space.
func Blend(from, to color.Color, amount float64) color.Color {
	a, ok := colorful.MakeColor(from)
	if !ok {
		return to
	}
	b, ok := colorful.MakeColor(to)
	if !ok {
		return from
	}
	amount = min(max(amount, 0), 1)
	return lipgloss.Color(a.BlendLab(b, amount).Clamped().Hex())
}
