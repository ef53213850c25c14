package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/sjson"
	"github.com/tujuhre12/vscroll/internal/virtual"
)

const (
	appName              = "vscroll"
	defaultDataDirectory = ".vscroll"
	projectConfigName    = ".vscroll.json"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type ListOptions struct {
	Count int `json:"count,omitempty"`
	// EstimatedHeight is the height, in rows, every item starts with
	// before it has been rendered once.
	EstimatedHeight float64 `json:"estimated_height,omitempty"`
	Overrender      int     `json:"overrender,omitempty"`
	// Fixed switches to the constant-height layout; every item is cut to
	// ItemHeight rows.
	Fixed      bool  `json:"fixed,omitempty"`
	ItemHeight int   `json:"item_height,omitempty"`
	Seed       int64 `json:"seed,omitempty"`
}

type ScrollOptions struct {
	Strategy          string  `json:"strategy,omitempty"`
	VariableThreshold int     `json:"variable_threshold,omitempty"`
	FixedThreshold    int     `json:"fixed_threshold,omitempty"`
	BlurDelayMS       int     `json:"blur_delay_ms,omitempty"`
	BlurSettleMS      int     `json:"blur_settle_ms,omitempty"`
	FlashDurationMS   int     `json:"flash_duration_ms,omitempty"`
	FlashSkipDistance float64 `json:"flash_skip_distance,omitempty"` // rows
	FlashSkipRatio    float64 `json:"flash_skip_ratio,omitempty"`
}

type TUIOptions struct {
	Theme string `json:"theme,omitempty"`
}

type Options struct {
	TUI           *TUIOptions `json:"tui,omitempty"`
	Debug         bool        `json:"debug,omitempty"`
	DataDirectory string      `json:"data_directory,omitempty"` // Relative to the cwd
}

// Config holds the configuration for vscroll.
type Config struct {
	List    *ListOptions   `json:"list,omitempty"`
	Scroll  *ScrollOptions `json:"scroll,omitempty"`
	Options *Options       `json:"options,omitempty"`

	// Internal
	workingDir    string   `json:"-"`
	dataConfigDir string   `json:"-"`
	sources       []string `json:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		List: &ListOptions{
			Count:           1000,
			EstimatedHeight: 4,
			Overrender:      10,
			ItemHeight:      3,
			Seed:            1,
		},
		Scroll: &ScrollOptions{
			Strategy:          string(virtual.SmartHybrid),
			VariableThreshold: virtual.DefaultVariableThreshold,
			FixedThreshold:    virtual.DefaultFixedThreshold,
			BlurDelayMS:       200,
			BlurSettleMS:      80,
			FlashDurationMS:   800,
			FlashSkipDistance: 150,
			FlashSkipRatio:    virtual.DefaultSkipRatio,
		},
		Options: &Options{
			TUI: &TUIOptions{Theme: ThemeDark},
		},
	}
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// Sources returns the config files that were merged, in merge order.
func (c *Config) Sources() []string {
	return c.sources
}

// Strategy returns the configured strategy, falling back to smart-hybrid.
func (c *Config) Strategy() virtual.Strategy {
	s, err := virtual.ParseStrategy(c.Scroll.Strategy)
	if err != nil {
		return virtual.SmartHybrid
	}
	return s
}

func (c *Config) Theme() string {
	if c.Options == nil || c.Options.TUI == nil || c.Options.TUI.Theme == "" {
		return ThemeDark
	}
	return c.Options.TUI.Theme
}

// Preferences are the settings a running demo picks up without a restart.
type Preferences struct {
	Strategy string
	Theme    string
}

func (c *Config) Preferences() Preferences {
	return Preferences{Strategy: string(c.Strategy()), Theme: c.Theme()}
}

// Changed returns the fields of next that differ from p. Unchanged fields
// are left empty.
func (p Preferences) Changed(next Preferences) Preferences {
	var out Preferences
	if next.Strategy != p.Strategy {
		out.Strategy = next.Strategy
	}
	if next.Theme != p.Theme {
		out.Theme = next.Theme
	}
	return out
}

func (p Preferences) IsZero() bool {
	return p == Preferences{}
}

// NavigatorOptions translates the scroll section into navigator options for
// the chosen layout.
func (c *Config) NavigatorOptions(fixed bool) virtual.Options {
	s := c.Scroll
	threshold := s.VariableThreshold
	if fixed {
		threshold = s.FixedThreshold
	}
	return virtual.Options{
		Strategy:          c.Strategy(),
		Threshold:         threshold,
		BlurDelay:         time.Duration(s.BlurDelayMS) * time.Millisecond,
		BlurSettle:        time.Duration(s.BlurSettleMS) * time.Millisecond,
		FrameInterval:     virtual.DefaultOptions().FrameInterval,
		FlashDuration:     time.Duration(s.FlashDurationMS) * time.Millisecond,
		FlashSkipDistance: s.FlashSkipDistance,
		FlashSkipRatio:    s.FlashSkipRatio,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	l, s := c.List, c.Scroll
	switch {
	case l.Count < 0:
		return fmt.Errorf("invalid list.count %d: must not be negative", l.Count)
	case l.EstimatedHeight <= 0:
		return fmt.Errorf("invalid list.estimated_height %v: must be positive", l.EstimatedHeight)
	case l.Overrender < 1:
		return fmt.Errorf("invalid list.overrender %d: must be at least 1", l.Overrender)
	case l.ItemHeight < 1:
		return fmt.Errorf("invalid list.item_height %d: must be at least 1", l.ItemHeight)
	case s.VariableThreshold < 0 || s.FixedThreshold < 0:
		return fmt.Errorf("invalid scroll thresholds %d/%d: must not be negative", s.VariableThreshold, s.FixedThreshold)
	case s.BlurDelayMS < 0 || s.BlurSettleMS < 0 || s.FlashDurationMS < 0:
		return fmt.Errorf("invalid scroll durations: must not be negative")
	case s.FlashSkipRatio <= 0 || s.FlashSkipRatio > 1:
		return fmt.Errorf("invalid scroll.flash_skip_ratio %v: must be in (0, 1]", s.FlashSkipRatio)
	}
	if _, err := virtual.ParseStrategy(s.Strategy); err != nil {
		return fmt.Errorf("invalid scroll.strategy: %w", err)
	}
	if theme := c.Theme(); theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("invalid options.tui.theme %q: must be %q or %q", theme, ThemeDark, ThemeLight)
	}
	return nil
}

// SetStrategy changes the strategy and persists it as a preference.
func (c *Config) SetStrategy(s virtual.Strategy) error {
	c.Scroll.Strategy = string(s)
	if err := c.SetConfigField("scroll.strategy", string(s)); err != nil {
		return fmt.Errorf("failed to update preferred strategy: %w", err)
	}
	return nil
}

// SetTheme changes the theme and persists it as a preference.
func (c *Config) SetTheme(theme string) error {
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.TUI == nil {
		c.Options.TUI = &TUIOptions{}
	}
	c.Options.TUI.Theme = theme
	if err := c.SetConfigField("options.tui.theme", theme); err != nil {
		return fmt.Errorf("failed to update preferred theme: %w", err)
	}
	return nil
}

// SetConfigField writes a single field to the data config file, keeping
// everything else in it untouched.
func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
