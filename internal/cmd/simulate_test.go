package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tujuhre12/vscroll/internal/config"
	"github.com/tujuhre12/vscroll/internal/virtual"
)

func scenarioConfig() *config.Config {
	cfg := config.Defaults()
	cfg.List.Count = 1000
	cfg.List.EstimatedHeight = 80
	cfg.Scroll.FlashSkipDistance = 3000
	return cfg
}

func TestRunSimulation(t *testing.T) {
	t.Parallel()

	t.Run("far jump teleports", func(t *testing.T) {
		t.Parallel()
		r, err := runSimulation(scenarioConfig(), simulateOptions{Viewport: 500, Scroll: 4000, To: "900"})
		require.NoError(t, err)

		assert.Equal(t, 50, r.StartIndex)
		assert.Equal(t, 850, r.IndexDiff)
		assert.Equal(t, string(virtual.SmartHybrid), r.Requested)
		assert.Equal(t, string(virtual.BlurTeleport), r.Strategy)
		assert.Equal(t, "far (850) -> blur teleport", r.Rationale)
		assert.Equal(t, 72000.0, r.TargetOffset)
		assert.Equal(t, 72000.0, r.FinalOffset)
		assert.Equal(t, 900, r.FinalIndex)
		assert.Equal(t, "done", r.State)
		assert.Equal(t, 2, r.Messages)
		assert.Equal(t, int64(296), r.ElapsedMS)

		events := make([]string, len(r.Steps))
		for i, s := range r.Steps {
			events[i] = s.Event
		}
		assert.Equal(t, []string{"start", "blur", "set", "unblur"}, events)
		assert.True(t, r.Steps[2].Blurred, "the jump happens under the blur")
	})

	t.Run("near jump scrolls smoothly", func(t *testing.T) {
		t.Parallel()
		r, err := runSimulation(scenarioConfig(), simulateOptions{Viewport: 500, Scroll: 4000, To: "80"})
		require.NoError(t, err)

		assert.Equal(t, string(virtual.NativeSmooth), r.Strategy)
		assert.Equal(t, "near (30) -> smooth scroll", r.Rationale)
		assert.Equal(t, 6400.0, r.FinalOffset)
		assert.Greater(t, r.Messages, 2)
		for i := 1; i < len(r.Steps); i++ {
			assert.GreaterOrEqual(t, r.Steps[i].Offset, r.Steps[i-1].Offset-1, "no large overshoot")
		}
	})

	t.Run("flash skip", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.Scroll.Strategy = string(virtual.FlashSkip)
		r, err := runSimulation(cfg, simulateOptions{Viewport: 500, Scroll: 4000, To: "900"})
		require.NoError(t, err)

		assert.Equal(t, "flash skip (68000) -> skipping the middle", r.Rationale)
		assert.Equal(t, 72000.0, r.FinalOffset)
		assert.Equal(t, int64(800), r.ElapsedMS)
		assert.Equal(t, 50, r.Messages)
	})

	t.Run("bottom clamps to the scrollable range", func(t *testing.T) {
		t.Parallel()
		r, err := runSimulation(scenarioConfig(), simulateOptions{Viewport: 500, To: "bottom"})
		require.NoError(t, err)

		assert.Equal(t, 999, r.TargetIndex)
		assert.Equal(t, 79500.0, r.FinalOffset)
		assert.Equal(t, 1000, r.WindowEnd)
	})

	t.Run("top", func(t *testing.T) {
		t.Parallel()
		r, err := runSimulation(scenarioConfig(), simulateOptions{Viewport: 500, Scroll: 4000, To: "top"})
		require.NoError(t, err)

		assert.Equal(t, 0, r.TargetIndex)
		assert.Equal(t, 0.0, r.FinalOffset)
	})

	t.Run("measuring corrects the layout", func(t *testing.T) {
		t.Parallel()
		cfg := config.Defaults()
		cfg.List.Count = 200
		r, err := runSimulation(cfg, simulateOptions{Viewport: 24, To: "150", Measure: true})
		require.NoError(t, err)

		assert.Positive(t, r.Measured)
		assert.Less(t, r.Measured, 200)
		assert.Equal(t, "done", r.State)
		assert.Equal(t, 150, r.FinalIndex)
	})

	t.Run("fixed layout", func(t *testing.T) {
		t.Parallel()
		cfg := config.Defaults()
		cfg.List.Count = 10000
		cfg.List.Fixed = true
		r, err := runSimulation(cfg, simulateOptions{Viewport: 24, To: "90"})
		require.NoError(t, err)

		assert.Equal(t, "fixed", r.Layout)
		assert.Equal(t, 100, r.Threshold)
		assert.Equal(t, string(virtual.NativeSmooth), r.Strategy)
		assert.Equal(t, 270.0, r.FinalOffset)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		for _, tt := range []struct {
			name string
			cfg  func() *config.Config
			opts simulateOptions
			want string
		}{
			{"bad target", scenarioConfig, simulateOptions{Viewport: 10, To: "middle"}, "invalid target"},
			{"no viewport", scenarioConfig, simulateOptions{To: "1"}, "viewport must be positive"},
			{"empty list", func() *config.Config {
				cfg := config.Defaults()
				cfg.List.Count = 0
				return cfg
			}, simulateOptions{Viewport: 10, To: "1"}, "list is empty"},
		} {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := runSimulation(tt.cfg(), tt.opts)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}

func TestFormatOutput(t *testing.T) {
	t.Parallel()

	r, err := runSimulation(scenarioConfig(), simulateOptions{Viewport: 500, Scroll: 4000, To: "900"})
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatOutput(&buf, r, "json"))
		var got Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, r.Rationale, got.Rationale)
		assert.Len(t, got.Steps, len(r.Steps))
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatOutput(&buf, r, "YAML"))
		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "blur-teleport", got["strategy"])
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatOutput(&buf, r, "md"))
		assert.True(t, strings.HasPrefix(buf.String(), "# Navigation\n"))
		assert.Contains(t, buf.String(), "| 200 | set | 72000 | 900 | true |")
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatOutput(&buf, r, "text"))
		assert.Contains(t, buf.String(), "900 -> #900: far (850) -> blur teleport")
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, formatOutput(&bytes.Buffer{}, r, "xml"))
	})
}

func TestCommands(t *testing.T) {
	root := t.TempDir()
	t.Setenv("VSCROLL_GLOBAL_CONFIG", filepath.Join(root, "config"))
	t.Setenv("VSCROLL_GLOBAL_DATA", filepath.Join(root, "data"))
	project := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(project, 0o755))
	t.Chdir(project)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		err := rootCmd.ExecuteContext(t.Context())
		return out.String(), err
	}

	out, err := run("simulate", "--count", "1000", "--estimated-height", "80",
		"--viewport", "500", "--scroll", "4000", "--to", "900", "--format", "json")
	require.NoError(t, err)
	var r Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 72000.0, r.FinalOffset)
	assert.Equal(t, string(virtual.BlurTeleport), r.Strategy)

	_, err = run("simulate", "--to", "1", "--strategy", "warp")
	require.Error(t, err)
	assert.ErrorIs(t, err, virtual.ErrUnknownStrategy)

	out, err = run("dirs", "--data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data")+"\n", out)

	_, err = run("dirs", "--config", "--data")
	assert.Error(t, err)

	out, err = run("init", "--strategy", "flash")
	require.NoError(t, err)
	assert.Contains(t, out, ".vscroll.json")
	cfg, err := config.Load(project, "", false)
	require.NoError(t, err)
	assert.Equal(t, virtual.FlashSkip, cfg.Strategy())

	_, err = run("init")
	assert.ErrorIs(t, err, config.ErrProjectConfigExists)
	_, err = run("init", "--force")
	assert.NoError(t, err)
}
