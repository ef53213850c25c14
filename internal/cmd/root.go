package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/tujuhre12/vscroll/internal/config"
	"github.com/tujuhre12/vscroll/internal/demo"
	"github.com/tujuhre12/vscroll/internal/log"
	"github.com/tujuhre12/vscroll/internal/tui"
	"github.com/tujuhre12/vscroll/internal/version"
	"github.com/tujuhre12/vscroll/internal/virtual"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "Custom vscroll data directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	addListFlags(rootCmd)
	rootCmd.Flags().Int("overrender", 0, "Items rendered above and below the viewport")
	rootCmd.Flags().Int64("seed", 0, "Seed for the generated items")
}

var rootCmd = &cobra.Command{
	Use:   "vscroll",
	Short: "Variable-height virtual list for the terminal",
	Long: heredoc.Doc(`
		vscroll renders a long list of items of different heights and only
		ever lays out the few that are on screen. Jump anywhere in the list
		and watch how each scroll strategy gets there.
	`),
	Example: heredoc.Doc(`
		# Run with the defaults
		vscroll

		# Ten thousand items, always teleporting
		vscroll --count 10000 --strategy blur

		# Fixed-height rows
		vscroll --fixed

		# Run with debug logging in a specific directory
		vscroll -d -c /path/to/project
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log.Setup(filepath.Join(cfg.Options.DataDirectory, "logs", "vscroll.log"), cfg.Options.Debug)
		slog.Info("Starting vscroll", "version", version.Version, "count", cfg.List.Count, "fixed", cfg.List.Fixed)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		items := demo.Generate(cfg.List.Count, cfg.List.Seed)
		program := tea.NewProgram(
			tui.New(cfg, items),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithMouseCellMotion(),
		)

		reloader := newConfigReloader(cmd, cfg)
		go watchConfig(ctx, cfg.Files(), reloader, program)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("vscroll: %w", err)
		}
		return nil
	},
}

// configReloader loads the configuration again with the same flags and
// reports which preferences changed since the previous load. The running
// demo writes its own preferences to disk, so a reload usually carries
// nothing new.
type configReloader struct {
	cmd  *cobra.Command
	cwd  string
	last config.Preferences
}

func newConfigReloader(cmd *cobra.Command, cfg *config.Config) *configReloader {
	return &configReloader{cmd: cmd, cwd: cfg.WorkingDir(), last: cfg.Preferences()}
}

func (r *configReloader) reload() (config.Preferences, error) {
	cfg, err := buildConfig(r.cmd, r.cwd)
	if err != nil {
		return config.Preferences{}, err
	}
	slog.Debug("Config changed", "sources", cfg.Sources())
	next := cfg.Preferences()
	changed := r.last.Changed(next)
	r.last = next
	return changed, nil
}

// watchConfig hands preference changes made to the config files to the
// running program.
func watchConfig(ctx context.Context, files []string, r *configReloader, program *tea.Program) {
	defer log.RecoverPanic("config-watcher", nil)

	err := config.Watch(ctx, files, func() {
		changed, err := r.reload()
		if err != nil {
			slog.Warn("Ignoring invalid config change", "error", err)
			return
		}
		if changed.IsZero() {
			return
		}
		program.Send(tui.ConfigChangedMsg{Changed: changed})
	})
	if err != nil {
		slog.Error("Config watcher stopped", "error", err)
	}
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// addListFlags registers the flags shared by the interactive demo and the
// headless simulation.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("count", 0, "Number of items")
	cmd.Flags().Float64("estimated-height", 0, "Height assumed for items that were never rendered")
	cmd.Flags().StringP("strategy", "s", "", "Scroll strategy (smart, native, blur, flash)")
	cmd.Flags().Int("threshold", 0, "Index distance up to which smart-hybrid scrolls smoothly")
	cmd.Flags().Bool("fixed", false, "Use fixed-height items")
}

// loadConfig resolves the working directory and builds the configuration
// for it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := resolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	return buildConfig(cmd, cwd)
}

// buildConfig loads the configuration for cwd and applies the flags the
// user set explicitly.
func buildConfig(cmd *cobra.Command, cwd string) (*config.Config, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(cwd, dataDir, debug)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return "", fmt.Errorf("failed to change directory: %w", err)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.List.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("estimated-height") {
		cfg.List.EstimatedHeight, _ = flags.GetFloat64("estimated-height")
	}
	if flags.Changed("overrender") {
		cfg.List.Overrender, _ = flags.GetInt("overrender")
	}
	if flags.Changed("seed") {
		cfg.List.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("fixed") {
		cfg.List.Fixed, _ = flags.GetBool("fixed")
	}
	if flags.Changed("strategy") {
		name, _ := flags.GetString("strategy")
		s, err := virtual.ParseStrategy(name)
		if err != nil {
			return fmt.Errorf("invalid --strategy: %w", err)
		}
		cfg.Scroll.Strategy = string(s)
	}
	if flags.Changed("threshold") {
		threshold, _ := flags.GetInt("threshold")
		if cfg.List.Fixed {
			cfg.Scroll.FixedThreshold = threshold
		} else {
			cfg.Scroll.VariableThreshold = threshold
		}
	}
	return nil
}
