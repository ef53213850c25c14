package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/harmonica"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tujuhre12/vscroll/internal/config"
	"github.com/tujuhre12/vscroll/internal/demo"
	"github.com/tujuhre12/vscroll/internal/log"
	"github.com/tujuhre12/vscroll/internal/tui"
	"github.com/tujuhre12/vscroll/internal/virtual"
)

const (
	// measureWidth is the default row width, in columns, for --measure.
	measureWidth = 76
	// drainLimit stops a runaway simulation.
	drainLimit = 100_000
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a navigation without a terminal",
	Long: heredoc.Doc(`
		Build a list, put its viewport at an offset and navigate to a target
		the way the interactive demo does, on a simulated clock. The report
		shows which strategy ran, why, where the viewport ended up and how
		long it took.
	`),
	Example: heredoc.Doc(`
		# 1000 items of estimated height 80 in a 500 tall viewport
		vscroll simulate --count 1000 --estimated-height 80 --viewport 500 --scroll 4000 --to 900

		# Same jump with flash-skip, as JSON
		vscroll simulate --count 1000 --estimated-height 80 --viewport 500 --to 900 -s flash -f json

		# Measure mounted items with real rendered heights
		vscroll simulate --to bottom --measure --verbose
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			slog.SetDefault(log.NewConsole(cmd.ErrOrStderr(), true))
		}

		opts := simulateOptions{}
		opts.Viewport, _ = cmd.Flags().GetFloat64("viewport")
		opts.Scroll, _ = cmd.Flags().GetFloat64("scroll")
		opts.To, _ = cmd.Flags().GetString("to")
		opts.Measure, _ = cmd.Flags().GetBool("measure")
		opts.Width, _ = cmd.Flags().GetInt("width")
		format, _ := cmd.Flags().GetString("format")

		report, err := runSimulation(cfg, opts)
		if err != nil {
			return err
		}
		return formatOutput(cmd.OutOrStdout(), report, format)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addListFlags(simulateCmd)

	simulateCmd.Flags().Float64("viewport", 24, "Viewport height")
	simulateCmd.Flags().Float64("scroll", 0, "Scroll offset before navigating")
	simulateCmd.Flags().String("to", "", "Target: an index, top or bottom")
	simulateCmd.Flags().Bool("measure", false, "Measure mounted items with their rendered heights")
	simulateCmd.Flags().Int("width", measureWidth, "Row width measured items are rendered at")
	simulateCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml, markdown)")
	simulateCmd.Flags().BoolP("verbose", "v", false, "Trace the navigation on stderr")
	_ = simulateCmd.MarkFlagRequired("to")
}

type simulateOptions struct {
	Viewport float64
	Scroll   float64
	To       string
	Measure  bool
	Width    int
}

// Step is one change of the simulated viewport.
type Step struct {
	AtMS    int64   `json:"at_ms" yaml:"at_ms"`
	Event   string  `json:"event" yaml:"event"`
	Offset  float64 `json:"offset" yaml:"offset"`
	Index   int     `json:"index" yaml:"index"`
	Blurred bool    `json:"blurred" yaml:"blurred"`
}

// Report is the outcome of a simulated navigation.
type Report struct {
	Count        int     `json:"count" yaml:"count"`
	Layout       string  `json:"layout" yaml:"layout"`
	Viewport     float64 `json:"viewport" yaml:"viewport"`
	Target       string  `json:"target" yaml:"target"`
	TargetIndex  int     `json:"target_index" yaml:"target_index"`
	TargetOffset float64 `json:"target_offset" yaml:"target_offset"`
	Requested    string  `json:"requested" yaml:"requested"`
	Strategy     string  `json:"strategy" yaml:"strategy"`
	Threshold    int     `json:"threshold" yaml:"threshold"`
	Rationale    string  `json:"rationale" yaml:"rationale"`
	StartOffset  float64 `json:"start_offset" yaml:"start_offset"`
	StartIndex   int     `json:"start_index" yaml:"start_index"`
	IndexDiff    int     `json:"index_diff" yaml:"index_diff"`
	FinalOffset  float64 `json:"final_offset" yaml:"final_offset"`
	FinalIndex   int     `json:"final_index" yaml:"final_index"`
	WindowStart  int     `json:"window_start" yaml:"window_start"`
	WindowEnd    int     `json:"window_end" yaml:"window_end"`
	TotalHeight  float64 `json:"total_height" yaml:"total_height"`
	Measured     int     `json:"measured" yaml:"measured"`
	State        string  `json:"state" yaml:"state"`
	Messages     int     `json:"messages" yaml:"messages"`
	ElapsedMS    int64   `json:"elapsed_ms" yaml:"elapsed_ms"`
	Steps        []Step  `json:"steps" yaml:"steps"`
}

// headlessHost is a Scroller without a screen. It keeps the offset inside
// the scrollable range, animates smooth scrolls with a spring and, when
// measuring, feeds the rendered heights of mounted items to the layout.
type headlessHost struct {
	virt     *virtual.Virtualizer
	clock    *virtual.SimulatedClock
	start    time.Time
	viewport float64
	heights  []float64

	offset  float64
	blurred bool
	steps   []Step

	spring         harmonica.Spring
	smoothID       int
	smoothing      bool
	smoothTarget   float64
	smoothVelocity float64
}

type hostFrameMsg struct{ id int }

func (h *headlessHost) ScrollOffset() float64 {
	return h.offset
}

func (h *headlessHost) SetScrollOffset(offset float64) {
	if h.smoothing {
		h.smoothing = false
		h.virt.Navigator().SmoothScrollEnded()
	}
	h.place(offset, "set")
}

func (h *headlessHost) SmoothScrollTo(offset float64) tea.Cmd {
	h.smoothID++
	h.smoothing = true
	h.smoothTarget = h.clamp(offset)
	h.smoothVelocity = 0
	h.record("smooth")
	return h.nextFrame()
}

func (h *headlessHost) SetBlurred(blurred bool) {
	h.blurred = blurred
	if blurred {
		h.record("blur")
	} else {
		h.record("unblur")
	}
}

func (h *headlessHost) Update(msg tea.Msg) tea.Cmd {
	if h.virt.Navigator().Owns(msg) {
		return h.virt.Update(msg)
	}
	frame, ok := msg.(hostFrameMsg)
	if !ok || frame.id != h.smoothID || !h.smoothing {
		return nil
	}
	h.smoothTarget = h.clamp(h.smoothTarget)
	var next float64
	next, h.smoothVelocity = h.spring.Update(h.offset, h.smoothVelocity, h.smoothTarget)
	if math.Abs(next-h.smoothTarget) < 0.5 && math.Abs(h.smoothVelocity) < 0.5 {
		h.smoothing = false
		h.place(h.smoothTarget, "frame")
		h.virt.Navigator().SmoothScrollEnded()
		return nil
	}
	h.place(next, "frame")
	return h.nextFrame()
}

func (h *headlessHost) nextFrame() tea.Cmd {
	id := h.smoothID
	return h.clock.Tick(time.Second/60, func(time.Time) tea.Msg {
		return hostFrameMsg{id: id}
	})
}

func (h *headlessHost) clamp(offset float64) float64 {
	if math.IsNaN(offset) {
		return 0
	}
	limit := math.Max(h.virt.TotalHeight()-h.viewport, 0)
	return math.Min(math.Max(offset, 0), limit)
}

// place moves the viewport and, when measuring, mounts the window. A
// measurement can move the end of the list, so the offset is clamped again.
func (h *headlessHost) place(offset float64, event string) {
	h.offset = h.clamp(offset)
	if h.heights != nil {
		window := h.virt.Window(h.offset)
		for i := window.Start; i < window.End; i++ {
			h.virt.Measure(i, h.heights[i])
		}
		h.offset = h.clamp(h.offset)
	}
	h.record(event)
}

func (h *headlessHost) record(event string) {
	step := Step{
		AtMS:    h.clock.Elapsed(h.start).Milliseconds(),
		Event:   event,
		Offset:  h.offset,
		Index:   h.virt.Layout().ResolveStart(h.offset),
		Blurred: h.blurred,
	}
	h.steps = append(h.steps, step)
	slog.Debug("Viewport", "at_ms", step.AtMS, "event", event, "offset", step.Offset, "index", step.Index, "blurred", step.Blurred)
}

func runSimulation(cfg *config.Config, opts simulateOptions) (*Report, error) {
	if opts.Viewport <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %g", opts.Viewport)
	}
	target, ok := virtual.ParseTarget(opts.To)
	if !ok {
		return nil, fmt.Errorf("invalid target %q: expected an index, top or bottom", opts.To)
	}
	if cfg.List.Count == 0 {
		return nil, fmt.Errorf("nothing to navigate: the list is empty")
	}

	fixed := cfg.List.Fixed
	var layout virtual.Layout
	layoutName := "variable"
	if fixed {
		layout = virtual.NewFixed(cfg.List.Count, float64(cfg.List.ItemHeight))
		layoutName = "fixed"
	} else {
		layout = virtual.NewTable(cfg.List.Count, cfg.List.EstimatedHeight)
	}

	clock := virtual.NewSimulatedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	host := &headlessHost{
		clock:    clock,
		start:    clock.Now(),
		viewport: opts.Viewport,
		spring:   harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
	}
	if opts.Measure && !fixed {
		width := opts.Width
		if width <= 0 {
			width = measureWidth
		}
		host.heights = tui.RowHeights(cfg, demo.Generate(cfg.List.Count, cfg.List.Seed), width)
	}
	overrender := max(cfg.List.Overrender, int(math.Ceil(opts.Viewport))+1)
	host.virt = virtual.New(layout, host, overrender,
		virtual.WithOptions(cfg.NavigatorOptions(fixed)),
		virtual.WithTicker(clock.Tick),
		virtual.WithClock(clock.Now),
	)

	host.place(opts.Scroll, "start")
	session, cmd := host.virt.Navigate(target)
	if session == nil {
		return nil, fmt.Errorf("nothing to navigate: the list is empty")
	}
	messages := virtual.Drain(cmd, host.Update, drainLimit)
	if messages >= drainLimit {
		slog.Warn("Simulation stopped before settling", "messages", messages)
	}

	window := host.virt.Window(host.offset)
	measured := layout.Len()
	if tbl, ok := layout.(*virtual.Table); ok {
		measured = tbl.MeasuredCount()
	}
	return &Report{
		Count:        layout.Len(),
		Layout:       layoutName,
		Viewport:     opts.Viewport,
		Target:       target.String(),
		TargetIndex:  session.TargetIndex,
		TargetOffset: session.TargetOffset,
		Requested:    string(session.Requested),
		Strategy:     string(session.Strategy),
		Threshold:    host.virt.Navigator().Threshold(),
		Rationale:    session.Rationale,
		StartOffset:  session.StartOffset,
		StartIndex:   session.StartIndex,
		IndexDiff:    session.IndexDiff,
		FinalOffset:  host.offset,
		FinalIndex:   layout.ResolveStart(host.offset),
		WindowStart:  window.Start,
		WindowEnd:    window.End,
		TotalHeight:  layout.TotalHeight(),
		Measured:     measured,
		State:        session.State.String(),
		Messages:     messages,
		ElapsedMS:    clock.Elapsed(host.start).Milliseconds(),
		Steps:        host.steps,
	}, nil
}

func formatOutput(w io.Writer, report *Report, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return formatJSON(w, report)
	case "yaml":
		return formatYAML(w, report)
	case "markdown", "md":
		return formatMarkdown(w, report)
	case "text":
		return formatText(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(w io.Writer, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func formatYAML(w io.Writer, report *Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Fprint(w, string(data))
	return nil
}

func formatMarkdown(w io.Writer, r *Report) error {
	fmt.Fprintln(w, "# Navigation")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- **Target**: %s (index %d, offset %g)\n", r.Target, r.TargetIndex, r.TargetOffset)
	fmt.Fprintf(w, "- **Strategy**: %s (requested %s, threshold %d)\n", r.Strategy, r.Requested, r.Threshold)
	fmt.Fprintf(w, "- **Rationale**: %s\n", r.Rationale)
	fmt.Fprintf(w, "- **Start**: offset %g, index %d\n", r.StartOffset, r.StartIndex)
	fmt.Fprintf(w, "- **Final**: offset %g, index %d, window %d-%d\n", r.FinalOffset, r.FinalIndex, r.WindowStart, r.WindowEnd)
	fmt.Fprintf(w, "- **Layout**: %s, %d items, total height %g, %d measured\n", r.Layout, r.Count, r.TotalHeight, r.Measured)
	fmt.Fprintf(w, "- **Elapsed**: %dms over %d messages (%s)\n", r.ElapsedMS, r.Messages, r.State)
	fmt.Fprintln(w)

	if len(r.Steps) == 0 {
		return nil
	}
	fmt.Fprintln(w, "## Steps")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| ms | event | offset | index | blurred |")
	fmt.Fprintln(w, "|---:|---|---:|---:|---|")
	for _, s := range r.Steps {
		fmt.Fprintf(w, "| %d | %s | %g | %d | %t |\n", s.AtMS, s.Event, s.Offset, s.Index, s.Blurred)
	}
	return nil
}

func formatText(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "%s -> #%d: %s\n", r.Target, r.TargetIndex, r.Rationale)
	fmt.Fprintf(w, "  strategy  %s (requested %s, threshold %d)\n", r.Strategy, r.Requested, r.Threshold)
	fmt.Fprintf(w, "  start     offset %g, index %d\n", r.StartOffset, r.StartIndex)
	fmt.Fprintf(w, "  final     offset %g, index %d, window %d-%d\n", r.FinalOffset, r.FinalIndex, r.WindowStart, r.WindowEnd)
	fmt.Fprintf(w, "  layout    %s, %d items, total %g, %d measured\n", r.Layout, r.Count, r.TotalHeight, r.Measured)
	fmt.Fprintf(w, "  elapsed   %dms, %d messages, %s\n", r.ElapsedMS, r.Messages, r.State)
	return nil
}
