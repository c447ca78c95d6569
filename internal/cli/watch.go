package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"github.com/dvukovic/acw/internal/adb"
	"github.com/dvukovic/acw/internal/filter"
	"github.com/dvukovic/acw/internal/output"
	"github.com/dvukovic/acw/internal/registry"
	"github.com/dvukovic/acw/internal/stream"
)

// WatchCmd streams logcat output from a device, resolving pids to package
// names and rendering the filtered result as aligned columns.
type WatchCmd struct {
	Packages []string `arg:"" optional:"" help:"Package names to show (com.example.app or com.example.app:process); none shows everything"`

	Tag           []string `short:"t" help:"Only show lines whose tag matches this regex (repeatable, comma-splittable)"`
	IgnoreTag     []string `short:"i" help:"Hide lines whose tag matches this regex (repeatable, comma-splittable)"`
	IgnoreSystem  bool     `short:"I" name:"ignore-system-tags" help:"Hide common framework tags (dalvikvm, ActivityManager, ...)"`
	Regex         string   `short:"r" help:"Only show records whose message body matches this regex"`
	All           bool     `short:"a" help:"Show all lines regardless of package filters"`
	Current       bool     `short:"c" help:"Filter by the application currently on screen"`
	KeepBuffer    bool     `short:"k" name:"keep" help:"Do not clear the device log buffer before streaming"`
	Output        string   `short:"o" help:"Also write the stream to this file (colors stripped)"`
	NoLifecycle   bool     `help:"Suppress process start/death notifications"`
	AlwaysTags    bool     `name:"always-show-tags" help:"Print the tag on every line instead of deduplicating"`
	PIDWidth      int      `name:"pid-width" default:"${config_pid_width}" help:"Width of the pid column"`
	PackageWidth  int      `name:"package-width" default:"${config_package_width}" help:"Width of the package column"`
	TagWidth      int      `name:"tag-width" default:"${config_tag_width}" help:"Width of the tag column; 0 hides it"`

	ADB      string `default:"${config_adb}" help:"Path to the adb binary"`
	Device   bool   `short:"d" xor:"target" help:"Use the only attached USB device"`
	Emulator bool   `short:"e" xor:"target" help:"Use the only running emulator"`
	Serial   string `short:"s" xor:"target" help:"Use the device with this serial"`
}

// Run executes the watch command
func (c *WatchCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := adb.NewManager(c.ADB, adb.DeviceSelector{
		UseDevice:   c.Device,
		UseEmulator: c.Emulator,
		Serial:      c.Serial,
	})

	packages := c.Packages
	if c.Current {
		current, err := mgr.ForegroundPackages(ctx)
		if err != nil {
			return fmt.Errorf("resolve current app: %w", err)
		}
		if len(current) == 0 {
			return fmt.Errorf("could not determine the current application")
		}
		globals.Log.Debugw("filtering by current app", "packages", current)
		packages = append(packages, current...)
	}

	spec, err := buildSpec(packages,
		append(c.Tag, globals.Config.Defaults.Tags...),
		append(c.IgnoreTag, globals.Config.Defaults.IgnoredTags...),
		c.IgnoreSystem || globals.Config.Defaults.HideSystemTags,
		globals.Level, c.Regex, c.All, showLifecycle(c.NoLifecycle, globals.Quiet))
	if err != nil {
		return err
	}

	// A piped stdin replaces the device: `adb logcat | acw com.example.app`.
	var source stream.Source
	piped := !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
	if piped {
		globals.Log.Debugw("reading from stdin")
		source = stream.NewReaderSource("stdin", os.Stdin)
	} else {
		source = stream.NewCommandSource(mgr.LogcatArgv(), mgr.ClearArgv())
	}

	reg := registry.New(nil, registry.DefaultMaxDead, globals.Log)
	if !piped {
		// Processes already running will never log a start line, so seed
		// their names from ps.
		if procs, err := mgr.Snapshot(ctx); err != nil {
			globals.Log.Warnw("process snapshot failed", "error", err)
		} else {
			reg.Preseed(procs)
		}
	}

	return runPipeline(ctx, globals, pipelineConfig{
		source:     source,
		registry:   reg,
		spec:       spec,
		keepBuffer: c.KeepBuffer || piped,
		outputPath: c.Output,
		renderOpts: output.RenderOptions{
			PIDWidth:       c.PIDWidth,
			PackageWidth:   c.PackageWidth,
			TagWidth:       c.TagWidth,
			ShowTags:       showTagColumn(spec, c.AlwaysTags, c.TagWidth),
			AlwaysShowTags: c.AlwaysTags,
			Color:          !globals.NoColor,
		},
	})
}

// pipelineConfig carries everything runPipeline needs beyond globals.
type pipelineConfig struct {
	source     stream.Source
	registry   *registry.Registry
	spec       *filter.Spec
	keepBuffer bool
	outputPath string
	renderOpts output.RenderOptions
}

// runPipeline assembles the renderer and sinks around a source and drives
// the supervisor to completion. Watch and replay share it.
func runPipeline(ctx context.Context, globals *Globals, cfg pipelineConfig) error {
	color := cfg.renderOpts.Color
	if f, ok := globals.Stdout.(*os.File); ok {
		tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if color {
			cfg.renderOpts.Color = tty
		}
		if tty && cfg.renderOpts.Width == 0 {
			// Wrap long messages to the console; on error leave wrapping off.
			if w, _, err := term.GetSize(f.Fd()); err == nil {
				cfg.renderOpts.Width = w
			}
		}
	}

	renderer := output.NewRenderer(cfg.renderOpts, output.NewColorCache(0))

	sinks := []*output.Sink{output.NewConsoleSink(globals.Stdout, cfg.renderOpts.Color)}
	if cfg.outputPath != "" {
		fileSink, err := output.NewFileSink(cfg.outputPath)
		if err != nil {
			return fmt.Errorf("open output file: %w", err)
		}
		sinks = append(sinks, fileSink)
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				globals.Log.Warnw("sink close failed", "sink", s.Name(), "error", err)
			}
		}
	}()

	sup := stream.New(stream.Config{
		Source:     cfg.source,
		Registry:   cfg.registry,
		Engine:     filter.NewEngine(cfg.spec),
		Renderer:   renderer,
		Sinks:      sinks,
		KeepBuffer: cfg.keepBuffer,
		Log:        globals.Log,
	})

	return sup.Run(ctx)
}
