package cli

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dvukovic/acw/internal/config"
)

// CLI is the root command structure for AndroidConsoleWatcher
type CLI struct {
	// Global flags
	Level   string `short:"l" default:"${config_level}" enum:"verbose,debug,info,warn,error,fatal" help:"Minimum log level"`
	Quiet   bool   `short:"q" help:"Suppress non-log output (lifecycle banners, informational messages)"`
	Verbose bool   `short:"v" help:"Show diagnostic output (process tracking, stream state)"`
	NoColor bool   `help:"Disable colored output"`

	// Commands
	Watch   WatchCmd   `cmd:"" default:"withargs" help:"Stream and filter logcat output from a device"`
	Devices DevicesCmd `cmd:"" help:"List connected devices and emulators"`
	Replay  ReplayCmd  `cmd:"" help:"Replay a captured logcat file through the same pipeline"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Level   string
	Quiet   bool
	Verbose bool
	NoColor bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Log     *zap.SugaredLogger
}

// NewGlobals creates a new Globals instance with config fallbacks
func NewGlobals(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}

	g := &Globals{
		Level:   cli.Level,
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		NoColor: cli.NoColor,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}

	// Apply config values if CLI flags weren't explicitly set
	if !cli.Quiet && cfg.Quiet {
		g.Quiet = true
	}
	if !cli.Verbose && cfg.Verbose {
		g.Verbose = true
	}
	if !cli.NoColor && cfg.NoColor {
		g.NoColor = true
	}

	g.Log = newDiagLogger(g.Stderr, g.Verbose)

	return g
}

// newDiagLogger builds the diagnostics logger. Diagnostics go to stderr so
// the log stream on stdout stays clean; below verbose only warnings pass.
func newDiagLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core).Sugar()
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	io.WriteString(globals.Stdout, "acw version "+Version+" ("+Commit+")\n")
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
