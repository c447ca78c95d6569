package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/dvukovic/acw/internal/cli"
	"github.com/dvukovic/acw/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_level":         cfg.Level,
		"config_adb":           cfg.Defaults.ADB,
		"config_pid_width":     strconv.Itoa(cfg.Defaults.PIDWidth),
		"config_package_width": strconv.Itoa(cfg.Defaults.PackageWidth),
		"config_tag_width":     strconv.Itoa(cfg.Defaults.TagWidth),
	}

	ctx := kong.Parse(&c,
		kong.Name("acw"),
		kong.Description("AndroidConsoleWatcher: filtered, colored logcat streaming\n\nSTART HERE: acw com.example.app"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobals(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		cli.OutputError(globals, err)
		os.Exit(1)
	}
}
