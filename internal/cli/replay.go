package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dvukovic/acw/internal/output"
	"github.com/dvukovic/acw/internal/registry"
	"github.com/dvukovic/acw/internal/stream"
)

// ReplayCmd runs a captured logcat file through the same parse, track,
// filter and render pipeline as a live stream.
type ReplayCmd struct {
	File     string   `arg:"" help:"Path to a threadtime logcat capture"`
	Packages []string `arg:"" optional:"" help:"Package names to show"`

	Tag          []string `short:"t" help:"Only show lines whose tag matches this regex"`
	IgnoreTag    []string `short:"i" help:"Hide lines whose tag matches this regex"`
	IgnoreSystem bool     `short:"I" name:"ignore-system-tags" help:"Hide common framework tags"`
	Regex        string   `short:"r" help:"Only show records whose message body matches this regex"`
	All          bool     `short:"a" help:"Show all lines regardless of package filters"`
	Output       string   `short:"o" help:"Also write the result to this file (colors stripped)"`
	NoLifecycle  bool     `help:"Suppress process start/death notifications"`
	AlwaysTags   bool     `name:"always-show-tags" help:"Print the tag on every line instead of deduplicating"`
	PIDWidth     int      `name:"pid-width" default:"${config_pid_width}" help:"Width of the pid column"`
	PackageWidth int      `name:"package-width" default:"${config_package_width}" help:"Width of the package column"`
	TagWidth     int      `name:"tag-width" default:"${config_tag_width}" help:"Width of the tag column; 0 hides it"`
}

// Run executes the replay command
func (c *ReplayCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spec, err := buildSpec(c.Packages, c.Tag, c.IgnoreTag, c.IgnoreSystem,
		globals.Level, c.Regex, c.All, showLifecycle(c.NoLifecycle, globals.Quiet))
	if err != nil {
		return err
	}

	return runPipeline(ctx, globals, pipelineConfig{
		source:     stream.NewFileSource(c.File),
		registry:   registry.New(nil, registry.DefaultMaxDead, globals.Log),
		spec:       spec,
		keepBuffer: true,
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
