package output

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dvukovic/acw/internal/domain"
)

// Styles holds the lipgloss styles for rendered output. Severity cells use a
// fixed severity -> color mapping, distinct from the rotating tag palette.
var Styles = struct {
	Verbose      lipgloss.Style
	Debug        lipgloss.Style
	Info         lipgloss.Style
	Warn         lipgloss.Style
	Error        lipgloss.Style
	Fatal        lipgloss.Style
	UnknownLevel lipgloss.Style

	StartBanner lipgloss.Style
	DeathBanner lipgloss.Style
	BannerName  lipgloss.Style

	RuleRed    lipgloss.Style
	RuleGreen  lipgloss.Style
	RuleYellow lipgloss.Style
}{
	Verbose:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")),  // black on bright cyan
	Debug:        lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")),  // black on bright blue
	Info:         lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),  // black on bright green
	Warn:         lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),  // black on bright yellow
	Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("208")), // black on orange
	Fatal:        lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")),   // black on bright red
	UnknownLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("243")),

	StartBanner: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Bold(true),
	DeathBanner: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Bold(true),
	BannerName:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

	RuleRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	RuleGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	RuleYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
}

// LevelStyle returns the severity cell style for a level.
func LevelStyle(l domain.Level) lipgloss.Style {
	switch l {
	case domain.LevelVerbose:
		return Styles.Verbose
	case domain.LevelDebug:
		return Styles.Debug
	case domain.LevelInfo:
		return Styles.Info
	case domain.LevelWarn:
		return Styles.Warn
	case domain.LevelError:
		return Styles.Error
	case domain.LevelFatal:
		return Styles.Fatal
	default:
		return Styles.UnknownLevel
	}
}

// messageRules highlight well-known message shapes. Each rule styles the
// capture groups of its pattern; a nil entry leaves that group plain.
var messageRules = []struct {
	re     *regexp.Regexp
	groups []*lipgloss.Style
}{
	{
		re:     regexp.MustCompile(`^(StrictMode policy violation)(; ~duration=)(\d+ ms)`),
		groups: []*lipgloss.Style{nil, &Styles.RuleRed, &Styles.RuleYellow},
	},
	{
		re:     regexp.MustCompile(`^(GC_(?:CONCURRENT|FOR_M?ALLOC|EXTERNAL_ALLOC|EXPLICIT) )(freed <?\d+.)(, \d+% free \d+./\d+., )(paused \d+ms(?:\+\d+ms)?)`),
		groups: []*lipgloss.Style{nil, &Styles.RuleGreen, nil, &Styles.RuleYellow},
	},
}

// applyMessageRules colorizes recognized parts of a message chunk. Layout is
// decided on plain text before this runs, so highlights only ever add escape
// sequences.
func applyMessageRules(msg string) string {
	for _, rule := range messageRules {
		loc := rule.re.FindStringSubmatchIndex(msg)
		if loc == nil {
			continue
		}

		var b strings.Builder
		last := 0
		for g, style := range rule.groups {
			start, end := loc[2*(g+1)], loc[2*(g+1)+1]
			if start < 0 {
				continue
			}
			b.WriteString(msg[last:start])
			if style != nil {
				b.WriteString(style.Render(msg[start:end]))
			} else {
				b.WriteString(msg[start:end])
			}
			last = end
		}
		b.WriteString(msg[last:])
		return b.String()
	}
	return msg
}
