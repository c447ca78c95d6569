package output

import (
	"fmt"
	"strings"

	"github.com/dvukovic/acw/internal/domain"
)

// ellipsis marks truncated cells.
const ellipsis = "…"

// RenderOptions configures the column layout. Widths are in display cells.
type RenderOptions struct {
	PIDWidth       int
	PackageWidth   int
	TagWidth       int
	Width          int  // console width; 0 disables message wrapping
	ShowTags       bool // tag column present at all
	AlwaysShowTags bool // repeat the tag even when unchanged
	Color          bool
}

// DefaultRenderOptions mirror the historical column sizes.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		PIDWidth:     5,
		PackageWidth: 20,
		TagWidth:     20,
		Color:        true,
	}
}

// Renderer formats accepted records into display lines. Layout decisions
// (padding, truncation) are made on plain text; styling is applied last, so
// disabling color changes nothing but the escape sequences.
type Renderer struct {
	opts    RenderOptions
	cache   *ColorCache
	lastTag string
}

func NewRenderer(opts RenderOptions, cache *ColorCache) *Renderer {
	if cache == nil {
		cache = NewColorCache(0)
	}
	if opts.PIDWidth <= 0 {
		opts.PIDWidth = 5
	}
	if opts.PackageWidth <= 0 {
		opts.PackageWidth = 20
	}
	if opts.TagWidth < 0 {
		opts.TagWidth = 0
	}
	if opts.TagWidth == 0 {
		opts.ShowTags = false
	}
	return &Renderer{opts: opts, cache: cache}
}

// HeaderWidth is the number of cells before the message column.
func (r *Renderer) HeaderWidth() int {
	w := r.opts.PIDWidth + 1 + r.opts.PackageWidth + 1
	if r.opts.ShowTags {
		w += r.opts.TagWidth + 1
	}
	return w + 3 + 1 // severity cell plus trailing space
}

// Render formats one accepted record. The first display line carries the
// full column header; continuation lines are left-padded to align under the
// message column so stack traces stay readable.
func (r *Renderer) Render(rec *domain.Record, process string) []string {
	owner := process
	if owner == "" {
		owner = fmt.Sprintf("UNKNOWN(%d)", rec.PID)
	}

	var b strings.Builder

	pidCell := padLeft(truncate(fmt.Sprintf("%d", rec.PID), r.opts.PIDWidth), r.opts.PIDWidth)
	pkgCell := padRight(truncate(owner, r.opts.PackageWidth), r.opts.PackageWidth)
	if r.opts.Color {
		ownerStyle := r.cache.StyleFor(owner)
		pidCell = ownerStyle.Render(pidCell)
		pkgCell = ownerStyle.Render(pkgCell)
	}
	b.WriteString(pidCell)
	b.WriteByte(' ')
	b.WriteString(pkgCell)
	b.WriteByte(' ')

	if r.opts.ShowTags {
		tagCell := r.tagCell(rec.Tag)
		b.WriteString(tagCell)
		b.WriteByte(' ')
	}

	levelCell := " " + rec.Level.Letter() + " "
	if r.opts.Color {
		levelCell = LevelStyle(rec.Level).Render(levelCell)
	}
	b.WriteString(levelCell)
	b.WriteByte(' ')

	lines := make([]string, 0, len(rec.Message))
	indent := strings.Repeat(" ", r.HeaderWidth())
	for i, msg := range rec.Message {
		for j, chunk := range r.wrap(msg) {
			if r.opts.Color {
				chunk = applyMessageRules(chunk)
			}
			if i == 0 && j == 0 {
				lines = append(lines, b.String()+chunk)
				continue
			}
			lines = append(lines, indent+chunk)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, b.String())
	}
	return lines
}

// wrap splits a message into console-width chunks so wrapped text stays
// aligned under the message column. Wrapping works on plain text; styling
// is applied per chunk afterwards.
func (r *Renderer) wrap(msg string) []string {
	if r.opts.Width <= 0 {
		return []string{msg}
	}
	avail := r.opts.Width - r.HeaderWidth()
	if avail <= 0 {
		return []string{msg}
	}
	msg = strings.ReplaceAll(msg, "\t", "    ")
	runes := []rune(msg)
	if len(runes) <= avail {
		return []string{msg}
	}
	chunks := make([]string, 0, (len(runes)+avail-1)/avail)
	for start := 0; start < len(runes); start += avail {
		end := start + avail
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// tagCell renders the tag column, blanking repeats so the eye can follow
// bursts from one tag, unless always-show is on.
func (r *Renderer) tagCell(tag string) string {
	if tag == r.lastTag && !r.opts.AlwaysShowTags {
		return strings.Repeat(" ", r.opts.TagWidth)
	}
	r.lastTag = tag
	cell := padLeft(truncate(tag, r.opts.TagWidth), r.opts.TagWidth)
	if r.opts.Color {
		cell = r.cache.StyleFor(tag).Render(cell)
	}
	return cell
}

// RenderEvent formats a synthetic lifecycle notification as one visually
// distinct banner line, bypassing the column layout.
func (r *Renderer) RenderEvent(ev *domain.ProcessEvent) []string {
	// A banner breaks the visual run of tags; show the next one again.
	r.lastTag = ""

	var text string
	switch ev.Kind {
	case domain.ProcessStarted:
		text = fmt.Sprintf(" Process %s created (PID %d)", ev.Package, ev.PID)
		if ev.Target != "" {
			text += " for " + ev.Target
		}
		text += " "
		if r.opts.Color {
			text = Styles.StartBanner.Render(text)
		}
	case domain.ProcessDied:
		text = fmt.Sprintf(" Process %s ended (PID %d)", ev.Package, ev.PID)
		if ev.Reason != "" {
			text += ": " + ev.Reason
		}
		text += " "
		if r.opts.Color {
			text = Styles.DeathBanner.Render(text)
		}
	}
	return []string{text}
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return ellipsis
	}
	return string(runes[:width-1]) + ellipsis
}

func padLeft(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
