package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
)

// ansiEscape matches SGR sequences only; stripping them can never change
// spacing or truncation decisions.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripColor removes color escape sequences from a rendered line.
func StripColor(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Sink is a line-oriented output destination. Every sink receives the same
// logical rendering; a sink configured without color strips the escapes.
type Sink struct {
	name   string
	w      *bufio.Writer
	closer io.Closer
	color  bool
}

// NewConsoleSink wraps a console writer. Color is passed through as-is when
// enabled.
func NewConsoleSink(w io.Writer, color bool) *Sink {
	return &Sink{name: "console", w: bufio.NewWriter(w), color: color}
}

// NewFileSink creates (truncating) the output file. File sinks never carry
// escape sequences; the file must read cleanly without terminal support.
func NewFileSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Sink{name: path, w: bufio.NewWriter(f), closer: f}, nil
}

// NewWriterSink wraps an arbitrary writer, used by tests.
func NewWriterSink(name string, w io.Writer, color bool) *Sink {
	return &Sink{name: name, w: bufio.NewWriter(w), color: color}
}

// Name identifies the sink in error messages.
func (s *Sink) Name() string {
	return s.name
}

// WriteLine writes one rendered display line. Write errors are fatal to the
// run; silently dropping rendered output defeats the tool's purpose, so
// every line is flushed through immediately.
func (s *Sink) WriteLine(line string) error {
	if !s.color {
		line = StripColor(line)
	}
	if _, err := s.w.WriteString(line); err != nil {
		return fmt.Errorf("write to %s: %w", s.name, err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write to %s: %w", s.name, err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", s.name, err)
	}
	return nil
}

// Close flushes buffered output and releases the underlying file, if any.
func (s *Sink) Close() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", s.name, err)
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			return fmt.Errorf("close %s: %w", s.name, err)
		}
	}
	return nil
}
