package domain

// Record is one logical log entry. It may span multiple physical lines:
// the header line supplies the structured fields and the first message
// line, continuation lines are appended until the next header arrives.
type Record struct {
	Timestamp string // opaque, passed through as-is
	PID       int
	TID       int
	Level     Level
	Tag       string
	Message   []string // first line plus continuations, in input order
}

// Append adds a continuation line to the record's message.
func (r *Record) Append(line string) {
	r.Message = append(r.Message, line)
}

// Body returns the message joined with newlines, used for body-regex filtering.
func (r *Record) Body() string {
	switch len(r.Message) {
	case 0:
		return ""
	case 1:
		return r.Message[0]
	}
	n := 0
	for _, m := range r.Message {
		n += len(m) + 1
	}
	b := make([]byte, 0, n)
	for i, m := range r.Message {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, m...)
	}
	return string(b)
}

// LineKind classifies one raw input line.
type LineKind int

const (
	// KindRecord marks a line matching the header grammar; Line.Record holds
	// the newly opened record.
	KindRecord LineKind = iota
	// KindContinuation marks a line lacking the header grammar; Line.Text is
	// appended to the currently open record.
	KindContinuation
	// KindUnparseable marks noise that is dropped (counted, never fatal).
	KindUnparseable
)

// Line is the closed classification variant produced by the parser. Exactly
// the fields relevant to the kind are populated.
type Line struct {
	Kind   LineKind
	Record *Record // KindRecord only
	Text   string  // KindContinuation only
}
