// Package logcat classifies raw logcat output lines against the threadtime
// header grammar and the ActivityManager lifecycle body patterns.
package logcat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dvukovic/acw/internal/domain"
)

// headerLine matches the threadtime format:
//
//	03-14 10:22:01.123  1234  1234 I MyTag: hello
//
// The tag is non-greedy up to the first ": " separator; the separator itself
// is trimmed, everything after it passes through unmodified.
var headerLine = regexp.MustCompile(`^(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+) +(\d+) +(\d+) ([A-Za-z]) (.*?) *: (.*)$`)

// nativeTagsLine is emitted by old runtimes probing enabled tags; pure noise.
var nativeTagsLine = regexp.MustCompile(`.*nativeGetEnabledTags.*`)

// backtraceLine matches native crash frames reported under the DEBUG tag.
var backtraceLine = regexp.MustCompile(`^#(.*?)pc\s(.*?)$`)

// Parser classifies one raw line at a time. It holds no state and is safe to
// reuse across sources.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Classify determines whether a raw line begins a new record, continues the
// open one, or is noise. It never fails; malformed input becomes either a
// continuation (when a record is open, decided by the caller) or noise.
func (p *Parser) Classify(raw string) domain.Line {
	line := strings.TrimRight(raw, "\r\n")

	if nativeTagsLine.MatchString(line) {
		return domain.Line{Kind: domain.KindUnparseable}
	}

	m := headerLine.FindStringSubmatch(line)
	if m == nil {
		return domain.Line{Kind: domain.KindContinuation, Text: line}
	}

	pid, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.Line{Kind: domain.KindUnparseable}
	}
	tid, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.Line{Kind: domain.KindUnparseable}
	}

	tag := strings.TrimSpace(m[5])
	msg := m[6]
	if tag == "DEBUG" {
		msg = DeindentBacktrace(msg)
	}

	return domain.Line{
		Kind: domain.KindRecord,
		Record: &domain.Record{
			Timestamp: m[1],
			PID:       pid,
			TID:       tid,
			Level:     domain.ParseLevelChar(m[4][0]),
			Tag:       tag,
			Message:   []string{msg},
		},
	}
}

// DeindentBacktrace strips leading whitespace from native crash frames so
// stack columns line up under the message column.
func DeindentBacktrace(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if backtraceLine.MatchString(trimmed) {
		return trimmed
	}
	return line
}
