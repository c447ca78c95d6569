package cli

import (
	"errors"
	"fmt"

	"github.com/dvukovic/acw/internal/filter"
	"github.com/dvukovic/acw/internal/stream"
)

// Error codes surfaced on failure, one per pipeline stage.
const (
	CodeInvalidFilter = "INVALID_FILTER"
	CodeSourceFailed  = "SOURCE_FAILED"
	CodeSinkFailed    = "SINK_FAILED"
	CodeInternal      = "INTERNAL"
)

// ErrorCode classifies an error by the stage that produced it.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, filter.ErrInvalidPattern):
		return CodeInvalidFilter
	case errors.Is(err, stream.ErrSource):
		return CodeSourceFailed
	case errors.Is(err, stream.ErrSink):
		return CodeSinkFailed
	default:
		return CodeInternal
	}
}

// OutputError normalizes error emission across commands so failures always
// carry their stage code.
func OutputError(globals *Globals, err error) {
	if globals == nil || err == nil {
		return
	}
	fmt.Fprintf(globals.Stderr, "Error [%s]: %v\n", ErrorCode(err), err)
}
