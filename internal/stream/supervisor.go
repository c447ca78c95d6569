package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dvukovic/acw/internal/domain"
	"github.com/dvukovic/acw/internal/filter"
	"github.com/dvukovic/acw/internal/logcat"
	"github.com/dvukovic/acw/internal/output"
	"github.com/dvukovic/acw/internal/registry"
)

// Failure classes for exit-code mapping by the CLI layer.
var (
	// ErrSource marks a read failure or unexpected source termination.
	ErrSource = errors.New("log source failed")
	// ErrSink marks a write failure to an output sink.
	ErrSink = errors.New("output sink failed")
)

const maxLineBytes = 1024 * 1024

// Config wires the pipeline components into a supervisor. All state-bearing
// components are constructed by the caller and threaded through explicitly,
// so independent pipelines never interfere.
type Config struct {
	Source     Source
	Registry   *registry.Registry
	Engine     *filter.Engine
	Renderer   *output.Renderer
	Sinks      []*output.Sink
	KeepBuffer bool // skip the pre-stream clear request
	Log        *zap.SugaredLogger
}

// Supervisor drives the single-threaded pipeline: it alone owns the open
// record, the registry, and the color state, so no locking is needed.
type Supervisor struct {
	source   Source
	parser   *logcat.Parser
	registry *registry.Registry
	engine   *filter.Engine
	renderer *output.Renderer
	sinks    []*output.Sink
	keep     bool
	log      *zap.SugaredLogger

	unparsed int
	rendered int
}

func New(cfg Config) *Supervisor {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Supervisor{
		source:   cfg.Source,
		parser:   logcat.NewParser(),
		registry: cfg.Registry,
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
		sinks:    cfg.Sinks,
		keep:     cfg.KeepBuffer,
		log:      log,
	}
}

// Run reads the source to exhaustion. It returns nil on clean end-of-stream
// or cancellation, an ErrSource-wrapped error when the source fails, and an
// ErrSink-wrapped error when a sink write fails. Any open record is flushed
// before returning, on every path: log content fully received is never
// silently lost.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.keep {
		if err := s.source.Clear(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrSource, err)
		}
	}

	rc, err := s.source.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSource, err)
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var open *domain.Record
	var sinkErr error

	for scanner.Scan() {
		line := s.parser.Classify(scanner.Text())
		switch line.Kind {
		case domain.KindRecord:
			if sinkErr = s.flush(open); sinkErr != nil {
				open = nil
				break
			}
			open = line.Record

		case domain.KindContinuation:
			if open == nil {
				// Continuation with nothing open: history cut mid-record.
				s.unparsed++
				continue
			}
			text := line.Text
			if open.Tag == "DEBUG" {
				text = logcat.DeindentBacktrace(text)
			}
			open.Append(text)

		case domain.KindUnparseable:
			s.unparsed++
			if s.unparsed%500 == 0 {
				s.log.Debugw("dropped unparseable lines", "count", s.unparsed)
			}
		}
		if sinkErr != nil {
			break
		}
	}

	scanErr := scanner.Err()
	if errors.Is(scanErr, bufio.ErrTooLong) {
		scanErr = fmt.Errorf("line exceeds %d bytes: %w", maxLineBytes, scanErr)
	}

	// Flush the still-open record before surfacing any failure.
	if ferr := s.flush(open); ferr != nil && sinkErr == nil {
		sinkErr = ferr
	}

	closeErr := s.source.Close()

	if sinkErr != nil {
		return sinkErr
	}
	if scanErr != nil && ctx.Err() == nil {
		return fmt.Errorf("%w: reading %s: %v", ErrSource, s.source.Name(), scanErr)
	}
	if closeErr != nil && ctx.Err() == nil {
		return fmt.Errorf("%w: %v", ErrSource, closeErr)
	}

	s.log.Debugw("stream finished",
		"rendered", s.rendered,
		"unparseable", s.unparsed,
		"tracked", s.registry.Len(),
		"evicted", s.registry.Evicted(),
	)
	return nil
}

// flush pushes a completed record through registry, filter, and renderer.
// The record is immutable from here on and discarded after rendering.
func (s *Supervisor) flush(rec *domain.Record) error {
	if rec == nil {
		return nil
	}

	if ev := s.registry.Observe(rec); ev != nil {
		// Lifecycle notifications replace normal rendering of the
		// announcement record.
		if s.engine.DecideEvent(ev) == filter.Pass {
			return s.write(s.renderer.RenderEvent(ev))
		}
		return nil
	}

	process, _ := s.registry.ProcessFor(rec.PID)
	if s.engine.Decide(rec, process) == filter.Pass {
		return s.write(s.renderer.Render(rec, process))
	}
	return nil
}

func (s *Supervisor) write(lines []string) error {
	for _, sink := range s.sinks {
		for _, line := range lines {
			if err := sink.WriteLine(line); err != nil {
				return fmt.Errorf("%w: %v", ErrSink, err)
			}
		}
	}
	s.rendered += len(lines)
	return nil
}

// Unparseable returns how many raw lines were dropped as noise.
func (s *Supervisor) Unparseable() int {
	return s.unparsed
}
