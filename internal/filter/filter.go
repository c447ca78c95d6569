// Package filter decides which reconstructed log records reach the renderer.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dvukovic/acw/internal/domain"
)

// ErrInvalidPattern marks a user-supplied pattern that failed to compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// Decision is the outcome of a filter evaluation.
type Decision int

const (
	Drop Decision = iota
	Pass
)

func (d Decision) String() string {
	if d == Pass {
		return "pass"
	}
	return "drop"
}

// Options are the raw, CLI-shaped filter inputs.
type Options struct {
	Packages      []string // positional package args; "pkg:proc" selects a named process
	IncludeTags   []string // -t values, comma-splittable
	ExcludeTags   []string // -i values plus the system tag set when enabled
	MinLevel      domain.Level
	Message       string // body regex, empty = no body filter
	All           bool   // show-all override
	ShowLifecycle bool   // emit process start/death notifications
}

// Spec is the immutable, compiled filter configuration. Construct once at
// startup; invalid patterns surface here, before any streaming begins.
type Spec struct {
	packages  map[string]struct{} // catch-all package names
	processes map[string]struct{} // fully qualified pkg:proc names
	include   []TagMatcher
	exclude   []TagMatcher
	minLevel  domain.Level
	message   *regexp.Regexp
	all       bool
	lifecycle bool
}

func NewSpec(opts Options) (*Spec, error) {
	s := &Spec{
		packages:  make(map[string]struct{}),
		processes: make(map[string]struct{}),
		minLevel:  opts.MinLevel,
		all:       opts.All,
		lifecycle: opts.ShowLifecycle,
	}

	for _, p := range opts.Packages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, ":") {
			s.processes[strings.TrimSuffix(p, ":")] = struct{}{}
		} else {
			s.packages[p] = struct{}{}
		}
	}
	if len(s.packages) == 0 && len(s.processes) == 0 {
		s.all = true
	}

	var err error
	if s.include, err = CompileTagMatchers(opts.IncludeTags); err != nil {
		return nil, err
	}
	if s.exclude, err = CompileTagMatchers(opts.ExcludeTags); err != nil {
		return nil, err
	}

	if opts.Message != "" {
		if s.message, err = regexp.Compile(opts.Message); err != nil {
			return nil, fmt.Errorf("%w: message %q: %v", ErrInvalidPattern, opts.Message, err)
		}
	}
	return s, nil
}

// Restricted reports whether a package restriction is configured.
func (s *Spec) Restricted() bool {
	return !s.all && (len(s.packages) > 0 || len(s.processes) > 0)
}

// HasTagFilters reports whether any include or exclude tag matcher is set,
// which is what earns the tag column its width in the rendered layout.
func (s *Spec) HasTagFilters() bool {
	return len(s.include) > 0 || len(s.exclude) > 0
}

// MatchesProcess checks a process name (package plus optional :suffix)
// against the package restriction. Named processes match exactly; otherwise
// the token is trimmed to its package and checked against the catch-all set.
func (s *Spec) MatchesProcess(name string) bool {
	if !s.Restricted() {
		return true
	}
	if _, ok := s.processes[name]; ok {
		return true
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	_, ok := s.packages[name]
	return ok
}

// Engine evaluates records against an immutable Spec. Decide is a pure
// function of its inputs: no hidden mutable state, deterministic for
// identical (record, resolved package) pairs.
type Engine struct {
	spec *Spec
}

func NewEngine(spec *Spec) *Engine {
	return &Engine{spec: spec}
}

func (e *Engine) Spec() *Spec {
	return e.spec
}

// Decide returns Pass when the record survives every filter category:
// package restriction, minimum severity, include matchers (OR within the
// set), exclude matchers, and body regex. A record whose pid resolved to no
// known package passes the package filter only when unrestricted.
func (e *Engine) Decide(rec *domain.Record, process string) Decision {
	s := e.spec

	if s.Restricted() && !s.MatchesProcess(process) {
		return Drop
	}
	level := rec.Level
	if level == domain.LevelUnknown {
		// An unrecognized severity letter counts as verbose: it drops
		// only under an explicit minimum above verbose.
		level = domain.LevelVerbose
	}
	if level < s.minLevel {
		return Drop
	}
	if len(s.include) > 0 && !matchAny(rec.Tag, s.include) {
		return Drop
	}
	if matchAny(rec.Tag, s.exclude) {
		return Drop
	}
	if s.message != nil && !s.message.MatchString(rec.Body()) {
		return Drop
	}
	return Pass
}

// DecideEvent filters synthetic lifecycle notifications. They are
// structural, so tag and body filters do not apply, but the package
// restriction does, and display can be suppressed outright.
func (e *Engine) DecideEvent(ev *domain.ProcessEvent) Decision {
	if !e.spec.lifecycle {
		return Drop
	}
	if !e.spec.MatchesProcess(ev.Package) {
		return Drop
	}
	return Pass
}
