// Package stream owns the read, parse, track, filter, render loop and the
// raw line sources that feed it.
package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Source supplies raw logcat lines. A source is opened once per run.
type Source interface {
	// Open starts the source and returns its line stream. The stream ends
	// when the source terminates or ctx is cancelled.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Clear discards buffered history before streaming begins.
	Clear(ctx context.Context) error
	// Close releases the source and reports abnormal termination.
	Close() error
	Name() string
}

// CommandSource streams the stdout of a subprocess (adb logcat). Stderr is
// drained concurrently and folded into the termination error.
type CommandSource struct {
	argv      []string
	clearArgv []string

	cmd    *exec.Cmd
	g      *errgroup.Group
	stderr bytes.Buffer
	ctx    context.Context
}

// NewCommandSource builds a subprocess source. clearArgv, when non-empty, is
// the command run by Clear (logcat -c).
func NewCommandSource(argv, clearArgv []string) *CommandSource {
	return &CommandSource{argv: argv, clearArgv: clearArgv}
}

func (s *CommandSource) Name() string {
	return strings.Join(s.argv, " ")
}

func (s *CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.argv[0], err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := io.Copy(&s.stderr, stderr)
		return err
	})

	s.cmd = cmd
	s.g = g
	s.ctx = ctx
	return stdout, nil
}

func (s *CommandSource) Clear(ctx context.Context) error {
	if len(s.clearArgv) == 0 {
		return nil
	}
	if out, err := exec.CommandContext(ctx, s.clearArgv[0], s.clearArgv[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("clear buffered history: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Close waits for the subprocess. A non-zero exit after cancellation is
// expected (the process was killed) and not an error.
func (s *CommandSource) Close() error {
	if s.cmd == nil {
		return nil
	}
	_ = s.g.Wait()
	err := s.cmd.Wait()
	s.cmd = nil
	if err == nil || (s.ctx != nil && s.ctx.Err() != nil) {
		return nil
	}
	if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
		return fmt.Errorf("%s: %w: %s", s.argv[0], err, msg)
	}
	return fmt.Errorf("%s: %w", s.argv[0], err)
}

// FileSource replays a captured logcat file through the same pipeline.
type FileSource struct {
	path string
	rc   io.ReadCloser
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := openPath(s.path)
	if err != nil {
		return nil, err
	}
	s.rc = rc
	return rc, nil
}

// Clear is a no-op: replay files have no device buffer to reset.
func (s *FileSource) Clear(ctx context.Context) error {
	return nil
}

func (s *FileSource) Close() error {
	if s.rc == nil {
		return nil
	}
	err := s.rc.Close()
	s.rc = nil
	return err
}

func openPath(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return f, nil
}

// ReaderSource wraps an arbitrary reader, most commonly piped stdin.
type ReaderSource struct {
	name string
	r    io.Reader
}

func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

func (s *ReaderSource) Name() string {
	return s.name
}

func (s *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(s.r), nil
}

func (s *ReaderSource) Clear(ctx context.Context) error {
	return nil
}

func (s *ReaderSource) Close() error {
	return nil
}
