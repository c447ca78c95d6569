// Package registry tracks pid to package associations and process lifecycle
// state observed from the log stream.
package registry

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/dvukovic/acw/internal/domain"
	"github.com/dvukovic/acw/internal/logcat"
)

// DefaultMaxDead bounds how many dead entries are retained for in-flight
// log attribution before the oldest is evicted.
const DefaultMaxDead = 64

// Registry owns the pid table. It is exclusively owned by the supervisor
// loop and needs no locking.
type Registry struct {
	clk     clock.Clock
	log     *zap.SugaredLogger
	entries map[int]*domain.ProcessEntry
	dead    []int // pids in death order, oldest first
	maxDead int
	evicted int
}

func New(clk clock.Clock, maxDead int, log *zap.SugaredLogger) *Registry {
	if clk == nil {
		clk = clock.New()
	}
	if maxDead <= 0 {
		maxDead = DefaultMaxDead
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		clk:     clk,
		log:     log,
		entries: make(map[int]*domain.ProcessEntry),
		maxDead: maxDead,
	}
}

// Preseed installs pid -> process-name associations from a ps snapshot taken
// before streaming begins. Entries are created in Running state.
func (r *Registry) Preseed(procs map[int]string) {
	for pid, name := range procs {
		r.entries[pid] = &domain.ProcessEntry{
			PID:     pid,
			Package: packageOf(name),
			Process: name,
			State:   domain.ProcessRunning,
		}
	}
}

// Observe inspects a flushed record for lifecycle announcements and keeps
// the pid table current. Ordinary records referencing an unknown pid get a
// placeholder entry so later lines still render with an owner. The returned
// event, when non-nil, replaces normal rendering of the record.
func (r *Registry) Observe(rec *domain.Record) *domain.ProcessEvent {
	if ev := logcat.MatchStart(rec); ev != nil {
		r.observeStart(ev)
		return ev
	}
	if ev := logcat.MatchDeath(rec); ev != nil {
		r.observeDeath(ev)
		r.prune(rec.PID)
		return ev
	}

	e, ok := r.entries[rec.PID]
	if !ok {
		// Package unknown until a start announcement or snapshot names it.
		r.entries[rec.PID] = &domain.ProcessEntry{
			PID:   rec.PID,
			State: domain.ProcessRunning,
		}
	} else if e.State == domain.ProcessStarting {
		// First ordinary output from a freshly announced process.
		e.State = domain.ProcessRunning
	}
	return nil
}

// observeStart creates a fresh entry. Pids are reused by the OS, so a start
// for an already-dead pid number replaces the old entry rather than
// resurrecting it.
func (r *Registry) observeStart(ev *domain.ProcessEvent) {
	if old, ok := r.entries[ev.PID]; ok && old.Gone() {
		r.forgetDead(ev.PID)
	}
	r.entries[ev.PID] = &domain.ProcessEntry{
		PID:     ev.PID,
		Package: packageOf(ev.Package),
		Process: ev.Package,
		State:   domain.ProcessStarting,
	}
}

func (r *Registry) observeDeath(ev *domain.ProcessEvent) {
	e, ok := r.entries[ev.PID]
	if !ok {
		// Death for a pid never seen: record it anyway so in-flight lines
		// from that pid still resolve to the announced package.
		e = &domain.ProcessEntry{PID: ev.PID, Package: packageOf(ev.Package), Process: ev.Package}
		r.entries[ev.PID] = e
	}
	if e.State == domain.ProcessDead {
		return
	}
	wasGone := e.Gone()
	if ev.Confirmed {
		e.State = domain.ProcessDead
	} else {
		// Kill announced but death not confirmed; the process may still
		// flush a few lines.
		e.State = domain.ProcessDying
	}
	if !wasGone {
		e.DeadAt = r.clk.Now()
		r.dead = append(r.dead, ev.PID)
	}
}

// PackageFor resolves the owning package for a pid. The second return is
// false when the pid is unknown or its package has not been observed.
func (r *Registry) PackageFor(pid int) (string, bool) {
	e, ok := r.entries[pid]
	if !ok || !e.Known() {
		return "", false
	}
	return e.Package, true
}

// ProcessFor resolves the full process name (package plus optional :suffix).
func (r *Registry) ProcessFor(pid int) (string, bool) {
	e, ok := r.entries[pid]
	if !ok || e.Process == "" {
		return "", false
	}
	return e.Process, true
}

// Lookup returns the entry for a pid, or nil.
func (r *Registry) Lookup(pid int) *domain.ProcessEntry {
	return r.entries[pid]
}

// Len returns the number of tracked entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Evicted returns how many dead entries have been pruned so far.
func (r *Registry) Evicted() int {
	return r.evicted
}

// prune evicts the oldest dead entries beyond the retention bound. The pid
// of the record currently being flushed is pinned and never evicted.
func (r *Registry) prune(pinned int) {
	for len(r.dead) > r.maxDead {
		victim := -1
		for i, pid := range r.dead {
			if pid != pinned {
				victim = i
				break
			}
		}
		if victim < 0 {
			return
		}
		pid := r.dead[victim]
		r.dead = append(r.dead[:victim], r.dead[victim+1:]...)
		if e, ok := r.entries[pid]; ok && e.Gone() {
			delete(r.entries, pid)
			r.evicted++
			r.log.Debugw("evicted dead process entry", "pid", pid, "package", e.Package)
		}
	}
}

// forgetDead drops a pid from the dead-order queue after its number is reused.
func (r *Registry) forgetDead(pid int) {
	for i, p := range r.dead {
		if p == pid {
			r.dead = append(r.dead[:i], r.dead[i+1:]...)
			return
		}
	}
}

// packageOf trims a process-name :suffix down to the owning package.
func packageOf(process string) string {
	for i := 0; i < len(process); i++ {
		if process[i] == ':' {
			return process[:i]
		}
	}
	return process
}
