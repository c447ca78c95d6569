package domain

import "time"

// ProcessState is the lifecycle state of a tracked process.
type ProcessState int

const (
	ProcessStarting ProcessState = iota
	ProcessRunning
	ProcessDying
	ProcessDead
)

func (s ProcessState) String() string {
	switch s {
	case ProcessStarting:
		return "starting"
	case ProcessRunning:
		return "running"
	case ProcessDying:
		return "dying"
	case ProcessDead:
		return "dead"
	default:
		return "invalid"
	}
}

// ProcessEntry associates a process id with its owning package. Package may
// be empty until a start announcement or ps snapshot names it.
type ProcessEntry struct {
	PID     int
	Package string
	Process string // process/executable name, e.g. "com.example.app:push"
	State   ProcessState
	DeadAt  time.Time // set when the process leaves the live states
}

// Known reports whether the owning package has been observed.
func (e *ProcessEntry) Known() bool {
	return e != nil && e.Package != ""
}

// Gone reports whether the process has been killed or has died.
func (e *ProcessEntry) Gone() bool {
	return e != nil && (e.State == ProcessDying || e.State == ProcessDead)
}

// EventKind distinguishes synthetic process lifecycle notifications.
type EventKind int

const (
	ProcessStarted EventKind = iota
	ProcessDied
)

// ProcessEvent is a synthetic lifecycle notification derived from specially
// patterned header lines. It is structural, not an ordinary log record.
type ProcessEvent struct {
	Kind    EventKind
	PID     int
	Package string
	Target  string // launch target (start events, may be empty)
	Reason  string // kill reason (death events, may be empty)

	// Confirmed marks a death observed after the fact ("has died") rather
	// than a kill still in progress.
	Confirmed bool
}
