package domain

import "strings"

// Level represents a logcat severity level
type Level int

// Levels in ascending severity. LevelUnknown is the sentinel for
// unrecognized severity characters and sorts below Verbose.
const (
	LevelUnknown Level = iota - 1
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelSilent
)

// ParseLevelChar converts a single-letter severity (case-insensitive) to a Level.
// Unrecognized characters yield LevelUnknown rather than an error.
func ParseLevelChar(c byte) Level {
	switch c {
	case 'V', 'v':
		return LevelVerbose
	case 'D', 'd':
		return LevelDebug
	case 'I', 'i':
		return LevelInfo
	case 'W', 'w':
		return LevelWarn
	case 'E', 'e':
		return LevelError
	case 'F', 'f':
		return LevelFatal
	case 'S', 's':
		return LevelSilent
	default:
		return LevelUnknown
	}
}

// ParseLevelName converts a level name or letter ("warn", "W") to a Level.
func ParseLevelName(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v", "verbose":
		return LevelVerbose
	case "d", "debug":
		return LevelDebug
	case "i", "info":
		return LevelInfo
	case "w", "warn", "warning":
		return LevelWarn
	case "e", "error":
		return LevelError
	case "f", "fatal":
		return LevelFatal
	case "s", "silent":
		return LevelSilent
	default:
		return LevelUnknown
	}
}

// Letter returns the single-character display form of the level.
func (l Level) Letter() string {
	switch l {
	case LevelVerbose:
		return "V"
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarn:
		return "W"
	case LevelError:
		return "E"
	case LevelFatal:
		return "F"
	case LevelSilent:
		return "S"
	default:
		return "?"
	}
}

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	case LevelSilent:
		return "silent"
	default:
		return "unknown"
	}
}
