package logcat

import (
	"regexp"
	"strconv"

	"github.com/dvukovic/acw/internal/domain"
)

// Lifecycle announcement patterns. Start announcements come in three
// generations of ActivityManager/dalvikvm phrasing; death announcements in
// three. All match against a record's message body, not the raw line.
var (
	procStart       = regexp.MustCompile(`^Start proc (\d+):([a-zA-Z0-9._:]+)/[a-z0-9]+ for (.*?)(?: \{.*\})?$`)
	procStartUGID   = regexp.MustCompile(`^Start proc ([a-zA-Z0-9._:]+) for ([a-z]+ [^:]+): pid=(\d+) uid=(\d+) gids=(.*)$`)
	procStartDalvik = regexp.MustCompile(`^>>>>> ([a-zA-Z0-9._:]+) \[ userId:0 \| appId:(\d+) \]$`)

	procKill  = regexp.MustCompile(`^Killing (\d+):([a-zA-Z0-9._:]+)/[^:]+: (.*)$`)
	procLeave = regexp.MustCompile(`^No longer want ([a-zA-Z0-9._:]+) \(pid (\d+)\): .*$`)
	procDeath = regexp.MustCompile(`^Process ([a-zA-Z0-9._:]+) \(pid (\d+)\) has died.?$`)
)

// MatchStart recognizes a process start announcement in a record body.
// Start announcements are matched regardless of tag; old dalvikvm runtimes
// emitted them under their own tag.
func MatchStart(rec *domain.Record) *domain.ProcessEvent {
	body := rec.Body()

	if m := procStart.FindStringSubmatch(body); m != nil {
		pid, _ := strconv.Atoi(m[1])
		return &domain.ProcessEvent{Kind: domain.ProcessStarted, PID: pid, Package: m[2], Target: m[3]}
	}
	if m := procStartUGID.FindStringSubmatch(body); m != nil {
		pid, _ := strconv.Atoi(m[3])
		return &domain.ProcessEvent{Kind: domain.ProcessStarted, PID: pid, Package: m[1], Target: m[2]}
	}
	if rec.Tag == "dalvikvm" {
		if m := procStartDalvik.FindStringSubmatch(body); m != nil {
			// No pid in the announcement itself; the emitting pid owns it.
			return &domain.ProcessEvent{Kind: domain.ProcessStarted, PID: rec.PID, Package: m[1]}
		}
	}
	return nil
}

// MatchDeath recognizes a process death announcement. Death phrasing is only
// trusted from ActivityManager.
func MatchDeath(rec *domain.Record) *domain.ProcessEvent {
	if rec.Tag != "ActivityManager" {
		return nil
	}
	body := rec.Body()

	if m := procKill.FindStringSubmatch(body); m != nil {
		pid, _ := strconv.Atoi(m[1])
		return &domain.ProcessEvent{Kind: domain.ProcessDied, PID: pid, Package: m[2], Reason: m[3]}
	}
	if m := procLeave.FindStringSubmatch(body); m != nil {
		pid, _ := strconv.Atoi(m[2])
		return &domain.ProcessEvent{Kind: domain.ProcessDied, PID: pid, Package: m[1]}
	}
	if m := procDeath.FindStringSubmatch(body); m != nil {
		pid, _ := strconv.Atoi(m[2])
		return &domain.ProcessEvent{Kind: domain.ProcessDied, PID: pid, Package: m[1], Confirmed: true}
	}
	return nil
}

// SystemTags are tags that carry framework noise rather than app output.
// Each entry is a regex fragment; SystemTagPatterns anchors them so they
// behave as whole-tag excludes.
var SystemTags = []string{
	`HWUI`,
	`skia`,
	`libc`,
	`libEGL`,
	`System`,
	`BpBinder`,
	`VRI\[.*?\]`,
	`AudioTrack`,
	`ImeTracker`,
	`JavaBinder`,
	`FrameEvents`,
	`ViewRootImpl`,
	`nativeloader`,
	`WindowManager`,
	`ActivityThread`,
	`SurfaceControl`,
	`DisplayManager`,
	`AdrenoGLES-.*?`,
	`VelocityTracker`,
	`AppWidgetManager`,
	`BLASTBufferQueue`,
	`InsetsController`,
	`ProfileInstaller`,
	`SurfaceSyncGroup`,
	`AppCompatDelegate`,
	`ApplicationLoaders`,
	`BufferQueueConsumer`,
	`BufferQueueProducer`,
	`CompatChangeReporter`,
	`BufferPoolAccessor.*?`,
	`WindowOnBackDispatcher`,
	`DynamicFramerate\s*\[.*?\]`,
}

// SystemTagPatterns returns the system tag set as anchored regex strings,
// ready to feed the exclude-matcher compiler.
func SystemTagPatterns() []string {
	out := make([]string, len(SystemTags))
	for i, t := range SystemTags {
		out[i] = "^" + t + "$"
	}
	return out
}
