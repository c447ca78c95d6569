package adb

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// DeviceSelector narrows adb to a single device when more than one is attached.
type DeviceSelector struct {
	UseDevice   bool   // -d: the only attached USB device
	UseEmulator bool   // -e: the only running emulator
	Serial      string // -s SERIAL: a specific device
}

func (s DeviceSelector) args() []string {
	switch {
	case s.Serial != "":
		return []string{"-s", s.Serial}
	case s.UseDevice:
		return []string{"-d"}
	case s.UseEmulator:
		return []string{"-e"}
	}
	return nil
}

// Manager wraps the adb binary for everything that is not the log stream
// itself: device discovery, buffer clearing, process snapshots and the
// foreground activity lookup.
type Manager struct {
	adbPath  string
	selector DeviceSelector
}

// NewManager creates an adb manager. An empty adbPath falls back to "adb"
// on PATH.
func NewManager(adbPath string, selector DeviceSelector) *Manager {
	if adbPath == "" {
		adbPath = "adb"
	}
	return &Manager{adbPath: adbPath, selector: selector}
}

// base returns the adb invocation prefix incl. the device selector.
func (m *Manager) base() []string {
	return append([]string{m.adbPath}, m.selector.args()...)
}

// LogcatArgv returns the argv used to open the threadtime log stream.
func (m *Manager) LogcatArgv() []string {
	return append(m.base(), "logcat", "-v", "threadtime")
}

// ClearArgv returns the argv that clears the device log buffer.
func (m *Manager) ClearArgv() []string {
	return append(m.base(), "logcat", "-c")
}

// Device is one row of `adb devices -l`.
type Device struct {
	Serial string
	State  string
	Model  string
}

// Devices lists attached devices and emulators.
func (m *Manager) Devices(ctx context.Context) ([]Device, error) {
	argv := append([]string{m.adbPath}, "devices", "-l")
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("adb devices failed: %w", err)
	}
	return parseDevices(output), nil
}

func parseDevices(output []byte) []Device {
	var devices []Device
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{Serial: fields[0], State: fields[1]}
		for _, f := range fields[2:] {
			if v, ok := strings.CutPrefix(f, "model:"); ok {
				d.Model = v
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// Snapshot returns the pid to process name mapping from `adb shell ps`,
// used to seed the registry for processes that started before the stream.
func (m *Manager) Snapshot(ctx context.Context) (map[int]string, error) {
	argv := append(m.base(), "shell", "ps")
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("adb shell ps failed: %w", err)
	}
	return parseSnapshot(output), nil
}

func parseSnapshot(output []byte) map[int]string {
	procs := make(map[int]string)
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		// ps prints USER PID ... NAME with the name in the last column.
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		procs[pid] = fields[len(fields)-1]
	}
	return procs
}

var (
	visibleActivityRe = regexp.MustCompile(`Proc # \d+: .*? ProcessRecord\{[0-9a-f]+ \d+:([a-zA-Z0-9._:]+)/[a-z0-9]+\}`)
	processRecordRe   = regexp.MustCompile(`ProcessRecord\{[0-9a-f]+ \d+:([a-zA-Z0-9._:]+)/[a-z0-9]+\}`)
)

// ForegroundPackages asks dumpsys for the packages currently visible on
// screen. It returns nil when the output cannot be interpreted, which the
// caller treats as "no current app".
func (m *Manager) ForegroundPackages(ctx context.Context) ([]string, error) {
	argv := append(m.base(), "shell", "dumpsys", "activity", "recents")
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("adb dumpsys failed: %w", err)
	}
	return parseForeground(output), nil
}

func parseForeground(output []byte) []string {
	var pkgs []string
	seen := make(map[string]bool)
	add := func(name string) {
		// Drop a ":remote" style process suffix, keep the package.
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		if name != "" && !seen[name] {
			seen[name] = true
			pkgs = append(pkgs, name)
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if m := visibleActivityRe.FindStringSubmatch(line); m != nil {
			add(m[1])
			continue
		}
		if strings.Contains(line, "VisibleActivityProcess") || strings.Contains(line, "mFocusedApp") {
			if m := processRecordRe.FindStringSubmatch(line); m != nil {
				add(m[1])
			}
		}
	}
	return pkgs
}
