package adb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgv(t *testing.T) {
	t.Run("default binary, no selector", func(t *testing.T) {
		m := NewManager("", DeviceSelector{})
		assert.Equal(t, []string{"adb", "logcat", "-v", "threadtime"}, m.LogcatArgv())
		assert.Equal(t, []string{"adb", "logcat", "-c"}, m.ClearArgv())
	})

	t.Run("custom binary path", func(t *testing.T) {
		m := NewManager("/opt/sdk/adb", DeviceSelector{})
		assert.Equal(t, []string{"/opt/sdk/adb", "logcat", "-v", "threadtime"}, m.LogcatArgv())
	})

	t.Run("serial selector", func(t *testing.T) {
		m := NewManager("", DeviceSelector{Serial: "emulator-5554"})
		assert.Equal(t, []string{"adb", "-s", "emulator-5554", "logcat", "-v", "threadtime"}, m.LogcatArgv())
	})

	t.Run("usb selector", func(t *testing.T) {
		m := NewManager("", DeviceSelector{UseDevice: true})
		assert.Equal(t, []string{"adb", "-d", "logcat", "-c"}, m.ClearArgv())
	})

	t.Run("serial wins over usb and emulator", func(t *testing.T) {
		m := NewManager("", DeviceSelector{UseDevice: true, UseEmulator: true, Serial: "abc"})
		assert.Equal(t, []string{"adb", "-s", "abc", "logcat", "-c"}, m.ClearArgv())
	})
}

func TestParseDevices(t *testing.T) {
	output := []byte(`List of devices attached
emulator-5554          device product:sdk_gphone64_x86_64 model:sdk_gphone64_x86_64 device:emu64xa transport_id:1
R58M123ABCD            unauthorized transport_id:2

* daemon started successfully
`)

	devices := parseDevices(output)
	require.Len(t, devices, 2)

	assert.Equal(t, "emulator-5554", devices[0].Serial)
	assert.Equal(t, "device", devices[0].State)
	assert.Equal(t, "sdk_gphone64_x86_64", devices[0].Model)

	assert.Equal(t, "R58M123ABCD", devices[1].Serial)
	assert.Equal(t, "unauthorized", devices[1].State)
	assert.Equal(t, "", devices[1].Model)

	t.Run("empty output", func(t *testing.T) {
		assert.Empty(t, parseDevices([]byte("List of devices attached\n\n")))
	})
}

func TestParseSnapshot(t *testing.T) {
	output := []byte(`USER      PID   PPID  VSIZE  RSS   WCHAN            PC  NAME
root      1     0     8904   788   SyS_epoll_ 00000000 S /init
u0_a123   5000  614   1234567 89012 SyS_epoll_ 00000000 S com.example.app
u0_a123   5001  614   1234567 89012 SyS_epoll_ 00000000 S com.example.app:push
`)

	procs := parseSnapshot(output)
	assert.Equal(t, "/init", procs[1])
	assert.Equal(t, "com.example.app", procs[5000])
	assert.Equal(t, "com.example.app:push", procs[5001])

	// The header row has no numeric pid and is skipped.
	assert.Len(t, procs, 3)
}

func TestParseForeground(t *testing.T) {
	t.Run("visible activity processes", func(t *testing.T) {
		output := []byte(`  Proc # 0: fg     T/A/TOP  LCM  t: 0 ProcessRecord{a1b2c3 5000:com.example.app/u0a123}
  Proc # 1: vis    T/A/IMP  LCM  t: 1 ProcessRecord{d4e5f6 5001:com.example.app:push/u0a123}
`)
		pkgs := parseForeground(output)
		assert.Equal(t, []string{"com.example.app"}, pkgs)
	})

	t.Run("focused app fallback", func(t *testing.T) {
		output := []byte(`  mFocusedApp=ActivityRecord{xyz ProcessRecord{a1b2c3 5000:com.other.app/u0a123}}
`)
		pkgs := parseForeground(output)
		assert.Equal(t, []string{"com.other.app"}, pkgs)
	})

	t.Run("unintelligible output yields nothing", func(t *testing.T) {
		assert.Empty(t, parseForeground([]byte("nothing useful here\n")))
	})
}
