package logcat

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukovic/acw/internal/domain"
)

func record(pid int, tag, body string) *domain.Record {
	return &domain.Record{PID: pid, Tag: tag, Message: []string{body}}
}

func TestMatchStart(t *testing.T) {
	t.Run("modern start proc", func(t *testing.T) {
		rec := record(614, "ActivityManager", "Start proc 5000:com.example.app/u0a123 for activity com.example.app/.MainActivity")
		ev := MatchStart(rec)
		require.NotNil(t, ev)
		assert.Equal(t, domain.ProcessStarted, ev.Kind)
		assert.Equal(t, 5000, ev.PID)
		assert.Equal(t, "com.example.app", ev.Package)
		assert.Equal(t, "activity com.example.app/.MainActivity", ev.Target)
	})

	t.Run("named process keeps its suffix", func(t *testing.T) {
		rec := record(614, "ActivityManager", "Start proc 5001:com.example.app:push/u0a123 for service com.example.app/.PushService")
		ev := MatchStart(rec)
		require.NotNil(t, ev)
		assert.Equal(t, "com.example.app:push", ev.Package)
	})

	t.Run("legacy uid gid phrasing", func(t *testing.T) {
		rec := record(72, "ActivityManager", "Start proc com.example.app for activity com.example.app/.MainActivity: pid=2103 uid=10048 gids={1015}")
		ev := MatchStart(rec)
		require.NotNil(t, ev)
		assert.Equal(t, 2103, ev.PID)
		assert.Equal(t, "com.example.app", ev.Package)
	})

	t.Run("dalvikvm announcement uses the emitting pid", func(t *testing.T) {
		rec := record(777, "dalvikvm", ">>>>> com.example.app [ userId:0 | appId:10123 ]")
		ev := MatchStart(rec)
		require.NotNil(t, ev)
		assert.Equal(t, 777, ev.PID)
		assert.Equal(t, "com.example.app", ev.Package)
	})

	t.Run("dalvikvm phrasing under another tag is ignored", func(t *testing.T) {
		rec := record(777, "SomeApp", ">>>>> com.example.app [ userId:0 | appId:10123 ]")
		assert.Nil(t, MatchStart(rec))
	})

	t.Run("ordinary record does not match", func(t *testing.T) {
		rec := record(1234, "MyTag", "starting download")
		assert.Nil(t, MatchStart(rec))
	})
}

func TestMatchDeath(t *testing.T) {
	t.Run("killing with reason", func(t *testing.T) {
		rec := record(614, "ActivityManager", "Killing 5000:com.example.app/u0a123: remove task")
		ev := MatchDeath(rec)
		require.NotNil(t, ev)
		assert.Equal(t, domain.ProcessDied, ev.Kind)
		assert.Equal(t, 5000, ev.PID)
		assert.Equal(t, "com.example.app", ev.Package)
		assert.Equal(t, "remove task", ev.Reason)
	})

	t.Run("no longer want", func(t *testing.T) {
		rec := record(614, "ActivityManager", "No longer want com.example.app (pid 5000): empty #17")
		ev := MatchDeath(rec)
		require.NotNil(t, ev)
		assert.Equal(t, 5000, ev.PID)
		assert.Equal(t, "com.example.app", ev.Package)
	})

	t.Run("has died", func(t *testing.T) {
		rec := record(614, "ActivityManager", "Process com.example.app (pid 5000) has died.")
		ev := MatchDeath(rec)
		require.NotNil(t, ev)
		assert.Equal(t, 5000, ev.PID)
	})

	t.Run("death phrasing from other tags is ignored", func(t *testing.T) {
		rec := record(1234, "Chatty", "Process com.example.app (pid 5000) has died.")
		assert.Nil(t, MatchDeath(rec))
	})
}

func TestSystemTagPatterns(t *testing.T) {
	patterns := SystemTagPatterns()
	require.Len(t, patterns, len(SystemTags))

	t.Run("anchored to the whole tag", func(t *testing.T) {
		var hwui *regexp.Regexp
		for _, p := range patterns {
			if p == "^HWUI$" {
				hwui = regexp.MustCompile(p)
			}
		}
		require.NotNil(t, hwui)
		assert.True(t, hwui.MatchString("HWUI"))
		assert.False(t, hwui.MatchString("MyHWUIHelper"))
	})

	t.Run("all patterns compile", func(t *testing.T) {
		for _, p := range patterns {
			_, err := regexp.Compile(p)
			assert.NoError(t, err, p)
		}
	})
}
