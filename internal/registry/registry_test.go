package registry

import (
	"fmt"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukovic/acw/internal/domain"
)

func startRecord(pid int, target string) *domain.Record {
	body := fmt.Sprintf("Start proc %d:%s for activity %s/.MainActivity", pid, target+"/u0a123", target)
	return &domain.Record{PID: 614, Tag: "ActivityManager", Message: []string{body}}
}

func killRecord(pid int, pkg, reason string) *domain.Record {
	body := fmt.Sprintf("Killing %d:%s/u0a123: %s", pid, pkg, reason)
	return &domain.Record{PID: 614, Tag: "ActivityManager", Message: []string{body}}
}

func diedRecord(pid int, pkg string) *domain.Record {
	body := fmt.Sprintf("Process %s (pid %d) has died.", pkg, pid)
	return &domain.Record{PID: 614, Tag: "ActivityManager", Message: []string{body}}
}

func plainRecord(pid int) *domain.Record {
	return &domain.Record{PID: pid, Tag: "MyTag", Message: []string{"hello"}}
}

func TestObserveLifecycle(t *testing.T) {
	t.Run("start announcement registers the package", func(t *testing.T) {
		r := New(nil, 0, nil)

		ev := r.Observe(startRecord(5000, "com.example.app"))
		require.NotNil(t, ev)
		assert.Equal(t, domain.ProcessStarted, ev.Kind)

		pkg, ok := r.PackageFor(5000)
		require.True(t, ok)
		assert.Equal(t, "com.example.app", pkg)

		entry := r.Lookup(5000)
		require.NotNil(t, entry)
		assert.Equal(t, domain.ProcessStarting, entry.State)
	})

	t.Run("first record upgrades starting to running", func(t *testing.T) {
		r := New(nil, 0, nil)
		r.Observe(startRecord(5000, "com.example.app"))
		r.Observe(plainRecord(5000))

		assert.Equal(t, domain.ProcessRunning, r.Lookup(5000).State)
	})

	t.Run("kill announcement marks the entry dying", func(t *testing.T) {
		r := New(nil, 0, nil)
		r.Observe(startRecord(5000, "com.example.app"))

		ev := r.Observe(killRecord(5000, "com.example.app", "remove task"))
		require.NotNil(t, ev)
		assert.Equal(t, domain.ProcessDied, ev.Kind)
		assert.Equal(t, "remove task", ev.Reason)

		// Dying entries still resolve so late lines keep their owner.
		pkg, ok := r.PackageFor(5000)
		require.True(t, ok)
		assert.Equal(t, "com.example.app", pkg)
		assert.Equal(t, domain.ProcessDying, r.Lookup(5000).State)
	})

	t.Run("confirmed death marks the entry dead", func(t *testing.T) {
		r := New(nil, 0, nil)
		r.Observe(startRecord(5000, "com.example.app"))
		r.Observe(killRecord(5000, "com.example.app", "remove task"))
		r.Observe(diedRecord(5000, "com.example.app"))

		assert.Equal(t, domain.ProcessDead, r.Lookup(5000).State)

		pkg, ok := r.PackageFor(5000)
		require.True(t, ok)
		assert.Equal(t, "com.example.app", pkg)
	})

	t.Run("death for an unseen pid still records the package", func(t *testing.T) {
		r := New(nil, 0, nil)

		ev := r.Observe(killRecord(6000, "com.example.other", "oom"))
		require.NotNil(t, ev)

		pkg, ok := r.PackageFor(6000)
		require.True(t, ok)
		assert.Equal(t, "com.example.other", pkg)
	})

	t.Run("ordinary record creates a placeholder", func(t *testing.T) {
		r := New(nil, 0, nil)

		ev := r.Observe(plainRecord(4242))
		assert.Nil(t, ev)

		entry := r.Lookup(4242)
		require.NotNil(t, entry)
		assert.False(t, entry.Known())

		_, ok := r.PackageFor(4242)
		assert.False(t, ok)
	})

	t.Run("placeholder upgraded by later start", func(t *testing.T) {
		r := New(nil, 0, nil)
		r.Observe(plainRecord(5000))
		r.Observe(startRecord(5000, "com.example.app"))

		pkg, ok := r.PackageFor(5000)
		require.True(t, ok)
		assert.Equal(t, "com.example.app", pkg)
	})

	t.Run("pid reuse replaces the dead entry", func(t *testing.T) {
		r := New(nil, 0, nil)
		r.Observe(startRecord(5000, "com.example.app"))
		r.Observe(killRecord(5000, "com.example.app", "bg kill"))
		r.Observe(startRecord(5000, "com.example.second"))

		pkg, ok := r.PackageFor(5000)
		require.True(t, ok)
		assert.Equal(t, "com.example.second", pkg)
		assert.Equal(t, domain.ProcessStarting, r.Lookup(5000).State)
	})

	t.Run("repeated death announcements are idempotent", func(t *testing.T) {
		r := New(nil, 0, nil)
		r.Observe(startRecord(5000, "com.example.app"))
		r.Observe(killRecord(5000, "com.example.app", "first"))
		r.Observe(killRecord(5000, "com.example.app", "second"))

		assert.Equal(t, 1, r.Len())
		assert.Equal(t, 0, r.Evicted())
	})
}

func TestPreseed(t *testing.T) {
	r := New(nil, 0, nil)
	r.Preseed(map[int]string{
		100: "com.example.app",
		101: "com.example.app:push",
	})

	pkg, ok := r.PackageFor(101)
	require.True(t, ok)
	assert.Equal(t, "com.example.app", pkg)

	proc, ok := r.ProcessFor(101)
	require.True(t, ok)
	assert.Equal(t, "com.example.app:push", proc)

	assert.Equal(t, domain.ProcessRunning, r.Lookup(100).State)
}

func TestDeadEviction(t *testing.T) {
	t.Run("oldest dead entry is evicted first", func(t *testing.T) {
		mock := clock.NewMock()
		r := New(mock, 2, nil)

		for pid := 1; pid <= 3; pid++ {
			pkg := fmt.Sprintf("com.example.app%d", pid)
			r.Observe(startRecord(pid, pkg))
			r.Observe(killRecord(pid, pkg, "done"))
			mock.Add(1)
		}

		// Bound is 2, so the first death (pid 1) is gone.
		assert.Equal(t, 1, r.Evicted())
		assert.Nil(t, r.Lookup(1))
		assert.NotNil(t, r.Lookup(2))
		assert.NotNil(t, r.Lookup(3))
	})

	t.Run("live entries are never evicted", func(t *testing.T) {
		r := New(nil, 1, nil)
		r.Observe(startRecord(100, "com.example.live"))

		for pid := 1; pid <= 5; pid++ {
			pkg := fmt.Sprintf("com.example.app%d", pid)
			r.Observe(startRecord(pid, pkg))
			r.Observe(killRecord(pid, pkg, "done"))
		}

		_, ok := r.PackageFor(100)
		assert.True(t, ok)
	})

	t.Run("flushing pid is pinned", func(t *testing.T) {
		r := New(nil, 1, nil)

		r.Observe(startRecord(1, "com.example.app1"))
		r.Observe(killRecord(1, "com.example.app1", "done"))

		// The death announcement arrives from pid 1 itself; pid 1 must
		// survive the prune triggered by its own flush.
		body := "Killing 2:com.example.app2/u0a123: done"
		r.Observe(startRecord(2, "com.example.app2"))
		r.Observe(&domain.Record{PID: 1, Tag: "ActivityManager", Message: []string{body}})

		assert.NotNil(t, r.Lookup(1))
	})
}

func TestPackageOf(t *testing.T) {
	assert.Equal(t, "com.example.app", packageOf("com.example.app"))
	assert.Equal(t, "com.example.app", packageOf("com.example.app:push"))
}
