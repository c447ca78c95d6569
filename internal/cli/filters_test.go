package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukovic/acw/internal/domain"
	"github.com/dvukovic/acw/internal/filter"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected domain.Level
	}{
		{"verbose", domain.LevelVerbose},
		{"warn", domain.LevelWarn},
		{"W", domain.LevelWarn},
		{"error", domain.LevelError},
		{"", domain.LevelVerbose},
		{"bogus", domain.LevelVerbose},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveLevel(tt.in))
		})
	}
}

func TestBuildSpec(t *testing.T) {
	rec := func(tag string) *domain.Record {
		return &domain.Record{PID: 1, Level: domain.LevelInfo, Tag: tag, Message: []string{"x"}}
	}

	t.Run("system tags excluded when hidden", func(t *testing.T) {
		spec, err := buildSpec(nil, nil, nil, true, "verbose", "", false, true)
		require.NoError(t, err)

		e := filter.NewEngine(spec)
		assert.Equal(t, filter.Drop, e.Decide(rec("ActivityThread"), ""))
		assert.Equal(t, filter.Drop, e.Decide(rec("HWUI"), ""))
		assert.Equal(t, filter.Pass, e.Decide(rec("MyTag"), ""))
	})

	t.Run("system exclusion is anchored", func(t *testing.T) {
		spec, err := buildSpec(nil, nil, nil, true, "verbose", "", false, true)
		require.NoError(t, err)

		e := filter.NewEngine(spec)
		assert.Equal(t, filter.Pass, e.Decide(rec("MySystemHelper"), ""))
	})

	t.Run("user ignores survive alongside system tags", func(t *testing.T) {
		spec, err := buildSpec(nil, nil, []string{"Spam"}, true, "verbose", "", false, true)
		require.NoError(t, err)

		e := filter.NewEngine(spec)
		assert.Equal(t, filter.Drop, e.Decide(rec("SpamBot"), ""))
		assert.Equal(t, filter.Drop, e.Decide(rec("HWUI"), ""))
	})

	t.Run("ignore list untouched when system tags shown", func(t *testing.T) {
		spec, err := buildSpec(nil, nil, nil, false, "verbose", "", false, true)
		require.NoError(t, err)

		e := filter.NewEngine(spec)
		assert.Equal(t, filter.Pass, e.Decide(rec("HWUI"), ""))
	})

	t.Run("invalid tag pattern surfaces as an error", func(t *testing.T) {
		_, err := buildSpec(nil, []string{"("}, nil, false, "verbose", "", false, true)
		assert.Error(t, err)
	})

	t.Run("level flows through", func(t *testing.T) {
		spec, err := buildSpec(nil, nil, nil, false, "warn", "", false, true)
		require.NoError(t, err)

		e := filter.NewEngine(spec)
		assert.Equal(t, filter.Drop, e.Decide(rec("MyTag"), ""))
	})
}

func TestShowTagColumn(t *testing.T) {
	mustSpec := func(t *testing.T, tags []string) *filter.Spec {
		t.Helper()
		spec, err := buildSpec(nil, tags, nil, false, "verbose", "", false, true)
		require.NoError(t, err)
		return spec
	}

	plain := mustSpec(t, nil)
	tagged := mustSpec(t, []string{"Net"})

	tests := []struct {
		name     string
		spec     *filter.Spec
		always   bool
		tagWidth int
		expected bool
	}{
		{"no filters hides the column", plain, false, 8, false},
		{"tag filter shows the column", tagged, false, 8, true},
		{"always-show-tags shows the column", plain, true, 8, true},
		{"zero width hides even with filters", tagged, false, 0, false},
		{"zero width hides even with always", plain, true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, showTagColumn(tt.spec, tt.always, tt.tagWidth))
		})
	}
}

func TestShowLifecycle(t *testing.T) {
	tests := []struct {
		name        string
		noLifecycle bool
		quiet       bool
		expected    bool
	}{
		{"default shows banners", false, false, true},
		{"no-lifecycle suppresses", true, false, false},
		{"quiet suppresses", false, true, false},
		{"both suppress", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, showLifecycle(tt.noLifecycle, tt.quiet))
		})
	}
}
