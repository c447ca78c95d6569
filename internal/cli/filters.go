package cli

import (
	"github.com/dvukovic/acw/internal/domain"
	"github.com/dvukovic/acw/internal/filter"
	"github.com/dvukovic/acw/internal/logcat"
)

// buildSpec compiles the filter configuration for watch-like commands.
// System tags are appended to the exclude set when hideSystem is on, so a
// noisy framework tag and a user-supplied ignore pattern behave the same.
func buildSpec(packages []string, tags, ignored []string, hideSystem bool, level string, message string, all, lifecycle bool) (*filter.Spec, error) {
	exclude := ignored
	if hideSystem {
		exclude = append(append([]string{}, ignored...), logcat.SystemTagPatterns()...)
	}

	return filter.NewSpec(filter.Options{
		Packages:      packages,
		IncludeTags:   tags,
		ExcludeTags:   exclude,
		MinLevel:      resolveLevel(level),
		Message:       message,
		All:           all,
		ShowLifecycle: lifecycle,
	})
}

// resolveLevel maps a level name or letter to its severity. Unrecognized
// names fall back to verbose; kong's enum validation rejects them before
// we get here.
func resolveLevel(name string) domain.Level {
	if l := domain.ParseLevelName(name); l != domain.LevelUnknown {
		return l
	}
	return domain.LevelVerbose
}

// showTagColumn reports whether the tag column earns its width: only when a
// tag filter is active or tags were requested on every line.
func showTagColumn(spec *filter.Spec, always bool, tagWidth int) bool {
	return tagWidth > 0 && (spec.HasTagFilters() || always)
}

// showLifecycle resolves the lifecycle banner switches; quiet mode keeps
// the stream to log lines only.
func showLifecycle(noLifecycle, quiet bool) bool {
	return !noLifecycle && !quiet
}
