package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// TagMatcher matches a tag against a user-supplied pattern. Every matcher is
// a regex by construction: literal strings are compiled as unanchored
// patterns, so a literal containing regex metacharacters behaves as a
// pattern. That is documented user-facing behavior, and plain literals match
// as substrings anywhere in the tag.
type TagMatcher struct {
	raw string
	re  *regexp.Regexp
}

// Match reports whether the tag matches, as an unanchored search.
func (m TagMatcher) Match(tag string) bool {
	return m.re.MatchString(tag)
}

func (m TagMatcher) String() string {
	return m.raw
}

// CompileTagMatchers splits comma-separated values, trims whitespace, and
// compiles each surviving token. An invalid pattern fails the whole set;
// filter construction errors are fatal at startup.
func CompileTagMatchers(values []string) ([]TagMatcher, error) {
	var out []TagMatcher
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			re, err := regexp.Compile(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: tag %q: %v", ErrInvalidPattern, tok, err)
			}
			out = append(out, TagMatcher{raw: tok, re: re})
		}
	}
	return out, nil
}

func matchAny(tag string, matchers []TagMatcher) bool {
	for _, m := range matchers {
		if m.Match(tag) {
			return true
		}
	}
	return false
}
