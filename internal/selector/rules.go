// Package selector picks the release asset for a target platform.
//
// Selection is driven by an ordered policy table (Rules). Each rule is tried
// against the whole asset list before the next one is consulted, so a looser
// fallback rule never shadows a stricter rule that matches a later asset.
package selector

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher decides whether an asset name satisfies a rule.
type Matcher interface {
	Match(name string) bool
	String() string
}

// Rules is a selection policy in priority order.
type Rules []Matcher

// DefaultPattern selects Android x86_64 archives in one of the supported formats.
const DefaultPattern = `android.*?(x86_64|X86_64).*?\.(tar\.gz|tgz|tar\.xz|zip)$`

// DefaultRules returns the Android x86_64 policy: the strict pattern first,
// then a case-insensitive substring fallback.
func DefaultRules() Rules {
	return Rules{
		MustRegexp(DefaultPattern),
		NewSubstringMatcher(true, "android", "x86_64"),
	}
}

// RegexpMatcher matches names against a regular expression (unanchored
// unless the pattern says otherwise).
type RegexpMatcher struct {
	re *regexp.Regexp
}

// NewRegexpMatcher compiles pattern into a matcher.
func NewRegexpMatcher(pattern string) (*RegexpMatcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return &RegexpMatcher{re: re}, nil
}

// MustRegexp is like NewRegexpMatcher but panics on an invalid pattern.
// Only use it with constant patterns.
func MustRegexp(pattern string) *RegexpMatcher {
	m, err := NewRegexpMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *RegexpMatcher) Match(name string) bool {
	return m.re.MatchString(name)
}

func (m *RegexpMatcher) String() string {
	return "pattern " + m.re.String()
}

// SubstringMatcher requires every needle to occur somewhere in the name,
// in any order.
type SubstringMatcher struct {
	Needles  []string
	FoldCase bool
}

// NewSubstringMatcher creates a substring matcher. With foldCase the name and
// the needles are compared in lower case.
func NewSubstringMatcher(foldCase bool, needles ...string) *SubstringMatcher {
	return &SubstringMatcher{Needles: needles, FoldCase: foldCase}
}

func (m *SubstringMatcher) Match(name string) bool {
	if len(m.Needles) == 0 {
		return false
	}
	if m.FoldCase {
		name = strings.ToLower(name)
	}
	for _, needle := range m.Needles {
		if m.FoldCase {
			needle = strings.ToLower(needle)
		}
		if !strings.Contains(name, needle) {
			return false
		}
	}
	return true
}

func (m *SubstringMatcher) String() string {
	mode := "contains"
	if m.FoldCase {
		mode = "contains (case-insensitive)"
	}
	return fmt.Sprintf("%s %s", mode, strings.Join(m.Needles, ", "))
}
