// Package matcher matches e-mail addresses against glob and regex patterns.
// It decides which directory addresses a sync leaves unmanaged.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto detects the pattern type.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// regexPrefix forces a pattern to be read as a regular expression.
const regexPrefix = "re:"

// Matcher reports whether an address matches a pattern. Matching is case
// insensitive; addresses are trimmed before comparison.
type Matcher interface {
	Match(address string) bool
	Pattern() string
	Type() PatternType
}

type matcher struct {
	pattern     string
	patternType PatternType
	glob        string
	compiled    *regexp.Regexp
}

// New compiles pattern. With Auto, only a "re:" prefix selects Regex and
// anything else is a glob, so plus-addresses and other literal addresses
// match themselves.
func New(patternType PatternType, pattern string) (Matcher, error) {
	m := &matcher{pattern: pattern, patternType: patternType}

	expr := strings.TrimSpace(pattern)
	if patternType == Auto {
		m.patternType = detectPatternType(expr)
	}
	expr = strings.TrimPrefix(expr, regexPrefix)
	if expr == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	switch m.patternType {
	case Glob:
		m.glob = strings.ToLower(expr)
		if _, err := path.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}

	return m, nil
}

// Match checks if the address matches the pattern.
func (m *matcher) Match(address string) bool {
	address = strings.TrimSpace(address)
	if m.compiled != nil {
		return m.compiled.MatchString(address)
	}
	matched, _ := path.Match(m.glob, strings.ToLower(address))
	return matched
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType reads a "re:" prefix as Regex. Characters such as '+',
// '{' or '|' are valid in the local part of an address and never imply a
// regular expression.
func detectPatternType(pattern string) PatternType {
	if strings.HasPrefix(pattern, regexPrefix) {
		return Regex
	}
	return Glob
}

// Set matches an address against several patterns.
type Set struct {
	matchers []Matcher
}

// NewSet compiles every pattern with Auto detection. An empty set matches
// nothing.
func NewSet(patterns ...string) (*Set, error) {
	s := &Set{matchers: make([]Matcher, 0, len(patterns))}
	for _, pattern := range patterns {
		m, err := New(Auto, pattern)
		if err != nil {
			return nil, err
		}
		s.matchers = append(s.matchers, m)
	}
	return s, nil
}

// Match returns true if any pattern matches. A nil set matches nothing.
func (s *Set) Match(address string) bool {
	if s == nil {
		return false
	}
	for _, m := range s.matchers {
		if m.Match(address) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.matchers)
}

// Patterns returns the original patterns.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.matchers))
	for i, m := range s.matchers {
		out[i] = m.Pattern()
	}
	return out
}
