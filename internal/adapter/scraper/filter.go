package scraper

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which listing entries are candidates, by glob patterns
// matched case-insensitively against the unescaped file name.
type Filter struct {
	includes []string
	excludes []string
}

func NewFilter(includes, excludes []string) *Filter {
	if len(includes) == 0 {
		includes = []string{"*"}
	}
	return &Filter{
		includes: lowerAll(includes),
		excludes: lowerAll(excludes),
	}
}

// Match reports whether name is included and not excluded.
func (f *Filter) Match(name string) bool {
	name = strings.ToLower(name)
	return f.shouldInclude(name) && !f.shouldExclude(name)
}

func (f *Filter) shouldInclude(name string) bool {
	for _, pattern := range f.includes {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (f *Filter) shouldExclude(name string) bool {
	for _, pattern := range f.excludes {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// Validate reports the first malformed pattern.
func (f *Filter) Validate() error {
	for _, p := range append(append([]string(nil), f.includes...), f.excludes...) {
		if !doublestar.ValidatePattern(p) {
			return &PatternError{Pattern: p}
		}
	}
	return nil
}

type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid glob pattern: " + e.Pattern
}

func lowerAll(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(p)
	}
	return out
}
