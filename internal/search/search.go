// Package search matches a compiled pattern against decrypted plaintext and
// produces highlighted copies of the matching lines.
package search

import (
	"regexp"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

// WrapFunc marks one match span, typically by surrounding it with color
// escape sequences.
type WrapFunc func(string) string

// Matcher wraps a compiled pattern. It is immutable and safe to reuse.
type Matcher struct {
	re *regexp.Regexp
}

// New compiles expr. An invalid expression is the caller's fatal error.
func New(expr string) (*Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re}, nil
}

// Pattern returns the source text of the compiled expression.
func (m *Matcher) Pattern() string {
	return m.re.String()
}

// Matches reports whether the pattern occurs anywhere in text. It is the
// cheap whole-document check run before any per-line work.
func (m *Matcher) Matches(text string) bool {
	return m.re.MatchString(text)
}

// MatchingLines returns the distinct lines of text that match the pattern,
// in first-seen order, each highlighted via Highlight. Two identical
// matching lines anywhere in the document yield one entry.
func (m *Matcher) MatchingLines(text string, wrap WrapFunc) []string {
	seen := map[uint64]struct{}{}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if !m.re.MatchString(line) {
			continue
		}
		key := xxhash.Sum64String(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m.Highlight(line, wrap))
	}
	return out
}

// Highlight wraps every non-overlapping pattern occurrence in line and
// strips leading whitespace from the result. A nil wrap leaves the match
// spans unmarked.
func (m *Matcher) Highlight(line string, wrap WrapFunc) string {
	if wrap == nil {
		wrap = func(s string) string { return s }
	}
	marked := m.re.ReplaceAllStringFunc(line, wrap)
	return strings.TrimLeft(marked, " \t")
}
