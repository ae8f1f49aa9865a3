// Package ignore loads .vaultgrepignore files: one pattern per line,
// blank lines and # comments skipped. Patterns use doublestar glob
// semantics; a trailing slash marks a directory prefix.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Matcher tests relative paths against loaded ignore patterns.
type Matcher struct {
	patterns []string
	prefixes []string // directory patterns (trailing slash)
}

// Load reads an ignore file. A missing file yields an empty matcher and
// no error.
func Load(path string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			m.prefixes = append(m.prefixes, strings.TrimSuffix(line, "/"))
			continue
		}
		m.patterns = append(m.patterns, line)
	}
	return m, sc.Err()
}

// Match reports whether the slash-separated relative path is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, p := range m.prefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	base := filepath.Base(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// Empty reports whether no patterns were loaded.
func (m Matcher) Empty() bool {
	return len(m.patterns) == 0 && len(m.prefixes) == 0
}
