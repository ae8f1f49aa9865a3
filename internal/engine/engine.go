package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vaultgrep/vaultgrep/internal/ignore"
	"github.com/vaultgrep/vaultgrep/internal/search"
	"github.com/vaultgrep/vaultgrep/internal/types"
)

// Decrypter turns a vault payload into plaintext. The production
// implementation is vault.Codec; tests substitute fakes.
type Decrypter interface {
	Decrypt(data []byte) ([]byte, error)
}

// Config controls a scan: where to walk and what to skip.
type Config struct {
	Root     string
	Excludes []string // doublestar globs, matched against relative path and basename
	MaxBytes int64    // skip candidate files larger than this (0 = no limit)
	// Warnf receives per-file and per-directory diagnostics. Nil discards.
	Warnf func(format string, args ...any)
	// Highlight marks match spans in emitted lines. Nil leaves them bare.
	Highlight search.WrapFunc
}

// Scanner runs the decrypt-and-match pipeline over one directory tree.
// It holds no mutable state between calls to Scan.
type Scanner struct {
	cfg Config
	dec Decrypter
	m   *search.Matcher
	ign ignore.Matcher
}

// New builds a scanner. The ignore matcher is loaded from
// .vaultgrepignore under the root, if present.
func New(cfg Config, dec Decrypter, m *search.Matcher) *Scanner {
	if cfg.Warnf == nil {
		cfg.Warnf = func(string, ...any) {}
	}
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".vaultgrepignore"))
	return &Scanner{cfg: cfg, dec: dec, m: m, ign: ign}
}

// Scan walks the tree and emits one FileMatch per vault file whose
// plaintext matches the pattern, in walk order. Per-file failures are
// warnings; Scan itself always completes.
func (s *Scanner) Scan(emit func(types.FileMatch)) types.Stats {
	var stats types.Stats
	s.walk(&stats, func(p string) {
		data, err := os.ReadFile(p)
		if err != nil {
			s.warnf("cannot read %s: %v", p, err)
			return
		}
		plain, err := s.dec.Decrypt(data)
		if err != nil {
			s.warnf("cannot decrypt %s: %v", p, err)
			return
		}
		stats.Decrypted++

		text := decodeLenient(plain)
		if !s.m.Matches(text) {
			return
		}
		stats.Matched++
		emit(types.FileMatch{Path: p, Lines: s.m.MatchingLines(text, s.cfg.Highlight)})
	})
	return stats
}

func (s *Scanner) warnf(format string, args ...any) {
	s.cfg.Warnf(format, args...)
}

// decodeLenient interprets plaintext as UTF-8, replacing invalid byte
// sequences instead of failing.
func decodeLenient(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
