package engine

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/vaultgrep/vaultgrep/internal/types"
	"github.com/vaultgrep/vaultgrep/internal/vault"
)

// version-control metadata directories are never descended into
var vcsDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// headProbe bounds the first-line read used for signature detection.
const headProbe = 8192

// walk traverses the root depth-first in directory-entry order and invokes
// yield for every nonempty regular file whose first line carries the vault
// signature. Symlinks and special files are skipped silently; unreadable
// entries produce a warning and are skipped.
func (s *Scanner) walk(stats *types.Stats, yield func(path string)) {
	_ = filepath.WalkDir(s.cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.warnf("cannot access %s: %v", p, err)
			return nil
		}
		if d.IsDir() {
			if p != s.cfg.Root && vcsDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		stats.FilesSeen++

		rel, rerr := filepath.Rel(s.cfg.Root, p)
		if rerr != nil {
			rel = p
		}
		if s.excluded(rel) || s.ign.Match(rel) {
			return nil
		}

		info, ierr := d.Info()
		if ierr != nil {
			s.warnf("cannot stat %s: %v", p, ierr)
			return nil
		}
		if info.Size() == 0 {
			return nil
		}
		if s.cfg.MaxBytes > 0 && info.Size() > s.cfg.MaxBytes {
			return nil
		}
		if !s.isVaultFile(p) {
			return nil
		}
		stats.VaultFiles++
		yield(p)
		return nil
	})
}

// isVaultFile checks only the first line of the file for the vault marker.
// Any read failure is a warning and counts as "not a vault file".
func (s *Scanner) isVaultFile(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		s.warnf("cannot read %s: %v", p, err)
		return false
	}
	defer f.Close()

	buf := make([]byte, headProbe)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		s.warnf("cannot read %s: %v", p, err)
		return false
	}
	head := buf[:n]
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	return bytes.Contains(head, []byte(vault.Marker))
}

func (s *Scanner) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, g := range s.cfg.Excludes {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}
