package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultgrep/vaultgrep/internal/search"
	"github.com/vaultgrep/vaultgrep/internal/types"
	"github.com/vaultgrep/vaultgrep/internal/vault"
)

const vaultHeader = "$ANSIBLE_VAULT;1.1;AES256\n64656164\n"

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func walkPaths(t *testing.T, cfg Config) []string {
	t.Helper()
	m, err := search.New("x")
	require.NoError(t, err)
	s := New(cfg, nil, m)

	var got []string
	var stats types.Stats
	s.walk(&stats, func(p string) {
		rel, err := filepath.Rel(cfg.Root, p)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	})
	return got
}

func TestWalkYieldsOnlySignatureFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vault.yml", vaultHeader)
	writeFile(t, dir, "plain.yml", "db_password: hunter2\n")
	writeFile(t, dir, "late_marker.yml", "comment\n"+vaultHeader)
	writeFile(t, dir, "sub/nested.yml", vaultHeader)

	got := walkPaths(t, Config{Root: dir})
	assert.ElementsMatch(t, []string{"vault.yml", "sub/nested.yml"}, got)
}

func TestWalkSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.yml", "")
	writeFile(t, dir, "vault.yml", vaultHeader)

	got := walkPaths(t, Config{Root: dir})
	assert.Equal(t, []string{"vault.yml"}, got)
}

func TestWalkSkipsVCSDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".git/objects/vault.yml", vaultHeader)
	writeFile(t, dir, ".hg/vault.yml", vaultHeader)
	writeFile(t, dir, ".svn/vault.yml", vaultHeader)
	writeFile(t, dir, "kept.yml", vaultHeader)

	got := walkPaths(t, Config{Root: dir})
	assert.Equal(t, []string{"kept.yml"}, got)
}

func TestWalkSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "vault.yml", vaultHeader)
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.yml")))

	got := walkPaths(t, Config{Root: dir})
	assert.Equal(t, []string{"vault.yml"}, got)
}

func TestWalkHonorsExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fixtures/vault.yml", vaultHeader)
	writeFile(t, dir, "group_vars/vault.yml", vaultHeader)

	got := walkPaths(t, Config{Root: dir, Excludes: []string{"fixtures/**"}})
	assert.Equal(t, []string{"group_vars/vault.yml"}, got)
}

func TestWalkHonorsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".vaultgrepignore", "ignored.yml\n")
	writeFile(t, dir, "ignored.yml", vaultHeader)
	writeFile(t, dir, "kept.yml", vaultHeader)

	got := walkPaths(t, Config{Root: dir})
	assert.Equal(t, []string{"kept.yml"}, got)
}

func TestWalkHonorsMaxBytes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.yml", vaultHeader)
	writeFile(t, dir, "big.yml", vaultHeader+string(make([]byte, 4096)))

	got := walkPaths(t, Config{Root: dir, MaxBytes: 1024})
	assert.Equal(t, []string{"small.yml"}, got)
}

func TestIsVaultFileUsesFirstLineOnly(t *testing.T) {
	dir := t.TempDir()
	m, err := search.New("x")
	require.NoError(t, err)
	s := New(Config{Root: dir}, nil, m)

	p := writeFile(t, dir, "a.yml", "first line\n"+vault.Marker+"\n")
	assert.False(t, s.isVaultFile(p))

	p = writeFile(t, dir, "b.yml", "prefix "+vault.Marker+" suffix\nrest\n")
	assert.True(t, s.isVaultFile(p))

	assert.False(t, s.isVaultFile(filepath.Join(dir, "missing.yml")))
}
