package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultgrep/vaultgrep/internal/types"
)

func TestFileMatchPlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, true)

	p.FileMatch(types.FileMatch{
		Path:  "group_vars/vault.yml",
		Lines: []string{"db_password: hunter2", "api_key: abc"},
	})

	want := "group_vars/vault.yml\n  db_password: hunter2\n  api_key: abc\n\n"
	assert.Equal(t, want, out.String())
	assert.Empty(t, errOut.String())
}

func TestNoMatchesMessage(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &bytes.Buffer{}, true)

	p.NoMatches("password|token")
	assert.Equal(t, "No matches found for pattern: password|token\n", out.String())
}

func TestWarnfGoesToErrorStream(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, true)

	p.Warnf("cannot decrypt %s: %v", "vault.yml", "HMAC verification failed")

	assert.Empty(t, out.String())
	assert.Equal(t, "Warning: cannot decrypt vault.yml: HMAC verification failed\n", errOut.String())
}

func TestColorsEmittedWhenEnabled(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.FileMatch(types.FileMatch{Path: "vault.yml", Lines: []string{p.Highlight("hit")}})

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "hit")

	// highlight wraps with escape sequences around the span
	h := p.Highlight("secret")
	assert.True(t, strings.HasPrefix(h, "\x1b["))
	assert.True(t, strings.HasSuffix(h, "\x1b[0m"))
}

func TestNoColorStripsEscapes(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, &bytes.Buffer{}, true)
	assert.Equal(t, "secret", p.Highlight("secret"))
}
