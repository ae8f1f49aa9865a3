package vault

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePasswordFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "vault_pass")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestFileSecretTrimsTrailingNewline(t *testing.T) {
	p := writePasswordFile(t, "hunter2\n")
	s, err := FileSecret(DefaultID, p)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", s.Password)
	assert.Equal(t, DefaultID, s.ID)

	p = writePasswordFile(t, "hunter2\r\n")
	s, err = FileSecret(DefaultID, p)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", s.Password)
}

func TestFileSecretMissingFile(t *testing.T) {
	_, err := FileSecret(DefaultID, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFileSecretRunsExecutableScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("password scripts are a unix convention")
	}
	p := filepath.Join(t.TempDir(), "vault_pass.sh")
	script := "#!/bin/sh\necho swordfish\n"
	require.NoError(t, os.WriteFile(p, []byte(script), 0o755))

	s, err := FileSecret("prod", p)
	require.NoError(t, err)
	assert.Equal(t, "swordfish", s.Password)
	assert.Equal(t, "prod", s.ID)
}

func TestResolveSecretsVaultIDs(t *testing.T) {
	p := writePasswordFile(t, "pw-prod\n")
	secrets, err := ResolveSecrets(ResolveOptions{
		VaultIDs: []string{"prod@" + p},
	})
	require.NoError(t, err)
	require.Len(t, secrets, 1)
	assert.Equal(t, Secret{ID: "prod", Password: "pw-prod"}, secrets[0])
}

func TestResolveSecretsUnlabeledID(t *testing.T) {
	p := writePasswordFile(t, "pw\n")
	secrets, err := ResolveSecrets(ResolveOptions{VaultIDs: []string{p}})
	require.NoError(t, err)
	require.Len(t, secrets, 1)
	assert.Equal(t, DefaultID, secrets[0].ID)
}

func TestResolveSecretsEnvFallback(t *testing.T) {
	p := writePasswordFile(t, "from-env\n")
	t.Setenv(EnvPasswordFile, p)

	secrets, err := ResolveSecrets(ResolveOptions{})
	require.NoError(t, err)
	require.Len(t, secrets, 1)
	assert.Equal(t, "from-env", secrets[0].Password)
}

func TestResolveSecretsExplicitBeatsEnv(t *testing.T) {
	envFile := writePasswordFile(t, "from-env\n")
	t.Setenv(EnvPasswordFile, envFile)
	flagFile := writePasswordFile(t, "from-flag\n")

	secrets, err := ResolveSecrets(ResolveOptions{PasswordFiles: []string{flagFile}})
	require.NoError(t, err)
	require.Len(t, secrets, 1)
	assert.Equal(t, "from-flag", secrets[0].Password)
}

func TestResolveSecretsNothingConfigured(t *testing.T) {
	t.Setenv(EnvPasswordFile, "")
	_, err := ResolveSecrets(ResolveOptions{})
	assert.True(t, errors.Is(err, ErrNoSecrets))
}

func TestResolveSecretsBadFileIsFatal(t *testing.T) {
	_, err := ResolveSecrets(ResolveOptions{
		PasswordFiles: []string{filepath.Join(t.TempDir(), "missing")},
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSecrets))
}
