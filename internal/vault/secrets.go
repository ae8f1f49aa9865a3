package vault

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// DefaultID is the identity assigned to secrets configured without a label.
const DefaultID = "default"

// EnvPasswordFile is the environment variable naming a vault password file,
// honored when no secret is configured explicitly.
const EnvPasswordFile = "ANSIBLE_VAULT_PASSWORD_FILE"

// ErrNoSecrets reports that no vault secret could be resolved.
var ErrNoSecrets = errors.New("no vault secrets configured")

// Secret is one vault password with its identity label.
type Secret struct {
	ID       string
	Password string
}

// FileSecret loads a secret from a password file. An executable file is run
// and its stdout used as the password, matching vault password scripts.
// A single trailing newline is stripped either way.
func FileSecret(id, path string) (Secret, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Secret{}, fmt.Errorf("failed to read vault password file %s: %w", path, err)
	}
	var raw []byte
	if !info.IsDir() && info.Mode()&0o111 != 0 {
		raw, err = exec.Command(path).Output()
		if err != nil {
			return Secret{}, fmt.Errorf("vault password script %s failed: %w", path, err)
		}
	} else {
		raw, err = os.ReadFile(path)
		if err != nil {
			return Secret{}, fmt.Errorf("failed to read vault password file %s: %w", path, err)
		}
	}
	return Secret{ID: id, Password: strings.TrimRight(string(raw), "\r\n")}, nil
}

// PromptSecret reads a password from the terminal without echo.
func PromptSecret(id string) (Secret, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return Secret{}, errors.New("cannot prompt for vault password: stdin is not a terminal")
	}
	if id == DefaultID || id == "" {
		fmt.Fprint(os.Stderr, "Vault password: ")
	} else {
		fmt.Fprintf(os.Stderr, "Vault password (%s): ", id)
	}
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return Secret{}, fmt.Errorf("failed to read vault password: %w", err)
	}
	return Secret{ID: id, Password: string(raw)}, nil
}

// ResolveOptions collects every way a secret can be configured. Sources are
// resolved in order: vault ids, password files, the ANSIBLE_VAULT_PASSWORD_FILE
// environment variable, then an interactive prompt when allowed.
type ResolveOptions struct {
	// VaultIDs holds label@source entries; source is a password file or
	// the literal "prompt".
	VaultIDs []string
	// PasswordFiles holds unlabeled password file paths.
	PasswordFiles []string
	// AllowPrompt permits falling back to an interactive prompt when
	// nothing else yielded a secret and stdin is a terminal.
	AllowPrompt bool
}

// ResolveSecrets builds the ordered secret list for a run. Resolution
// happens once at startup; the resulting list is immutable for the run.
func ResolveSecrets(opts ResolveOptions) ([]Secret, error) {
	var secrets []Secret
	for _, vid := range opts.VaultIDs {
		label, source, ok := strings.Cut(vid, "@")
		if !ok {
			label, source = DefaultID, vid
		}
		var (
			s   Secret
			err error
		)
		if source == "prompt" {
			s, err = PromptSecret(label)
		} else {
			s, err = FileSecret(label, source)
		}
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, s)
	}
	for _, f := range opts.PasswordFiles {
		s, err := FileSecret(DefaultID, f)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, s)
	}
	if len(secrets) == 0 {
		if f := os.Getenv(EnvPasswordFile); f != "" {
			s, err := FileSecret(DefaultID, f)
			if err != nil {
				return nil, err
			}
			secrets = append(secrets, s)
		}
	}
	if len(secrets) == 0 && opts.AllowPrompt && term.IsTerminal(int(os.Stdin.Fd())) {
		s, err := PromptSecret(DefaultID)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, s)
	}
	if len(secrets) == 0 {
		return nil, ErrNoSecrets
	}
	return secrets, nil
}
