package vault

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Marker is the signature carried on the first line of vault-encrypted data.
const Marker = "$ANSIBLE_VAULT"

const (
	versionPlain   = "1.1"
	versionLabeled = "1.2"
	cipherAES256   = "AES256"

	bodyLineWidth = 80
)

var (
	// ErrNotVault reports input that does not start with the vault header.
	ErrNotVault = errors.New("input is not vault encrypted data")
	// ErrEnvelope reports a structurally broken vault payload.
	ErrEnvelope = errors.New("malformed vault envelope")
	// ErrUnsupported reports an envelope version or cipher this
	// implementation does not handle.
	ErrUnsupported = errors.New("unsupported vault envelope")
)

// Envelope is a parsed vault payload. The hexlified body decodes to three
// newline-separated hex strings: salt, MAC, ciphertext.
type Envelope struct {
	Version    string
	Cipher     string
	Label      string // vault id from a 1.2 header, empty for 1.1
	Salt       []byte
	MAC        []byte // HMAC-SHA256 over the ciphertext
	Ciphertext []byte
}

// IsEncrypted reports whether data begins with the vault header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Marker))
}

// ParseEnvelope splits a vault payload into its envelope fields.
func ParseEnvelope(data []byte) (*Envelope, error) {
	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, Marker) {
		return nil, ErrNotVault
	}
	header, body, ok := strings.Cut(text, "\n")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload after header", ErrEnvelope)
	}

	fields := strings.Split(strings.TrimSpace(header), ";")
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: header has %d fields", ErrEnvelope, len(fields))
	}
	env := &Envelope{Version: fields[1], Cipher: fields[2]}
	switch env.Version {
	case versionPlain:
	case versionLabeled:
		if len(fields) > 3 {
			env.Label = fields[3]
		}
	default:
		return nil, fmt.Errorf("%w: version %q", ErrUnsupported, env.Version)
	}
	if env.Cipher != cipherAES256 {
		return nil, fmt.Errorf("%w: cipher %q", ErrUnsupported, env.Cipher)
	}

	raw, err := hex.DecodeString(strings.Join(strings.Fields(body), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: body is not hex: %v", ErrEnvelope, err)
	}
	parts := bytes.Split(raw, []byte("\n"))
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: body has %d sections, want 3", ErrEnvelope, len(parts))
	}
	if env.Salt, err = hexPart(parts[0], "salt"); err != nil {
		return nil, err
	}
	if env.MAC, err = hexPart(parts[1], "hmac"); err != nil {
		return nil, err
	}
	if env.Ciphertext, err = hexPart(parts[2], "ciphertext"); err != nil {
		return nil, err
	}
	return env, nil
}

func hexPart(b []byte, name string) ([]byte, error) {
	out, err := hex.DecodeString(string(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not hex: %v", ErrEnvelope, name, err)
	}
	return out, nil
}

// serialize renders the envelope back into wire form: the header line
// followed by the hexlified body wrapped at 80 columns.
func (e *Envelope) serialize() []byte {
	header := strings.Join([]string{Marker, e.Version, e.Cipher}, ";")
	if e.Version == versionLabeled && e.Label != "" {
		header += ";" + e.Label
	}

	inner := strings.Join([]string{
		hex.EncodeToString(e.Salt),
		hex.EncodeToString(e.MAC),
		hex.EncodeToString(e.Ciphertext),
	}, "\n")
	body := hex.EncodeToString([]byte(inner))

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteByte('\n')
	for len(body) > bodyLineWidth {
		buf.WriteString(body[:bodyLineWidth])
		buf.WriteByte('\n')
		body = body[bodyLineWidth:]
	}
	buf.WriteString(body)
	buf.WriteByte('\n')
	return buf.Bytes()
}
