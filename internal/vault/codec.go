package vault

// Codec decrypts vault payloads using a fixed, ordered list of secrets.
// It is read-only after construction and safe to reuse across files.
type Codec struct {
	secrets []Secret
}

// NewCodec builds a codec over the given secrets.
func NewCodec(secrets []Secret) *Codec {
	return &Codec{secrets: secrets}
}

// Decrypt parses a vault payload and tries the configured secrets until one
// authenticates. A 1.2 vault-id label moves secrets with the matching id to
// the front, but every secret is still tried before giving up.
func (c *Codec) Decrypt(data []byte) ([]byte, error) {
	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, err
	}
	if len(c.secrets) == 0 {
		return nil, ErrNoSecrets
	}
	var lastErr error
	for _, s := range c.ordered(env.Label) {
		out, err := decryptAES256(env, []byte(s.Password))
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Codec) ordered(label string) []Secret {
	if label == "" {
		return c.secrets
	}
	out := make([]Secret, 0, len(c.secrets))
	for _, s := range c.secrets {
		if s.ID == label {
			out = append(out, s)
		}
	}
	for _, s := range c.secrets {
		if s.ID != label {
			out = append(out, s)
		}
	}
	return out
}

// Encrypt produces a vault payload that Decrypt accepts. A non-default
// secret id yields a labeled 1.2 header. The CLI has no write path; this
// exists to keep the format symmetrical and round-trip testable.
func Encrypt(plaintext []byte, s Secret) ([]byte, error) {
	env, err := encryptAES256(plaintext, []byte(s.Password), s.ID)
	if err != nil {
		return nil, err
	}
	return env.serialize(), nil
}
