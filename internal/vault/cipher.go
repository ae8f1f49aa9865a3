package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize   = 32
	saltSize  = 32
	kdfRounds = 10000
)

// ErrBadPassword reports an HMAC mismatch: wrong vault password or a
// tampered payload.
var ErrBadPassword = errors.New("HMAC verification failed")

// deriveKeys stretches a password into the AES key, HMAC key, and CTR IV
// used by the AES256 scheme.
func deriveKeys(password, salt []byte) (cipherKey, macKey, iv []byte) {
	d := pbkdf2.Key(password, salt, kdfRounds, 2*keySize+aes.BlockSize, sha256.New)
	return d[:keySize], d[keySize : 2*keySize], d[2*keySize:]
}

func decryptAES256(env *Envelope, password []byte) ([]byte, error) {
	cipherKey, macKey, iv := deriveKeys(password, env.Salt)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(env.Ciphertext)
	if !hmac.Equal(mac.Sum(nil), env.MAC) {
		return nil, ErrBadPassword
	}

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	out := make([]byte, len(env.Ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(out, env.Ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

func encryptAES256(plaintext, password []byte, label string) (*Envelope, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	cipherKey, macKey, iv := deriveKeys(password, salt)

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCTR(block, iv).XORKeyStream(ct, padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(ct)

	env := &Envelope{
		Version:    versionPlain,
		Cipher:     cipherAES256,
		Salt:       salt,
		MAC:        mac.Sum(nil),
		Ciphertext: ct,
	}
	if label != "" && label != DefaultID {
		env.Version = versionLabeled
		env.Label = label
	}
	return env, nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, 0, len(b)+n)
	out = append(out, b...)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, fmt.Errorf("%w: bad padded length %d", ErrEnvelope, len(b))
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("%w: bad padding byte %d", ErrEnvelope, n)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: inconsistent padding", ErrEnvelope)
		}
	}
	return b[:len(b)-n], nil
}
