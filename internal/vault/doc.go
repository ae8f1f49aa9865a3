// Package vault implements the Ansible vault payload format: the
// $ANSIBLE_VAULT envelope (versions 1.1 and 1.2) and the AES256 scheme
// (PBKDF2-SHA256 key derivation, AES-256-CTR, HMAC-SHA256 authentication).
// It also resolves vault secrets from password files, password scripts,
// vault-id lists, and interactive prompts.
//
// The Codec type is the read side consumed by the scan engine. Encrypt is
// provided so payloads produced here round-trip through Decrypt; the CLI
// itself never writes vault files.
package vault
