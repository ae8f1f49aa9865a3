// Package engine contains the scan pipeline: it walks a directory tree for
// vault-encrypted files, decrypts each one, and emits the files whose
// plaintext matches the search pattern. Per-file and per-directory failures
// are reported as warnings and skipped; the walk itself never aborts.
package engine
