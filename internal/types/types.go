package types

// FileMatch describes one vault file whose decrypted plaintext matched the
// search pattern. Lines holds the deduplicated matching lines, each with
// match spans already wrapped in highlight markers and leading whitespace
// stripped.
type FileMatch struct {
	Path  string
	Lines []string
}

// Stats summarizes one scan pass.
type Stats struct {
	// FilesSeen counts regular files considered by the walk.
	FilesSeen int
	// VaultFiles counts files whose first line carried the vault signature.
	VaultFiles int
	// Decrypted counts vault files that decrypted successfully.
	Decrypted int
	// Matched counts files that produced at least one matching line.
	Matched int
}
