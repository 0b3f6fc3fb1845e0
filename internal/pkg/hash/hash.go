package hash

// Hash abstracts one-way hashing of secrets.
//
// Hash returns an encoded digest of the plaintext; Verify reports whether the
// plaintext matches a previously produced digest.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
