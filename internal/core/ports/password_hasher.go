package ports

// PasswordHasher is the one-way, salted digest primitive.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, digest string) bool
}
