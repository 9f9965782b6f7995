// Package service provides authentication services: opaque bearer token
// generation with SHA-256 hashing and Argon2id password hashing.
package service

// TokenService generates and hashes opaque bearer tokens.
type TokenService interface {
	// GenerateToken creates a new random token, returning the plain token
	// and its hash. Only the hash is persisted.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain token for lookup.
	HashToken(plainToken string) string
}

// PasswordService hashes and verifies passwords.
type PasswordService interface {
	HashPassword(plainPassword string) (string, error)
	ComparePassword(plainPassword, hashedPassword string) bool
}
