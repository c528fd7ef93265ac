// Package service defines domain-level service contracts implemented by the
// infrastructure layer.
package service

// PasswordHasher handles password hashing and verification.
type PasswordHasher interface {
	// Hash generates a hash from a plaintext password.
	Hash(password string) (string, error)

	// Compare checks whether the plaintext password matches the hash.
	Compare(hash, password string) error
}
