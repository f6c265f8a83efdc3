// Package service declares the capabilities the use cases need from the
// outside world: hashing, tokens, pushes, QR rendering and event publishing.
package service

// PasswordHasher stores and verifies shopper and admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password produced hash. Malformed hashes never match.
	Check(password, hash string) bool

	// ValidatePasswordStrength applies the passwordStrength rules from config at
	// registration time. Existing hashes are never re-validated.
	ValidatePasswordStrength(password string) error
}
