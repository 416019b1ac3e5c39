package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_vault_mock.go -package=mock

// PasswordVault owns the one-way transformation of user passwords and the
// comparison contract. It knows nothing about users, storage or transport.
type PasswordVault interface {
	// Hash returns a salted hash of plaintext. Two calls with the same
	// plaintext return different hashes; both verify.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hashed. The comparison takes
	// the same time wherever the first differing byte is.
	Verify(plaintext, hashed string) bool

	// VerifyAbsent performs a full verification against an internal decoy
	// hash and always returns false. Callers use it when no stored hash
	// exists, so an unknown account costs as much as a wrong password.
	VerifyAbsent(plaintext string) bool
}
