package crypto

import "errors"

var (
	// ErrInvalidCost is returned by [NewPasswordVault] for a bcrypt cost
	// outside bcrypt.MinCost..bcrypt.MaxCost.
	ErrInvalidCost = errors.New("invalid password hash cost")

	// ErrPasswordTooLong is returned by Hash when the password exceeds the
	// 72-byte bcrypt input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)
