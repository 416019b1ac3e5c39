// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptVault is the private implementation of [PasswordVault] backed by
// bcrypt. The salt is generated per hash by the bcrypt package and embedded
// in its output; bcrypt.CompareHashAndPassword compares in constant time.
type bcryptVault struct {
	cost  int
	decoy []byte
}

// NewPasswordVault constructs a bcrypt [PasswordVault] with the given cost
// factor. It returns an error for costs outside bcrypt's accepted range or
// if the decoy hash cannot be generated.
func NewPasswordVault(cost int) (PasswordVault, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}

	seed := make([]byte, 18)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("error generating decoy seed: %w", err)
	}

	decoy, err := bcrypt.GenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(seed)), cost)
	if err != nil {
		return nil, fmt.Errorf("error generating decoy hash: %w", err)
	}

	return &bcryptVault{cost: cost, decoy: decoy}, nil
}

// Hash implements [PasswordVault].
//
// Passwords longer than 72 bytes are rejected with [ErrPasswordTooLong]
// instead of being silently truncated.
func (v *bcryptVault) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify implements [PasswordVault]. Malformed hashes never verify.
func (v *bcryptVault) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// VerifyAbsent implements [PasswordVault].
func (v *bcryptVault) VerifyAbsent(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(v.decoy, []byte(plaintext))
	return false
}
