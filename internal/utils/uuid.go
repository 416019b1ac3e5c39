package utils

import "github.com/google/uuid"

// UUIDGenerator produces user identifiers.
//
// Identifiers are UUIDv7 strings: time-ordered, so freshly created users sort
// after older ones when compared as text. If the v7 source fails a random v4
// is returned instead.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// IsValidID reports whether id is a well-formed UUID in canonical form.
func IsValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	return uuid.Validate(id) == nil
}
