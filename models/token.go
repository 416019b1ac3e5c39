package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a signed session token together with its decoded claims.
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be handed to the client.
// UserID is a copy of the "sub" claim.
type Token struct {
	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, iss) as defined by RFC 7519. It is decoded from the
	// token payload, so it must stay untagged.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the subject the token was issued for.
	UserID string `json:"-"`
}

// ExpiresAtTime returns the expiry instant or the zero time when the claim is
// absent.
func (t Token) ExpiresAtTime() time.Time {
	if t.ExpiresAt == nil {
		return time.Time{}
	}
	return t.ExpiresAt.Time
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
