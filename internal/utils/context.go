// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// PrincipalCtxKey is the key under which the credential middleware stores the
// resolved [models.Principal] of the request.
//
//	ctx := context.WithValue(ctx, utils.PrincipalCtxKey, models.Master{})
var PrincipalCtxKey = contextKey("principal")

// GetPrincipalFromContext retrieves the resolved principal from the context.
//
// A missing or mistyped value yields [models.Anonymous]; a request is never
// treated as more privileged than what was explicitly stored.
func GetPrincipalFromContext(ctx context.Context) models.Principal {
	p, ok := ctx.Value(PrincipalCtxKey).(models.Principal)
	if !ok || p == nil {
		return models.Anonymous{}
	}
	return p
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalCtxKey, p)
}
