// Package access holds the authorization predicates evaluated against the
// principal resolved for a request.
//
// A predicate receives the principal and the identifier of the targeted
// user record (empty when the operation has no target) and reports whether
// the operation may proceed. Every predicate switches over the three
// principal variants; unknown variants are denied.
package access

import (
	"errors"

	"github.com/MKhiriev/go-user-keeper/models"
)

// ErrDenied is returned by [Check] when a predicate does not hold.
var ErrDenied = errors.New("access denied")

// Predicate decides whether principal may act on the user record target.
type Predicate func(principal models.Principal, target string) bool

// Authenticated allows Master and any Authenticated principal.
func Authenticated() Predicate {
	return func(p models.Principal, _ string) bool {
		switch p.(type) {
		case models.Master, models.Authenticated:
			return true
		default:
			return false
		}
	}
}

// HasRole allows Master and Authenticated principals holding role.
func HasRole(role models.Role) Predicate {
	return func(p models.Principal, _ string) bool {
		switch v := p.(type) {
		case models.Master:
			return true
		case models.Authenticated:
			return v.Role == role
		default:
			return false
		}
	}
}

// IsSelfOrRole allows Master, the owner of target, and Authenticated
// principals holding role.
func IsSelfOrRole(role models.Role) Predicate {
	return func(p models.Principal, target string) bool {
		switch v := p.(type) {
		case models.Master:
			return true
		case models.Authenticated:
			return (target != "" && v.UserID == target) || v.Role == role
		default:
			return false
		}
	}
}

// IsMasterOrRole allows Master and Authenticated principals holding role.
// Ownership never matters.
func IsMasterOrRole(role models.Role) Predicate {
	return func(p models.Principal, _ string) bool {
		switch v := p.(type) {
		case models.Master:
			return true
		case models.Authenticated:
			return v.Role == role
		default:
			return false
		}
	}
}

// TokenBearing allows Master and principals authenticated by a session
// token. Basic-resolved principals are denied.
func TokenBearing() Predicate {
	return func(p models.Principal, _ string) bool {
		switch v := p.(type) {
		case models.Master:
			return true
		case models.Authenticated:
			return v.Channel == models.ChannelToken
		default:
			return false
		}
	}
}

// BasicResolved allows only principals that proved their password in this
// very request. Master and token principals are denied.
func BasicResolved() Predicate {
	return func(p models.Principal, _ string) bool {
		switch v := p.(type) {
		case models.Authenticated:
			return v.Channel == models.ChannelBasic
		default:
			return false
		}
	}
}

// All allows when every predicate allows. Evaluation stops at the first deny.
func All(predicates ...Predicate) Predicate {
	return func(p models.Principal, target string) bool {
		for _, predicate := range predicates {
			if !predicate(p, target) {
				return false
			}
		}
		return true
	}
}

// Check evaluates predicate and returns [ErrDenied] on deny. A nil
// principal is treated as Anonymous.
func Check(predicate Predicate, principal models.Principal, target string) error {
	if principal == nil {
		principal = models.Anonymous{}
	}
	if !predicate(principal, target) {
		return ErrDenied
	}
	return nil
}
