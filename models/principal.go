package models

// Channel identifies how an authenticated principal proved its identity.
type Channel int

const (
	// ChannelToken means a valid session token was presented.
	ChannelToken Channel = iota + 1

	// ChannelBasic means email and password were presented in the Basic
	// Authorization header and verified against the stored hash.
	ChannelBasic
)

// String returns a label suitable for logs and metrics.
func (c Channel) String() string {
	switch c {
	case ChannelToken:
		return "token"
	case ChannelBasic:
		return "basic"
	default:
		return "unknown"
	}
}

// Principal is the identity-or-privilege resolved for one request.
//
// It is a closed union: the only implementations are [Anonymous],
// [Authenticated] and [Master]. Code that inspects a principal should use a
// type switch covering all three.
type Principal interface {
	// Kind returns a short label of the variant.
	Kind() string

	principal()
}

// Anonymous is the principal of a request without usable credentials.
type Anonymous struct{}

// Authenticated is a principal bound to an existing user record.
type Authenticated struct {
	UserID  string
	Role    Role
	Channel Channel
}

// Master is the holder of the deployment-wide master secret.
// It is not tied to any user record.
type Master struct{}

func (Anonymous) Kind() string     { return "anonymous" }
func (Authenticated) Kind() string { return "authenticated" }
func (Master) Kind() string        { return "master" }

func (Anonymous) principal()     {}
func (Authenticated) principal() {}
func (Master) principal()        {}

// BasicCredentials is an email/password pair taken from the Basic
// Authorization header.
type BasicCredentials struct {
	Email    string
	Password string
}

// Credentials is the raw credential material found on a request.
// Both channels may be present at once; precedence is decided by the
// credential resolver.
type Credentials struct {
	// AccessToken is the `access_token` value (query, body or Bearer header).
	AccessToken string

	// Basic is non-nil when a Basic Authorization header was sent.
	Basic *BasicCredentials
}
