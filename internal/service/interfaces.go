package service

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// TokenCodec issues and verifies session tokens bound to one user id.
type TokenCodec interface {
	// Issue returns a signed token for userID expiring after the configured
	// lifetime.
	Issue(ctx context.Context, userID string) (models.Token, error)

	// Verify returns the subject of a valid token. It fails with
	// ErrTokenIsExpiredOrInvalid for a bad signature, a malformed payload,
	// a foreign issuer, or a current time at or past expiry.
	Verify(ctx context.Context, token string) (string, error)
}

// AuthService turns request credentials into a principal and issues
// session tokens.
type AuthService interface {
	// Resolve never fails: any credential that cannot be verified yields
	// models.Anonymous.
	Resolve(ctx context.Context, credentials models.Credentials) models.Principal

	// IssueSession returns a fresh token for a principal that presented
	// Basic credentials in this request.
	IssueSession(ctx context.Context, principal models.Principal) (models.Session, error)
}

// UserService is the user lifecycle. Every method that takes a principal
// checks it before touching the store and fails with ErrUnauthorized on deny.
// Returned users never carry a password hash.
type UserService interface {
	Create(ctx context.Context, principal models.Principal, input models.CreateUserInput) (models.User, error)
	List(ctx context.Context, principal models.Principal, query models.UserQuery) ([]models.User, error)
	GetSelf(ctx context.Context, principal models.Principal) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, principal models.Principal, id string, input models.UpdateUserInput) (models.User, error)
	ChangePassword(ctx context.Context, principal models.Principal, id string, input models.ChangePasswordInput) (models.User, error)
	Delete(ctx context.Context, principal models.Principal, id string) error
}

// AppInfoService describes the running deployment.
type AppInfoService interface {
	// Version returns the deployed API version as a single line.
	Version(ctx context.Context) string
}

// HealthService reports whether the service can serve requests.
type HealthService interface {
	Check(ctx context.Context) error
}

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IDGenerator produces identifiers for new users.
type IDGenerator interface {
	Generate() string
}
