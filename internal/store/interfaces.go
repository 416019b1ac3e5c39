package store

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user records.
//
// Emails are expected lower-cased by the caller. Lookups of an absent id or
// email return [ErrNoUserWasFound]; a colliding email returns a
// [*DuplicateKeyError].
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// ListUsers returns one page ordered newest first. Columns outside
	// query.Fields are left zero in the result.
	ListUsers(ctx context.Context, query models.UserQuery) ([]models.User, error)

	// UpdateUser applies the non-nil fields of update and returns the stored
	// record.
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ErrorClassificator decides how a driver error should be treated.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
