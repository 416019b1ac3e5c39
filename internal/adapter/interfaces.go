// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a typed client for the go-user-keeper HTTP API.
//
// The primary abstraction is [UserAPI]; [NewHTTPUserAPI] returns the
// REST implementation built on resty. Non-2xx responses are decoded into
// [APIError], which unwraps to the sentinels in errors.go so that callers
// can use [errors.Is] (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/user_api_mock.go -package=mock

// UserAPI is the client side of the /users endpoints.
type UserAPI interface {
	// SetToken stores the access token attached as a bearer token to every
	// subsequent request. It may be a session token or the master key.
	SetToken(token string)

	// Token returns the stored access token, or an empty string.
	Token() string

	// Login exchanges Basic credentials for a session via POST /users/auth.
	// On success the session token is stored via SetToken.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// CreateUser creates a user record. Requires the master key or an admin
	// token.
	CreateUser(ctx context.Context, input models.CreateUserInput) (models.User, error)

	// GetUser fetches the public view of a user record.
	GetUser(ctx context.Context, id string) (models.User, error)

	// GetSelf fetches the record of the token holder.
	GetSelf(ctx context.Context) (models.User, error)

	// ListUsers fetches one page of the listing. Fields not projected by
	// query are left zero.
	ListUsers(ctx context.Context, query models.UserQuery) ([]models.User, error)

	// UpdateUser applies a profile update to the record id.
	UpdateUser(ctx context.Context, id string, input models.UpdateUserInput) (models.User, error)

	// ChangePassword replaces the password of the record id. The request is
	// authenticated with Basic credentials only, the stored token is not
	// sent.
	ChangePassword(ctx context.Context, id string, credentials models.BasicCredentials, newPassword string) (models.User, error)

	// DeleteUser removes the record id.
	DeleteUser(ctx context.Context, id string) error

	// Version returns the server version.
	Version(ctx context.Context) (string, error)
}
