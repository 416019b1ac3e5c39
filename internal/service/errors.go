package service

import "errors"

var (
	// ErrUnauthorized covers missing or invalid credentials, the wrong
	// credential channel, and a principal lacking the required role or
	// ownership.
	ErrUnauthorized = errors.New("unauthorized")

	ErrUserNotFound = errors.New("user not found")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrStorageUnavailable = errors.New("storage unavailable")
)
