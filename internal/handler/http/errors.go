// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced while reading a request, before any service is
// called. Callers can match against them with [errors.Is].
var (
	// ErrInvalidJSON is returned when the request body is not a JSON object
	// of the expected shape.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrMeWithoutUser is returned for a /users/me route when the request
	// principal is not bound to a user record.
	ErrMeWithoutUser = errors.New("`me` requires an authenticated user")
)

// maxBodyBytes caps every JSON body the API reads.
const maxBodyBytes = 1 << 20
