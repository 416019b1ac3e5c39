package handler

import "errors"

// errNoHandlersAreCreated means the server configuration enables neither
// the HTTP API nor the gRPC health endpoint.
var errNoHandlersAreCreated = errors.New("no handlers are created")
