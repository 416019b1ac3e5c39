// Package server runs the go-user-keeper transports: the HTTP user API and
// the optional gRPC health endpoint.
//
// Both listeners start together and stop together: SIGTERM, SIGINT or
// SIGQUIT drains in-flight HTTP requests, flips the health status to
// NOT_SERVING and gracefully stops gRPC.
package server
