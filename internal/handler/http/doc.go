// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the
// user API. Cross-cutting concerns such as credential resolution, request
// tracing, access logging, metrics and security headers are handled in this
// package before requests are delegated to the service layer.
package http
