package http

import "github.com/unrolled/secure"

// securityHeaders sets the response headers of a JSON API. TLS is terminated
// in front of the service, so no redirect or HSTS is configured here.
func securityHeaders() *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	})
}
