package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

const accessTokenParam = "access_token"

// resolveCredentials turns the request credentials into a principal and
// stores it in the request context under [utils.PrincipalCtxKey].
//
// It never rejects a request: missing or bad credentials resolve to
// [models.Anonymous] and the per-operation gates decide what that principal
// may do.
func (h *Handler) resolveCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credentials := models.Credentials{AccessToken: accessTokenFromRequest(r)}

		if email, password, ok := r.BasicAuth(); ok {
			credentials.Basic = &models.BasicCredentials{Email: email, Password: password}
		}

		ctx := r.Context()
		principal := h.services.AuthService.Resolve(ctx, credentials)
		h.metrics.resolutions.WithLabelValues(principal.Kind()).Inc()

		logger.FromContext(ctx).Debug().
			Str("func", "*Handler.resolveCredentials").
			Str("principal", principal.Kind()).
			Msg("principal resolved")

		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(ctx, principal)))
	})
}

// accessTokenFromRequest looks for access_token in the query string, then in
// a JSON request body, then in an "Authorization: Bearer" header.
func accessTokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get(accessTokenParam); token != "" {
		return token
	}
	if token := accessTokenFromBody(r); token != "" {
		return token
	}
	if token, err := utils.ParseBearerToken(r.Header.Get("Authorization")); err == nil {
		return token
	}
	return ""
}

// accessTokenFromBody peeks at a JSON body and restores it so that the
// handler can decode it again.
func accessTokenFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.AccessToken
}
