package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/utils"
)

// issueSession exchanges Basic credentials, already verified by
// resolveCredentials, for a session token.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.services.AuthService.IssueSession(ctx, utils.GetPrincipalFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, session, http.StatusCreated)
}
