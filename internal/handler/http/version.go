package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
)

// version serves the deployed API version as plain text. It needs no
// credentials.
func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.WriteText(w, h.services.AppInfoService.Version(r.Context())); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.version").Msg("error writing version")
	}
}
