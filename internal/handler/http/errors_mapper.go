package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/crypto"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/internal/validators"
	"github.com/MKhiriev/go-user-keeper/models"
)

var errorStatusMap = map[error]int{
	service.ErrUnauthorized:            http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	ErrMeWithoutUser:                   http.StatusUnauthorized,
	service.ErrUserNotFound:            http.StatusNotFound,
	store.ErrNoUserWasFound:            http.StatusNotFound,
	store.ErrDuplicateKey:              http.StatusConflict,
	validators.ErrValidation:           http.StatusBadRequest,
	ErrInvalidJSON:                     http.StatusBadRequest,
	crypto.ErrPasswordTooLong:          http.StatusBadRequest,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorBody picks the JSON shape for err: the validation errors and the
// duplicate key error carry their own bodies, everything else is reduced to
// a name and a message. Internal errors never leak their text.
func errorBody(err error, status int) any {
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	var perr *validators.ParamError
	if errors.As(err, &perr) {
		return perr
	}

	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return validators.NewParamError(validators.RuleInvalid, "password", "password must be at most 72 bytes long")
	}

	var dup *store.DuplicateKeyError
	if errors.As(err, &dup) {
		return models.DuplicateKeyResponse{Valid: false, Param: dup.Field, Message: dup.Error()}
	}

	switch status {
	case http.StatusBadRequest:
		return validators.NewParamError(validators.RuleInvalid, "body", "%s", err.Error())
	case http.StatusUnauthorized:
		return models.ErrorResponse{Name: "UnauthorizedError", Message: "unauthorized"}
	case http.StatusNotFound:
		return models.ErrorResponse{Name: "NotFoundError", Message: "not found"}
	default:
		return models.ErrorResponse{Name: "InternalServerError", Message: http.StatusText(http.StatusInternalServerError)}
	}
}

// writeError maps err to its status and JSON body. Only server errors are
// logged with the cause; the access log already records client errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", "writeError").Msg("request failed")
	}

	utils.WriteJSON(w, errorBody(err, status), status)
}
