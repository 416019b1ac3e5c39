package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/access"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/internal/validators"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/go-chi/chi/v5"
)

const userIDParam = "id"

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := utils.GetPrincipalFromContext(ctx)

	var input models.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, denyFirst(access.CreateUserGate, principal, "", err))
		return
	}

	user, err := h.services.UserService.Create(ctx, principal, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := utils.GetPrincipalFromContext(ctx)

	query, err := validators.ParseUserQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, denyFirst(access.ListUsersGate, principal, "", err))
		return
	}

	users, err := h.services.UserService.List(ctx, principal, query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]map[string]any, 0, len(users))
	for _, user := range users {
		views = append(views, query.Project(user))
	}

	utils.WriteJSON(w, views, http.StatusOK)
}

func (h *Handler) getSelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.services.UserService.GetSelf(ctx, utils.GetPrincipalFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.UserService.GetByID(r.Context(), chi.URLParam(r, userIDParam))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

// updateUser serves both PATCH /users/me and PATCH /users/{id}.
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := utils.GetPrincipalFromContext(ctx)

	id, err := targetID(r, principal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, denyFirst(access.UpdateUserGate, principal, id, err))
		return
	}

	user, err := h.services.UserService.Update(ctx, principal, id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

// changePassword serves both PATCH /users/me/password and
// PATCH /users/{id}/password.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := utils.GetPrincipalFromContext(ctx)

	id, err := targetID(r, principal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.ChangePasswordInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, denyFirst(access.ChangePasswordGate, principal, id, err))
		return
	}

	user, err := h.services.UserService.ChangePassword(ctx, principal, id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.services.UserService.Delete(ctx, utils.GetPrincipalFromContext(ctx), chi.URLParam(r, userIDParam))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// targetID returns the {id} path parameter, or the principal's own id on the
// /me routes. Only an Authenticated principal has an own id.
func targetID(r *http.Request, principal models.Principal) (string, error) {
	if id := chi.URLParam(r, userIDParam); id != "" {
		return id, nil
	}

	p, ok := principal.(models.Authenticated)
	if !ok {
		return "", ErrMeWithoutUser
	}
	return p.UserID, nil
}

// decodeJSON reads a JSON object into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return validators.NewParamError(validators.RuleInvalid, "body", "%s", ErrInvalidJSON.Error())
}

// denyFirst keeps authorization ahead of input errors: a principal the gate
// would reject gets 401 even when its request is also malformed.
func denyFirst(gate access.Predicate, principal models.Principal, target string, inputErr error) error {
	if err := access.Check(gate, principal, target); err != nil {
		return service.ErrUnauthorized
	}
	return inputErr
}
