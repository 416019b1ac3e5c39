package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/go-resty/resty/v2"
)

const usersPath = "/users"

type httpUserAPI struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPUserAPI constructs the HTTP/REST implementation of [UserAPI].
// It normalises adapterCfg.HTTPAddress into a base URL, applies the request
// timeout and seeds the access token from adapterCfg.AccessToken.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPUserAPI(adapterCfg config.ClientAdapter, logger *logger.Logger) (UserAPI, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout, logger)

	api := &httpUserAPI{client: client, logger: logger}
	api.SetToken(adapterCfg.AccessToken)

	return api, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpUserAPI) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpUserAPI) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login POSTs to /users/auth with Basic credentials and stores the issued
// token.
func (h *httpUserAPI) Login(ctx context.Context, email, password string) (models.Session, error) {
	var session models.Session

	resp, err := h.client.Request(ctx, "").
		SetBasicAuth(email, password).
		SetResult(&session).
		Post(usersPath + "/auth")
	if err != nil {
		return models.Session{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	h.SetToken(session.Token)
	return session, nil
}

func (h *httpUserAPI) CreateUser(ctx context.Context, input models.CreateUserInput) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(input).
		SetResult(&user).
		Post(usersPath)
	if err != nil {
		return models.User{}, fmt.Errorf("create user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpUserAPI) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User

	resp, err := h.client.Request(ctx, "").
		SetPathParam("id", id).
		SetResult(&user).
		Get(usersPath + "/{id}")
	if err != nil {
		return models.User{}, fmt.Errorf("get user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpUserAPI) GetSelf(ctx context.Context) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetResult(&user).
		Get(usersPath + "/me")
	if err != nil {
		return models.User{}, fmt.Errorf("get self request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// ListUsers GETs /users with the query encoded as page, limit, q and fields.
// Zero values are omitted so that the server defaults apply.
func (h *httpUserAPI) ListUsers(ctx context.Context, query models.UserQuery) ([]models.User, error) {
	var users []models.User

	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(listQueryValues(query)).
		SetResult(&users).
		Get(usersPath)
	if err != nil {
		return nil, fmt.Errorf("list users request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return users, nil
}

func listQueryValues(query models.UserQuery) url.Values {
	values := url.Values{}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Search != "" {
		values.Set("q", query.Search)
	}
	if len(query.Fields) > 0 {
		values.Set("fields", strings.Join(query.Fields, ","))
	}
	return values
}

func (h *httpUserAPI) UpdateUser(ctx context.Context, id string, input models.UpdateUserInput) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(input).
		SetResult(&user).
		Patch(usersPath + "/{id}")
	if err != nil {
		return models.User{}, fmt.Errorf("update user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpUserAPI) ChangePassword(ctx context.Context, id string, credentials models.BasicCredentials, newPassword string) (models.User, error) {
	var user models.User

	resp, err := h.client.Request(ctx, "").
		SetBasicAuth(credentials.Email, credentials.Password).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(models.ChangePasswordInput{Password: newPassword}).
		SetResult(&user).
		Patch(usersPath + "/{id}/password")
	if err != nil {
		return models.User{}, fmt.Errorf("change password request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpUserAPI) DeleteUser(ctx context.Context, id string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		Delete(usersPath + "/{id}")
	if err != nil {
		return fmt.Errorf("delete user request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpUserAPI) Version(ctx context.Context) (string, error) {
	resp, err := h.client.Request(ctx, "").
		SetHeader("Accept", "text/plain").
		Get("/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return resp.String(), nil
}

func (h *httpUserAPI) authedRequest(ctx context.Context) *resty.Request {
	return h.client.Request(ctx, h.Token())
}
