package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/access"
	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/crypto"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/models"
)

// resolutionStep inspects the credentials and either yields a principal
// (matched) or passes to the next step.
type resolutionStep struct {
	name    string
	resolve func(ctx context.Context, c models.Credentials) (models.Principal, bool)
}

// authService is the concrete implementation of AuthService.
// It turns request credentials into a principal by walking an ordered list
// of resolution steps: master secret, session token, Basic credentials.
type authService struct {
	userRepository store.UserRepository
	vault          crypto.PasswordVault
	tokens         TokenCodec

	// masterKey is compared in constant time against the presented
	// access_token. Empty disables the master channel.
	masterKey []byte

	steps []resolutionStep

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the repository used for
// principal lookups, the password vault, the token codec and the master
// secret of cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, vault crypto.PasswordVault, tokens TokenCodec, cfg config.App, logger *logger.Logger) AuthService {
	a := &authService{
		userRepository: userRepository,
		vault:          vault,
		tokens:         tokens,
		masterKey:      []byte(cfg.MasterKey),
		logger:         logger,
	}
	a.steps = []resolutionStep{
		{name: "master", resolve: a.resolveMaster},
		{name: "token", resolve: a.resolveToken},
		{name: "basic", resolve: a.resolveBasic},
	}

	return a
}

// Resolve returns the first principal produced by the resolution steps, or
// models.Anonymous when no step matches. A step that sees its channel
// present but fails to verify it still matches, yielding Anonymous, so a
// bad token never falls through to the Basic header.
func (a *authService) Resolve(ctx context.Context, credentials models.Credentials) models.Principal {
	log := logger.FromContext(ctx)

	for _, step := range a.steps {
		principal, matched := step.resolve(ctx, credentials)
		if !matched {
			continue
		}
		log.Debug().
			Str("func", "authService.Resolve").
			Str("step", step.name).
			Str("principal", principal.Kind()).
			Msg("credentials resolved")
		return principal
	}

	return models.Anonymous{}
}

// IssueSession creates a session token for a principal that proved its
// identity with Basic credentials in the current request.
func (a *authService) IssueSession(ctx context.Context, principal models.Principal) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := authorize(access.IssueSessionGate, principal, ""); err != nil {
		return models.Session{}, err
	}
	p := principal.(models.Authenticated)

	user, err := a.userRepository.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Session{}, ErrUnauthorized
		}
		log.Err(err).Str("func", "authService.IssueSession").Msg("user lookup failed")
		return models.Session{}, err
	}

	token, err := a.tokens.Issue(ctx, user.ID)
	if err != nil {
		log.Err(err).Str("func", "authService.IssueSession").Msg("token issuance failed")
		return models.Session{}, err
	}

	user.PasswordHash = ""
	return models.Session{Token: token.String(), User: user}, nil
}

func (a *authService) resolveMaster(_ context.Context, c models.Credentials) (models.Principal, bool) {
	if len(a.masterKey) == 0 || c.AccessToken == "" {
		return nil, false
	}
	if subtle.ConstantTimeCompare([]byte(c.AccessToken), a.masterKey) != 1 {
		return nil, false
	}

	return models.Master{}, true
}

func (a *authService) resolveToken(ctx context.Context, c models.Credentials) (models.Principal, bool) {
	if c.AccessToken == "" {
		return nil, false
	}

	userID, err := a.tokens.Verify(ctx, c.AccessToken)
	if err != nil {
		return models.Anonymous{}, true
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		a.logLookupError(ctx, "authService.resolveToken", err)
		return models.Anonymous{}, true
	}

	return models.Authenticated{UserID: user.ID, Role: user.Role, Channel: models.ChannelToken}, true
}

func (a *authService) resolveBasic(ctx context.Context, c models.Credentials) (models.Principal, bool) {
	if c.Basic == nil {
		return nil, false
	}

	email := strings.ToLower(strings.TrimSpace(c.Basic.Email))
	if email == "" {
		a.vault.VerifyAbsent(c.Basic.Password)
		return models.Anonymous{}, true
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		a.logLookupError(ctx, "authService.resolveBasic", err)
		a.vault.VerifyAbsent(c.Basic.Password)
		return models.Anonymous{}, true
	}

	if !a.vault.Verify(c.Basic.Password, user.PasswordHash) {
		return models.Anonymous{}, true
	}

	return models.Authenticated{UserID: user.ID, Role: user.Role, Channel: models.ChannelBasic}, true
}

func (a *authService) logLookupError(ctx context.Context, fn string, err error) {
	if errors.Is(err, store.ErrNoUserWasFound) {
		return
	}
	logger.FromContext(ctx).Err(err).Str("func", fn).Msg("principal lookup failed")
}
