package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/mock"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testMasterKey = "master-secret"

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository, *mock.MockPasswordVault, *mock.MockTokenCodec) {
	t.Helper()
	repo := mock.NewMockUserRepository(ctrl)
	vault := mock.NewMockPasswordVault(ctrl)
	tokens := mock.NewMockTokenCodec(ctrl)

	svc := NewAuthService(repo, vault, tokens, config.App{MasterKey: testMasterKey}, logger.Nop())
	return svc, repo, vault, tokens
}

// ── Resolve: master ──────────────────────────────────────────────────────────

func TestAuthService_Resolve_Master(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// master wins over a Basic header; neither the codec nor the store is consulted
	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	principal := svc.Resolve(context.Background(), models.Credentials{
		AccessToken: testMasterKey,
		Basic:       &models.BasicCredentials{Email: "a@example.com", Password: "password1"},
	})
	assert.Equal(t, models.Master{}, principal)
}

func TestAuthService_Resolve_EmptyMasterKeyNeverMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockUserRepository(ctrl)
	vault := mock.NewMockPasswordVault(ctrl)
	tokens := mock.NewMockTokenCodec(ctrl)
	svc := NewAuthService(repo, vault, tokens, config.App{}, logger.Nop())
	ctx := context.Background()

	tokens.EXPECT().Verify(ctx, "anything").Return("", ErrTokenIsExpiredOrInvalid)

	assert.Equal(t, models.Anonymous{}, svc.Resolve(ctx, models.Credentials{AccessToken: "anything"}))
}

// ── Resolve: token ───────────────────────────────────────────────────────────

func TestAuthService_Resolve_Token(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, tokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		tokens.EXPECT().Verify(ctx, "session-token").Return(ownerID, nil),
		repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID, Role: models.RoleAdmin}, nil),
	)

	principal := svc.Resolve(ctx, models.Credentials{AccessToken: "session-token"})
	assert.Equal(t, models.Authenticated{UserID: ownerID, Role: models.RoleAdmin, Channel: models.ChannelToken}, principal)
}

func TestAuthService_Resolve_InvalidTokenIsAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, tokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	// a present but bad token does not fall through to Basic
	tokens.EXPECT().Verify(ctx, "expired").Return("", ErrTokenIsExpiredOrInvalid)

	principal := svc.Resolve(ctx, models.Credentials{
		AccessToken: "expired",
		Basic:       &models.BasicCredentials{Email: "a@example.com", Password: "password1"},
	})
	assert.Equal(t, models.Anonymous{}, principal)
}

func TestAuthService_Resolve_TokenSubjectGone(t *testing.T) {
	lookupErrors := map[string]error{
		"deleted user":  store.ErrNoUserWasFound,
		"store failure": errors.New("connection reset"),
	}

	for name, lookupErr := range lookupErrors {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo, _, tokens := newTestAuthSvc(t, ctrl)
			ctx := context.Background()

			tokens.EXPECT().Verify(ctx, "tok").Return(ownerID, nil)
			repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{}, lookupErr)

			assert.Equal(t, models.Anonymous{}, svc.Resolve(ctx, models.Credentials{AccessToken: "tok"}))
		})
	}
}

// ── Resolve: basic ───────────────────────────────────────────────────────────

func TestAuthService_Resolve_Basic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, vault, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindUserByEmail(ctx, "alice@example.com").Return(models.User{
			ID: ownerID, Role: models.RoleUser, PasswordHash: "stored-hash",
		}, nil),
		vault.EXPECT().Verify("password1", "stored-hash").Return(true),
	)

	principal := svc.Resolve(ctx, models.Credentials{
		Basic: &models.BasicCredentials{Email: "Alice@Example.com", Password: "password1"},
	})
	assert.Equal(t, models.Authenticated{UserID: ownerID, Role: models.RoleUser, Channel: models.ChannelBasic}, principal)
}

func TestAuthService_Resolve_BasicWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, vault, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, "alice@example.com").Return(models.User{ID: ownerID, PasswordHash: "h"}, nil)
	vault.EXPECT().Verify("wrong", "h").Return(false)

	principal := svc.Resolve(ctx, models.Credentials{
		Basic: &models.BasicCredentials{Email: "alice@example.com", Password: "wrong"},
	})
	assert.Equal(t, models.Anonymous{}, principal)
}

func TestAuthService_Resolve_BasicUnknownEmailSpendsHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, vault, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	vault.EXPECT().VerifyAbsent("password1").Return(false)

	principal := svc.Resolve(ctx, models.Credentials{
		Basic: &models.BasicCredentials{Email: "ghost@example.com", Password: "password1"},
	})
	assert.Equal(t, models.Anonymous{}, principal)
}

func TestAuthService_Resolve_BasicEmptyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, vault, _ := newTestAuthSvc(t, ctrl)

	vault.EXPECT().VerifyAbsent("pw").Return(false)

	principal := svc.Resolve(context.Background(), models.Credentials{
		Basic: &models.BasicCredentials{Email: "  ", Password: "pw"},
	})
	assert.Equal(t, models.Anonymous{}, principal)
}

func TestAuthService_Resolve_NoCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	assert.Equal(t, models.Anonymous{}, svc.Resolve(context.Background(), models.Credentials{}))
}

// ── IssueSession ─────────────────────────────────────────────────────────────

func TestAuthService_IssueSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, tokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID, PasswordHash: "h"}, nil),
		tokens.EXPECT().Issue(ctx, ownerID).Return(models.Token{SignedString: "signed", UserID: ownerID}, nil),
	)

	session, err := svc.IssueSession(ctx, basicUser(ownerID, models.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, "signed", session.Token)
	assert.Equal(t, ownerID, session.User.ID)
	assert.Empty(t, session.User.PasswordHash)
}

func TestAuthService_IssueSession_RequiresBasic(t *testing.T) {
	principals := map[string]models.Principal{
		"anonymous": models.Anonymous{},
		"master":    models.Master{},
		"token":     tokenUser(ownerID, models.RoleAdmin),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _, _, _ := newTestAuthSvc(t, ctrl)

			_, err := svc.IssueSession(context.Background(), principal)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAuthService_IssueSession_TokenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, tokens := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID}, nil)
	tokens.EXPECT().Issue(ctx, ownerID).Return(models.Token{}, ErrTokenCreationFailed)

	_, err := svc.IssueSession(ctx, basicUser(ownerID, models.RoleUser))
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}
