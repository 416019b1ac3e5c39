package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/mock"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/validators"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	ownerID = "01928c7e-3b1a-7c4d-9e2f-0a1b2c3d4e5f"
	otherID = "01928c7e-3b1a-7c4d-9e2f-ffffffffffff"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)

type userSvcMocks struct {
	repo      *mock.MockUserRepository
	vault     *mock.MockPasswordVault
	validator *mock.MockValidator
	ids       *mock.MockIDGenerator
}

func newTestUserSvc(t *testing.T, ctrl *gomock.Controller) (UserService, userSvcMocks) {
	t.Helper()
	m := userSvcMocks{
		repo:      mock.NewMockUserRepository(ctrl),
		vault:     mock.NewMockPasswordVault(ctrl),
		validator: mock.NewMockValidator(ctrl),
		ids:       mock.NewMockIDGenerator(ctrl),
	}

	svc := NewUserService(m.repo, m.vault, m.validator, m.ids, func() time.Time { return fixedNow }, logger.Nop())
	return svc, m
}

func tokenUser(id string, role models.Role) models.Authenticated {
	return models.Authenticated{UserID: id, Role: role, Channel: models.ChannelToken}
}

func basicUser(id string, role models.Role) models.Authenticated {
	return models.Authenticated{UserID: id, Role: role, Channel: models.ChannelBasic}
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestUserService_Create_Success(t *testing.T) {
	principals := map[string]models.Principal{
		"master":      models.Master{},
		"admin token": tokenUser(otherID, models.RoleAdmin),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			ctx := context.Background()
			input := models.CreateUserInput{Email: "  Alice@Example.COM ", Password: "password1", Name: " Alice "}
			wantTime := fixedNow.Truncate(time.Microsecond)

			gomock.InOrder(
				m.validator.EXPECT().Validate(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, obj any, _ ...string) error {
						in := obj.(models.CreateUserInput)
						assert.Equal(t, "alice@example.com", in.Email)
						return nil
					},
				),
				m.vault.EXPECT().Hash("password1").Return("$2a$hash", nil),
				m.ids.EXPECT().Generate().Return(ownerID),
				m.repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, u models.User) (models.User, error) {
						assert.Equal(t, ownerID, u.ID)
						assert.Equal(t, "alice@example.com", u.Email)
						assert.Equal(t, "Alice", u.Name)
						assert.Equal(t, "$2a$hash", u.PasswordHash)
						assert.Equal(t, models.RoleUser, u.Role)
						assert.Equal(t, wantTime, u.CreatedAt)
						assert.Equal(t, wantTime, u.UpdatedAt)
						return u, nil
					},
				),
			)

			user, err := svc.Create(ctx, principal, input)
			require.NoError(t, err)
			assert.Equal(t, ownerID, user.ID)
			assert.Empty(t, user.PasswordHash, "password hash must never leave the service")
		})
	}
}

func TestUserService_Create_KeepsRequestedRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(nil)
	m.vault.EXPECT().Hash(gomock.Any()).Return("h", nil)
	m.ids.EXPECT().Generate().Return(ownerID)
	m.repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			return u, nil
		},
	)

	user, err := svc.Create(ctx, models.Master{}, models.CreateUserInput{
		Email: "root@example.com", Password: "password1", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserService_Create_Unauthorized(t *testing.T) {
	principals := map[string]models.Principal{
		"anonymous":   models.Anonymous{},
		"user token":  tokenUser(ownerID, models.RoleUser),
		"admin basic": basicUser(ownerID, models.RoleAdmin),
		"nil":         nil,
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// no expectations: nothing may be validated, hashed or stored
			svc, _ := newTestUserSvc(t, ctrl)

			_, err := svc.Create(context.Background(), principal, models.CreateUserInput{
				Email: "a@example.com", Password: "password1",
			})
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestUserService_Create_ValidationBeforeHashing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	verr := &validators.ValidationError{
		Name: "ValidationError",
		Errors: map[string]validators.FieldError{
			"password": {Kind: validators.KindMinLength, Path: "password"},
		},
	}
	m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(verr)

	_, err := svc.Create(ctx, models.Master{}, models.CreateUserInput{Email: "a@example.com", Password: "short"})

	var got *validators.ValidationError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, validators.KindMinLength, got.Errors["password"].Kind)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(nil)
	m.vault.EXPECT().Hash(gomock.Any()).Return("h", nil)
	m.ids.EXPECT().Generate().Return(ownerID)
	m.repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, &store.DuplicateKeyError{Field: "email"})

	_, err := svc.Create(ctx, models.Master{}, models.CreateUserInput{Email: "A@example.com", Password: "password1"})

	var dup *store.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestUserService_Create_HashError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()
	hashErr := errors.New("too long")

	m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(nil)
	m.vault.EXPECT().Hash(gomock.Any()).Return("", hashErr)

	_, err := svc.Create(ctx, models.Master{}, models.CreateUserInput{Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, hashErr)
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestUserService_List_StripsPasswordHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()
	query := models.UserQuery{Page: 1, Limit: 30, Search: "user"}

	m.repo.EXPECT().ListUsers(ctx, query).Return([]models.User{
		{ID: ownerID, Email: "user1@example.com", PasswordHash: "h1"},
		{ID: otherID, Email: "user2@example.com", PasswordHash: "h2"},
	}, nil)

	users, err := svc.List(ctx, models.Master{}, query)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestUserService_List_Unauthorized(t *testing.T) {
	principals := map[string]models.Principal{
		"anonymous":   models.Anonymous{},
		"user token":  tokenUser(ownerID, models.RoleUser),
		"admin basic": basicUser(ownerID, models.RoleAdmin),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _ := newTestUserSvc(t, ctrl)

			_, err := svc.List(context.Background(), principal, models.UserQuery{Page: 1, Limit: 30})
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

// ── GetSelf / GetByID ────────────────────────────────────────────────────────

func TestUserService_GetSelf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID, PasswordHash: "h"}, nil)

	user, err := svc.GetSelf(ctx, tokenUser(ownerID, models.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, ownerID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_GetSelf_Unauthorized(t *testing.T) {
	principals := map[string]models.Principal{
		"anonymous":  models.Anonymous{},
		"master":     models.Master{},
		"user basic": basicUser(ownerID, models.RoleUser),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _ := newTestUserSvc(t, ctrl)

			_, err := svc.GetSelf(context.Background(), principal)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestUserService_GetSelf_RecordGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.GetSelf(ctx, tokenUser(ownerID, models.RoleUser))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID, PasswordHash: "h"}, nil)
	m.repo.EXPECT().FindUserByID(ctx, otherID).Return(models.User{}, store.ErrNoUserWasFound)

	user, err := svc.GetByID(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetByID(ctx, otherID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// malformed ids never reach the store
	_, err = svc.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetByID_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{}, dbErr)

	_, err := svc.GetByID(ctx, ownerID)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

// ── Update ───────────────────────────────────────────────────────────────────

func TestUserService_Update_NameOnly(t *testing.T) {
	principals := map[string]models.Principal{
		"owner":  tokenUser(ownerID, models.RoleUser),
		"admin":  tokenUser(otherID, models.RoleAdmin),
		"master": models.Master{},
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			ctx := context.Background()
			newName := " Bob "
			newEmail := "hijack@example.com"

			gomock.InOrder(
				m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID}, nil),
				m.validator.EXPECT().Validate(ctx, gomock.Any(), models.FieldName).Return(nil),
				m.repo.EXPECT().UpdateUser(ctx, ownerID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _ string, u models.UserUpdate) (models.User, error) {
						require.NotNil(t, u.Name)
						assert.Equal(t, "Bob", *u.Name)
						assert.Nil(t, u.PasswordHash)
						assert.Equal(t, fixedNow.Truncate(time.Microsecond), u.UpdatedAt)
						return models.User{ID: ownerID, Name: "Bob", Email: "bob@example.com", PasswordHash: "h"}, nil
					},
				),
			)

			user, err := svc.Update(ctx, principal, ownerID, models.UpdateUserInput{Name: &newName, Email: &newEmail})
			require.NoError(t, err)
			assert.Equal(t, "bob@example.com", user.Email)
			assert.Empty(t, user.PasswordHash)
		})
	}
}

func TestUserService_Update_Unauthorized(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		lookup    bool
	}{
		{name: "anonymous", principal: models.Anonymous{}},
		{name: "owner basic", principal: basicUser(ownerID, models.RoleUser)},
		{name: "non-owner", principal: tokenUser(otherID, models.RoleUser), lookup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			if tt.lookup {
				m.repo.EXPECT().FindUserByID(gomock.Any(), ownerID).Return(models.User{ID: ownerID}, nil)
			}
			newName := "x"

			_, err := svc.Update(context.Background(), tt.principal, ownerID, models.UpdateUserInput{Name: &newName})
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	principals := map[string]models.Principal{
		"master":    models.Master{},
		"admin":     tokenUser(ownerID, models.RoleAdmin),
		"non-admin": tokenUser(ownerID, models.RoleUser),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			ctx := context.Background()

			m.repo.EXPECT().FindUserByID(ctx, otherID).Return(models.User{}, store.ErrNoUserWasFound)

			_, err := svc.Update(ctx, principal, otherID, models.UpdateUserInput{})
			assert.ErrorIs(t, err, ErrUserNotFound)

			_, err = svc.Update(ctx, principal, "123456789098765432123456", models.UpdateUserInput{})
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestUserService_Update_DeletedConcurrently(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID}, nil)
	m.validator.EXPECT().Validate(ctx, gomock.Any(), models.FieldName).Return(nil)
	m.repo.EXPECT().UpdateUser(ctx, ownerID, gomock.Any()).Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.Update(ctx, models.Master{}, ownerID, models.UpdateUserInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ── ChangePassword ───────────────────────────────────────────────────────────

func TestUserService_ChangePassword_Success(t *testing.T) {
	principals := map[string]models.Principal{
		"owner basic": basicUser(ownerID, models.RoleUser),
		"admin basic": basicUser(otherID, models.RoleAdmin),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			ctx := context.Background()

			gomock.InOrder(
				m.repo.EXPECT().FindUserByID(ctx, ownerID).Return(models.User{ID: ownerID}, nil),
				m.validator.EXPECT().Validate(ctx, gomock.Any()).Return(nil),
				m.vault.EXPECT().Hash("new-password").Return("new-hash", nil),
				m.repo.EXPECT().UpdateUser(ctx, ownerID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _ string, u models.UserUpdate) (models.User, error) {
						require.NotNil(t, u.PasswordHash)
						assert.Equal(t, "new-hash", *u.PasswordHash)
						assert.Nil(t, u.Name)
						return models.User{ID: ownerID, PasswordHash: "new-hash"}, nil
					},
				),
			)

			user, err := svc.ChangePassword(ctx, principal, ownerID, models.ChangePasswordInput{Password: "new-password"})
			require.NoError(t, err)
			assert.Empty(t, user.PasswordHash)
		})
	}
}

func TestUserService_ChangePassword_RejectsNonBasic(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		lookup    bool
	}{
		{name: "owner token", principal: tokenUser(ownerID, models.RoleUser)},
		{name: "admin token", principal: tokenUser(otherID, models.RoleAdmin)},
		{name: "master", principal: models.Master{}},
		{name: "anonymous", principal: models.Anonymous{}},
		{name: "other basic", principal: basicUser(otherID, models.RoleUser), lookup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			if tt.lookup {
				m.repo.EXPECT().FindUserByID(gomock.Any(), ownerID).Return(models.User{ID: ownerID}, nil)
			}

			_, err := svc.ChangePassword(context.Background(), tt.principal, ownerID, models.ChangePasswordInput{Password: "new-password"})
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestUserService_ChangePassword_NotFound(t *testing.T) {
	principals := map[string]models.Principal{
		"admin basic": basicUser(ownerID, models.RoleAdmin),
		"user basic":  basicUser(ownerID, models.RoleUser),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newTestUserSvc(t, ctrl)
			ctx := context.Background()

			m.repo.EXPECT().FindUserByID(ctx, otherID).Return(models.User{}, store.ErrNoUserWasFound)

			_, err := svc.ChangePassword(ctx, principal, otherID, models.ChangePasswordInput{Password: "password1"})
			assert.ErrorIs(t, err, ErrUserNotFound)

			_, err = svc.ChangePassword(ctx, principal, "123456789098765432123456", models.ChangePasswordInput{Password: "password1"})
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestUserService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestUserSvc(t, ctrl)
	ctx := context.Background()

	m.repo.EXPECT().DeleteUser(ctx, ownerID).Return(nil)
	m.repo.EXPECT().DeleteUser(ctx, otherID).Return(store.ErrNoUserWasFound)

	require.NoError(t, svc.Delete(ctx, tokenUser(otherID, models.RoleAdmin), ownerID))
	assert.ErrorIs(t, svc.Delete(ctx, models.Master{}, otherID), ErrUserNotFound)
}

func TestUserService_Delete_Unauthorized(t *testing.T) {
	principals := map[string]models.Principal{
		"anonymous":   models.Anonymous{},
		"owner token": tokenUser(ownerID, models.RoleUser),
		"admin basic": basicUser(otherID, models.RoleAdmin),
	}

	for name, principal := range principals {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _ := newTestUserSvc(t, ctrl)

			assert.ErrorIs(t, svc.Delete(context.Background(), principal, ownerID), ErrUnauthorized)
		})
	}
}
