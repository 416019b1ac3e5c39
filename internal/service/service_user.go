package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/access"
	"github.com/MKhiriev/go-user-keeper/internal/crypto"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/internal/validators"
	"github.com/MKhiriev/go-user-keeper/models"
)

type userService struct {
	userRepository store.UserRepository
	vault          crypto.PasswordVault
	validator      validators.Validator
	ids            IDGenerator
	now            func() time.Time

	logger *logger.Logger
}

// NewUserService wires the user lifecycle. now defaults to time.Now.
func NewUserService(
	userRepository store.UserRepository,
	vault crypto.PasswordVault,
	validator validators.Validator,
	ids IDGenerator,
	now func() time.Time,
	logger *logger.Logger,
) UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{
		userRepository: userRepository,
		vault:          vault,
		validator:      validator,
		ids:            ids,
		now:            now,
		logger:         logger,
	}
}

// Create validates input, hashes the password and persists a new user.
// The role defaults to models.RoleUser.
func (s *userService) Create(ctx context.Context, principal models.Principal, input models.CreateUserInput) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := authorize(access.CreateUserGate, principal, ""); err != nil {
		return models.User{}, err
	}

	input.Email = normalizeEmail(input.Email)
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.User{}, err
	}

	hash, err := s.vault.Hash(input.Password)
	if err != nil {
		log.Err(err).Str("func", "userService.Create").Msg("password hashing failed")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	now := s.timestamp()
	created, err := s.userRepository.CreateUser(ctx, models.User{
		ID:           s.ids.Generate(),
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if !errors.Is(err, store.ErrDuplicateKey) {
			log.Err(err).Str("func", "userService.Create").Msg("user creation ended with error")
		}
		return models.User{}, err
	}

	log.Info().Str("func", "userService.Create").Str("user_id", created.ID).Msg("user created")
	return sanitize(created), nil
}

func (s *userService) List(ctx context.Context, principal models.Principal, query models.UserQuery) ([]models.User, error) {
	if err := authorize(access.ListUsersGate, principal, ""); err != nil {
		return nil, err
	}

	users, err := s.userRepository.ListUsers(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.List").Msg("user listing failed")
		return nil, err
	}

	for i := range users {
		users[i] = sanitize(users[i])
	}
	return users, nil
}

// GetSelf returns the record of the authenticated principal. Master has no
// record of its own and is denied.
func (s *userService) GetSelf(ctx context.Context, principal models.Principal) (models.User, error) {
	if err := authorize(access.GetSelfGate, principal, ""); err != nil {
		return models.User{}, err
	}

	p, ok := principal.(models.Authenticated)
	if !ok {
		return models.User{}, ErrUnauthorized
	}

	return s.find(ctx, p.UserID)
}

// GetByID is public.
func (s *userService) GetByID(ctx context.Context, id string) (models.User, error) {
	if !utils.IsValidID(id) {
		return models.User{}, ErrUserNotFound
	}
	return s.find(ctx, id)
}

// Update applies the mutable profile fields. Only name can change; an email
// in the input is ignored.
func (s *userService) Update(ctx context.Context, principal models.Principal, id string, input models.UpdateUserInput) (models.User, error) {
	if err := s.authorizeExisting(ctx, access.UpdateUserChannel, access.UpdateUserGate, principal, id); err != nil {
		return models.User{}, err
	}

	if err := s.validator.Validate(ctx, input, models.FieldName); err != nil {
		return models.User{}, err
	}

	update := models.UserUpdate{UpdatedAt: s.timestamp()}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		update.Name = &name
	}

	return s.update(ctx, "userService.Update", id, update)
}

// ChangePassword replaces the stored hash. It is reachable only with Basic
// credentials of the owner or of an admin.
func (s *userService) ChangePassword(ctx context.Context, principal models.Principal, id string, input models.ChangePasswordInput) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := s.authorizeExisting(ctx, access.ChangePasswordChannel, access.ChangePasswordGate, principal, id); err != nil {
		return models.User{}, err
	}

	if err := s.validator.Validate(ctx, input); err != nil {
		return models.User{}, err
	}

	hash, err := s.vault.Hash(input.Password)
	if err != nil {
		log.Err(err).Str("func", "userService.ChangePassword").Msg("password hashing failed")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.update(ctx, "userService.ChangePassword", id, models.UserUpdate{
		PasswordHash: &hash,
		UpdatedAt:    s.timestamp(),
	})
	if err != nil {
		return models.User{}, err
	}

	log.Info().Str("func", "userService.ChangePassword").Str("user_id", id).Msg("password changed")
	return user, nil
}

func (s *userService) Delete(ctx context.Context, principal models.Principal, id string) error {
	log := logger.FromContext(ctx)

	if err := authorize(access.DeleteUserGate, principal, id); err != nil {
		return err
	}
	if !utils.IsValidID(id) {
		return ErrUserNotFound
	}

	if err := s.userRepository.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		log.Err(err).Str("func", "userService.Delete").Msg("user deletion ended with error")
		return err
	}

	log.Info().Str("func", "userService.Delete").Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *userService) find(ctx context.Context, id string) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", "userService.find").Msg("user lookup failed")
		return models.User{}, err
	}

	return sanitize(user), nil
}

func (s *userService) update(ctx context.Context, fn, id string, update models.UserUpdate) (models.User, error) {
	user, err := s.userRepository.UpdateUser(ctx, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", fn).Msg("user update ended with error")
		return models.User{}, err
	}

	return sanitize(user), nil
}

// timestamp is truncated to microseconds so that both backends round-trip
// the same value.
func (s *userService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// authorizeExisting checks the credential channel, then that the record id
// exists, then the full gate. A missing record is ErrUserNotFound for every
// principal the channel admits.
func (s *userService) authorizeExisting(ctx context.Context, channel, gate access.Predicate, principal models.Principal, id string) error {
	if err := authorize(channel, principal, id); err != nil {
		return err
	}
	if !utils.IsValidID(id) {
		return ErrUserNotFound
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return authorize(gate, principal, id)
}

func authorize(gate access.Predicate, principal models.Principal, target string) error {
	if err := access.Check(gate, principal, target); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitize(u models.User) models.User {
	u.PasswordHash = ""
	return u
}
