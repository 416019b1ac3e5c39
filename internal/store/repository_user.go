package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/models"
)

// userRepository is the SQL implementation of [UserRepository] for both
// PostgreSQL and SQLite. Dialect differences are confined to the
// placeholder format and the error classifier carried by [DB].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Str("dialect", db.dialect).Msg("creating user repository")
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateUser inserts user as given; the id and timestamps are assigned by
// the caller.
//
// Error handling:
//   - unique violation on email → [*DuplicateKeyError] with Field "email".
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(r.builder, user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to build query")
		return models.User{}, err
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		if r.errorClassificator.Classify(err) == UniqueViolation {
			log.Debug().Str("func", "*userRepository.CreateUser").Msg("email already exists")
			return models.User{}, &DuplicateKeyError{Field: models.FieldEmail}
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to insert user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

// FindUserByID returns the user with the given id or [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findUser(ctx, "id", id)
}

// FindUserByEmail returns the user with the given (lower-cased) email or
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "email", email)
}

func (r *userRepository) findUser(ctx context.Context, column, value string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindUserQuery(r.builder, column, value)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("failed to build query")
		return models.User{}, err
	}

	var user models.User
	err = r.retry(ctx, func() error {
		return scanUser(r.QueryRowContext(ctx, query, args...), &user)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Str("by", column).Msg("failed to find user")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// ListUsers implements [UserRepository].
func (r *userRepository) ListUsers(ctx context.Context, q models.UserQuery) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, columns, err := buildListUsersQuery(r.builder, q)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to build query")
		return nil, err
	}

	var users []models.User
	err = r.retry(ctx, func() error {
		var queryErr error
		users, queryErr = r.queryUsers(ctx, query, args, columns)
		return queryErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.ListUsers").
			Int("page", q.Page).
			Int("limit", q.Limit).
			Msg("failed to list users")
		return nil, err
	}

	return users, nil
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args []any, columns []string) ([]models.User, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 30)
	for rows.Next() {
		var user models.User
		if err = rows.Scan(scanTargets(&user, columns)...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// UpdateUser implements [UserRepository]. It returns [ErrNoUserWasFound]
// when no row has the given id.
func (r *userRepository) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(r.builder, id, update)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("failed to build query")
		return models.User{}, err
	}

	result, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		if r.errorClassificator.Classify(err) == UniqueViolation {
			return models.User{}, &DuplicateKeyError{Field: models.FieldEmail}
		}
		log.Err(err).Str("func", "*userRepository.UpdateUser").Str("user_id", id).Msg("failed to update user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return models.User{}, ErrNoUserWasFound
	}

	return r.findUser(ctx, "id", id)
}

// DeleteUser implements [UserRepository]. It returns [ErrNoUserWasFound]
// when no row has the given id.
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteUserQuery(r.builder, id)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("failed to build query")
		return err
	}

	result, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Str("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func scanUser(row *sql.Row, user *models.User) error {
	return row.Scan(scanTargets(user, userColumns)...)
}

// scanTargets returns pointers into user for each column, in order.
func scanTargets(user *models.User, columns []string) []any {
	targets := make([]any, 0, len(columns))
	for _, column := range columns {
		switch column {
		case "id":
			targets = append(targets, &user.ID)
		case "name":
			targets = append(targets, &user.Name)
		case "email":
			targets = append(targets, &user.Email)
		case "password_hash":
			targets = append(targets, &user.PasswordHash)
		case "role":
			targets = append(targets, &user.Role)
		case "created_at":
			targets = append(targets, &user.CreatedAt)
		case "updated_at":
			targets = append(targets, &user.UpdatedAt)
		}
	}
	return targets
}
