package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestUserRepo(t *testing.T, dialect string) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var classifier ErrorClassificator = NewPostgresErrorClassifier()
	if dialect == DialectSQLite {
		classifier = NewSQLiteErrorClassifier()
	}

	return NewUserRepository(newDB(db, dialect, classifier, logger.Nop()), logger.Nop()), mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func testUser() models.User {
	return models.User{
		ID:           "0190f5b4-7c3e-7a52-8d1e-2f4b8c9d0e1f",
		Name:         "A",
		Email:        "a@a.com",
		PasswordHash: "$2a$04$hash",
		Role:         models.RoleUser,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}

func userRow(u models.User) []driver.Value {
	return []driver.Value{u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	user := testUser()

	mock.ExpectExec(`INSERT INTO users \(id,name,email,password_hash,role,created_at,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7\)`).
		WithArgs(userRow(user)...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateUser(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, user, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_SQLitePlaceholders(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectSQLite)
	user := testUser()

	mock.ExpectExec(`INSERT INTO users .* VALUES \(\?,\?,\?,\?,\?,\?,\?\)`).
		WithArgs(userRow(user)...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.CreateUser(context.Background(), user)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		err     error
	}{
		{"postgres unique violation", DialectPostgres, pgError(pgerrcode.UniqueViolation)},
		{"sqlite unique constraint", DialectSQLite, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t, tt.dialect)

			mock.ExpectExec("INSERT INTO users").WillReturnError(tt.err)

			_, err := repo.CreateUser(context.Background(), testUser())

			var dup *DuplicateKeyError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, "email", dup.Field)
			assert.ErrorIs(t, err, ErrDuplicateKey)
		})
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), testUser())

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
}

func TestFindUserByID(t *testing.T) {
	user := testUser()

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    models.User
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE id = \$1`).
					WithArgs(user.ID).
					WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(user)...))
			},
			want: user,
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
					WillReturnRows(sqlmock.NewRows(userColumns))
			},
			wantErr: ErrNoUserWasFound,
		},
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
					WillReturnError(pgError(pgerrcode.UndefinedTable))
			},
			wantErr: ErrScanningRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t, DialectPostgres)
			tt.setup(mock)

			got, err := repo.FindUserByID(context.Background(), user.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFindUserByEmail_RetriesTransientErrors(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	user := testUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(user)...))

	got, err := repo.FindUserByEmail(context.Background(), user.Email)

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByEmail_CanceledContext(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = mock

	_, err := repo.FindUserByEmail(ctx, "a@a.com")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestListUsers_Projection(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)

	mock.ExpectQuery(`SELECT id, name FROM users ORDER BY created_at DESC, id DESC LIMIT 30 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("2", "B").
			AddRow("1", "A"))

	users, err := repo.ListUsers(context.Background(), models.UserQuery{
		Page:   1,
		Limit:  30,
		Fields: []string{models.FieldName},
	})

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.User{ID: "2", Name: "B"}, users[0])
	assert.Equal(t, models.User{ID: "1", Name: "A"}, users[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_SearchAndPaging(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	user := testUser()
	columns := []string{"id", "name", "email", "role", "created_at", "updated_at"}

	mock.ExpectQuery(`SELECT id, name, email, role, created_at, updated_at FROM users WHERE \(LOWER\(name\) LIKE \$1 ESCAPE '\\' OR LOWER\(email\) LIKE \$2 ESCAPE '\\'\) ORDER BY created_at DESC, id DESC LIMIT 1 OFFSET 1`).
		WithArgs(`%us\_er%`, `%us\_er%`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(user.ID, user.Name, user.Email, string(user.Role), user.CreatedAt, user.UpdatedAt))

	users, err := repo.ListUsers(context.Background(), models.UserQuery{Page: 2, Limit: 1, Search: "US_ER"})

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
	assert.Equal(t, user.Email, users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_Errors(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(errors.New("boom"))

		_, err := repo.ListUsers(context.Background(), models.UserQuery{Page: 1, Limit: 30})
		assert.ErrorIs(t, err, ErrExecutingQuery)
	})

	t.Run("scan error", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("1", "A"))

		_, err := repo.ListUsers(context.Background(), models.UserQuery{Page: 1, Limit: 30})
		assert.ErrorIs(t, err, ErrScanningRow)
	})

	t.Run("rows error", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1").RowError(0, errors.New("broken row")))

		_, err := repo.ListUsers(context.Background(), models.UserQuery{Page: 1, Limit: 30, Fields: []string{models.FieldID}})
		assert.ErrorIs(t, err, ErrScanningRows)
	})
}

func TestUpdateUser(t *testing.T) {
	user := testUser()
	name := "B"
	update := models.UserUpdate{Name: &name, UpdatedAt: testNow.Add(time.Hour)}

	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		updated := user
		updated.Name = name
		updated.UpdatedAt = update.UpdatedAt

		mock.ExpectExec(`UPDATE users SET updated_at = \$1, name = \$2 WHERE id = \$3`).
			WithArgs(update.UpdatedAt, name, user.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(user.ID).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(updated)...))

		got, err := repo.UpdateUser(context.Background(), user.ID, update)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("password only", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		hash := "$2a$04$new"

		mock.ExpectExec(`UPDATE users SET updated_at = \$1, password_hash = \$2 WHERE id = \$3`).
			WithArgs(update.UpdatedAt, hash, user.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow(user)...))

		_, err := repo.UpdateUser(context.Background(), user.ID, models.UserUpdate{PasswordHash: &hash, UpdatedAt: update.UpdatedAt})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.UpdateUser(context.Background(), "missing", update)
		assert.ErrorIs(t, err, ErrNoUserWasFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newTestUserRepo(t, DialectPostgres)
		mock.ExpectExec("UPDATE users").WillReturnError(sql.ErrConnDone)

		_, err := repo.UpdateUser(context.Background(), user.ID, update)
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})
}

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
					WithArgs("1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrNoUserWasFound,
		},
		{
			name: "exec error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM users").WillReturnError(errors.New("boom"))
			},
			wantErr: ErrExecutingStatement,
		},
		{
			name: "rows affected error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewErrorResult(errors.New("boom")))
			},
			wantErr: ErrExecutingStatement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t, DialectPostgres)
			tt.setup(mock)

			err := repo.DeleteUser(context.Background(), "1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
