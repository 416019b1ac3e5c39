package store

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/Masterminds/squirrel"
)

const usersTable = "users"

// userColumns is the full column list of the users table in scan order.
var userColumns = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

// fieldColumns maps projectable JSON field names to columns.
var fieldColumns = map[string]string{
	models.FieldID:        "id",
	models.FieldName:      "name",
	models.FieldEmail:     "email",
	models.FieldRole:      "role",
	models.FieldCreatedAt: "created_at",
	models.FieldUpdatedAt: "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching s anywhere, case-folded,
// with LIKE metacharacters in s escaped by a backslash.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func buildInsertUserQuery(b squirrel.StatementBuilderType, user models.User) (string, []any, error) {
	query, args, err := b.Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildFindUserQuery(b squirrel.StatementBuilderType, column, value string) (string, []any, error) {
	query, args, err := b.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildListUsersQuery returns the page query together with the selected
// columns in select order.
func buildListUsersQuery(b squirrel.StatementBuilderType, q models.UserQuery) (string, []any, []string, error) {
	columns := make([]string, 0, len(models.UserFields))
	for _, field := range models.UserFields {
		if q.Projected(field) {
			columns = append(columns, fieldColumns[field])
		}
	}

	sb := b.Select(columns...).From(usersTable)

	if q.Search != "" {
		pattern := containsPattern(q.Search)
		sb = sb.Where(squirrel.Or{
			squirrel.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`LOWER(email) LIKE ? ESCAPE '\'`, pattern),
		})
	}

	query, args, err := sb.
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset())).
		ToSql()
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, columns, nil
}

func buildUpdateUserQuery(b squirrel.StatementBuilderType, id string, update models.UserUpdate) (string, []any, error) {
	ub := b.Update(usersTable).Set("updated_at", update.UpdatedAt)

	if update.Name != nil {
		ub = ub.Set("name", *update.Name)
	}
	if update.PasswordHash != nil {
		ub = ub.Set("password_hash", *update.PasswordHash)
	}

	query, args, err := ub.
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteUserQuery(b squirrel.StatementBuilderType, id string) (string, []any, error) {
	query, args, err := b.Delete(usersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
