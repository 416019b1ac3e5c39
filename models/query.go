package models

import "slices"

// Pagination bounds for user listing.
const (
	DefaultPage  = 1
	DefaultLimit = 30
	MaxLimit     = 100
)

// Projectable user fields, as named in JSON responses.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldRole      = "role"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// UserFields lists every field a listing may project, in response order.
var UserFields = []string{FieldID, FieldName, FieldEmail, FieldRole, FieldCreatedAt, FieldUpdatedAt}

// UserQuery describes a page of the user listing.
type UserQuery struct {
	// Page is 1-based.
	Page int

	// Limit is the page size.
	Limit int

	// Search is a case-insensitive substring matched against name and email.
	Search string

	// Fields restricts the returned fields. Empty means all fields.
	// FieldID is always included.
	Fields []string
}

// Offset returns the number of rows skipped before the page starts.
func (q UserQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Projected reports whether a field must be present in the output.
func (q UserQuery) Projected(field string) bool {
	if len(q.Fields) == 0 || field == FieldID {
		return true
	}
	return slices.Contains(q.Fields, field)
}

// Project returns the JSON view of u restricted to the query's fields.
func (q UserQuery) Project(u User) map[string]any {
	view := make(map[string]any, len(UserFields))
	for _, field := range UserFields {
		if !q.Projected(field) {
			continue
		}
		switch field {
		case FieldID:
			view[field] = u.ID
		case FieldName:
			view[field] = u.Name
		case FieldEmail:
			view[field] = u.Email
		case FieldRole:
			view[field] = u.Role
		case FieldCreatedAt:
			view[field] = u.CreatedAt
		case FieldUpdatedAt:
			view[field] = u.UpdatedAt
		}
	}
	return view
}
