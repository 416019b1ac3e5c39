package models

import "time"

// User is the identity record managed by the service.
//
// PasswordHash holds the one-way hash produced by the password vault and is
// excluded from JSON so that no read response can ever carry it.
type User struct {
	// ID is the opaque, immutable identifier (UUIDv7 string).
	ID string `json:"id"`

	// Name is the optional display name.
	Name string `json:"name,omitempty"`

	// Email is unique and stored lower-cased.
	Email string `json:"email"`

	// PasswordHash is the stored password hash. Never serialized.
	PasswordHash string `json:"-"`

	// Role is either RoleUser or RoleAdmin.
	Role Role `json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// CreateUserInput is the payload accepted by user creation.
// Password is plaintext here and is hashed before it reaches the store.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Name     string `json:"name" validate:"omitempty,max=128"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserInput is the payload accepted by the profile update operation.
//
// Only Name is mutable. Email is decoded so that callers sending it do not
// fail, but it is never applied.
type UpdateUserInput struct {
	Name  *string `json:"name" validate:"omitempty,max=128"`
	Email *string `json:"email"`
}

// ChangePasswordInput carries the new plaintext password.
type ChangePasswordInput struct {
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// UserUpdate is the set of column changes handed to the store.
// Nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
	UpdatedAt    time.Time
}

// Session is returned by the session issuance endpoint.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
