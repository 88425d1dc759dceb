package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 6

// User is an operator account. The password hash never leaves the database package.
type User struct {
	ID        int64      `db:"user_id" json:"user_id"`
	Username  string     `db:"username" json:"username"`
	Email     string     `db:"email" json:"email"`
	FullName  *string    `db:"full_name" json:"full_name"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
}

// DisplayName returns the full name when set, the username otherwise
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// SignupRequest holds the fields of a new account
type SignupRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

// Validate checks the signup fields before anything touches the database
func (r *SignupRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)

	if r.Username == "" || r.Email == "" || r.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if len(r.Username) > 80 {
		return fmt.Errorf("%w: username must be at most 80 characters", ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil || len(r.Email) > 120 {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if r.Password != r.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if len(r.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	}
	if len(r.FullName) > 100 {
		return fmt.Errorf("%w: full name must be at most 100 characters", ErrValidation)
	}
	return nil
}
