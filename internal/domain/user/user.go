package user

import "errors"

var (
	// ErrNotFound is returned when no user has the requested ID
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when another user already has the email
	ErrEmailTaken = errors.New("email already registered")
)

// User is a registered account
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUser creates a user that has not been stored yet
func NewUser(name, email string) *User {
	return &User{Name: name, Email: email}
}
