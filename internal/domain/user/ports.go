package user

import "context"

// Repository defines user persistence operations
type Repository interface {
	FindByID(ctx context.Context, id int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Add stores u and sets its ID
	Add(ctx context.Context, u *User) error
}
