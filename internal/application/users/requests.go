package users

import (
	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// GetUserQuery looks up a user by ID
type GetUserQuery struct {
	mediator.Returns[*user.User]
	UserID int `json:"user_id" validate:"required,gt=0"`
}

// CreateUserCommand registers a new user
type CreateUserCommand struct {
	mediator.Void
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}
