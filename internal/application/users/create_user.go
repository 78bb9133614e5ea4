package users

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/logging"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

// CreateUserHandler handles CreateUserCommand
type CreateUserHandler struct {
	users user.Repository
}

// NewCreateUserHandler creates a new CreateUserHandler
func NewCreateUserHandler(users user.Repository) *CreateUserHandler {
	return &CreateUserHandler{users: users}
}

func newCreateUserHandler(ctx context.Context, r mediator.Resolver) (*CreateUserHandler, error) {
	users, err := services.Get[user.Repository](ctx, r)
	if err != nil {
		return nil, err
	}
	return NewCreateUserHandler(users), nil
}

// Handle executes the CreateUser command
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) error {
	_, err := h.users.FindByEmail(ctx, cmd.Email)
	switch {
	case err == nil:
		return fmt.Errorf("cannot create user %s: %w", cmd.Email, user.ErrEmailTaken)
	case !errors.Is(err, user.ErrNotFound):
		return fmt.Errorf("failed to check email: %w", err)
	}

	u := user.NewUser(cmd.Name, cmd.Email)
	if err := h.users.Add(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logging.LoggerFromContext(ctx).Info("user created",
		zap.Int("user_id", u.ID),
		zap.String("email", u.Email))
	return nil
}
