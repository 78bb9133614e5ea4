package users

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

// GetUserHandler handles GetUserQuery
type GetUserHandler struct {
	users user.Repository
}

// NewGetUserHandler creates a new GetUserHandler
func NewGetUserHandler(users user.Repository) *GetUserHandler {
	return &GetUserHandler{users: users}
}

func newGetUserHandler(ctx context.Context, r mediator.Resolver) (*GetUserHandler, error) {
	users, err := services.Get[user.Repository](ctx, r)
	if err != nil {
		return nil, err
	}
	return NewGetUserHandler(users), nil
}

// Handle executes the GetUser query
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*user.User, error) {
	u, err := h.users.FindByID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", query.UserID, err)
	}
	return u, nil
}
