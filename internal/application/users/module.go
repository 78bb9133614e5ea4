package users

import (
	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// Module holds the user handlers
var Module = mediator.DefineModule[GetUserQuery](
	mediator.Implementation(newGetUserHandler, mediator.Handles[GetUserQuery, *user.User]()),
	mediator.Implementation(newCreateUserHandler, mediator.HandlesVoid[CreateUserCommand]()),
)
