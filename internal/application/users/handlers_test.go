package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/application/users"
	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/test/helpers"
)

func newMediator(t *testing.T) (mediator.Mediator, *helpers.TestRepositories) {
	t.Helper()
	repos := helpers.NewTestRepositories(t)
	m, provider, err := setup.NewHandlerRegistry(repos.UserRepo, repos.OrderRepo).
		CreateConfiguredMediator(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })
	return m, repos
}

func TestCreateUserThenGet(t *testing.T) {
	// Arrange
	m, repos := newMediator(t)
	ctx := context.Background()

	// Act
	err := mediator.SendVoid(ctx, m, users.CreateUserCommand{Name: "Jane Smith", Email: "jane.smith@example.com"})
	require.NoError(t, err)
	stored, err := repos.UserRepo.FindByEmail(ctx, "jane.smith@example.com")
	require.NoError(t, err)
	got, err := mediator.Send(ctx, m, users.GetUserQuery{UserID: stored.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, "jane.smith@example.com", got.Email)
}

func TestCreateUser_EmailTaken(t *testing.T) {
	m, _ := newMediator(t)
	ctx := context.Background()
	cmd := users.CreateUserCommand{Name: "Jane", Email: "jane@example.com"}
	require.NoError(t, mediator.SendVoid(ctx, m, cmd))

	err := mediator.SendVoid(ctx, m, cmd)

	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestGetUser_NotFound(t *testing.T) {
	m, _ := newMediator(t)

	_, err := mediator.Send(context.Background(), m, users.GetUserQuery{UserID: 123})

	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestModule_DeclaresBothHandlers(t *testing.T) {
	module, err := mediator.ModuleFor[users.GetUserQuery]()
	require.NoError(t, err)

	assert.Same(t, users.Module, module)
	assert.Len(t, module.Types(), 2)
}
