package setup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/application/orders"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/mediator/mediatortest"
	"github.com/andrescamacho/mediator-go/pkg/services"
	"github.com/andrescamacho/mediator-go/test/helpers"
)

func TestRegister_RequiresRepositories(t *testing.T) {
	err := setup.NewHandlerRegistry(nil, nil).Register(services.NewCollection())

	assert.Error(t, err)
}

func TestRegister_WiresObservers(t *testing.T) {
	// Arrange
	repos := helpers.NewTestRepositories(t)
	observer := mediatortest.NewRecordingObserver()
	c := services.NewCollection()
	require.NoError(t, services.AddInstance(c, mediator.NewWrapperCache()))

	// Act
	require.NoError(t, setup.NewHandlerRegistry(repos.UserRepo, repos.OrderRepo,
		setup.WithObservers(observer)).Register(c))
	m := services.MustGet[mediator.Mediator](context.Background(), c.Build())
	_, err := mediator.Send(context.Background(), m, orders.CreateOrderCommand{ProductName: "x", Price: 1})

	// Assert
	require.NoError(t, err)
	total, failed := observer.Dispatches()
	assert.Equal(t, 1, total)
	assert.Zero(t, failed)
}

func TestModules(t *testing.T) {
	modules := setup.Modules()

	require.Len(t, modules, 2)
	defined := mediator.DefinedModules()
	for _, m := range modules {
		assert.Contains(t, defined, m.Name())
	}
}
