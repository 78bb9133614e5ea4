package orders

import "github.com/andrescamacho/mediator-go/pkg/mediator"

// Module holds the order handlers
var Module = mediator.DefineModule[GetOrderQuery](
	mediator.Implementation(newOrderHandlers,
		mediator.HandlesVia((*OrderHandlers).GetOrder),
		mediator.HandlesVia((*OrderHandlers).CreateOrder),
		mediator.HandlesVoidVia((*OrderHandlers).DeleteOrder),
	),
)
