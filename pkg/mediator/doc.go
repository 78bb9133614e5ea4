// Package mediator provides in-process request dispatch.
//
// A caller hands a request value to a Mediator and receives the response
// produced by the single handler registered for that request type. The
// caller never names the handler: routing is derived from the request's
// runtime type.
//
// # Requests
//
// A request declares its response type by embedding Returns:
//
//	type GetOrderQuery struct {
//		mediator.Returns[*Order]
//		OrderID int
//	}
//
// A request with no response embeds Void instead.
//
// # Handlers
//
// A handler implements RequestHandler[T, R] or VoidRequestHandler[T]. The
// instantiated interface type is the handler contract: the key under which
// the handler is registered with a Registrar and later resolved through a
// Resolver.
//
// # Discovery
//
// Handler implementations are grouped into a Module, usually one per
// package, and registered in bulk with RegisterHandlers:
//
//	var Module = mediator.DefineModule[GetOrderQuery](
//		mediator.Implementation(NewGetOrderHandler,
//			mediator.Handles[GetOrderQuery, *Order](),
//		),
//	)
//
// # Dispatch
//
// Send and SendVoid are the typed entry points. The first dispatch of a
// request type builds a small adapter (a wrapper) that resolves the handler
// and invokes it; wrappers are cached in a WrapperCache that is shared by
// every Mediator in the process unless a dedicated cache is supplied with
// WithWrapperCache. Handlers are resolved fresh on every dispatch, so their
// lifetime is owned entirely by the Resolver.
//
// A mediator routes only the request types declared in its Declarations,
// normally taken from the resolver. Registration through a Registrar
// declares them; a handler added to a container directly is made reachable
// with Declare or DeclareVoid.
//
// Errors returned by handlers, including context cancellation, are passed
// through to the caller unchanged
package mediator
