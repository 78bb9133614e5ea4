package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "mediator.v1.Dispatcher"

const (
	DispatchMethod  = "/" + ServiceName + "/Dispatch"
	ListTypesMethod = "/" + ServiceName + "/ListTypes"
)

// DispatcherServer is the server API for the Dispatcher service.
//
// Dispatch takes {"type": <name>, "payload": {...}} and answers
// {"type": <name>, "result": <value>}. ListTypes answers
// {"types": [{"name": ..., "void": ...}]}.
type DispatcherServer interface {
	Dispatch(ctx context.Context, envelope *structpb.Struct) (*structpb.Struct, error)
	ListTypes(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterDispatcherServer registers srv on s
func RegisterDispatcherServer(s grpc.ServiceRegistrar, srv DispatcherServer) {
	s.RegisterService(&DispatcherServiceDesc, srv)
}

// DispatcherServiceDesc describes the Dispatcher service. The messages are
// protobuf well-known types so no generated code is needed.
var DispatcherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DispatcherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
		{MethodName: "ListTypes", Handler: listTypesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mediator/v1/dispatcher.proto",
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatcherServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listTypesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).ListTypes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListTypesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatcherServer).ListTypes(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
