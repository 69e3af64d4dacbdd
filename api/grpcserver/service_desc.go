package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"nanobook/api/wire"
)

// OrderGatewayServer is the server contract of the nanobook.OrderGateway
// service.
type OrderGatewayServer interface {
	Submit(context.Context, *wire.SubmitRequest) (*wire.Ack, error)
	Cancel(context.Context, *wire.CancelRequest) (*wire.Ack, error)
	Depth(context.Context, *wire.DepthRequest) (*wire.DepthReply, error)
}

// RegisterOrderGatewayServer registers srv on s.
func RegisterOrderGatewayServer(s grpc.ServiceRegistrar, srv OrderGatewayServer) {
	s.RegisterService(&OrderGateway_ServiceDesc, srv)
}

func _OrderGateway_Submit_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wire.SubmitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderGatewayServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/nanobook.OrderGateway/Submit",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderGatewayServer).Submit(ctx, req.(*wire.SubmitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _OrderGateway_Cancel_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wire.CancelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderGatewayServer).Cancel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/nanobook.OrderGateway/Cancel",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderGatewayServer).Cancel(ctx, req.(*wire.CancelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _OrderGateway_Depth_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wire.DepthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderGatewayServer).Depth(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/nanobook.OrderGateway/Depth",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderGatewayServer).Depth(ctx, req.(*wire.DepthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// OrderGateway_ServiceDesc is the wire-level description of the service.
var OrderGateway_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "nanobook.OrderGateway",
	HandlerType: (*OrderGatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: _OrderGateway_Submit_Handler},
		{MethodName: "Cancel", Handler: _OrderGateway_Cancel_Handler},
		{MethodName: "Depth", Handler: _OrderGateway_Depth_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/wire/wire.go",
}
