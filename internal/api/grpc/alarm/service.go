package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "orderkiosk.alarm.v1.AlarmUnit"
	// GetStatusMethod is the full method name of GetStatus.
	GetStatusMethod = "/" + ServiceName + "/GetStatus"
	// DismissMethod is the full method name of Dismiss.
	DismissMethod = "/" + ServiceName + "/Dismiss"
	// ActorMetadataKey carries the caller's user@host on Dismiss.
	ActorMetadataKey = "x-actor"
)

// AlarmUnitServer is the server side of the status API.
type AlarmUnitServer interface {
	GetStatus(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Dismiss(ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error)
}

// serviceDesc describes the AlarmUnit service to grpc-go.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmUnitServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: getStatusHandler},
		{MethodName: "Dismiss", Handler: dismissHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orderkiosk/alarm/v1/alarm.proto",
}

// RegisterAlarmUnitServer registers srv on s.
func RegisterAlarmUnitServer(s grpc.ServiceRegistrar, srv AlarmUnitServer) {
	s.RegisterService(&serviceDesc, srv)
}

func getStatusHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, _ := srv.(AlarmUnitServer)

	if interceptor == nil {
		return server.GetStatus(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetStatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		request, _ := req.(*emptypb.Empty)

		return server.GetStatus(ctx, request)
	}

	return interceptor(ctx, in, info, handler)
}

func dismissHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	server, _ := srv.(AlarmUnitServer)

	if interceptor == nil {
		return server.Dismiss(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DismissMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		request, _ := req.(*emptypb.Empty)

		return server.Dismiss(ctx, request)
	}

	return interceptor(ctx, in, info, handler)
}
