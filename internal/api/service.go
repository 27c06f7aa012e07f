package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ============================================================================
// gRPC Service Definitions (hand-written descriptors over well-known types)
// ============================================================================

const (
	PresenceServiceName = "presence.v1.PresenceService"
	DaemonServiceName   = "presence.v1.DaemonService"
)

// Full method names.
const (
	MethodConnect     = "/" + PresenceServiceName + "/Connect"
	MethodSetActivity = "/" + PresenceServiceName + "/SetActivity"
	MethodClear       = "/" + PresenceServiceName + "/Clear"
	MethodGetPresence = "/" + PresenceServiceName + "/GetPresence"
	MethodGetStatus   = "/" + DaemonServiceName + "/GetStatus"
	MethodShutdown    = "/" + DaemonServiceName + "/Shutdown"
)

// PresenceServer is the boundary the launcher shell talks to. The three
// commands only report whether the request was queued.
type PresenceServer interface {
	Connect(context.Context, *ConnectRequest) error
	SetActivity(context.Context, *SetActivityRequest) error
	Clear(context.Context, *ClearRequest) error
	GetPresence(context.Context) (*PresenceStatus, error)
}

// DaemonServer is the server interface for DaemonService.
type DaemonServer interface {
	GetStatus(context.Context) (*DaemonStatus, error)
	Shutdown(context.Context) error
}

// RegisterPresenceServer registers srv with the gRPC server.
func RegisterPresenceServer(s grpc.ServiceRegistrar, srv PresenceServer) {
	s.RegisterService(&presenceServiceDesc, srv)
}

// RegisterDaemonServer registers srv with the gRPC server.
func RegisterDaemonServer(s grpc.ServiceRegistrar, srv DaemonServer) {
	s.RegisterService(&daemonServiceDesc, srv)
}

var presenceServiceDesc = grpc.ServiceDesc{
	ServiceName: PresenceServiceName,
	HandlerType: (*PresenceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Connect",
			Handler: unaryHandler(MethodConnect, newStructMsg, func(srv any, ctx context.Context, in proto.Message) (proto.Message, error) {
				return empty(srv.(PresenceServer).Connect(ctx, connectRequestFromProto(in.(*structpb.Struct))))
			}),
		},
		{
			MethodName: "SetActivity",
			Handler: unaryHandler(MethodSetActivity, newStructMsg, func(srv any, ctx context.Context, in proto.Message) (proto.Message, error) {
				return empty(srv.(PresenceServer).SetActivity(ctx, setActivityRequestFromProto(in.(*structpb.Struct))))
			}),
		},
		{
			MethodName: "Clear",
			Handler: unaryHandler(MethodClear, newStructMsg, func(srv any, ctx context.Context, in proto.Message) (proto.Message, error) {
				return empty(srv.(PresenceServer).Clear(ctx, clearRequestFromProto(in.(*structpb.Struct))))
			}),
		},
		{
			MethodName: "GetPresence",
			Handler: unaryHandler(MethodGetPresence, newEmptyMsg, func(srv any, ctx context.Context, _ proto.Message) (proto.Message, error) {
				st, err := srv.(PresenceServer).GetPresence(ctx)
				if err != nil {
					return nil, err
				}
				return encodeResponse(st.toProto())
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

var daemonServiceDesc = grpc.ServiceDesc{
	ServiceName: DaemonServiceName,
	HandlerType: (*DaemonServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler: unaryHandler(MethodGetStatus, newEmptyMsg, func(srv any, ctx context.Context, _ proto.Message) (proto.Message, error) {
				st, err := srv.(DaemonServer).GetStatus(ctx)
				if err != nil {
					return nil, err
				}
				return encodeResponse(st.toProto())
			}),
		},
		{
			MethodName: "Shutdown",
			Handler: unaryHandler(MethodShutdown, newEmptyMsg, func(srv any, ctx context.Context, _ proto.Message) (proto.Message, error) {
				return empty(srv.(DaemonServer).Shutdown(ctx))
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func newStructMsg() proto.Message { return &structpb.Struct{} }
func newEmptyMsg() proto.Message  { return &emptypb.Empty{} }

func empty(err error) (proto.Message, error) {
	if err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func encodeResponse(s *structpb.Struct, err error) (proto.Message, error) {
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// unaryHandler adapts call to grpc.MethodHandler, decoding the request
// into the message returned by newIn and running any interceptor.
func unaryHandler(fullMethod string, newIn func() proto.Message, call func(srv any, ctx context.Context, in proto.Message) (proto.Message, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(proto.Message))
		})
	}
}
