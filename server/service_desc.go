package server

import (
	"context"

	"google.golang.org/grpc"

	"github.com/nextapp/nextappd/api"
)

// serviceName matches api/nextapp.proto's fully qualified service name. It is
// the ServiceDesc's ServiceName (so every method is served under
// "/nextapp.NextApp/...") and builds the FullMethod strings for interceptors,
// since there is no generated descriptor to carry it.
const serviceName = "nextapp.NextApp"

// handlerFor builds a grpc.MethodDesc.Handler the way protoc-gen-go-grpc
// would, minus the codegen: decode via the registered codec, run through the
// interceptor chain, and invoke the concrete Server method.
func handlerFor(method string, newIn func() interface{}, invoke func(ctx context.Context, s *Server, in interface{}) (interface{}, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(*Server)
		if interceptor == nil {
			return invoke(ctx, s, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
		wrapped := func(ctx context.Context, req interface{}) (interface{}, error) {
			return invoke(ctx, s, req)
		}
		return interceptor(ctx, in, info, wrapped)
	}
}

var nextAppServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetServerInfo",
			Handler: handlerFor("GetServerInfo", func() interface{} { return new(api.Empty) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.GetServerInfo(ctx, in.(*api.Empty))
			}),
		},
		{
			MethodName: "GetDayColorDefinitions",
			Handler: handlerFor("GetDayColorDefinitions", func() interface{} { return new(api.Empty) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.GetDayColorDefinitions(ctx, in.(*api.Empty))
			}),
		},
		{
			MethodName: "GetDay",
			Handler: handlerFor("GetDay", func() interface{} { return new(api.Date) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.GetDay(ctx, in.(*api.Date))
			}),
		},
		{
			MethodName: "GetMonth",
			Handler: handlerFor("GetMonth", func() interface{} { return new(api.MonthRequest) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.GetMonth(ctx, in.(*api.MonthRequest))
			}),
		},
		{
			MethodName: "SetColorOnDay",
			Handler: handlerFor("SetColorOnDay", func() interface{} { return new(api.SetColorOnDayRequest) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.SetColorOnDay(ctx, in.(*api.SetColorOnDayRequest))
			}),
		},
		{
			MethodName: "SetDay",
			Handler: handlerFor("SetDay", func() interface{} { return new(api.CompleteDay) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.SetDay(ctx, in.(*api.CompleteDay))
			}),
		},
		{
			MethodName: "CreateTenant",
			Handler: handlerFor("CreateTenant", func() interface{} { return new(api.CreateTenantRequest) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.CreateTenant(ctx, in.(*api.CreateTenantRequest))
			}),
		},
		{
			MethodName: "CreateNode",
			Handler: handlerFor("CreateNode", func() interface{} { return new(api.CreateNodeRequest) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.CreateNode(ctx, in.(*api.CreateNodeRequest))
			}),
		},
		{
			MethodName: "UpdateNode",
			Handler: handlerFor("UpdateNode", func() interface{} { return new(api.Node) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.UpdateNode(ctx, in.(*api.Node))
			}),
		},
		{
			MethodName: "MoveNode",
			Handler: handlerFor("MoveNode", func() interface{} { return new(api.MoveNodeRequest) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.MoveNode(ctx, in.(*api.MoveNodeRequest))
			}),
		},
		{
			MethodName: "DeleteNode",
			Handler: handlerFor("DeleteNode", func() interface{} { return new(api.DeleteNodeRequest) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.DeleteNode(ctx, in.(*api.DeleteNodeRequest))
			}),
		},
		{
			MethodName: "GetNodes",
			Handler: handlerFor("GetNodes", func() interface{} { return new(api.Empty) }, func(ctx context.Context, s *Server, in interface{}) (interface{}, error) {
				return s.GetNodes(ctx, in.(*api.Empty))
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SubscribeToUpdates",
			Handler:       subscribeToUpdatesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "nextapp.proto",
}
