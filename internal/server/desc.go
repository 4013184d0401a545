package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "scopemapper.v1.MappingService"

// MappingServer is the server API for the mapping service. Requests and responses are
// JSON-shaped structs; field names follow the entity JSON tags.
type MappingServer interface {
	ParseWorkScope(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	MapMeasurements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListRuns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ExportRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	EnqueueSurvey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(MappingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	full := "/" + ServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MappingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MappingServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// MappingServiceDesc is the grpc.ServiceDesc for MappingServer.
var MappingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MappingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ParseWorkScope", MappingServer.ParseWorkScope),
		unary("MapMeasurements", MappingServer.MapMeasurements),
		unary("GetRun", MappingServer.GetRun),
		unary("ListRuns", MappingServer.ListRuns),
		unary("ExportRun", MappingServer.ExportRun),
		unary("EnqueueSurvey", MappingServer.EnqueueSurvey),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scopemapper/v1/mapping.proto",
}

func RegisterMappingServer(s grpc.ServiceRegistrar, srv MappingServer) {
	s.RegisterService(&MappingServiceDesc, srv)
}

// MappingClient calls the mapping service over an existing connection.
type MappingClient struct {
	cc grpc.ClientConnInterface
}

func NewMappingClient(cc grpc.ClientConnInterface) *MappingClient {
	return &MappingClient{cc: cc}
}

// Call invokes method (for example "GetRun") with req.
func (c *MappingClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
