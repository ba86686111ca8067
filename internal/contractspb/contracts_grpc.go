// Package contractspb describes the contracts.v1.ContractLifecycle gRPC
// service. Messages are google.protobuf.Struct documents whose keys match the
// JSON API, so no generated message types are needed.
package contractspb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "contracts.v1.ContractLifecycle"

const (
	ContractLifecycle_CreateBlueprint_FullMethodName    = "/" + ServiceName + "/CreateBlueprint"
	ContractLifecycle_GetContract_FullMethodName        = "/" + ServiceName + "/GetContract"
	ContractLifecycle_TransitionContract_FullMethodName = "/" + ServiceName + "/TransitionContract"
	ContractLifecycle_ListContracts_FullMethodName      = "/" + ServiceName + "/ListContracts"
)

// ContractLifecycleClient is the client API for the ContractLifecycle service.
type ContractLifecycleClient interface {
	CreateBlueprint(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetContract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	TransitionContract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListContracts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type contractLifecycleClient struct {
	cc grpc.ClientConnInterface
}

func NewContractLifecycleClient(cc grpc.ClientConnInterface) ContractLifecycleClient {
	return &contractLifecycleClient{cc}
}

func (c *contractLifecycleClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractLifecycleClient) CreateBlueprint(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ContractLifecycle_CreateBlueprint_FullMethodName, in, opts)
}

func (c *contractLifecycleClient) GetContract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ContractLifecycle_GetContract_FullMethodName, in, opts)
}

func (c *contractLifecycleClient) TransitionContract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ContractLifecycle_TransitionContract_FullMethodName, in, opts)
}

func (c *contractLifecycleClient) ListContracts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ContractLifecycle_ListContracts_FullMethodName, in, opts)
}

// ContractLifecycleServer is the server API for the ContractLifecycle service.
type ContractLifecycleServer interface {
	CreateBlueprint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetContract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransitionContract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListContracts(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedContractLifecycleServer can be embedded to have forward
// compatible implementations.
type UnimplementedContractLifecycleServer struct{}

func (UnimplementedContractLifecycleServer) CreateBlueprint(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateBlueprint not implemented")
}

func (UnimplementedContractLifecycleServer) GetContract(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetContract not implemented")
}

func (UnimplementedContractLifecycleServer) TransitionContract(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method TransitionContract not implemented")
}

func (UnimplementedContractLifecycleServer) ListContracts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListContracts not implemented")
}

func RegisterContractLifecycleServer(s grpc.ServiceRegistrar, srv ContractLifecycleServer) {
	s.RegisterService(&ContractLifecycle_ServiceDesc, srv)
}

func unaryHandler(
	fullMethod string,
	call func(ContractLifecycleServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ContractLifecycleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ContractLifecycleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ContractLifecycle_ServiceDesc is the grpc.ServiceDesc for the
// ContractLifecycle service.
var ContractLifecycle_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContractLifecycleServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateBlueprint",
			Handler: unaryHandler(ContractLifecycle_CreateBlueprint_FullMethodName,
				ContractLifecycleServer.CreateBlueprint),
		},
		{
			MethodName: "GetContract",
			Handler: unaryHandler(ContractLifecycle_GetContract_FullMethodName,
				ContractLifecycleServer.GetContract),
		},
		{
			MethodName: "TransitionContract",
			Handler: unaryHandler(ContractLifecycle_TransitionContract_FullMethodName,
				ContractLifecycleServer.TransitionContract),
		},
		{
			MethodName: "ListContracts",
			Handler: unaryHandler(ContractLifecycle_ListContracts_FullMethodName,
				ContractLifecycleServer.ListContracts),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contracts/v1/contracts.proto",
}
