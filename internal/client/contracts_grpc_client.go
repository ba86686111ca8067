package client

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/pesio-ai/be-contracts/internal/contractspb"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

// ContractsGRPCClient is a gRPC client for the contract lifecycle service
type ContractsGRPCClient struct {
	conn   *grpc.ClientConn
	client pb.ContractLifecycleClient
}

// NewContractsGRPCClient creates a new contract lifecycle gRPC client
func NewContractsGRPCClient(addr string, opts ...grpc.DialOption) (*ContractsGRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(forwardMetadata),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return &ContractsGRPCClient{
		conn:   conn,
		client: pb.NewContractLifecycleClient(conn),
	}, nil
}

// Close closes the gRPC connection
func (c *ContractsGRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// CreateBlueprint creates a blueprint and returns it with its assigned ids
func (c *ContractsGRPCClient) CreateBlueprint(ctx context.Context, req *NewBlueprint) (*repository.Blueprint, error) {
	in, err := encodeStruct(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.CreateBlueprint(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create blueprint: %w", err)
	}

	var blueprint repository.Blueprint
	if err := decodeStruct(resp, &blueprint); err != nil {
		return nil, err
	}
	return &blueprint, nil
}

// GetContract retrieves the lifecycle view of a contract
func (c *ContractsGRPCClient) GetContract(ctx context.Context, contractID string) (*ContractView, error) {
	resp, err := c.client.GetContract(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		"id": structpb.NewStringValue(contractID),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	var view ContractView
	if err := decodeStruct(resp, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Transition moves a contract to the target status. Revoking is a
// transition back to CREATED.
func (c *ContractsGRPCClient) Transition(ctx context.Context, contractID, status string) (*repository.Contract, error) {
	resp, err := c.client.TransitionContract(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":     structpb.NewStringValue(contractID),
		"status": structpb.NewStringValue(status),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to transition contract: %w", err)
	}

	var contract repository.Contract
	if err := decodeStruct(resp, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListContracts lists contracts matching the filter
func (c *ContractsGRPCClient) ListContracts(ctx context.Context, req ListContractsRequest) (*ContractList, error) {
	in, err := encodeStruct(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.ListContracts(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	var list ContractList
	if err := decodeStruct(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func encodeStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return s, nil
}

func decodeStruct(s *structpb.Struct, dst interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
