package client

import (
	"context"

	"github.com/pesio-ai/be-contracts/internal/repository"
)

// ContractsClientInterface defines the interface for contract lifecycle
// service clients
type ContractsClientInterface interface {
	CreateBlueprint(ctx context.Context, req *NewBlueprint) (*repository.Blueprint, error)
	GetContract(ctx context.Context, contractID string) (*ContractView, error)
	Transition(ctx context.Context, contractID, status string) (*repository.Contract, error)
	ListContracts(ctx context.Context, req ListContractsRequest) (*ContractList, error)
	Close() error
}

var _ ContractsClientInterface = (*ContractsGRPCClient)(nil)
