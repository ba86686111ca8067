package handler

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/pesio-ai/be-contracts/internal/contractspb"
	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/service"
)

// GRPCHandler implements the ContractLifecycle gRPC interface
type GRPCHandler struct {
	pb.UnimplementedContractLifecycleServer
	blueprints *service.BlueprintService
	contracts  *service.ContractService
	lifecycle  *service.LifecycleService
	logger     zerolog.Logger
}

// NewGRPCHandler creates a new gRPC handler
func NewGRPCHandler(
	blueprints *service.BlueprintService,
	contracts *service.ContractService,
	lifecycle *service.LifecycleService,
	logger zerolog.Logger,
) *GRPCHandler {
	return &GRPCHandler{
		blueprints: blueprints,
		contracts:  contracts,
		lifecycle:  lifecycle,
		logger:     logger.With().Str("handler", "grpc").Logger(),
	}
}

// CreateBlueprint creates a new blueprint
func (h *GRPCHandler) CreateBlueprint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body createBlueprintBody
	if err := fromStruct(req, &body); err != nil {
		return nil, mapErrorToGRPC(err)
	}

	h.logger.Info().
		Str("name", body.Name).
		Int("field_count", len(body.Fields)).
		Msg("gRPC CreateBlueprint called")

	blueprint, err := h.blueprints.CreateBlueprint(ctx, &service.CreateBlueprintRequest{
		Name:   body.Name,
		Fields: body.Fields,
	})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	return toStruct(blueprint)
}

// GetContract returns the lifecycle view of a contract
func (h *GRPCHandler) GetContract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "id")
	h.logger.Debug().Str("contract_id", id).Msg("gRPC GetContract called")

	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	view, err := h.lifecycle.View(ctx, id)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	return toStruct(view)
}

// TransitionContract moves a contract to the requested status
func (h *GRPCHandler) TransitionContract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "id")
	rawStatus := stringField(req, "status")

	h.logger.Info().
		Str("contract_id", id).
		Str("status", rawStatus).
		Msg("gRPC TransitionContract called")

	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	target, err := lifecycle.ParseStatus(rawStatus)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	contract, err := h.lifecycle.Transition(ctx, id, target)
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	return toStruct(contract)
}

// ListContracts lists contracts with optional group, status and query filters
func (h *GRPCHandler) ListContracts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	group, err := lifecycle.ParseGroup(stringField(req, "group"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var st lifecycle.Status
	if raw := stringField(req, "status"); raw != "" {
		st, err = lifecycle.ParseStatus(raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	contracts, err := h.contracts.ListContracts(ctx, service.ListContractsFilter{
		Group:  group,
		Status: st,
		Query:  stringField(req, "q"),
	})
	if err != nil {
		return nil, mapErrorToGRPC(err)
	}

	return toStruct(map[string]interface{}{
		"contracts": contracts,
		"total":     len(contracts),
	})
}

// toStruct converts a JSON-serializable value into a protobuf Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// fromStruct decodes a protobuf Struct into dst through its JSON form.
func fromStruct(s *structpb.Struct, dst interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return errors.InvalidInput("request", err.Error())
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.InvalidInput("request", err.Error())
	}
	return nil
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// mapErrorToGRPC maps application error codes to gRPC status codes
func mapErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return status.Error(codes.NotFound, msg)
	case errors.ErrCodeInvalidInput:
		return status.Error(codes.InvalidArgument, msg)
	case errors.ErrCodeConflict, errors.ErrCodeLocked, errors.ErrCodeInvalidTransition:
		return status.Error(codes.FailedPrecondition, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
