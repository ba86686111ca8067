package handler

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/pesio-ai/be-contracts/internal/contractspb"
	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/service"
)

func newGRPCClient(t *testing.T) (pb.ContractLifecycleClient, *testServices) {
	t.Helper()
	svc := newTestServices(t)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	pb.RegisterContractLifecycleServer(srv, NewGRPCHandler(svc.blueprints, svc.contracts, svc.lifecycle, zerolog.Nop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return pb.NewContractLifecycleClient(conn), svc
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestGRPC_Lifecycle(t *testing.T) {
	client, svc := newGRPCClient(t)
	ctx := context.Background()

	bp, err := client.CreateBlueprint(ctx, mustStruct(t, map[string]interface{}{
		"name": "NDA",
		"fields": []interface{}{
			map[string]interface{}{"label": "Party", "type": "text", "required": false},
		},
	}))
	require.NoError(t, err)
	bpID := bp.GetFields()["id"].GetStringValue()
	require.NotEmpty(t, bpID)

	contract, err := svc.contracts.CreateContract(ctx, &service.CreateContractRequest{
		Name:        "Acme NDA",
		BlueprintID: bpID,
	})
	require.NoError(t, err)

	moved, err := client.TransitionContract(ctx, mustStruct(t, map[string]interface{}{
		"id": contract.ID, "status": "approved",
	}))
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", moved.GetFields()["status"].GetStringValue())

	_, err = client.TransitionContract(ctx, mustStruct(t, map[string]interface{}{
		"id": contract.ID, "status": "SIGNED",
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	view, err := client.GetContract(ctx, mustStruct(t, map[string]interface{}{"id": contract.ID}))
	require.NoError(t, err)
	assert.True(t, view.GetFields()["canRevoke"].GetBoolValue())
	assert.Len(t, view.GetFields()["actions"].GetListValue().GetValues(), 2)

	list, err := client.ListContracts(ctx, mustStruct(t, map[string]interface{}{"group": "pending"}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), list.GetFields()["total"].GetNumberValue())

	_, err = client.GetContract(ctx, mustStruct(t, map[string]interface{}{"id": "missing"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetContract(ctx, mustStruct(t, map[string]interface{}{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.TransitionContract(ctx, mustStruct(t, map[string]interface{}{
		"id": "missing", "status": "APPROVED",
	}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.TransitionContract(ctx, mustStruct(t, map[string]interface{}{
		"id": "missing", "status": "ARCHIVED",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListContracts(ctx, mustStruct(t, map[string]interface{}{"group": "bogus"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_CreateBlueprintValidation(t *testing.T) {
	client, _ := newGRPCClient(t)

	_, err := client.CreateBlueprint(context.Background(), mustStruct(t, map[string]interface{}{
		"name": "",
	}))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "Blueprint name is required")
}

func TestMapErrorToGRPC(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{errors.NotFound("contract", "x"), codes.NotFound},
		{errors.InvalidInput("name", "empty"), codes.InvalidArgument},
		{errors.New(errors.ErrCodeLocked, "locked"), codes.FailedPrecondition},
		{errors.New(errors.ErrCodeInvalidTransition, "no"), codes.FailedPrecondition},
		{errors.New(errors.ErrCodeConflict, "in use"), codes.FailedPrecondition},
		{errors.New(errors.ErrCodeInternal, "disk"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(mapErrorToGRPC(tt.err)), tt.err.Error())
	}
	assert.NoError(t, mapErrorToGRPC(nil))
}
