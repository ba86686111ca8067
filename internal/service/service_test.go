package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

type recordedEvent struct {
	eventType  string
	contractID string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) PublishContractEvent(_ context.Context, eventType string, c *repository.Contract) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{eventType: eventType, contractID: c.ID})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.eventType
	}
	return out
}

type testEnv struct {
	blueprints *BlueprintService
	contracts  *ContractService
	lifecycle  *LifecycleService
	notifier   *recordingNotifier
	contractDB *repository.ContractRepository
}

func newTestEnv(t *testing.T, protectReferenced bool) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	log := logger.NewNop()
	bpRepo := repository.NewBlueprintRepository(store, repository.DefaultKeyPrefix)
	cRepo := repository.NewContractRepository(store, repository.DefaultKeyPrefix)
	notifier := &recordingNotifier{}

	return &testEnv{
		blueprints: NewBlueprintService(bpRepo, cRepo, protectReferenced, log),
		contracts:  NewContractService(cRepo, bpRepo, notifier, log),
		lifecycle:  NewLifecycleService(cRepo, bpRepo, notifier, log),
		notifier:   notifier,
		contractDB: cRepo,
	}
}

// createNDA stores a blueprint with a required text field, an optional text
// field and a required checkbox.
func (e *testEnv) createNDA(t *testing.T) *repository.Blueprint {
	t.Helper()
	bp, err := e.blueprints.CreateBlueprint(context.Background(), &CreateBlueprintRequest{
		Name: "NDA",
		Fields: []repository.Field{
			{Label: "Party", Type: repository.FieldTypeText, Required: true},
			{Label: "Notes", Type: repository.FieldTypeText},
			{Label: "Agree", Type: repository.FieldTypeCheckbox, Required: true},
		},
	})
	require.NoError(t, err)
	return bp
}

func (e *testEnv) createContract(t *testing.T, bp *repository.Blueprint, name string) *repository.Contract {
	t.Helper()
	c, err := e.contracts.CreateContract(context.Background(), &CreateContractRequest{
		Name:        name,
		BlueprintID: bp.ID,
		FieldValues: map[string]any{bp.Fields[0].ID: "Acme", bp.Fields[2].ID: false},
	})
	require.NoError(t, err)
	return c
}

// walkTo moves a CREATED contract forward through the lifecycle until it
// reaches target.
func (e *testEnv) walkTo(t *testing.T, id string, target lifecycle.Status) {
	t.Helper()
	if target == lifecycle.StatusCreated {
		return
	}
	for _, s := range lifecycle.Statuses()[1:] {
		_, err := e.lifecycle.Transition(context.Background(), id, s)
		require.NoError(t, err)
		if s == target {
			return
		}
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func ids(contracts []*repository.Contract) []string {
	out := make([]string, len(contracts))
	for i, c := range contracts {
		out[i] = c.ID
	}
	return out
}
