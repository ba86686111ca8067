package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/validation"
)

// ContractService handles contract business logic outside of status changes
type ContractService struct {
	contractRepo  *repository.ContractRepository
	blueprintRepo *repository.BlueprintRepository
	notifier      LifecycleNotifier
	log           *logger.Logger
	now           func() time.Time
}

// NewContractService creates a new contract service. A nil notifier disables
// events.
func NewContractService(
	contractRepo *repository.ContractRepository,
	blueprintRepo *repository.BlueprintRepository,
	notifier LifecycleNotifier,
	log *logger.Logger,
) *ContractService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ContractService{
		contractRepo:  contractRepo,
		blueprintRepo: blueprintRepo,
		notifier:      notifier,
		log:           log,
		now:           time.Now,
	}
}

// CreateContractRequest represents a create contract request
type CreateContractRequest struct {
	Name        string
	BlueprintID string
	FieldValues map[string]any
}

// UpdateContractRequest represents an edit of an unlocked contract. Nil
// members are left unchanged; FieldValues entries replace the stored value
// for that field.
type UpdateContractRequest struct {
	ID          string
	Name        *string
	FieldValues map[string]any
}

// ListContractsFilter narrows a contract listing. Zero values match all.
type ListContractsFilter struct {
	Group  lifecycle.Group
	Status lifecycle.Status
	Query  string
}

// ContractStats are the dashboard counters.
type ContractStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Signed  int `json:"signed"`
	Pending int `json:"pending"`
}

// CreateContract instantiates a blueprint
func (s *ContractService) CreateContract(ctx context.Context, req *CreateContractRequest) (*repository.Contract, error) {
	if strings.TrimSpace(req.BlueprintID) == "" {
		return nil, errors.InvalidInput("blueprint_id", "blueprint is required")
	}

	blueprint, err := s.blueprintRepo.GetByID(ctx, req.BlueprintID)
	if err != nil {
		return nil, err
	}

	if msgs := validation.ValidateContract(req.Name, req.FieldValues, blueprint.Fields); len(msgs) > 0 {
		return nil, errors.Validation(msgs)
	}

	values := make(map[string]any, len(blueprint.Fields))
	for _, f := range blueprint.Fields {
		if v, ok := req.FieldValues[f.ID]; ok {
			values[f.ID] = v
		}
	}

	now := s.now().UTC()
	contract := &repository.Contract{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		BlueprintID:   blueprint.ID,
		BlueprintName: blueprint.Name,
		FieldValues:   values,
		Status:        lifecycle.InitialStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("contract_id", contract.ID).
		Str("contract_name", contract.Name).
		Str("blueprint_id", blueprint.ID).
		Msg("Contract created")

	s.notifier.PublishContractEvent(ctx, EventContractCreated, contract)

	return contract, nil
}

// GetContract retrieves a contract by ID
func (s *ContractService) GetContract(ctx context.Context, id string) (*repository.Contract, error) {
	return s.contractRepo.GetByID(ctx, id)
}

// ListContracts lists contracts matching the filter, most recently updated
// first.
func (s *ContractService) ListContracts(ctx context.Context, filter ListContractsFilter) ([]*repository.Contract, error) {
	all, err := s.contractRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	group := filter.Group
	if group == "" {
		group = lifecycle.GroupTotal
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]*repository.Contract, 0, len(all))
	for _, c := range all {
		if !group.Contains(c.Status) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.BlueprintName), query) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	return out, nil
}

// Stats counts contracts per dashboard group
func (s *ContractService) Stats(ctx context.Context) (*ContractStats, error) {
	all, err := s.contractRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ContractStats{Total: len(all)}
	for _, c := range all {
		if lifecycle.GroupActive.Contains(c.Status) {
			stats.Active++
		}
		if lifecycle.GroupSigned.Contains(c.Status) {
			stats.Signed++
		}
		if lifecycle.GroupPending.Contains(c.Status) {
			stats.Pending++
		}
	}
	return stats, nil
}

// UpdateContract edits the name and/or field values of an unlocked contract
func (s *ContractService) UpdateContract(ctx context.Context, req *UpdateContractRequest) (*repository.Contract, error) {
	current, err := s.contractRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if current.Locked() {
		return nil, lockedError(current)
	}

	var fields []repository.Field
	if req.FieldValues != nil {
		blueprint, err := s.blueprintRepo.GetByID(ctx, current.BlueprintID)
		if err != nil {
			return nil, err
		}
		fields = blueprint.Fields
	}

	updated, err := s.contractRepo.Update(ctx, req.ID, func(c *repository.Contract) error {
		// Re-checked against the record read under the collection lock.
		if c.Locked() {
			return lockedError(c)
		}

		name := c.Name
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
		}

		values := c.FieldValues
		if values == nil {
			values = make(map[string]any)
		}
		for _, f := range fields {
			if v, ok := req.FieldValues[f.ID]; ok {
				values[f.ID] = v
			}
		}

		msgs := validation.ValidateContract(name, values, fields)
		if len(msgs) > 0 {
			return errors.Validation(msgs)
		}

		c.Name = name
		c.FieldValues = values
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("contract_id", updated.ID).
		Bool("renamed", req.Name != nil).
		Int("field_count", len(req.FieldValues)).
		Msg("Contract updated")

	return updated, nil
}

// DeleteContract deletes a contract. Locked contracts may be deleted.
func (s *ContractService) DeleteContract(ctx context.Context, id string) error {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().
		Str("contract_id", id).
		Str("contract_name", contract.Name).
		Str("status", contract.Status.String()).
		Msg("Contract deleted")

	return nil
}

// ClearAllData removes every contract and blueprint.
func (s *ContractService) ClearAllData(ctx context.Context) error {
	if err := s.contractRepo.Clear(ctx); err != nil {
		return err
	}
	if err := s.blueprintRepo.Clear(ctx); err != nil {
		return err
	}

	s.log.Warn().Msg("All contract and blueprint data cleared")
	return nil
}

func lockedError(c *repository.Contract) error {
	return errors.New(errors.ErrCodeLocked,
		fmt.Sprintf("contract '%s' is locked and cannot be edited", c.Name))
}
