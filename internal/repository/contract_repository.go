package repository

import (
	"context"
	"time"

	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
)

// ContractRepository handles contract persistence
type ContractRepository struct {
	items *Collection[Contract]
	now   func() time.Time
}

// NewContractRepository creates a new contract repository
func NewContractRepository(store Store, keyPrefix string) *ContractRepository {
	return &ContractRepository{
		items: NewCollection(store, StorageKey(keyPrefix, NamespaceContracts),
			func(c *Contract) string { return c.ID }),
		now: time.Now,
	}
}

// WithClock overrides the timestamp source
func (r *ContractRepository) WithClock(now func() time.Time) *ContractRepository {
	r.now = now
	return r
}

// Create appends a new contract
func (r *ContractRepository) Create(ctx context.Context, contract *Contract) error {
	return r.items.Update(ctx, func(all []*Contract) ([]*Contract, error) {
		for _, c := range all {
			if c.ID == contract.ID {
				return nil, errors.New(errors.ErrCodeConflict, "contract already exists: "+contract.ID)
			}
		}
		return append(all, contract), nil
	})
}

// GetByID retrieves a contract by ID
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*Contract, error) {
	contract, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, errors.NotFound("contract", id)
	}
	return contract, nil
}

// List retrieves all contracts in creation order
func (r *ContractRepository) List(ctx context.Context) ([]*Contract, error) {
	return r.items.ReadAll(ctx)
}

// CountByBlueprint returns how many contracts reference a blueprint
func (r *ContractRepository) CountByBlueprint(ctx context.Context, blueprintID string) (int, error) {
	all, err := r.items.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range all {
		if c.BlueprintID == blueprintID {
			n++
		}
	}
	return n, nil
}

// Update applies mutate to the stored contract and refreshes UpdatedAt. The
// mutation runs under the collection lock against the freshly read record;
// returning an error leaves the stored contract untouched. A status change
// made by mutate must follow the transition table.
func (r *ContractRepository) Update(ctx context.Context, id string, mutate func(*Contract) error) (*Contract, error) {
	var updated *Contract
	err := r.items.Update(ctx, func(all []*Contract) ([]*Contract, error) {
		for i, c := range all {
			if c.ID != id {
				continue
			}
			next := c.Clone()
			if err := mutate(next); err != nil {
				return nil, err
			}
			if next.Status != c.Status {
				if err := lifecycle.Transition(c.Status, next.Status); err != nil {
					return nil, errors.Wrap(err, errors.ErrCodeInvalidTransition, "status change rejected")
				}
			}
			next.UpdatedAt = r.now().UTC()
			all[i] = next
			updated = next
			return all, nil
		}
		return nil, errors.NotFound("contract", id)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a contract
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.items.RemoveByID(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NotFound("contract", id)
	}
	return nil
}

// ReplaceAll overwrites the whole collection (used by seeding)
func (r *ContractRepository) ReplaceAll(ctx context.Context, contracts []*Contract) error {
	return r.items.WriteAll(ctx, contracts)
}

// Clear removes every contract
func (r *ContractRepository) Clear(ctx context.Context) error {
	return r.items.Clear(ctx)
}
