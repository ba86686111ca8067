package repository

import (
	"context"

	"github.com/pesio-ai/be-contracts/internal/errors"
)

// BlueprintRepository handles blueprint persistence
type BlueprintRepository struct {
	items *Collection[Blueprint]
}

// NewBlueprintRepository creates a new blueprint repository
func NewBlueprintRepository(store Store, keyPrefix string) *BlueprintRepository {
	return &BlueprintRepository{
		items: NewCollection(store, StorageKey(keyPrefix, NamespaceBlueprints),
			func(b *Blueprint) string { return b.ID }),
	}
}

// Create appends a new blueprint
func (r *BlueprintRepository) Create(ctx context.Context, blueprint *Blueprint) error {
	return r.items.Update(ctx, func(all []*Blueprint) ([]*Blueprint, error) {
		for _, b := range all {
			if b.ID == blueprint.ID {
				return nil, errors.New(errors.ErrCodeConflict, "blueprint already exists: "+blueprint.ID)
			}
		}
		return append(all, blueprint), nil
	})
}

// GetByID retrieves a blueprint by ID
func (r *BlueprintRepository) GetByID(ctx context.Context, id string) (*Blueprint, error) {
	blueprint, err := r.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blueprint == nil {
		return nil, errors.NotFound("blueprint", id)
	}
	return blueprint, nil
}

// List retrieves all blueprints in creation order
func (r *BlueprintRepository) List(ctx context.Context) ([]*Blueprint, error) {
	return r.items.ReadAll(ctx)
}

// Delete removes a blueprint
func (r *BlueprintRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.items.RemoveByID(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NotFound("blueprint", id)
	}
	return nil
}

// ReplaceAll overwrites the whole collection (used by seeding)
func (r *BlueprintRepository) ReplaceAll(ctx context.Context, blueprints []*Blueprint) error {
	return r.items.WriteAll(ctx, blueprints)
}

// Clear removes every blueprint
func (r *BlueprintRepository) Clear(ctx context.Context) error {
	return r.items.Clear(ctx)
}
