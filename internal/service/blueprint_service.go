package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/validation"
)

// BlueprintService handles blueprint business logic
type BlueprintService struct {
	blueprintRepo     *repository.BlueprintRepository
	contractRepo      *repository.ContractRepository
	protectReferenced bool
	log               *logger.Logger
	now               func() time.Time
}

// NewBlueprintService creates a new blueprint service. When protectReferenced
// is set, blueprints that contracts still point at cannot be deleted.
func NewBlueprintService(
	blueprintRepo *repository.BlueprintRepository,
	contractRepo *repository.ContractRepository,
	protectReferenced bool,
	log *logger.Logger,
) *BlueprintService {
	return &BlueprintService{
		blueprintRepo:     blueprintRepo,
		contractRepo:      contractRepo,
		protectReferenced: protectReferenced,
		log:               log,
		now:               time.Now,
	}
}

// CreateBlueprintRequest represents a create blueprint request
type CreateBlueprintRequest struct {
	Name   string
	Fields []repository.Field
}

// CreateBlueprint validates and stores a new blueprint
func (s *BlueprintService) CreateBlueprint(ctx context.Context, req *CreateBlueprintRequest) (*repository.Blueprint, error) {
	if msgs := validation.ValidateBlueprint(req.Name, req.Fields); len(msgs) > 0 {
		return nil, errors.Validation(msgs)
	}

	fields := make([]repository.Field, len(req.Fields))
	for i, f := range req.Fields {
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		f.Label = strings.TrimSpace(f.Label)
		fields[i] = f
	}

	now := s.now().UTC()
	blueprint := &repository.Blueprint{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.blueprintRepo.Create(ctx, blueprint); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("blueprint_id", blueprint.ID).
		Str("blueprint_name", blueprint.Name).
		Int("field_count", len(blueprint.Fields)).
		Msg("Blueprint created")

	return blueprint, nil
}

// CreateFromBuilder creates a blueprint from the builder's fields and resets
// the builder on success.
func (s *BlueprintService) CreateFromBuilder(ctx context.Context, name string, builder *FieldBuilder) (*repository.Blueprint, error) {
	blueprint, err := s.CreateBlueprint(ctx, &CreateBlueprintRequest{
		Name:   name,
		Fields: builder.Fields(),
	})
	if err != nil {
		return nil, err
	}
	builder.Reset()
	return blueprint, nil
}

// GetBlueprint retrieves a blueprint by ID
func (s *BlueprintService) GetBlueprint(ctx context.Context, id string) (*repository.Blueprint, error) {
	return s.blueprintRepo.GetByID(ctx, id)
}

// ListBlueprints lists blueprints in creation order
func (s *BlueprintService) ListBlueprints(ctx context.Context) ([]*repository.Blueprint, error) {
	return s.blueprintRepo.List(ctx)
}

// DeleteBlueprint deletes a blueprint. Contracts created from it keep their
// denormalized blueprint name unless protection is enabled, in which case the
// delete is refused.
func (s *BlueprintService) DeleteBlueprint(ctx context.Context, id string) error {
	blueprint, err := s.blueprintRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.contractRepo.CountByBlueprint(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 && s.protectReferenced {
		return errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("blueprint '%s' is used by %d contract(s)", blueprint.Name, refs))
	}

	if err := s.blueprintRepo.Delete(ctx, id); err != nil {
		return err
	}

	evt := s.log.Info()
	if refs > 0 {
		evt = s.log.Warn()
	}
	evt.Str("blueprint_id", id).
		Str("blueprint_name", blueprint.Name).
		Int("orphaned_contracts", refs).
		Msg("Blueprint deleted")

	return nil
}
