package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

func TestCreateBlueprint(t *testing.T) {
	env := newTestEnv(t, false)
	bp := env.createNDA(t)

	assert.NotEmpty(t, bp.ID)
	assert.Equal(t, "NDA", bp.Name)
	require.Len(t, bp.Fields, 3)
	for _, f := range bp.Fields {
		assert.NotEmpty(t, f.ID)
	}
	assert.Equal(t, bp.CreatedAt, bp.UpdatedAt)

	got, err := env.blueprints.GetBlueprint(context.Background(), bp.ID)
	require.NoError(t, err)
	assert.Equal(t, bp.Fields, got.Fields)
}

func TestCreateBlueprint_ValidationBeforeWrite(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.blueprints.CreateBlueprint(ctx, &CreateBlueprintRequest{Name: "Empty"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
	assert.Equal(t, []string{"At least one field is required"}, errors.Details(err))

	_, err = env.blueprints.CreateBlueprint(ctx, &CreateBlueprintRequest{
		Name:   "No label",
		Fields: []repository.Field{{Type: repository.FieldTypeText}},
	})
	assert.Equal(t, []string{"Field 1: Label is required"}, errors.Details(err))

	list, err := env.blueprints.ListBlueprints(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateFromBuilder(t *testing.T) {
	env := newTestEnv(t, false)
	b := NewFieldBuilder()

	f := b.Add(repository.FieldTypeDate)
	_, err := env.blueprints.CreateFromBuilder(context.Background(), "Lease", b)
	require.Error(t, err)
	assert.Equal(t, 1, b.Len(), "builder is kept when creation fails")

	b.SetLabel(f.ID, "Start")
	bp, err := env.blueprints.CreateFromBuilder(context.Background(), "Lease", b)
	require.NoError(t, err)
	assert.Equal(t, f.ID, bp.Fields[0].ID)
	assert.Equal(t, 0, b.Len())
}

func TestDeleteBlueprint_ToleratesOrphans(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	bp := env.createNDA(t)
	c := env.createContract(t, bp, "Deal")

	require.NoError(t, env.blueprints.DeleteBlueprint(ctx, bp.ID))

	orphan, err := env.contracts.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "NDA", orphan.BlueprintName)

	_, err = env.lifecycle.View(ctx, c.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "blueprint")
}

func TestDeleteBlueprint_Protected(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	bp := env.createNDA(t)
	c := env.createContract(t, bp, "Deal")

	err := env.blueprints.DeleteBlueprint(ctx, bp.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	require.NoError(t, env.contracts.DeleteContract(ctx, c.ID))
	assert.NoError(t, env.blueprints.DeleteBlueprint(ctx, bp.ID))
}

func TestDeleteBlueprint_NotFound(t *testing.T) {
	env := newTestEnv(t, false)
	err := env.blueprints.DeleteBlueprint(context.Background(), "missing")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}
