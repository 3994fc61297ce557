package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
)

type catalogFixture struct {
	svc       *CatalogService
	materials *memMaterialRepo
	equipment *memEquipmentRepo
	account   *domain.Account
	other     *domain.Account
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	materials := newMemMaterialRepo()
	equipment := newMemEquipmentRepo()
	now := time.Now().UTC()

	return &catalogFixture{
		svc:       NewCatalogService(materials, equipment, nil, zap.NewNop()),
		materials: materials,
		equipment: equipment,
		account:   &domain.Account{ID: "acc-1", Status: domain.AccountStatusActive, CreatedAt: now},
		other:     &domain.Account{ID: "acc-2", Status: domain.AccountStatusActive, CreatedAt: now},
	}
}

func TestCreateMaterial_ScopedToAccount(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	material, err := fx.svc.CreateMaterial(ctx, fx.account, MaterialInput{
		Name: "Cimento", Price: 35.5, Count: 10, Icon: "bag", Modifier: "saco 50kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", material.AccountID)

	mine, err := fx.svc.ListMaterials(ctx, fx.account)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := fx.svc.ListMaterials(ctx, fx.other)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestGetMaterial_ForeignAccountForbidden(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	material, err := fx.svc.CreateMaterial(ctx, fx.account, MaterialInput{Name: "Cimento"})
	require.NoError(t, err)

	_, err = fx.svc.GetMaterial(ctx, fx.other, material.ID)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, err = fx.svc.GetMaterial(ctx, fx.account, "ghost")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestPatchMaterial_GatedByTimestamp(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	material, err := fx.svc.CreateMaterial(ctx, fx.account, MaterialInput{Name: "Cimento", Price: 35.5})
	require.NoError(t, err)

	fresh := time.Now().UTC().Add(time.Minute)
	patched, err := fx.svc.PatchMaterial(ctx, fx.account, material.ID, conflict.Patch{"price": 38.0}, fresh)
	require.NoError(t, err)
	assert.Equal(t, 38.0, patched.Price)

	stale, err := fx.svc.PatchMaterial(ctx, fx.account, material.ID, conflict.Patch{"price": 10.0}, fresh.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 38.0, stale.Price)
}

func TestBulkPatchMaterials_PartialSuccess(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	mine, err := fx.svc.CreateMaterial(ctx, fx.account, MaterialInput{Name: "Cimento", Count: 10})
	require.NoError(t, err)
	staleTarget, err := fx.svc.CreateMaterial(ctx, fx.account, MaterialInput{Name: "Areia", Count: 5})
	require.NoError(t, err)
	foreign, err := fx.svc.CreateMaterial(ctx, fx.other, MaterialInput{Name: "Brita", Count: 2})
	require.NoError(t, err)

	fresh := time.Now().UTC().Add(time.Minute)
	result, err := fx.svc.BulkPatchMaterials(ctx, fx.account, []BulkPatchItem{
		{ID: mine.ID, Patch: conflict.Patch{"count": 20.0}, At: fresh},
		{ID: staleTarget.ID, Patch: conflict.Patch{"count": 99.0}, At: fresh.Add(-time.Hour)},
		{ID: foreign.ID, Patch: conflict.Patch{"count": 99.0}, At: fresh},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 20, fx.materials.materials[mine.ID].Count)
	assert.Equal(t, 5, fx.materials.materials[staleTarget.ID].Count)
	assert.Equal(t, 2, fx.materials.materials[foreign.ID].Count)
}

func TestDeleteMaterial_SoftDeletes(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	material, err := fx.svc.CreateMaterial(ctx, fx.account, MaterialInput{Name: "Cimento"})
	require.NoError(t, err)

	require.NoError(t, fx.svc.DeleteMaterial(ctx, fx.account, material.ID))
	assert.NotNil(t, fx.materials.materials[material.ID].DeletedAt)

	_, err = fx.svc.GetMaterial(ctx, fx.account, material.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestEquipmentLifecycle(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	equipment, err := fx.svc.CreateEquipment(ctx, fx.account, EquipmentInput{
		Name: "Betoneira", Description: "400L", Price: 120, Count: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", equipment.AccountID)

	_, err = fx.svc.GetEquipment(ctx, fx.other, equipment.ID)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	fresh := time.Now().UTC().Add(time.Minute)
	patched, err := fx.svc.PatchEquipment(ctx, fx.account, equipment.ID, conflict.Patch{"price": 150.0}, fresh)
	require.NoError(t, err)
	assert.Equal(t, 150.0, patched.Price)

	require.NoError(t, fx.svc.DeleteEquipment(ctx, fx.account, equipment.ID))
	list, err := fx.svc.ListEquipment(ctx, fx.account)
	require.NoError(t, err)
	assert.Empty(t, list)
}
