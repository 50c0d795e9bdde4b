package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/washledger/internal/adapter/repository/memory"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
	"github.com/iho/washledger/internal/usecase/mocks"
)

func TestMaterialUseCase_CreateMaterialValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		input   usecase.CreateMaterialInput
		wantErr error
	}{
		{"empty name", usecase.CreateMaterialInput{Name: " ", Actor: "admin"}, domain.ErrInvalidMaterialName},
		{"negative price", usecase.CreateMaterialInput{Name: "Wax", Price: decimal.NewFromInt(-1), Actor: "admin"}, domain.ErrInvalidPrice},
		{"negative opening stock", usecase.CreateMaterialInput{Name: "Wax", StockQuantity: -1, Actor: "admin"}, domain.ErrInvalidStock},
		{"no actor", usecase.CreateMaterialInput{Name: "Wax"}, domain.ErrMissingActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.CreateMaterial(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	all, err := f.catalog.ListMaterials(context.Background(), usecase.ListMaterialsInput{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMaterialUseCase_UpdateMaterialLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.seedMaterial(t, 40)

	name := "Glass water XL"
	price := decimal.NewFromInt(12)

	updated, err := f.catalog.UpdateMaterial(ctx, usecase.UpdateMaterialInput{
		ID:    m.ID,
		Name:  &name,
		Price: &price,
		Actor: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.True(t, updated.OriginalPrice.Equal(decimal.NewFromInt(5)))

	stored, err := f.materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), stored.StockQuantity)
	assert.Equal(t, name, stored.Name)

	logs, err := f.audits.GetByResourceID(ctx, domain.ResourceTypeMaterial, m.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Glass water", logs[1].BeforeState["Name"])

	bad := ""
	_, err = f.catalog.UpdateMaterial(ctx, usecase.UpdateMaterialInput{ID: m.ID, Name: &bad, Actor: "admin"})
	require.ErrorIs(t, err, domain.ErrInvalidMaterialName)

	_, err = f.catalog.UpdateMaterial(ctx, usecase.UpdateMaterialInput{ID: "missing", Actor: "admin"})
	require.ErrorIs(t, err, domain.ErrMaterialNotFound)
}

func TestMaterialUseCase_ChoicesUseLabels(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, 1)

	choices, err := f.catalog.Choices(context.Background())
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, m.ID, choices[0].ID)
	assert.Equal(t, m.ID+"-Glass water", choices[0].Label)
}

func TestMaterialUseCase_GetMaterialReadThroughCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMaterialRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	uc := usecase.NewMaterialUseCase(nil, repo, nil, nil, cache, nil, zerolog.Nop())

	material := glassWater(12)

	cache.EXPECT().Get(gomock.Any(), "material:mat-1").Return(nil, errors.New("redis: nil"))
	repo.EXPECT().GetByID(gomock.Any(), "mat-1").Return(material, nil)
	cache.EXPECT().Set(gomock.Any(), "material:mat-1", gomock.Any(), usecase.MaterialCacheTTL).Return(nil)

	got, err := uc.GetMaterial(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.StockQuantity)

	cached, err := json.Marshal(material)
	require.NoError(t, err)

	cache.EXPECT().Get(gomock.Any(), "material:mat-1").Return(cached, nil)

	got, err = uc.GetMaterial(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.True(t, got.DiscountPrice.Equal(decimal.NewFromInt(8)))
}

func TestMaterialUseCase_UpdateInvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := memory.NewStore()
	materials := memory.NewMaterialRepository(store)
	cache := mocks.NewMockCache(ctrl)
	uc := usecase.NewMaterialUseCase(memory.NewTxManager(store), materials, memory.NewAuditRepository(store), &seqIDGenerator{}, cache, nil, zerolog.Nop())

	m, err := uc.CreateMaterial(context.Background(), usecase.CreateMaterialInput{Name: "Foam", Actor: "admin"})
	require.NoError(t, err)

	brand := "Turtle"
	cache.EXPECT().Delete(gomock.Any(), "material:"+m.ID).Return(nil)

	_, err = uc.UpdateMaterial(context.Background(), usecase.UpdateMaterialInput{ID: m.ID, Brand: &brand, Actor: "admin"})
	require.NoError(t, err)
}
