package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

type entryServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error)
	updateFn  func(ctx context.Context, input usecase.UpdateEntryInput) (*domain.LedgerEntry, error)
	deleteFn  func(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error)
	reverseFn func(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error)
	getFn     func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	listFn    func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error)
}

func (s *entryServiceStub) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error) {
	return s.createFn(ctx, input)
}

func (s *entryServiceStub) UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.LedgerEntry, error) {
	return s.updateFn(ctx, input)
}

func (s *entryServiceStub) DeleteEntry(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error) {
	return s.deleteFn(ctx, input)
}

func (s *entryServiceStub) ReverseEntry(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error) {
	return s.reverseFn(ctx, input)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error) {
	return s.listFn(ctx, input)
}

type materialLookupStub map[string]*domain.Material

func (s materialLookupStub) GetMaterial(ctx context.Context, id string) (*domain.Material, error) {
	if m, ok := s[id]; ok {
		return m, nil
	}
	return nil, domain.ErrMaterialNotFound
}

func asUser(req *http.Request, id string, role domain.Role) *http.Request {
	return req.WithContext(domain.ContextWithUser(req.Context(), &domain.User{ID: id, Role: role}))
}

func saleEntry(createdBy string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:         "e1",
		MaterialID: "m1",
		Action:     domain.ActionIncoming,
		Quantity:   3,
		PriceType:  domain.PriceTypePrice,
		Money:      decimal.NewFromInt(30),
		Earnings:   decimal.NewFromInt(15),
		CreatedBy:  createdBy,
		UpdatedBy:  createdBy,
		Status:     domain.EntryStatusCommitted,
	}
}

func TestEntryHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateEntryInput
	h := NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error) {
			captured = input
			return saleEntry("cashier-1"), nil
		},
	}, materialLookupStub{"m1": {ID: "m1", Name: "Glass Water"}})

	body, _ := json.Marshal(dto.CreateEntryRequest{
		MaterialID: "m1",
		Action:     "incoming",
		Quantity:   3,
		PriceType:  "price",
		Remarks:    "bay 2",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body)), "cashier-1", domain.RoleCashier)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.ActionIncoming, captured.Action)
	assert.Equal(t, domain.PriceTypePrice, captured.PriceType)
	assert.Equal(t, int64(3), captured.Quantity)

	var resp dto.EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "m1-Glass Water", resp.MaterialLabel)
	assert.Equal(t, "15", resp.EarningsLabel)
	assert.Nil(t, resp.IsDeleted)
}

func TestEntryHandler_Create_MapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"outgoing at retail", domain.ErrOutgoingRequiresOriginalPrice, http.StatusUnprocessableEntity},
		{"oversell", &domain.StockViolationError{MaterialID: "m1", Stock: 2, Delta: -3}, http.StatusConflict},
		{"unknown material", domain.ErrMaterialNotFound, http.StatusNotFound},
		{"duplicate", domain.ErrEntryAlreadyExists, http.StatusConflict},
		{"no actor", domain.ErrMissingActor, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEntryHandler(&entryServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error) {
					return nil, tt.err
				},
			}, nil)

			req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString(`{"material_id":"m1"}`))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestEntryHandler_Update_PassesPathID(t *testing.T) {
	var captured usecase.UpdateEntryInput
	h := NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateEntryInput) (*domain.LedgerEntry, error) {
			captured = input
			return saleEntry("cashier-1"), nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPut, "/entries/e1", bytes.NewBufferString(`{"quantity":5,"price_type":"discount_price"}`))
	req = asUser(withURLParam(req, "id", "e1"), "boss", domain.RoleAdmin)
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "e1", captured.ID)
	assert.Equal(t, int64(5), captured.Quantity)
	assert.Equal(t, domain.PriceTypeDiscount, captured.PriceType)
	assert.Empty(t, captured.Action)
	assert.Empty(t, captured.OwnedBy)
}

func TestEntryHandler_Update_ScopesCashiersToOwnEntries(t *testing.T) {
	var captured usecase.UpdateEntryInput
	h := NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateEntryInput) (*domain.LedgerEntry, error) {
			captured = input
			return nil, domain.ErrEntryNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPut, "/entries/e1", bytes.NewBufferString(`{"quantity":50,"price_type":"price"}`))
	req = asUser(withURLParam(req, "id", "e1"), "cashier-2", domain.RoleCashier)
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cashier-2", captured.OwnedBy)

	req = withURLParam(httptest.NewRequest(http.MethodPut, "/entries/e1", bytes.NewBufferString(`{"quantity":1,"price_type":"price"}`)), "id", "e1")
	rec = httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEntryHandler_DeleteAndReverse(t *testing.T) {
	deleted := saleEntry("cashier-1")
	deleted.IsDeleted = true
	deleted.Status = domain.EntryStatusDeleted

	var reversedID string
	h := NewEntryHandler(&entryServiceStub{
		deleteFn: func(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error) {
			return deleted, nil
		},
		reverseFn: func(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error) {
			reversedID = input.ID
			return nil, domain.ErrEntryAlreadyReversed
		},
	}, nil)

	req := asUser(withURLParam(httptest.NewRequest(http.MethodDelete, "/entries/e1", nil), "id", "e1"), "boss", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.IsDeleted)
	assert.True(t, *resp.IsDeleted)

	req = asUser(withURLParam(httptest.NewRequest(http.MethodPost, "/entries/e1/reverse", nil), "id", "e1"), "boss", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.Reverse(rec, req)

	assert.Equal(t, "e1", reversedID)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEntryHandler_Get_HidesOtherCashiersEntries(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.LedgerEntry, error) {
			return saleEntry("cashier-1"), nil
		},
	}, nil)

	req := asUser(withURLParam(httptest.NewRequest(http.MethodGet, "/entries/e1", nil), "id", "e1"), "cashier-2", domain.RoleCashier)
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = asUser(withURLParam(httptest.NewRequest(http.MethodGet, "/entries/e1", nil), "id", "e1"), "cashier-1", domain.RoleCashier)
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = asUser(withURLParam(httptest.NewRequest(http.MethodGet, "/entries/e1", nil), "id", "e1"), "boss", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEntryHandler_List_ScopesCashiers(t *testing.T) {
	var captured usecase.ListEntriesInput
	h := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error) {
			captured = input
			return []*domain.LedgerEntry{saleEntry(input.CreatedBy)}, nil
		},
	}, nil)

	req := asUser(httptest.NewRequest(http.MethodGet, "/entries?created_by=someone&include_deleted=true&action=incoming", nil), "cashier-1", domain.RoleCashier)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cashier-1", captured.CreatedBy)
	assert.False(t, captured.IncludeDeleted)
	assert.Equal(t, domain.ActionIncoming, captured.Action)

	req = asUser(httptest.NewRequest(http.MethodGet, "/entries?created_by=someone&include_deleted=true", nil), "boss", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "someone", captured.CreatedBy)
	assert.True(t, captured.IncludeDeleted)

	var list dto.ListResponse[*dto.EntryResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.NotNil(t, list.Items[0].IsDeleted)
}

func TestEntryHandler_List_RequiresActor(t *testing.T) {
	h := NewEntryHandler(&entryServiceStub{}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/entries", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEntryHandler_ListByMaterial(t *testing.T) {
	var captured usecase.ListEntriesInput
	h := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error) {
			captured = input
			return nil, nil
		},
	}, nil)

	req := asUser(withURLParam(httptest.NewRequest(http.MethodGet, "/materials/m9/entries", nil), "id", "m9"), "boss", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.ListByMaterial(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m9", captured.MaterialID)
}
