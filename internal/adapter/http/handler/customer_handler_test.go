package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

type customerServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	getFn    func(ctx context.Context, id string) (*domain.Customer, error)
	listFn   func(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error)
	updateFn func(ctx context.Context, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	visitFn  func(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error)
	deleteFn func(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error)
}

func (s *customerServiceStub) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	return s.createFn(ctx, input)
}

func (s *customerServiceStub) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *customerServiceStub) ListCustomers(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error) {
	return s.listFn(ctx, input)
}

func (s *customerServiceStub) UpdateCustomer(ctx context.Context, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
	return s.updateFn(ctx, input)
}

func (s *customerServiceStub) RecordVisit(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error) {
	return s.visitFn(ctx, input)
}

func (s *customerServiceStub) DeleteCustomer(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error) {
	return s.deleteFn(ctx, input)
}

func memberCustomer(createdBy string) *domain.Customer {
	return &domain.Customer{
		ID:            "c1",
		Name:          "Li",
		Gender:        domain.GenderFemale,
		Level:         domain.LevelMember,
		PaymentMethod: domain.PaymentWechat,
		MemberVisits:  10,
		Visits:        3,
		CreatedBy:     createdBy,
	}
}

func TestCustomerHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateCustomerInput
	h := NewCustomerHandler(&customerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			captured = input
			return memberCustomer("cashier-1"), nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/customers",
		bytes.NewBufferString(`{"name":"Li","gender":"female","level":"member","member_visits":10,"collected":"300"}`))
	req = asUser(req, "cashier-1", domain.RoleCashier)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.LevelMember, captured.Level)
	assert.Equal(t, int64(10), captured.MemberVisits)
	assert.Equal(t, "300", captured.Collected.String())

	var resp dto.CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.RemainingVisits)
	assert.Equal(t, "active", resp.MembershipStatus)
	assert.Nil(t, resp.IsDeleted)
}

func TestCustomerHandler_Get_HidesOtherCashiersCustomers(t *testing.T) {
	deleted := memberCustomer("cashier-1")
	deleted.IsDeleted = true

	tests := []struct {
		name     string
		customer *domain.Customer
		user     string
		role     domain.Role
		want     int
	}{
		{"owner", memberCustomer("cashier-1"), "cashier-1", domain.RoleCashier, http.StatusOK},
		{"other cashier", memberCustomer("cashier-1"), "cashier-2", domain.RoleCashier, http.StatusNotFound},
		{"deleted for cashier", deleted, "cashier-1", domain.RoleCashier, http.StatusNotFound},
		{"deleted for admin", deleted, "boss", domain.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCustomerHandler(&customerServiceStub{
				getFn: func(ctx context.Context, id string) (*domain.Customer, error) {
					return tt.customer, nil
				},
			})

			req := asUser(withURLParam(httptest.NewRequest(http.MethodGet, "/customers/c1", nil), "id", "c1"), tt.user, tt.role)
			rec := httptest.NewRecorder()
			h.Get(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCustomerHandler_List_ScopesCashiers(t *testing.T) {
	var captured usecase.ListCustomersInput
	h := NewCustomerHandler(&customerServiceStub{
		listFn: func(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error) {
			captured = input
			return []*domain.Customer{memberCustomer("cashier-1")}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/customers?created_by=cashier-9&include_deleted=true&level=member", nil)
	req = asUser(req, "cashier-1", domain.RoleCashier)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cashier-1", captured.CreatedBy)
	assert.False(t, captured.IncludeDeleted)
	assert.Equal(t, domain.LevelMember, captured.Level)

	req = asUser(httptest.NewRequest(http.MethodGet, "/customers?created_by=cashier-9&include_deleted=true", nil), "boss", domain.RoleAdmin)
	rec = httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cashier-9", captured.CreatedBy)
	assert.True(t, captured.IncludeDeleted)
}

func TestCustomerHandler_UpdateAndVisit_PassOwner(t *testing.T) {
	var updateInput usecase.UpdateCustomerInput
	var visitInput usecase.CustomerActionInput
	h := NewCustomerHandler(&customerServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
			updateInput = input
			return nil, domain.ErrCustomerNotFound
		},
		visitFn: func(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error) {
			visitInput = input
			c := memberCustomer("cashier-2")
			c.Visits = 11
			return c, nil
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/customers/c1", bytes.NewBufferString(`{"visits":0}`))
	req = asUser(withURLParam(req, "id", "c1"), "cashier-2", domain.RoleCashier)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cashier-2", updateInput.OwnedBy)
	require.NotNil(t, updateInput.Visits)
	assert.Equal(t, int64(0), *updateInput.Visits)

	req = asUser(withURLParam(httptest.NewRequest(http.MethodPost, "/customers/c1/visits", nil), "id", "c1"), "cashier-2", domain.RoleCashier)
	rec = httptest.NewRecorder()
	h.Visit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cashier-2", visitInput.OwnedBy)

	var resp dto.CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "inconsistent", resp.MembershipStatus)

	req = withURLParam(httptest.NewRequest(http.MethodPost, "/customers/c1/visits", nil), "id", "c1")
	rec = httptest.NewRecorder()
	h.Visit(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerHandler_Delete_ShowsFlagToAdmin(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		deleteFn: func(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error) {
			c := memberCustomer("cashier-1")
			c.ID = input.ID
			c.IsDeleted = true
			return c, nil
		},
	})

	req := asUser(withURLParam(httptest.NewRequest(http.MethodDelete, "/customers/c1", nil), "id", "c1"), "boss", domain.RoleAdmin)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.IsDeleted)
	assert.True(t, *resp.IsDeleted)
}
