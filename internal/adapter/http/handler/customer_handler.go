package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	RecordVisit(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error)
}

// CustomerHandler handles customer register HTTP requests. Cashiers work
// with the customers they registered; admins see the whole register.
type CustomerHandler struct {
	customerUC CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC}
}

// Create registers a customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create customer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer, isAdmin(r)))
}

// Get retrieves a customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	customer, err := h.customerUC.GetCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get customer", err)
		return
	}

	if !visibleTo(r, customer.CreatedBy, customer.IsDeleted) {
		writeDomainError(w, "failed to get customer", domain.ErrCustomerNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer, isAdmin(r)))
}

// List lists customers by name.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	input := usecase.ListCustomersInput{
		Level:  domain.MemberLevel(r.URL.Query().Get("level")),
		Limit:  limit,
		Offset: offset,
	}

	admin := isAdmin(r)
	if admin {
		input.CreatedBy = r.URL.Query().Get("created_by")
		input.IncludeDeleted = parseBoolQuery(r, "include_deleted")
	} else {
		user, ok := currentUser(r)
		if !ok {
			writeDomainError(w, "failed to list customers", domain.ErrMissingActor)
			return
		}
		input.CreatedBy = user.ID
	}

	customers, err := h.customerUC.ListCustomers(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list customers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.CustomerResponse]{
		Items:  dto.CustomersFromDomain(customers, admin),
		Limit:  limit,
		Offset: offset,
	})
}

// Update edits a customer.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	var req dto.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	owner, err := ownerScope(r)
	if err != nil {
		writeDomainError(w, "failed to update customer", err)
		return
	}
	input := req.ToUseCaseInput(id)
	input.OwnedBy = owner

	customer, err := h.customerUC.UpdateCustomer(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to update customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer, isAdmin(r)))
}

// Visit counts one wash served to the customer.
func (h *CustomerHandler) Visit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	owner, err := ownerScope(r)
	if err != nil {
		writeDomainError(w, "failed to record visit", err)
		return
	}

	customer, err := h.customerUC.RecordVisit(r.Context(), usecase.CustomerActionInput{ID: id, OwnedBy: owner})
	if err != nil {
		writeDomainError(w, "failed to record visit", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer, isAdmin(r)))
}

// Delete soft-deletes a customer.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	customer, err := h.customerUC.DeleteCustomer(r.Context(), usecase.CustomerActionInput{ID: id})
	if err != nil {
		writeDomainError(w, "failed to delete customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer, isAdmin(r)))
}
