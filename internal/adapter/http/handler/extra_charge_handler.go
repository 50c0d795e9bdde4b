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

// ExtraChargeService defines the behavior needed by ExtraChargeHandler.
type ExtraChargeService interface {
	CreateEventType(ctx context.Context, input usecase.CreateEventTypeInput) (*domain.EventType, error)
	ListEventTypes(ctx context.Context, limit, offset int) ([]*domain.EventType, error)
	EventTypeChoices(ctx context.Context) ([]usecase.EventTypeChoice, error)
	CreateCharge(ctx context.Context, input usecase.CreateChargeInput) (*domain.ExtraCharge, error)
	GetCharge(ctx context.Context, id string) (*domain.ExtraCharge, error)
	ListCharges(ctx context.Context, input usecase.ListChargesInput) ([]*domain.ExtraCharge, error)
	UpdateCharge(ctx context.Context, input usecase.UpdateChargeInput) (*domain.ExtraCharge, error)
	DeleteCharge(ctx context.Context, input usecase.ChargeActionInput) (*domain.ExtraCharge, error)
}

// ExtraChargeHandler handles event type and extra charge HTTP requests.
type ExtraChargeHandler struct {
	chargeUC ExtraChargeService
}

// NewExtraChargeHandler creates a new ExtraChargeHandler.
func NewExtraChargeHandler(chargeUC ExtraChargeService) *ExtraChargeHandler {
	return &ExtraChargeHandler{chargeUC: chargeUC}
}

// CreateEventType adds an event type.
func (h *ExtraChargeHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	eventType, err := h.chargeUC.CreateEventType(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create event type", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventTypesFromDomain([]*domain.EventType{eventType})[0])
}

// ListEventTypes lists event types by name.
func (h *ExtraChargeHandler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	eventTypes, err := h.chargeUC.ListEventTypes(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list event types", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.EventTypeResponse]{
		Items:  dto.EventTypesFromDomain(eventTypes),
		Limit:  limit,
		Offset: offset,
	})
}

// EventTypeChoices returns id and label pairs for an event type picker.
func (h *ExtraChargeHandler) EventTypeChoices(w http.ResponseWriter, r *http.Request) {
	choices, err := h.chargeUC.EventTypeChoices(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list event types", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EventTypeChoicesFromUseCase(choices))
}

// Create records an extra charge.
func (h *ExtraChargeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	charge, err := h.chargeUC.CreateCharge(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create extra charge", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChargeFromDomain(charge, isAdmin(r)))
}

// Get retrieves a charge. Cashiers only see their own live charges.
func (h *ExtraChargeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing charge ID", "")
		return
	}

	charge, err := h.chargeUC.GetCharge(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get extra charge", err)
		return
	}

	if !visibleTo(r, charge.CreatedBy, charge.IsDeleted) {
		writeDomainError(w, "failed to get extra charge", domain.ErrExtraChargeNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeFromDomain(charge, isAdmin(r)))
}

// List lists charges newest first.
func (h *ExtraChargeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	input := usecase.ListChargesInput{
		EventTypeID: r.URL.Query().Get("event_type_id"),
		Limit:       limit,
		Offset:      offset,
	}

	admin := isAdmin(r)
	if admin {
		input.CreatedBy = r.URL.Query().Get("created_by")
		input.IncludeDeleted = parseBoolQuery(r, "include_deleted")
	} else {
		user, ok := currentUser(r)
		if !ok {
			writeDomainError(w, "failed to list extra charges", domain.ErrMissingActor)
			return
		}
		input.CreatedBy = user.ID
	}

	charges, err := h.chargeUC.ListCharges(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list extra charges", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.ChargeResponse]{
		Items:  dto.ChargesFromDomain(charges, admin),
		Limit:  limit,
		Offset: offset,
	})
}

// Update edits a charge.
func (h *ExtraChargeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing charge ID", "")
		return
	}

	var req dto.UpdateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	owner, err := ownerScope(r)
	if err != nil {
		writeDomainError(w, "failed to update extra charge", err)
		return
	}
	input := req.ToUseCaseInput(id)
	input.OwnedBy = owner

	charge, err := h.chargeUC.UpdateCharge(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to update extra charge", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeFromDomain(charge, isAdmin(r)))
}

// Delete soft-deletes a charge.
func (h *ExtraChargeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing charge ID", "")
		return
	}

	charge, err := h.chargeUC.DeleteCharge(r.Context(), usecase.ChargeActionInput{ID: id})
	if err != nil {
		writeDomainError(w, "failed to delete extra charge", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeFromDomain(charge, isAdmin(r)))
}
