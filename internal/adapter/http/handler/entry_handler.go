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

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error)
	UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error)
	ReverseEntry(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error)
}

// MaterialLookup resolves the material an entry points at, for its label.
type MaterialLookup interface {
	GetMaterial(ctx context.Context, id string) (*domain.Material, error)
}

// EntryHandler handles cashier transaction HTTP requests.
type EntryHandler struct {
	entryUC   EntryService
	materials MaterialLookup
}

// NewEntryHandler creates a new EntryHandler. materials may be nil.
func NewEntryHandler(entryUC EntryService, materials MaterialLookup) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, materials: materials}
}

// Create records a cashier transaction.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, h.render(r, entry))
}

// Get retrieves an entry by ID. Cashiers only see their own live entries.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	if !visibleTo(r, entry.CreatedBy, entry.IsDeleted) {
		writeDomainError(w, "failed to get entry", domain.ErrEntryNotFound)
		return
	}

	writeJSON(w, http.StatusOK, h.render(r, entry))
}

// Update edits quantity, price type and remarks of an entry. Cashiers can
// only edit their own live entries.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	owner, err := ownerScope(r)
	if err != nil {
		writeDomainError(w, "failed to update entry", err)
		return
	}
	input := req.ToUseCaseInput(id)
	input.OwnedBy = owner

	entry, err := h.entryUC.UpdateEntry(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to update entry", err)
		return
	}

	writeJSON(w, http.StatusOK, h.render(r, entry))
}

// Delete soft-deletes an entry. Stock is left as it is.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.DeleteEntry(r.Context(), usecase.EntryActionInput{ID: id})
	if err != nil {
		writeDomainError(w, "failed to delete entry", err)
		return
	}

	writeJSON(w, http.StatusOK, h.render(r, entry))
}

// Reverse undoes the stock effect of an entry.
func (h *EntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entryUC.ReverseEntry(r.Context(), usecase.EntryActionInput{ID: id})
	if err != nil {
		writeDomainError(w, "failed to reverse entry", err)
		return
	}

	writeJSON(w, http.StatusOK, h.render(r, entry))
}

// List lists entries, scoped to the caller unless they are an admin.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("material_id"))
}

// ListByMaterial lists entries of one material.
func (h *EntryHandler) ListByMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "id")
	if materialID == "" {
		writeError(w, http.StatusBadRequest, "missing material ID", "")
		return
	}

	h.list(w, r, materialID)
}

func (h *EntryHandler) list(w http.ResponseWriter, r *http.Request, materialID string) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	input := usecase.ListEntriesInput{
		MaterialID: materialID,
		Action:     domain.Action(r.URL.Query().Get("action")),
		Limit:      limit,
		Offset:     offset,
	}

	admin := isAdmin(r)
	if admin {
		input.CreatedBy = r.URL.Query().Get("created_by")
		input.IncludeDeleted = parseBoolQuery(r, "include_deleted")
	} else {
		user, ok := currentUser(r)
		if !ok {
			writeDomainError(w, "failed to list entries", domain.ErrMissingActor)
			return
		}
		input.CreatedBy = user.ID
	}

	entries, err := h.entryUC.ListEntries(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.EntryResponse]{
		Items:  dto.EntriesFromDomain(entries, admin),
		Limit:  limit,
		Offset: offset,
	})
}

func (h *EntryHandler) render(r *http.Request, entry *domain.LedgerEntry) *dto.EntryResponse {
	var material *domain.Material
	if h.materials != nil {
		// The label is cosmetic; a lookup failure leaves it empty.
		material, _ = h.materials.GetMaterial(r.Context(), entry.MaterialID)
	}
	return dto.EntryFromDomain(entry, material, isAdmin(r))
}
