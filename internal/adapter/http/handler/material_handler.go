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

// MaterialService defines the behavior needed by MaterialHandler.
type MaterialService interface {
	CreateMaterial(ctx context.Context, input usecase.CreateMaterialInput) (*domain.Material, error)
	GetMaterial(ctx context.Context, id string) (*domain.Material, error)
	ListMaterials(ctx context.Context, input usecase.ListMaterialsInput) ([]*domain.Material, error)
	UpdateMaterial(ctx context.Context, input usecase.UpdateMaterialInput) (*domain.Material, error)
	Choices(ctx context.Context) ([]usecase.MaterialChoice, error)
}

// MaterialHandler handles catalog HTTP requests.
type MaterialHandler struct {
	materialUC MaterialService
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(materialUC MaterialService) *MaterialHandler {
	return &MaterialHandler{materialUC: materialUC}
}

// Create adds a material.
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	material, err := h.materialUC.CreateMaterial(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create material", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MaterialFromDomain(material))
}

// Get retrieves a material by ID.
func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing material ID", "")
		return
	}

	material, err := h.materialUC.GetMaterial(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get material", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MaterialFromDomain(material))
}

// List lists materials.
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	materials, err := h.materialUC.ListMaterials(r.Context(), usecase.ListMaterialsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list materials", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.MaterialResponse]{
		Items:  dto.MaterialsFromDomain(materials),
		Limit:  limit,
		Offset: offset,
	})
}

// Update edits catalog fields of a material.
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing material ID", "")
		return
	}

	var req dto.UpdateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	material, err := h.materialUC.UpdateMaterial(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to update material", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MaterialFromDomain(material))
}

// Choices lists every material as a dropdown option.
func (h *MaterialHandler) Choices(w http.ResponseWriter, r *http.Request) {
	choices, err := h.materialUC.Choices(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list material choices", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChoicesFromUseCase(choices))
}
