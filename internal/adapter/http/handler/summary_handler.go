package handler

import (
	"context"
	"net/http"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// SummaryService defines the behavior needed by SummaryHandler.
type SummaryService interface {
	Summarize(ctx context.Context, input usecase.SummaryInput) (*domain.LedgerSummary, error)
}

// SummaryHandler reports cash flow.
type SummaryHandler struct {
	summaryUC SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryUC SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryUC: summaryUC}
}

// Get summarizes entries between the from and to query parameters.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from parameter", err.Error())
		return
	}

	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to parameter", err.Error())
		return
	}

	summary, err := h.summaryUC.Summarize(r.Context(), usecase.SummaryInput{From: from, To: to})
	if err != nil {
		writeDomainError(w, "failed to summarize entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}
