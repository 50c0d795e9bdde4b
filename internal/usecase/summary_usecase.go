package usecase

import (
	"context"
	"time"

	"github.com/iho/washledger/internal/domain"
)

// DefaultSummaryWindow is used when a summary request names no start.
const DefaultSummaryWindow = 24 * time.Hour

// SummaryUseCase reports cash flow over a time window.
type SummaryUseCase struct {
	entryRepo EntryRepository
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(entryRepo EntryRepository) *SummaryUseCase {
	return &SummaryUseCase{entryRepo: entryRepo}
}

// SummaryInput bounds the reporting window. Zero values pick defaults.
type SummaryInput struct {
	From time.Time
	To   time.Time
}

// Summarize aggregates non-deleted entries created in [From, To).
func (uc *SummaryUseCase) Summarize(ctx context.Context, input SummaryInput) (*domain.LedgerSummary, error) {
	to := input.To
	if to.IsZero() {
		to = time.Now().UTC()
	}

	from := input.From
	if from.IsZero() {
		from = to.Add(-DefaultSummaryWindow)
	}

	if from.After(to) {
		return nil, domain.ErrInvalidDateRange
	}

	summary, err := uc.entryRepo.Summarize(ctx, from, to)
	if err != nil {
		return nil, domain.Persistence("summarize entries", err)
	}

	summary.From = from
	summary.To = to

	return summary, nil
}
