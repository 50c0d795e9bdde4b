package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create buffers a new entry in tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, entryLockKey(entry.ID)); err != nil {
		return err
	}

	if _, err := r.read(t, entry.ID); err == nil {
		return domain.ErrEntryAlreadyExists
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[entry.ID] = *entry
	return nil
}

// GetByID returns the committed entry.
func (r *EntryRepository) GetByID(_ context.Context, id string) (*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &e, nil
}

// GetByIDForUpdate locks the entry for the rest of tx and returns a copy.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEntry, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, entryLockKey(id)); err != nil {
		return nil, err
	}
	return r.read(t, id)
}

// Update buffers the new state of an existing entry.
func (r *EntryRepository) Update(_ context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, err := r.read(t, entry.ID); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[entry.ID] = *entry
	return nil
}

// List returns committed entries newest first.
func (r *EntryRepository) List(_ context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	matched := make([]domain.LedgerEntry, 0)
	for _, e := range r.store.entries {
		if !filter.IncludeDeleted && e.IsDeleted {
			continue
		}
		if filter.MaterialID != "" && e.MaterialID != filter.MaterialID {
			continue
		}
		if filter.CreatedBy != "" && e.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		matched = append(matched, e)
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	out := make([]*domain.LedgerEntry, 0, filter.Limit)
	for i := filter.Offset; i < len(matched) && len(out) < filter.Limit; i++ {
		e := matched[i]
		out = append(out, &e)
	}
	return out, nil
}

// Summarize totals non-deleted entries created in [from, to).
func (r *EntryRepository) Summarize(_ context.Context, from, to time.Time) (*domain.LedgerSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summary := &domain.LedgerSummary{
		SalesMoney:    decimal.Zero,
		SalesEarnings: decimal.Zero,
		RestockSpend:  decimal.Zero,
	}

	for _, e := range r.store.entries {
		if e.IsDeleted || e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		switch e.Action {
		case domain.ActionIncoming:
			summary.SalesMoney = summary.SalesMoney.Add(e.Money)
			summary.SalesEarnings = summary.SalesEarnings.Add(e.Earnings)
			summary.SalesCount++
		case domain.ActionOutgoing:
			summary.RestockSpend = summary.RestockSpend.Add(e.Money)
			summary.RestockCount++
		}
	}

	return summary, nil
}

func (r *EntryRepository) read(t *Tx, id string) (*domain.LedgerEntry, error) {
	t.mu.Lock()
	e, ok := t.entries[id]
	t.mu.Unlock()
	if ok {
		return &e, nil
	}
	return r.GetByID(context.Background(), id)
}
