package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// MaterialRepository implements usecase.MaterialRepository.
type MaterialRepository struct {
	store *Store
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(store *Store) *MaterialRepository {
	return &MaterialRepository{store: store}
}

// Create buffers a new material in tx.
func (r *MaterialRepository) Create(ctx context.Context, tx usecase.Transaction, material *domain.Material) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, materialLockKey(material.ID)); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.materials[material.ID] = *material
	return nil
}

// GetByID returns the committed material.
func (r *MaterialRepository) GetByID(_ context.Context, id string) (*domain.Material, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.materials[id]
	if !ok {
		return nil, domain.ErrMaterialNotFound
	}
	return &m, nil
}

// GetByIDForUpdate locks the material for the rest of tx and returns a copy.
func (r *MaterialRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Material, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, materialLockKey(id)); err != nil {
		return nil, err
	}
	return r.read(t, id)
}

// UpdateStock buffers a stock change and bumps the version.
func (r *MaterialRepository) UpdateStock(_ context.Context, tx usecase.Transaction, id string, stock int64, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	m, err := r.read(t, id)
	if err != nil {
		return err
	}
	if stock < 0 {
		return domain.ErrInvalidStock
	}

	m.StockQuantity = stock
	m.Version++
	m.UpdatedAt = updatedAt

	t.mu.Lock()
	defer t.mu.Unlock()
	t.materials[id] = *m
	return nil
}

// UpdateCatalog buffers descriptive changes while keeping stock and version.
func (r *MaterialRepository) UpdateCatalog(_ context.Context, tx usecase.Transaction, material *domain.Material) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	m, err := r.read(t, material.ID)
	if err != nil {
		return err
	}

	updated := *material
	updated.StockQuantity = m.StockQuantity
	updated.Version = m.Version
	updated.CreatedAt = m.CreatedAt

	t.mu.Lock()
	defer t.mu.Unlock()
	t.materials[material.ID] = updated
	return nil
}

// List returns committed materials ordered by name.
func (r *MaterialRepository) List(_ context.Context, limit, offset int) ([]*domain.Material, error) {
	r.store.mu.RLock()
	all := make([]domain.Material, 0, len(r.store.materials))
	for _, m := range r.store.materials {
		all = append(all, m)
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	out := make([]*domain.Material, 0, limit)
	for i := offset; i < len(all) && len(out) < limit; i++ {
		m := all[i]
		out = append(out, &m)
	}
	return out, nil
}

func (r *MaterialRepository) read(t *Tx, id string) (*domain.Material, error) {
	t.mu.Lock()
	m, ok := t.materials[id]
	t.mu.Unlock()
	if ok {
		return &m, nil
	}
	return r.GetByID(context.Background(), id)
}
