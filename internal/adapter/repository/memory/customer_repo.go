package memory

import (
	"context"
	"sort"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

// Create buffers a new customer in tx.
func (r *CustomerRepository) Create(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, customerLockKey(customer.ID)); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.customers[customer.ID] = *customer
	return nil
}

// GetByID returns the committed customer.
func (r *CustomerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

// GetByIDForUpdate locks the customer for the rest of tx and returns a copy.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Customer, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, customerLockKey(id)); err != nil {
		return nil, err
	}

	t.mu.Lock()
	c, ok := t.customers[id]
	t.mu.Unlock()
	if ok {
		return &c, nil
	}
	return r.GetByID(ctx, id)
}

// Update buffers the new state of an existing customer.
func (r *CustomerRepository) Update(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	current, err := r.GetByIDForUpdate(ctx, tx, customer.ID)
	if err != nil {
		return err
	}

	updated := *customer
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt

	t.mu.Lock()
	defer t.mu.Unlock()
	t.customers[customer.ID] = updated
	return nil
}

// List returns committed customers ordered by name.
func (r *CustomerRepository) List(_ context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error) {
	r.store.mu.RLock()
	matched := make([]domain.Customer, 0, len(r.store.customers))
	for _, c := range r.store.customers {
		if c.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if filter.CreatedBy != "" && c.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Level != "" && c.Level != filter.Level {
			continue
		}
		matched = append(matched, c)
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), nil
}

// page returns pointers to copies of items[offset:offset+limit].
func page[T any](items []T, limit, offset int) []*T {
	out := make([]*T, 0, limit)
	for i := offset; i < len(items) && len(out) < limit; i++ {
		item := items[i]
		out = append(out, &item)
	}
	return out
}
