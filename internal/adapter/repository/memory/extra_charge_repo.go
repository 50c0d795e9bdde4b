package memory

import (
	"context"
	"sort"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// EventTypeRepository implements usecase.EventTypeRepository.
type EventTypeRepository struct {
	store *Store
}

// NewEventTypeRepository creates a new EventTypeRepository.
func NewEventTypeRepository(store *Store) *EventTypeRepository {
	return &EventTypeRepository{store: store}
}

// Create buffers a new event type in tx.
func (r *EventTypeRepository) Create(ctx context.Context, tx usecase.Transaction, eventType *domain.EventType) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := t.lock(ctx, eventTypeLockKey(eventType.ID)); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventTypes[eventType.ID] = *eventType
	return nil
}

// GetByID returns the committed event type.
func (r *EventTypeRepository) GetByID(_ context.Context, id string) (*domain.EventType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.eventTypes[id]
	if !ok {
		return nil, domain.ErrEventTypeNotFound
	}
	return &e, nil
}

// List returns committed event types ordered by name.
func (r *EventTypeRepository) List(_ context.Context, limit, offset int) ([]*domain.EventType, error) {
	r.store.mu.RLock()
	all := make([]domain.EventType, 0, len(r.store.eventTypes))
	for _, e := range r.store.eventTypes {
		all = append(all, e)
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	return page(all, limit, offset), nil
}

// ExtraChargeRepository implements usecase.ExtraChargeRepository.
type ExtraChargeRepository struct {
	store *Store
}

// NewExtraChargeRepository creates a new ExtraChargeRepository.
func NewExtraChargeRepository(store *Store) *ExtraChargeRepository {
	return &ExtraChargeRepository{store: store}
}

// Create buffers a new charge in tx. The event type must already exist.
func (r *ExtraChargeRepository) Create(ctx context.Context, tx usecase.Transaction, charge *domain.ExtraCharge) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := r.checkEventType(t, charge.EventTypeID); err != nil {
		return err
	}
	if err := t.lock(ctx, chargeLockKey(charge.ID)); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.charges[charge.ID] = *charge
	return nil
}

// GetByID returns the committed charge.
func (r *ExtraChargeRepository) GetByID(_ context.Context, id string) (*domain.ExtraCharge, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.charges[id]
	if !ok {
		return nil, domain.ErrExtraChargeNotFound
	}
	return &c, nil
}

// GetByIDForUpdate locks the charge for the rest of tx and returns a copy.
func (r *ExtraChargeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ExtraCharge, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if err := t.lock(ctx, chargeLockKey(id)); err != nil {
		return nil, err
	}

	t.mu.Lock()
	c, ok := t.charges[id]
	t.mu.Unlock()
	if ok {
		return &c, nil
	}
	return r.GetByID(ctx, id)
}

// Update buffers the new state of an existing charge.
func (r *ExtraChargeRepository) Update(ctx context.Context, tx usecase.Transaction, charge *domain.ExtraCharge) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := r.checkEventType(t, charge.EventTypeID); err != nil {
		return err
	}

	current, err := r.GetByIDForUpdate(ctx, tx, charge.ID)
	if err != nil {
		return err
	}

	updated := *charge
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt

	t.mu.Lock()
	defer t.mu.Unlock()
	t.charges[charge.ID] = updated
	return nil
}

// List returns committed charges newest first.
func (r *ExtraChargeRepository) List(_ context.Context, filter domain.ExtraChargeFilter) ([]*domain.ExtraCharge, error) {
	r.store.mu.RLock()
	matched := make([]domain.ExtraCharge, 0, len(r.store.charges))
	for _, c := range r.store.charges {
		if c.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if filter.EventTypeID != "" && c.EventTypeID != filter.EventTypeID {
			continue
		}
		if filter.CreatedBy != "" && c.CreatedBy != filter.CreatedBy {
			continue
		}
		matched = append(matched, c)
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), nil
}

func (r *ExtraChargeRepository) checkEventType(t *Tx, id string) error {
	t.mu.Lock()
	_, ok := t.eventTypes[id]
	t.mu.Unlock()
	if ok {
		return nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if _, ok := r.store.eventTypes[id]; !ok {
		return domain.ErrEventTypeNotFound
	}
	return nil
}
