package usecase

import (
	"context"
	"time"

	"github.com/iho/washledger/internal/domain"
)

// MaterialRepository defines data access for materials.
type MaterialRepository interface {
	Create(ctx context.Context, tx Transaction, material *domain.Material) error
	GetByID(ctx context.Context, id string) (*domain.Material, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Material, error)
	// UpdateStock persists a new stock count and bumps the version.
	UpdateStock(ctx context.Context, tx Transaction, id string, stock int64, updatedAt time.Time) error
	// UpdateCatalog persists descriptive fields and prices. Stock is left alone.
	UpdateCatalog(ctx context.Context, tx Transaction, material *domain.Material) error
	List(ctx context.Context, limit, offset int) ([]*domain.Material, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	// Create inserts a new entry. A taken id yields domain.ErrEntryAlreadyExists.
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LedgerEntry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	Summarize(ctx context.Context, from, to time.Time) (*domain.LedgerSummary, error)
}

// CustomerRepository defines data access for the customer register.
type CustomerRepository interface {
	Create(ctx context.Context, tx Transaction, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Customer, error)
	Update(ctx context.Context, tx Transaction, customer *domain.Customer) error
	List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error)
}

// EventTypeRepository defines data access for extra charge event types.
type EventTypeRepository interface {
	Create(ctx context.Context, tx Transaction, eventType *domain.EventType) error
	GetByID(ctx context.Context, id string) (*domain.EventType, error)
	List(ctx context.Context, limit, offset int) ([]*domain.EventType, error)
}

// ExtraChargeRepository defines data access for extra charges.
type ExtraChargeRepository interface {
	// Create inserts a charge. An unknown event type yields domain.ErrEventTypeNotFound.
	Create(ctx context.Context, tx Transaction, charge *domain.ExtraCharge) error
	GetByID(ctx context.Context, id string) (*domain.ExtraCharge, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.ExtraCharge, error)
	Update(ctx context.Context, tx Transaction, charge *domain.ExtraCharge) error
	List(ctx context.Context, filter domain.ExtraChargeFilter) ([]*domain.ExtraCharge, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
