package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// CreateTx buffers an audit log in tx.
func (r *AuditRepository) CreateTx(_ context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.audits = append(t.audits, *log)
	return nil
}

// GetByResourceID returns committed audit logs of one resource, oldest first.
func (r *AuditRepository) GetByResourceID(_ context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var logs []*domain.AuditLog
	for i := range r.store.audits {
		l := r.store.audits[i]
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, &l)
		}
	}
	return logs, nil
}
