package usecase

import (
	"context"
	"time"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

// auditWriter records register changes in the same transaction as the change.
type auditWriter struct {
	repo    AuditRepository
	idGen   IDGenerator
	metrics *metrics.Metrics
}

// write stores one successful audit record. before is nil for creations.
func (a auditWriter) write(
	ctx context.Context,
	tx Transaction,
	actor string,
	action domain.AuditAction,
	resourceType, resourceID string,
	before, after any,
	at time.Time,
) error {
	if a.repo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           a.idGen.Generate(),
		UserID:       actor,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    at,
	}
	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}

	if err := a.repo.CreateTx(ctx, tx, log); err != nil {
		return domain.Persistence("insert audit log", err)
	}
	return nil
}

// committed counts an audit record once its transaction is durable.
func (a auditWriter) committed(action domain.AuditAction) {
	if a.metrics != nil {
		a.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
}

// runInTx runs fn in a transaction bounded by DefaultTransactionTimeout and
// commits when fn succeeds.
func runInTx(ctx context.Context, txManager TransactionManager, fn func(ctx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.Begin(txCtx)
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return domain.Persistence("commit", err)
	}
	return nil
}
