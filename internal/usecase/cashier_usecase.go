package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

// CashierUseCase records cashier transactions. Every write runs the full
// validate, compute, adjust, persist pipeline inside one database transaction.
type CashierUseCase struct {
	txManager    TransactionManager
	materialRepo MaterialRepository
	entryRepo    EntryRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	cache        Cache
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewCashierUseCase creates a new CashierUseCase. cache and metrics may be nil.
func NewCashierUseCase(
	txManager TransactionManager,
	materialRepo MaterialRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CashierUseCase {
	return &CashierUseCase{
		txManager:    txManager,
		materialRepo: materialRepo,
		entryRepo:    entryRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		cache:        cache,
		metrics:      metrics,
		logger:       logger.With().Str("component", "cashier").Logger(),
	}
}

// CreateEntryInput represents input for recording a new transaction.
type CreateEntryInput struct {
	// ID is optional. When set it must not belong to an existing entry.
	ID         string
	MaterialID string
	Action     domain.Action
	Quantity   int64
	PriceType  domain.PriceType
	Remarks    string
	// Actor overrides the user carried by the context.
	Actor string
}

// UpdateEntryInput represents an edit of an existing entry. Action and
// MaterialID are optional and, when given, must match the stored entry.
type UpdateEntryInput struct {
	ID         string
	MaterialID string
	Action     domain.Action
	Quantity   int64
	PriceType  domain.PriceType
	Remarks    string
	Actor      string
	// OwnedBy, when set, limits the edit to live entries created by that
	// user. Any other entry reports ErrEntryNotFound.
	OwnedBy string
}

// EntryActionInput identifies an entry for delete and reverse.
type EntryActionInput struct {
	ID    string
	Actor string
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	MaterialID     string
	CreatedBy      string
	Action         domain.Action
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// CreateEntry records a new transaction and applies its stock effect.
func (uc *CashierUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.LedgerEntry, error) {
	start := time.Now()

	entry, material, err := uc.createEntry(ctx, input)
	uc.observe("create", start, err)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.WithLabelValues(string(entry.Action), string(entry.PriceType)).Inc()
		uc.metrics.EntryMoney.WithLabelValues(string(entry.Action)).Add(entry.Money.InexactFloat64())
	}
	uc.afterCommit(ctx, material, domain.AuditActionEntryCreate)

	uc.logger.Info().
		Str("entry_id", entry.ID).
		Str("material_id", entry.MaterialID).
		Str("action", string(entry.Action)).
		Int64("quantity", entry.Quantity).
		Str("money", entry.Money.String()).
		Int64("stock", material.StockQuantity).
		Msg("entry created")

	return entry, nil
}

func (uc *CashierUseCase) createEntry(ctx context.Context, input CreateEntryInput) (*domain.LedgerEntry, *domain.Material, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateRemarks(input.Remarks); err != nil {
		return nil, nil, err
	}

	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	entry := domain.NewDraftEntry(id, input.MaterialID, input.Action, input.Quantity, input.PriceType)
	entry.Remarks = input.Remarks

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	material, err := uc.materialRepo.GetByIDForUpdate(txCtx, tx, entry.MaterialID)
	if err != nil {
		return nil, nil, domain.Persistence("lock material", err)
	}

	// An unknown material wins over an invalid action and tier combination.
	if err := domain.ValidateTransaction(entry.Action, entry.PriceType); err != nil {
		return nil, nil, err
	}
	if err := entry.Advance(domain.EntryStateValidated); err != nil {
		return nil, nil, err
	}

	if input.ID != "" {
		_, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
		switch {
		case err == nil:
			return nil, nil, domain.ErrEntryAlreadyExists
		case !errors.Is(err, domain.ErrEntryNotFound):
			return nil, nil, domain.Persistence("check entry id", err)
		}
	}

	amounts, err := domain.ComputeLedger(material, entry.Action, entry.Quantity, entry.PriceType)
	if err != nil {
		return nil, nil, err
	}
	if err := entry.Apply(amounts); err != nil {
		return nil, nil, err
	}

	if err := material.AdjustStock(domain.CreationStockDelta(entry.Action, entry.Quantity)); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	entry.CreatedBy = actor
	entry.UpdatedBy = actor
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := uc.materialRepo.UpdateStock(txCtx, tx, material.ID, material.StockQuantity, now); err != nil {
		return nil, nil, domain.Persistence("update stock", err)
	}
	material.Version++
	material.UpdatedAt = now

	if err := entry.Advance(domain.EntryStateCommitted); err != nil {
		return nil, nil, err
	}

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, nil, domain.Persistence("insert entry", err)
	}

	if err := uc.audit(txCtx, tx, actor, domain.AuditActionEntryCreate, entry.ID, nil, entry, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, domain.Persistence("commit", err)
	}

	return entry, material, nil
}

// UpdateEntry edits quantity, price type and remarks of a committed entry,
// recomputing its amounts and applying the stock differential.
func (uc *CashierUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.LedgerEntry, error) {
	start := time.Now()

	entry, material, err := uc.updateEntry(ctx, input)
	uc.observe("update", start, err)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesUpdated.Inc()
	}
	uc.afterCommit(ctx, material, domain.AuditActionEntryUpdate)

	uc.logger.Info().
		Str("entry_id", entry.ID).
		Int64("quantity", entry.Quantity).
		Str("money", entry.Money.String()).
		Int64("stock", material.StockQuantity).
		Msg("entry updated")

	return entry, nil
}

func (uc *CashierUseCase) updateEntry(ctx context.Context, input UpdateEntryInput) (*domain.LedgerEntry, *domain.Material, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateRemarks(input.Remarks); err != nil {
		return nil, nil, err
	}

	if input.Action != "" && !input.Action.IsValid() {
		return nil, nil, domain.ErrInvalidAction
	}

	// The material of an entry never changes, so it is safe to learn it
	// before taking the locks in material, entry order.
	current, err := uc.entryRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, nil, domain.Persistence("load entry", err)
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	material, err := uc.materialRepo.GetByIDForUpdate(txCtx, tx, current.MaterialID)
	if err != nil {
		return nil, nil, domain.Persistence("lock material", err)
	}

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
	if err != nil {
		return nil, nil, domain.Persistence("lock entry", err)
	}

	if input.OwnedBy != "" && (entry.IsDeleted || entry.CreatedBy != input.OwnedBy) {
		return nil, nil, domain.ErrEntryNotFound
	}

	if !entry.Editable() {
		return nil, nil, domain.ErrEntryNotEditable
	}

	if input.Action != "" && input.Action != entry.Action {
		return nil, nil, domain.ErrActionChangeNotAllowed
	}

	if input.MaterialID != "" && input.MaterialID != entry.MaterialID {
		return nil, nil, domain.ErrMaterialChangeNotAllowed
	}

	before := *entry

	if err := domain.ValidateTransaction(entry.Action, input.PriceType); err != nil {
		return nil, nil, err
	}
	if err := entry.Advance(domain.EntryStateValidated); err != nil {
		return nil, nil, err
	}

	amounts, err := domain.ComputeLedger(material, entry.Action, input.Quantity, input.PriceType)
	if err != nil {
		return nil, nil, err
	}

	delta := domain.UpdateStockDelta(entry.Action, entry.Quantity, input.Quantity)
	if err := material.AdjustStock(delta); err != nil {
		return nil, nil, err
	}

	if err := entry.Apply(amounts); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	entry.Quantity = input.Quantity
	entry.PriceType = input.PriceType
	entry.Remarks = input.Remarks
	entry.UpdatedBy = actor
	entry.UpdatedAt = now

	if delta != 0 {
		if err := uc.materialRepo.UpdateStock(txCtx, tx, material.ID, material.StockQuantity, now); err != nil {
			return nil, nil, domain.Persistence("update stock", err)
		}
		material.Version++
		material.UpdatedAt = now
	}

	if err := entry.Advance(domain.EntryStateCommitted); err != nil {
		return nil, nil, err
	}

	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, nil, domain.Persistence("update entry", err)
	}

	if err := uc.audit(txCtx, tx, actor, domain.AuditActionEntryUpdate, entry.ID, &before, entry, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, domain.Persistence("commit", err)
	}

	return entry, material, nil
}

// DeleteEntry flags an entry as deleted. Stock is not touched; use
// ReverseEntry to undo the stock effect. Deleting twice is a no-op.
func (uc *CashierUseCase) DeleteEntry(ctx context.Context, input EntryActionInput) (*domain.LedgerEntry, error) {
	start := time.Now()

	entry, changed, err := uc.deleteEntry(ctx, input)
	uc.observe("delete", start, err)
	if err != nil {
		return nil, err
	}

	if changed {
		if uc.metrics != nil {
			uc.metrics.EntriesDeleted.Inc()
			uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionEntryDelete), string(domain.AuditStatusSuccess)).Inc()
		}
		uc.logger.Info().Str("entry_id", entry.ID).Msg("entry deleted")
	}

	return entry, nil
}

func (uc *CashierUseCase) deleteEntry(ctx context.Context, input EntryActionInput) (*domain.LedgerEntry, bool, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, false, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, false, domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
	if err != nil {
		return nil, false, domain.Persistence("lock entry", err)
	}

	if entry.IsDeleted {
		return entry, false, nil
	}

	before := *entry
	if err := entry.Advance(domain.EntryStateDeleted); err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	entry.UpdatedBy = actor
	entry.UpdatedAt = now

	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, false, domain.Persistence("update entry", err)
	}

	if err := uc.audit(txCtx, tx, actor, domain.AuditActionEntryDelete, entry.ID, &before, entry, now); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, false, domain.Persistence("commit", err)
	}

	return entry, true, nil
}

// ReverseEntry undoes the stock effect of a committed or deleted entry and
// marks it reversed. An entry can be reversed once.
func (uc *CashierUseCase) ReverseEntry(ctx context.Context, input EntryActionInput) (*domain.LedgerEntry, error) {
	start := time.Now()

	entry, material, err := uc.reverseEntry(ctx, input)
	uc.observe("reverse", start, err)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
	}
	uc.afterCommit(ctx, material, domain.AuditActionEntryReverse)

	uc.logger.Info().
		Str("entry_id", entry.ID).
		Str("material_id", material.ID).
		Int64("stock", material.StockQuantity).
		Msg("entry reversed")

	return entry, nil
}

func (uc *CashierUseCase) reverseEntry(ctx context.Context, input EntryActionInput) (*domain.LedgerEntry, *domain.Material, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, nil, err
	}

	current, err := uc.entryRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, nil, domain.Persistence("load entry", err)
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	material, err := uc.materialRepo.GetByIDForUpdate(txCtx, tx, current.MaterialID)
	if err != nil {
		return nil, nil, domain.Persistence("lock material", err)
	}

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
	if err != nil {
		return nil, nil, domain.Persistence("lock entry", err)
	}

	if entry.State() == domain.EntryStateReversed {
		return nil, nil, domain.ErrEntryAlreadyReversed
	}

	before := *entry

	if err := material.AdjustStock(domain.ReversalStockDelta(entry)); err != nil {
		return nil, nil, err
	}

	if err := entry.Advance(domain.EntryStateReversed); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	entry.UpdatedBy = actor
	entry.UpdatedAt = now
	entry.ReversedAt = &now

	if err := uc.materialRepo.UpdateStock(txCtx, tx, material.ID, material.StockQuantity, now); err != nil {
		return nil, nil, domain.Persistence("update stock", err)
	}
	material.Version++
	material.UpdatedAt = now

	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, nil, domain.Persistence("update entry", err)
	}

	if err := uc.audit(txCtx, tx, actor, domain.AuditActionEntryReverse, entry.ID, &before, entry, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, domain.Persistence("commit", err)
	}

	return entry, material, nil
}

// GetEntry retrieves an entry by ID.
func (uc *CashierUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get entry", err)
	}
	return entry, nil
}

// ListEntries lists entries, newest first.
func (uc *CashierUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.LedgerEntry, error) {
	if input.Action != "" && !input.Action.IsValid() {
		return nil, domain.ErrInvalidAction
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	entries, err := uc.entryRepo.List(ctx, domain.EntryFilter{
		MaterialID:     input.MaterialID,
		CreatedBy:      input.CreatedBy,
		Action:         input.Action,
		IncludeDeleted: input.IncludeDeleted,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, domain.Persistence("list entries", err)
	}
	return entries, nil
}

func (uc *CashierUseCase) audit(
	ctx context.Context,
	tx Transaction,
	actor string,
	action domain.AuditAction,
	entryID string,
	before, after *domain.LedgerEntry,
	at time.Time,
) error {
	if uc.auditRepo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actor,
		Action:       string(action),
		ResourceType: domain.ResourceTypeEntry,
		ResourceID:   entryID,
		RequestID:    domain.RequestIDFromContext(ctx),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    at,
	}
	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return domain.Persistence("insert audit log", err)
	}
	return nil
}

// afterCommit runs side effects that must never fail a committed write.
func (uc *CashierUseCase) afterCommit(ctx context.Context, material *domain.Material, action domain.AuditAction) {
	if uc.metrics != nil {
		uc.metrics.MaterialStock.WithLabelValues(material.ID).Set(float64(material.StockQuantity))
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}

	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, materialCacheKey(material.ID)); err != nil {
		uc.logger.Warn().Err(err).Str("material_id", material.ID).Msg("failed to invalidate material cache")
	}
}

func (uc *CashierUseCase) observe(op string, start time.Time, err error) {
	if err != nil {
		kind := domain.KindOf(err)
		event := uc.logger.Warn()
		if kind == domain.KindPersistence {
			event = uc.logger.Error()
		}
		event.Err(err).Str("operation", op).Str("kind", string(kind)).Msg("entry pipeline rejected")
	}

	if uc.metrics == nil {
		return
	}

	uc.metrics.EntryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		kind := domain.KindOf(err)
		uc.metrics.EntryErrors.WithLabelValues(op, string(kind)).Inc()
		if kind == domain.KindStockViolation {
			uc.metrics.StockViolations.WithLabelValues(op).Inc()
		}
	}
}

// resolveActor picks the explicit actor or falls back to the user in context.
func resolveActor(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if user, ok := domain.UserFromContext(ctx); ok && user.ID != "" {
		return user.ID, nil
	}
	return "", domain.ErrMissingActor
}
