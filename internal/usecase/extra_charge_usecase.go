package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

// ExtraChargeUseCase records money taken for services that use no tracked
// material, grouped by event type.
type ExtraChargeUseCase struct {
	txManager     TransactionManager
	eventTypeRepo EventTypeRepository
	chargeRepo    ExtraChargeRepository
	idGen         IDGenerator
	audits        auditWriter
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewExtraChargeUseCase creates a new ExtraChargeUseCase. metrics may be nil.
func NewExtraChargeUseCase(
	txManager TransactionManager,
	eventTypeRepo EventTypeRepository,
	chargeRepo ExtraChargeRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *ExtraChargeUseCase {
	return &ExtraChargeUseCase{
		txManager:     txManager,
		eventTypeRepo: eventTypeRepo,
		chargeRepo:    chargeRepo,
		idGen:         idGen,
		audits:        auditWriter{repo: auditRepo, idGen: idGen, metrics: metrics},
		metrics:       metrics,
		logger:        logger.With().Str("component", "extra_charge").Logger(),
	}
}

// CreateEventTypeInput represents input for adding an event type.
type CreateEventTypeInput struct {
	Name    string
	Remarks string
	Actor   string
}

// CreateChargeInput represents input for recording an extra charge.
type CreateChargeInput struct {
	EventTypeID string
	Count       int64
	Money       decimal.Decimal
	Remarks     string
	Actor       string
}

// UpdateChargeInput carries charge edits. Nil fields are left unchanged.
type UpdateChargeInput struct {
	ID          string
	EventTypeID *string
	Count       *int64
	Money       *decimal.Decimal
	Remarks     *string
	Actor       string
	// OwnedBy, when set, limits the edit to live charges created by that user.
	OwnedBy string
}

// ChargeActionInput identifies a charge for deletion.
type ChargeActionInput struct {
	ID    string
	Actor string
}

// ListChargesInput represents input for listing charges.
type ListChargesInput struct {
	EventTypeID    string
	CreatedBy      string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// EventTypeChoice is one option of an event type picker.
type EventTypeChoice struct {
	ID    string
	Label string
}

// CreateEventType adds an event type.
func (uc *ExtraChargeUseCase) CreateEventType(ctx context.Context, input CreateEventTypeInput) (*domain.EventType, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	eventType := &domain.EventType{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Remarks:   input.Remarks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := eventType.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.eventTypeRepo.Create(ctx, tx, eventType); err != nil {
			return domain.Persistence("insert event type", err)
		}
		return uc.audits.write(ctx, tx, actor, domain.AuditActionEventTypeCreate,
			domain.ResourceTypeEventType, eventType.ID, nil, eventType, now)
	})
	if err != nil {
		return nil, err
	}

	uc.audits.committed(domain.AuditActionEventTypeCreate)
	return eventType, nil
}

// ListEventTypes lists event types by name.
func (uc *ExtraChargeUseCase) ListEventTypes(ctx context.Context, limit, offset int) ([]*domain.EventType, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	eventTypes, err := uc.eventTypeRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.Persistence("list event types", err)
	}
	return eventTypes, nil
}

// EventTypeChoices returns every event type as an id and label pair.
func (uc *ExtraChargeUseCase) EventTypeChoices(ctx context.Context) ([]EventTypeChoice, error) {
	const page = 100

	var choices []EventTypeChoice
	for offset := 0; ; offset += page {
		eventTypes, err := uc.eventTypeRepo.List(ctx, page, offset)
		if err != nil {
			return nil, domain.Persistence("list event types", err)
		}

		for _, e := range eventTypes {
			choices = append(choices, EventTypeChoice{ID: e.ID, Label: e.Label()})
		}

		if len(eventTypes) < page {
			return choices, nil
		}
	}
}

// CreateCharge records an extra charge.
func (uc *ExtraChargeUseCase) CreateCharge(ctx context.Context, input CreateChargeInput) (*domain.ExtraCharge, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	charge := &domain.ExtraCharge{
		ID:          uc.idGen.Generate(),
		EventTypeID: input.EventTypeID,
		Count:       input.Count,
		Money:       input.Money,
		Remarks:     input.Remarks,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := uc.eventTypeRepo.GetByID(ctx, charge.EventTypeID); err != nil {
		return nil, domain.Persistence("get event type", err)
	}
	if err := charge.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.chargeRepo.Create(ctx, tx, charge); err != nil {
			return domain.Persistence("insert extra charge", err)
		}
		return uc.audits.write(ctx, tx, actor, domain.AuditActionChargeCreate,
			domain.ResourceTypeExtraCharge, charge.ID, nil, charge, now)
	})
	if err != nil {
		return nil, err
	}

	uc.audits.committed(domain.AuditActionChargeCreate)
	if uc.metrics != nil {
		uc.metrics.ExtraChargeMoney.WithLabelValues(charge.EventTypeID).Add(charge.Money.InexactFloat64())
	}

	uc.logger.Info().
		Str("charge_id", charge.ID).
		Str("event_type_id", charge.EventTypeID).
		Str("money", charge.Money.String()).
		Msg("extra charge recorded")

	return charge, nil
}

// GetCharge retrieves a charge by ID.
func (uc *ExtraChargeUseCase) GetCharge(ctx context.Context, id string) (*domain.ExtraCharge, error) {
	charge, err := uc.chargeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get extra charge", err)
	}
	return charge, nil
}

// ListCharges lists charges newest first.
func (uc *ExtraChargeUseCase) ListCharges(ctx context.Context, input ListChargesInput) ([]*domain.ExtraCharge, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	charges, err := uc.chargeRepo.List(ctx, domain.ExtraChargeFilter{
		EventTypeID:    input.EventTypeID,
		CreatedBy:      input.CreatedBy,
		IncludeDeleted: input.IncludeDeleted,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, domain.Persistence("list extra charges", err)
	}
	return charges, nil
}

// UpdateCharge edits a live charge.
func (uc *ExtraChargeUseCase) UpdateCharge(ctx context.Context, input UpdateChargeInput) (*domain.ExtraCharge, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	if input.EventTypeID != nil {
		if _, err := uc.eventTypeRepo.GetByID(ctx, *input.EventTypeID); err != nil {
			return nil, domain.Persistence("get event type", err)
		}
	}

	var charge *domain.ExtraCharge
	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		c, err := uc.chargeRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return domain.Persistence("lock extra charge", err)
		}
		if c.IsDeleted || (input.OwnedBy != "" && c.CreatedBy != input.OwnedBy) {
			return domain.ErrExtraChargeNotFound
		}

		before := *c
		applyChargeChanges(c, input)
		if err := c.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		c.UpdatedBy = actor
		c.UpdatedAt = now

		if err := uc.chargeRepo.Update(ctx, tx, c); err != nil {
			return domain.Persistence("update extra charge", err)
		}
		charge = c
		return uc.audits.write(ctx, tx, actor, domain.AuditActionChargeUpdate,
			domain.ResourceTypeExtraCharge, c.ID, &before, c, now)
	})
	if err != nil {
		return nil, err
	}

	uc.audits.committed(domain.AuditActionChargeUpdate)
	return charge, nil
}

// DeleteCharge hides a charge. Deleting twice is a no-op.
func (uc *ExtraChargeUseCase) DeleteCharge(ctx context.Context, input ChargeActionInput) (*domain.ExtraCharge, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	var charge *domain.ExtraCharge
	changed := false
	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		c, err := uc.chargeRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return domain.Persistence("lock extra charge", err)
		}
		charge = c
		if c.IsDeleted {
			return nil
		}

		before := *c
		now := time.Now().UTC()
		c.IsDeleted = true
		c.UpdatedBy = actor
		c.UpdatedAt = now

		if err := uc.chargeRepo.Update(ctx, tx, c); err != nil {
			return domain.Persistence("update extra charge", err)
		}
		changed = true
		return uc.audits.write(ctx, tx, actor, domain.AuditActionChargeDelete,
			domain.ResourceTypeExtraCharge, c.ID, &before, c, now)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.audits.committed(domain.AuditActionChargeDelete)
	}
	return charge, nil
}

func applyChargeChanges(c *domain.ExtraCharge, input UpdateChargeInput) {
	if input.EventTypeID != nil {
		c.EventTypeID = *input.EventTypeID
	}
	if input.Count != nil {
		c.Count = *input.Count
	}
	if input.Money != nil {
		c.Money = *input.Money
	}
	if input.Remarks != nil {
		c.Remarks = *input.Remarks
	}
}
