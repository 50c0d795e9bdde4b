package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/postgres/generated"
	"github.com/iho/washledger/internal/usecase"
)

// EventTypeRepository implements usecase.EventTypeRepository.
type EventTypeRepository struct {
	queries *generated.Queries
}

// NewEventTypeRepository creates a new EventTypeRepository over a pool.
func NewEventTypeRepository(db generated.DBTX) *EventTypeRepository {
	return &EventTypeRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new event type.
func (r *EventTypeRepository) Create(ctx context.Context, tx usecase.Transaction, eventType *domain.EventType) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.CreateEventType(ctx, generated.CreateEventTypeParams{
		ID:        eventType.ID,
		Name:      eventType.Name,
		Remarks:   eventType.Remarks,
		CreatedAt: timeToPgTimestamptz(eventType.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(eventType.UpdatedAt),
	})
}

// GetByID retrieves an event type by ID.
func (r *EventTypeRepository) GetByID(ctx context.Context, id string) (*domain.EventType, error) {
	row, err := r.queries.GetEventTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventTypeNotFound
		}

		return nil, err
	}

	return rowToEventType(row), nil
}

// List lists event types ordered by name.
func (r *EventTypeRepository) List(ctx context.Context, limit, offset int) ([]*domain.EventType, error) {
	rows, err := r.queries.ListEventTypes(ctx, generated.ListEventTypesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	types := make([]*domain.EventType, 0, len(rows))
	for _, row := range rows {
		types = append(types, rowToEventType(row))
	}

	return types, nil
}

// ExtraChargeRepository implements usecase.ExtraChargeRepository.
type ExtraChargeRepository struct {
	queries *generated.Queries
}

// NewExtraChargeRepository creates a new ExtraChargeRepository over a pool.
func NewExtraChargeRepository(db generated.DBTX) *ExtraChargeRepository {
	return &ExtraChargeRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new charge.
func (r *ExtraChargeRepository) Create(ctx context.Context, tx usecase.Transaction, charge *domain.ExtraCharge) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateExtraCharge(ctx, generated.CreateExtraChargeParams{
		ID:          charge.ID,
		EventTypeID: charge.EventTypeID,
		Count:       charge.Count,
		Money:       decimalToNumeric(charge.Money),
		Remarks:     charge.Remarks,
		CreatedBy:   charge.CreatedBy,
		UpdatedBy:   charge.UpdatedBy,
		IsDeleted:   charge.IsDeleted,
		CreatedAt:   timeToPgTimestamptz(charge.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(charge.UpdatedAt),
	})
	return chargeWriteError(err)
}

// GetByID retrieves a charge by ID, deleted or not.
func (r *ExtraChargeRepository) GetByID(ctx context.Context, id string) (*domain.ExtraCharge, error) {
	row, err := r.queries.GetExtraChargeByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExtraChargeNotFound
		}

		return nil, err
	}

	return rowToExtraCharge(row), nil
}

// GetByIDForUpdate retrieves a charge by ID with a FOR UPDATE lock.
func (r *ExtraChargeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ExtraCharge, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetExtraChargeByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExtraChargeNotFound
		}

		return nil, err
	}

	return rowToExtraCharge(row), nil
}

// Update writes the mutable fields of a charge.
func (r *ExtraChargeRepository) Update(ctx context.Context, tx usecase.Transaction, charge *domain.ExtraCharge) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateExtraCharge(ctx, generated.UpdateExtraChargeParams{
		ID:          charge.ID,
		EventTypeID: charge.EventTypeID,
		Count:       charge.Count,
		Money:       decimalToNumeric(charge.Money),
		Remarks:     charge.Remarks,
		UpdatedBy:   charge.UpdatedBy,
		IsDeleted:   charge.IsDeleted,
		UpdatedAt:   timeToPgTimestamptz(charge.UpdatedAt),
	})
	if err != nil {
		return chargeWriteError(err)
	}
	if n == 0 {
		return domain.ErrExtraChargeNotFound
	}

	return nil
}

// List lists charges newest first.
func (r *ExtraChargeRepository) List(ctx context.Context, filter domain.ExtraChargeFilter) ([]*domain.ExtraCharge, error) {
	rows, err := r.queries.ListExtraCharges(ctx, generated.ListExtraChargesParams{
		EventTypeID:    filter.EventTypeID,
		CreatedBy:      filter.CreatedBy,
		IncludeDeleted: filter.IncludeDeleted,
		RowLimit:       int32(filter.Limit),
		RowOffset:      int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	charges := make([]*domain.ExtraCharge, 0, len(rows))
	for _, row := range rows {
		charges = append(charges, rowToExtraCharge(row))
	}

	return charges, nil
}

func chargeWriteError(err error) error {
	switch pgErrorCode(err) {
	case pgErrForeignKeyViolation:
		return domain.ErrEventTypeNotFound
	case pgErrCheckViolation:
		return domain.ErrInvalidChargeCount
	}
	return err
}

func rowToEventType(row generated.EventType) *domain.EventType {
	return &domain.EventType{
		ID:        row.ID,
		Name:      row.Name,
		Remarks:   row.Remarks,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func rowToExtraCharge(row generated.ExtraCharge) *domain.ExtraCharge {
	return &domain.ExtraCharge{
		ID:          row.ID,
		EventTypeID: row.EventTypeID,
		Count:       row.Count,
		Money:       numericToDecimal(row.Money),
		Remarks:     row.Remarks,
		CreatedBy:   row.CreatedBy,
		UpdatedBy:   row.UpdatedBy,
		IsDeleted:   row.IsDeleted,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
