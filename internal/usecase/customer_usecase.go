package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/metrics"
)

// CustomerUseCase keeps the customer register: members, their prepaid
// washes and how many of them were used.
type CustomerUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	idGen        IDGenerator
	audits       auditWriter
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewCustomerUseCase creates a new CustomerUseCase. metrics may be nil.
func NewCustomerUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		idGen:        idGen,
		audits:       auditWriter{repo: auditRepo, idGen: idGen, metrics: metrics},
		metrics:      metrics,
		logger:       logger.With().Str("component", "customer").Logger(),
	}
}

// CreateCustomerInput represents input for registering a customer. Empty
// gender, level and payment method fall back to male, not_member and wechat.
type CreateCustomerInput struct {
	Name          string
	Gender        domain.Gender
	Level         domain.MemberLevel
	Phone         string
	Collected     decimal.Decimal
	PaymentMethod domain.PaymentMethod
	MemberVisits  int64
	Visits        int64
	Remarks       string
	Actor         string
}

// UpdateCustomerInput carries register edits. Nil fields are left unchanged.
type UpdateCustomerInput struct {
	ID            string
	Name          *string
	Gender        *domain.Gender
	Level         *domain.MemberLevel
	Phone         *string
	Collected     *decimal.Decimal
	PaymentMethod *domain.PaymentMethod
	MemberVisits  *int64
	Visits        *int64
	Remarks       *string
	Actor         string
	// OwnedBy, when set, limits the edit to live customers registered by
	// that user.
	OwnedBy string
}

// CustomerActionInput identifies a customer for visits and deletion.
type CustomerActionInput struct {
	ID      string
	Actor   string
	OwnedBy string
}

// ListCustomersInput represents input for listing customers.
type ListCustomersInput struct {
	CreatedBy      string
	Level          domain.MemberLevel
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// CreateCustomer registers a customer.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:            uc.idGen.Generate(),
		Name:          input.Name,
		Gender:        orDefault(input.Gender, domain.GenderMale),
		Level:         orDefault(input.Level, domain.LevelNotMember),
		Phone:         input.Phone,
		Collected:     input.Collected,
		PaymentMethod: orDefault(input.PaymentMethod, domain.PaymentWechat),
		MemberVisits:  input.MemberVisits,
		Visits:        input.Visits,
		Remarks:       input.Remarks,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.customerRepo.Create(ctx, tx, customer); err != nil {
			return domain.Persistence("insert customer", err)
		}
		return uc.audits.write(ctx, tx, actor, domain.AuditActionCustomerCreate,
			domain.ResourceTypeCustomer, customer.ID, nil, customer, now)
	})
	if err != nil {
		return nil, err
	}

	uc.audits.committed(domain.AuditActionCustomerCreate)
	if uc.metrics != nil {
		uc.metrics.CustomersCreated.WithLabelValues(string(customer.Level)).Inc()
	}

	uc.logger.Info().Str("customer_id", customer.ID).Str("level", string(customer.Level)).Msg("customer registered")

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get customer", err)
	}
	return customer, nil
}

// ListCustomers lists customers by name.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, input ListCustomersInput) ([]*domain.Customer, error) {
	if input.Level != "" && !input.Level.IsValid() {
		return nil, domain.ErrInvalidMemberLevel
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	customers, err := uc.customerRepo.List(ctx, domain.CustomerFilter{
		CreatedBy:      input.CreatedBy,
		Level:          input.Level,
		IncludeDeleted: input.IncludeDeleted,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, domain.Persistence("list customers", err)
	}
	return customers, nil
}

// UpdateCustomer edits register fields.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, input UpdateCustomerInput) (*domain.Customer, error) {
	return uc.mutate(ctx, input.ID, input.Actor, input.OwnedBy, domain.AuditActionCustomerUpdate, func(c *domain.Customer) {
		applyCustomerChanges(c, input)
	})
}

// RecordVisit counts one wash served to the customer.
func (uc *CustomerUseCase) RecordVisit(ctx context.Context, input CustomerActionInput) (*domain.Customer, error) {
	customer, err := uc.mutate(ctx, input.ID, input.Actor, input.OwnedBy, domain.AuditActionCustomerVisit, func(c *domain.Customer) {
		c.Visits++
	})
	if err != nil {
		return nil, err
	}

	status := customer.MembershipStatus()
	if uc.metrics != nil {
		uc.metrics.CustomerVisits.WithLabelValues(string(status)).Inc()
	}
	if status == domain.MembershipInconsistent {
		uc.logger.Warn().
			Str("customer_id", customer.ID).
			Int64("visits", customer.Visits).
			Int64("member_visits", customer.MemberVisits).
			Msg("member served more washes than prepaid")
	}

	return customer, nil
}

// DeleteCustomer hides a customer from the register. Deleting twice is a no-op.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, input CustomerActionInput) (*domain.Customer, error) {
	actor, err := resolveActor(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	var customer *domain.Customer
	changed := false
	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		c, err := uc.customerRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return domain.Persistence("lock customer", err)
		}
		if input.OwnedBy != "" && c.CreatedBy != input.OwnedBy {
			return domain.ErrCustomerNotFound
		}
		customer = c
		if c.IsDeleted {
			return nil
		}

		before := *c
		now := time.Now().UTC()
		c.IsDeleted = true
		c.UpdatedAt = now

		if err := uc.customerRepo.Update(ctx, tx, c); err != nil {
			return domain.Persistence("update customer", err)
		}
		changed = true
		return uc.audits.write(ctx, tx, actor, domain.AuditActionCustomerDelete,
			domain.ResourceTypeCustomer, c.ID, &before, c, now)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.audits.committed(domain.AuditActionCustomerDelete)
		uc.logger.Info().Str("customer_id", customer.ID).Msg("customer deleted")
	}
	return customer, nil
}

// mutate locks a live customer, applies change, validates and persists it.
func (uc *CustomerUseCase) mutate(
	ctx context.Context,
	id, explicitActor, ownedBy string,
	action domain.AuditAction,
	change func(c *domain.Customer),
) (*domain.Customer, error) {
	actor, err := resolveActor(ctx, explicitActor)
	if err != nil {
		return nil, err
	}

	var customer *domain.Customer
	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		c, err := uc.customerRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return domain.Persistence("lock customer", err)
		}
		// Deleted customers are read-only.
		if c.IsDeleted || (ownedBy != "" && c.CreatedBy != ownedBy) {
			return domain.ErrCustomerNotFound
		}

		before := *c
		change(c)
		if err := c.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		c.UpdatedAt = now

		if err := uc.customerRepo.Update(ctx, tx, c); err != nil {
			return domain.Persistence("update customer", err)
		}
		customer = c
		return uc.audits.write(ctx, tx, actor, action, domain.ResourceTypeCustomer, c.ID, &before, c, now)
	})
	if err != nil {
		return nil, err
	}

	uc.audits.committed(action)
	return customer, nil
}

func applyCustomerChanges(c *domain.Customer, input UpdateCustomerInput) {
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Gender != nil {
		c.Gender = *input.Gender
	}
	if input.Level != nil {
		c.Level = *input.Level
	}
	if input.Phone != nil {
		c.Phone = *input.Phone
	}
	if input.Collected != nil {
		c.Collected = *input.Collected
	}
	if input.PaymentMethod != nil {
		c.PaymentMethod = *input.PaymentMethod
	}
	if input.MemberVisits != nil {
		c.MemberVisits = *input.MemberVisits
	}
	if input.Visits != nil {
		c.Visits = *input.Visits
	}
	if input.Remarks != nil {
		c.Remarks = *input.Remarks
	}
}

func orDefault[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}
	return v
}
