package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/postgres/generated"
	"github.com/iho/washledger/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	queries *generated.Queries
}

// NewCustomerRepository creates a new CustomerRepository over a pool.
func NewCustomerRepository(db generated.DBTX) *CustomerRepository {
	return &CustomerRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateCustomer(ctx, generated.CreateCustomerParams{
		ID:            customer.ID,
		Name:          customer.Name,
		Gender:        string(customer.Gender),
		Level:         string(customer.Level),
		Phone:         customer.Phone,
		Collected:     decimalToNumeric(customer.Collected),
		PaymentMethod: string(customer.PaymentMethod),
		MemberVisits:  customer.MemberVisits,
		Visits:        customer.Visits,
		Remarks:       customer.Remarks,
		CreatedBy:     customer.CreatedBy,
		IsDeleted:     customer.IsDeleted,
		CreatedAt:     timeToPgTimestamptz(customer.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(customer.UpdatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return domain.ErrInvalidVisitCount
		}
		return err
	}

	return nil
}

// GetByID retrieves a customer by ID, deleted or not.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return rowToCustomer(row), nil
}

// GetByIDForUpdate retrieves a customer by ID with a FOR UPDATE lock.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Customer, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetCustomerByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return rowToCustomer(row), nil
}

// Update writes every mutable field of a customer.
func (r *CustomerRepository) Update(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateCustomer(ctx, generated.UpdateCustomerParams{
		ID:            customer.ID,
		Name:          customer.Name,
		Gender:        string(customer.Gender),
		Level:         string(customer.Level),
		Phone:         customer.Phone,
		Collected:     decimalToNumeric(customer.Collected),
		PaymentMethod: string(customer.PaymentMethod),
		MemberVisits:  customer.MemberVisits,
		Visits:        customer.Visits,
		Remarks:       customer.Remarks,
		IsDeleted:     customer.IsDeleted,
		UpdatedAt:     timeToPgTimestamptz(customer.UpdatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return domain.ErrInvalidVisitCount
		}
		return err
	}
	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// List lists customers ordered by name.
func (r *CustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx, generated.ListCustomersParams{
		CreatedBy:      filter.CreatedBy,
		Level:          string(filter.Level),
		IncludeDeleted: filter.IncludeDeleted,
		RowLimit:       int32(filter.Limit),
		RowOffset:      int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	customers := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, rowToCustomer(row))
	}

	return customers, nil
}

func rowToCustomer(row generated.Customer) *domain.Customer {
	return &domain.Customer{
		ID:            row.ID,
		Name:          row.Name,
		Gender:        domain.Gender(row.Gender),
		Level:         domain.MemberLevel(row.Level),
		Phone:         row.Phone,
		Collected:     numericToDecimal(row.Collected),
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		MemberVisits:  row.MemberVisits,
		Visits:        row.Visits,
		Remarks:       row.Remarks,
		CreatedBy:     row.CreatedBy,
		IsDeleted:     row.IsDeleted,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
