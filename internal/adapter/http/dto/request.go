package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// CreateMaterialRequest represents a request to add a material to the catalog.
type CreateMaterialRequest struct {
	Name           string          `json:"name"`
	Specifications string          `json:"specifications"`
	Brand          string          `json:"brand"`
	Functions      string          `json:"functions"`
	Remarks        string          `json:"remarks"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	Price          decimal.Decimal `json:"price"`
	DiscountPrice  decimal.Decimal `json:"discount_price"`
	StockQuantity  int64           `json:"stock_quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMaterialRequest) ToUseCaseInput() usecase.CreateMaterialInput {
	return usecase.CreateMaterialInput{
		Name:           r.Name,
		Specifications: r.Specifications,
		Brand:          r.Brand,
		Functions:      r.Functions,
		Remarks:        r.Remarks,
		OriginalPrice:  r.OriginalPrice,
		Price:          r.Price,
		DiscountPrice:  r.DiscountPrice,
		StockQuantity:  r.StockQuantity,
	}
}

// UpdateMaterialRequest edits catalog fields. Omitted fields stay unchanged.
type UpdateMaterialRequest struct {
	Name           *string          `json:"name,omitempty"`
	Specifications *string          `json:"specifications,omitempty"`
	Brand          *string          `json:"brand,omitempty"`
	Functions      *string          `json:"functions,omitempty"`
	Remarks        *string          `json:"remarks,omitempty"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateMaterialRequest) ToUseCaseInput(id string) usecase.UpdateMaterialInput {
	return usecase.UpdateMaterialInput{
		ID:             id,
		Name:           r.Name,
		Specifications: r.Specifications,
		Brand:          r.Brand,
		Functions:      r.Functions,
		Remarks:        r.Remarks,
		OriginalPrice:  r.OriginalPrice,
		Price:          r.Price,
		DiscountPrice:  r.DiscountPrice,
	}
}

// CreateEntryRequest represents a cashier transaction.
type CreateEntryRequest struct {
	ID         string `json:"id,omitempty"`
	MaterialID string `json:"material_id"`
	Action     string `json:"action"`
	Quantity   int64  `json:"quantity"`
	PriceType  string `json:"price_type"`
	Remarks    string `json:"remarks"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		ID:         r.ID,
		MaterialID: r.MaterialID,
		Action:     domain.Action(r.Action),
		Quantity:   r.Quantity,
		PriceType:  domain.PriceType(r.PriceType),
		Remarks:    r.Remarks,
	}
}

// UpdateEntryRequest edits an entry. MaterialID and Action may be echoed
// back but cannot differ from the stored entry.
type UpdateEntryRequest struct {
	MaterialID string `json:"material_id,omitempty"`
	Action     string `json:"action,omitempty"`
	Quantity   int64  `json:"quantity"`
	PriceType  string `json:"price_type"`
	Remarks    string `json:"remarks"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(id string) usecase.UpdateEntryInput {
	return usecase.UpdateEntryInput{
		ID:         id,
		MaterialID: r.MaterialID,
		Action:     domain.Action(r.Action),
		Quantity:   r.Quantity,
		PriceType:  domain.PriceType(r.PriceType),
		Remarks:    r.Remarks,
	}
}

// CreateCustomerRequest registers a customer.
type CreateCustomerRequest struct {
	Name          string          `json:"name"`
	Gender        string          `json:"gender,omitempty"`
	Level         string          `json:"level,omitempty"`
	Phone         string          `json:"phone"`
	Collected     decimal.Decimal `json:"collected"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	MemberVisits  int64           `json:"member_visits"`
	Visits        int64           `json:"visits"`
	Remarks       string          `json:"remarks"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:          r.Name,
		Gender:        domain.Gender(r.Gender),
		Level:         domain.MemberLevel(r.Level),
		Phone:         r.Phone,
		Collected:     r.Collected,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		MemberVisits:  r.MemberVisits,
		Visits:        r.Visits,
		Remarks:       r.Remarks,
	}
}

// UpdateCustomerRequest edits a customer. Omitted fields stay unchanged.
type UpdateCustomerRequest struct {
	Name          *string          `json:"name,omitempty"`
	Gender        *string          `json:"gender,omitempty"`
	Level         *string          `json:"level,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Collected     *decimal.Decimal `json:"collected,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	MemberVisits  *int64           `json:"member_visits,omitempty"`
	Visits        *int64           `json:"visits,omitempty"`
	Remarks       *string          `json:"remarks,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput(id string) usecase.UpdateCustomerInput {
	return usecase.UpdateCustomerInput{
		ID:            id,
		Name:          r.Name,
		Gender:        convertPtr[domain.Gender](r.Gender),
		Level:         convertPtr[domain.MemberLevel](r.Level),
		Phone:         r.Phone,
		Collected:     r.Collected,
		PaymentMethod: convertPtr[domain.PaymentMethod](r.PaymentMethod),
		MemberVisits:  r.MemberVisits,
		Visits:        r.Visits,
		Remarks:       r.Remarks,
	}
}

// CreateEventTypeRequest adds an event type.
type CreateEventTypeRequest struct {
	Name    string `json:"name"`
	Remarks string `json:"remarks"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEventTypeRequest) ToUseCaseInput() usecase.CreateEventTypeInput {
	return usecase.CreateEventTypeInput{Name: r.Name, Remarks: r.Remarks}
}

// CreateChargeRequest records an extra charge.
type CreateChargeRequest struct {
	EventTypeID string          `json:"event_type_id"`
	Count       int64           `json:"count"`
	Money       decimal.Decimal `json:"money"`
	Remarks     string          `json:"remarks"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateChargeRequest) ToUseCaseInput() usecase.CreateChargeInput {
	return usecase.CreateChargeInput{
		EventTypeID: r.EventTypeID,
		Count:       r.Count,
		Money:       r.Money,
		Remarks:     r.Remarks,
	}
}

// UpdateChargeRequest edits a charge. Omitted fields stay unchanged.
type UpdateChargeRequest struct {
	EventTypeID *string          `json:"event_type_id,omitempty"`
	Count       *int64           `json:"count,omitempty"`
	Money       *decimal.Decimal `json:"money,omitempty"`
	Remarks     *string          `json:"remarks,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateChargeRequest) ToUseCaseInput(id string) usecase.UpdateChargeInput {
	return usecase.UpdateChargeInput{
		ID:          id,
		EventTypeID: r.EventTypeID,
		Count:       r.Count,
		Money:       r.Money,
		Remarks:     r.Remarks,
	}
}

func convertPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}
