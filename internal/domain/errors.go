package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation errors
	ErrInvalidAction                 = errors.New("invalid action")
	ErrInvalidPriceType              = errors.New("invalid price type")
	ErrOutgoingRequiresOriginalPrice = errors.New("outgoing entries must be valued at original price")
	ErrInvalidQuantity               = errors.New("quantity must be positive")
	ErrRemarksTooLong                = errors.New("remarks exceed maximum length")
	ErrActionChangeNotAllowed        = errors.New("action cannot be changed on an existing entry")
	ErrMaterialChangeNotAllowed      = errors.New("material cannot be changed on an existing entry")
	ErrEntryNotEditable              = errors.New("entry is deleted or reversed and cannot be edited")
	ErrEntryAlreadyReversed          = errors.New("entry has already been reversed")
	ErrEntryAlreadyExists            = errors.New("entry with this id already exists")
	ErrInvalidTransition             = errors.New("invalid entry state transition")
	ErrInvalidMaterialName           = errors.New("invalid material name")
	ErrInvalidPrice                  = errors.New("invalid price")
	ErrInvalidStock                  = errors.New("stock quantity must not be negative")
	ErrStockOverflow                 = errors.New("quantity would overflow the stock count")
	ErrMissingActor                  = errors.New("acting identity is required")
	ErrInvalidDateRange              = errors.New("summary window start must not be after its end")
	ErrInvalidAmount                 = errors.New("invalid amount")
	ErrInvalidCustomerName           = errors.New("invalid customer name")
	ErrInvalidGender                 = errors.New("invalid gender")
	ErrInvalidMemberLevel            = errors.New("invalid member level")
	ErrInvalidPaymentMethod          = errors.New("invalid payment method")
	ErrInvalidPhone                  = errors.New("invalid phone number")
	ErrInvalidVisitCount             = errors.New("visit counts must not be negative")
	ErrInvalidEventTypeName          = errors.New("invalid event type name")
	ErrInvalidChargeCount            = errors.New("charge count must not be negative")

	// Not found errors
	ErrMaterialNotFound    = errors.New("material not found")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrEventTypeNotFound   = errors.New("event type not found")
	ErrExtraChargeNotFound = errors.New("extra charge not found")

	// Stock errors
	ErrStockViolation = errors.New("stock quantity would become negative")

	// Persistence errors
	ErrPersistence = errors.New("persistence failure")
)

// StockViolationError carries the details of a rejected stock adjustment.
type StockViolationError struct {
	MaterialID string
	Stock      int64
	Delta      int64
}

func (e *StockViolationError) Error() string {
	return fmt.Sprintf("%s: material %s has %d in stock, adjustment %d", ErrStockViolation, e.MaterialID, e.Stock, e.Delta)
}

// Is makes errors.Is(err, ErrStockViolation) match.
func (e *StockViolationError) Is(target error) bool {
	return target == ErrStockViolation
}

// ErrorKind groups errors by how callers should react to them.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindStockViolation ErrorKind = "stock_violation"
	KindPersistence    ErrorKind = "persistence"
)

var validationErrors = []error{
	ErrInvalidAction,
	ErrInvalidPriceType,
	ErrOutgoingRequiresOriginalPrice,
	ErrInvalidQuantity,
	ErrRemarksTooLong,
	ErrActionChangeNotAllowed,
	ErrMaterialChangeNotAllowed,
	ErrEntryNotEditable,
	ErrEntryAlreadyReversed,
	ErrEntryAlreadyExists,
	ErrInvalidTransition,
	ErrInvalidMaterialName,
	ErrInvalidPrice,
	ErrInvalidStock,
	ErrStockOverflow,
	ErrMissingActor,
	ErrInvalidDateRange,
	ErrInvalidAmount,
	ErrInvalidCustomerName,
	ErrInvalidGender,
	ErrInvalidMemberLevel,
	ErrInvalidPaymentMethod,
	ErrInvalidPhone,
	ErrInvalidVisitCount,
	ErrInvalidEventTypeName,
	ErrInvalidChargeCount,
}

// IsValidationError reports whether err is a user-facing input error.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// KindOf classifies err. Unknown errors are persistence failures.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrStockViolation):
		return KindStockViolation
	case errors.Is(err, ErrMaterialNotFound), errors.Is(err, ErrEntryNotFound),
		errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrEventTypeNotFound),
		errors.Is(err, ErrExtraChargeNotFound):
		return KindNotFound
	case IsValidationError(err):
		return KindValidation
	default:
		return KindPersistence
	}
}

// Persistence wraps a storage failure so it classifies as ErrPersistence
// while keeping the cause inspectable.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindPersistence || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
