package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxRemarksLength      = 100
	MinMaterialNameLength = 1
	MaxMaterialNameLength = 64

	// Prices are stored as NUMERIC(14, 2).
	MaxPriceScale = 2
)

var maxPrice = decimal.New(1, 12)

// ValidateTransaction enforces the structural rules on an action/price type
// pair. Restocks are only ever valued at cost.
func ValidateTransaction(action Action, pt PriceType) error {
	if !action.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if !pt.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriceType, pt)
	}

	if action == ActionOutgoing && pt != PriceTypeOriginal {
		return ErrOutgoingRequiresOriginalPrice
	}

	return nil
}

// ValidateQuantity rejects zero and negative quantities.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateRemarks validates free-text remarks length
func ValidateRemarks(remarks string) error {
	if utf8.RuneCountInString(remarks) > MaxRemarksLength {
		return fmt.Errorf("%w: %d characters allowed", ErrRemarksTooLong, MaxRemarksLength)
	}
	return nil
}

// ValidateMaterialName validates material name
func ValidateMaterialName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)

	if n < MinMaterialNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidMaterialName)
	}

	if n > MaxMaterialNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidMaterialName, MaxMaterialNameLength)
	}

	return nil
}

// ValidatePrices checks that every pricing tier is a non-negative amount with
// at most two decimal places that fits the stored column.
func ValidatePrices(original, price, discount decimal.Decimal) error {
	tiers := []struct {
		name  string
		value decimal.Decimal
	}{
		{"original_price", original},
		{"price", price},
		{"discount_price", discount},
	}

	for _, tier := range tiers {
		if reason := amountProblem(tier.value); reason != "" {
			return fmt.Errorf("%w: %s %s", ErrInvalidPrice, tier.name, reason)
		}
	}
	return nil
}

// ValidateAmount applies the price rules to a money amount.
func ValidateAmount(amount decimal.Decimal) error {
	if reason := amountProblem(amount); reason != "" {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, reason)
	}
	return nil
}

func amountProblem(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "must not be negative"
	case !d.Equal(d.Truncate(MaxPriceScale)):
		return fmt.Sprintf("allows at most %d decimal places", MaxPriceScale)
	case d.GreaterThanOrEqual(maxPrice):
		return "is too large"
	}
	return ""
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
