package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// EventType names a kind of miscellaneous charge, such as interior cleaning
// or a parking fee.
type EventType struct {
	ID        string
	Name      string
	Remarks   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label is the "id-name" text shown in event type dropdowns.
func (e *EventType) Label() string {
	return e.ID + "-" + e.Name
}

// MaxEventTypeNameLength bounds EventType.Name.
const MaxEventTypeNameLength = 30

// Validate checks the name and remarks of e.
func (e *EventType) Validate() error {
	name := strings.TrimSpace(e.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxEventTypeNameLength {
		return fmt.Errorf("%w: 1 to %d characters", ErrInvalidEventTypeName, MaxEventTypeNameLength)
	}
	return ValidateRemarks(e.Remarks)
}

// ExtraCharge records money taken for a service outside the material ledger.
// It never touches stock.
type ExtraCharge struct {
	ID          string
	EventTypeID string
	Count       int64
	Money       decimal.Decimal
	Remarks     string
	CreatedBy   string
	UpdatedBy   string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the count, money and remarks of c.
func (c *ExtraCharge) Validate() error {
	if c.EventTypeID == "" {
		return ErrEventTypeNotFound
	}
	if c.Count < 0 {
		return ErrInvalidChargeCount
	}
	if err := ValidateAmount(c.Money); err != nil {
		return err
	}
	return ValidateRemarks(c.Remarks)
}

// ExtraChargeFilter narrows a charge listing. Zero values mean "any".
type ExtraChargeFilter struct {
	EventTypeID    string
	CreatedBy      string
	IncludeDeleted bool
	Limit          int
	Offset         int
}
