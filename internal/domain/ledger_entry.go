package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Action is the direction of a cashier transaction.
type Action string

const (
	// ActionIncoming is a sale: units leave the shop, money comes in.
	ActionIncoming Action = "incoming"
	// ActionOutgoing is a restock: units enter inventory, money goes out.
	ActionOutgoing Action = "outgoing"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	return a == ActionIncoming || a == ActionOutgoing
}

// PriceType selects which pricing tier values a transaction.
type PriceType string

const (
	PriceTypeOriginal PriceType = "original_price"
	PriceTypePrice    PriceType = "price"
	PriceTypeDiscount PriceType = "discount_price"
)

// IsValid reports whether pt is a known pricing tier.
func (pt PriceType) IsValid() bool {
	switch pt {
	case PriceTypeOriginal, PriceTypePrice, PriceTypeDiscount:
		return true
	}
	return false
}

// EntryStatus is the persisted status of a ledger entry.
type EntryStatus string

const (
	EntryStatusCommitted EntryStatus = "committed"
	EntryStatusDeleted   EntryStatus = "deleted"
	EntryStatusReversed  EntryStatus = "reversed"
)

// EntryState tracks a ledger entry through the write pipeline.
type EntryState int

const (
	EntryStateDraft EntryState = iota
	EntryStateValidated
	EntryStateComputed
	EntryStateCommitted
	EntryStateDeleted
	EntryStateReversed
)

func (s EntryState) String() string {
	switch s {
	case EntryStateDraft:
		return "draft"
	case EntryStateValidated:
		return "validated"
	case EntryStateComputed:
		return "computed"
	case EntryStateCommitted:
		return "committed"
	case EntryStateDeleted:
		return "deleted"
	case EntryStateReversed:
		return "reversed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var entryTransitions = map[EntryState][]EntryState{
	EntryStateDraft:     {EntryStateValidated},
	EntryStateValidated: {EntryStateComputed},
	EntryStateComputed:  {EntryStateCommitted},
	EntryStateCommitted: {EntryStateValidated, EntryStateDeleted, EntryStateReversed},
	EntryStateDeleted:   {EntryStateReversed},
}

// LedgerEntry is a recorded cashier transaction against one material.
type LedgerEntry struct {
	ID         string
	MaterialID string
	Action     Action
	Quantity   int64
	PriceType  PriceType
	Money      decimal.Decimal
	Earnings   decimal.Decimal
	Remarks    string
	CreatedBy  string
	UpdatedBy  string
	Status     EntryStatus
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ReversedAt *time.Time

	state EntryState
}

// NewDraftEntry starts a new entry in the draft state.
func NewDraftEntry(id, materialID string, action Action, quantity int64, pt PriceType) *LedgerEntry {
	return &LedgerEntry{
		ID:         id,
		MaterialID: materialID,
		Action:     action,
		Quantity:   quantity,
		PriceType:  pt,
		state:      EntryStateDraft,
	}
}

// State returns the pipeline state. Entries loaded from storage report the
// state matching their persisted status.
func (e *LedgerEntry) State() EntryState {
	if e.state == EntryStateDraft && e.Status != "" {
		switch e.Status {
		case EntryStatusDeleted:
			return EntryStateDeleted
		case EntryStatusReversed:
			return EntryStateReversed
		default:
			return EntryStateCommitted
		}
	}
	return e.state
}

// Advance moves the entry to the next pipeline state.
func (e *LedgerEntry) Advance(to EntryState) error {
	from := e.State()
	for _, allowed := range entryTransitions[from] {
		if allowed == to {
			e.state = to
			switch to {
			case EntryStateCommitted:
				e.Status = EntryStatusCommitted
			case EntryStateDeleted:
				e.Status = EntryStatusDeleted
				e.IsDeleted = true
			case EntryStateReversed:
				e.Status = EntryStatusReversed
				e.IsDeleted = true
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Editable reports whether the entry may go through the update pipeline.
func (e *LedgerEntry) Editable() bool {
	return e.State() == EntryStateCommitted
}

// Apply stores the computed amounts and marks the entry computed.
func (e *LedgerEntry) Apply(amounts LedgerAmounts) error {
	if err := e.Advance(EntryStateComputed); err != nil {
		return err
	}
	e.Money = amounts.Money
	e.Earnings = amounts.Earnings
	return nil
}

// EntryFilter narrows an entry listing. Zero values mean "any".
type EntryFilter struct {
	MaterialID     string
	CreatedBy      string
	Action         Action
	IncludeDeleted bool
	Limit          int
	Offset         int
}
