package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// Earnings labels shown instead of a bare zero or negative figure.
const (
	EarningsSoldAtCost = "sold_at_cost"
	EarningsNone       = "no_earnings"
	EarningsLoss       = "loss"
	EarningsRestock    = "restock"
)

const remarksPreviewRunes = 10

// MaterialResponse represents a material in API responses.
type MaterialResponse struct {
	ID             string          `json:"id"`
	Label          string          `json:"label"`
	Name           string          `json:"name"`
	Specifications string          `json:"specifications"`
	Brand          string          `json:"brand"`
	Functions      string          `json:"functions"`
	Remarks        string          `json:"remarks"`
	RemarksPreview string          `json:"remarks_preview"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	Price          decimal.Decimal `json:"price"`
	DiscountPrice  decimal.Decimal `json:"discount_price"`
	StockQuantity  int64           `json:"stock_quantity"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MaterialFromDomain converts domain material to response.
func MaterialFromDomain(m *domain.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:             m.ID,
		Label:          m.Label(),
		Name:           m.Name,
		Specifications: m.Specifications,
		Brand:          m.Brand,
		Functions:      m.Functions,
		Remarks:        m.Remarks,
		RemarksPreview: RemarksPreview(m.Remarks),
		OriginalPrice:  m.OriginalPrice,
		Price:          m.Price,
		DiscountPrice:  m.DiscountPrice,
		StockQuantity:  m.StockQuantity,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// MaterialsFromDomain converts domain materials to responses.
func MaterialsFromDomain(materials []*domain.Material) []*MaterialResponse {
	result := make([]*MaterialResponse, len(materials))
	for i, m := range materials {
		result[i] = MaterialFromDomain(m)
	}
	return result
}

// MaterialChoiceResponse is one dropdown option.
type MaterialChoiceResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ChoicesFromUseCase converts material choices to responses.
func ChoicesFromUseCase(choices []usecase.MaterialChoice) []MaterialChoiceResponse {
	result := make([]MaterialChoiceResponse, len(choices))
	for i, c := range choices {
		result[i] = MaterialChoiceResponse{ID: c.ID, Label: c.Label}
	}
	return result
}

// EntryResponse represents a ledger entry in API responses. IsDeleted is
// only filled for admins.
type EntryResponse struct {
	ID             string          `json:"id"`
	MaterialID     string          `json:"material_id"`
	MaterialLabel  string          `json:"material_label,omitempty"`
	Action         string          `json:"action"`
	Quantity       int64           `json:"quantity"`
	PriceType      string          `json:"price_type"`
	Money          decimal.Decimal `json:"money"`
	Earnings       decimal.Decimal `json:"earnings"`
	EarningsLabel  string          `json:"earnings_label"`
	Remarks        string          `json:"remarks"`
	RemarksPreview string          `json:"remarks_preview"`
	Status         string          `json:"status"`
	IsDeleted      *bool           `json:"is_deleted,omitempty"`
	CreatedBy      string          `json:"created_by"`
	UpdatedBy      string          `json:"updated_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ReversedAt     *time.Time      `json:"reversed_at,omitempty"`
}

// EntryFromDomain converts a domain entry to response. material may be nil.
func EntryFromDomain(e *domain.LedgerEntry, material *domain.Material, showDeleted bool) *EntryResponse {
	resp := &EntryResponse{
		ID:             e.ID,
		MaterialID:     e.MaterialID,
		Action:         string(e.Action),
		Quantity:       e.Quantity,
		PriceType:      string(e.PriceType),
		Money:          e.Money,
		Earnings:       e.Earnings,
		EarningsLabel:  EarningsLabel(e),
		Remarks:        e.Remarks,
		RemarksPreview: RemarksPreview(e.Remarks),
		Status:         string(e.Status),
		CreatedBy:      e.CreatedBy,
		UpdatedBy:      e.UpdatedBy,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		ReversedAt:     e.ReversedAt,
	}
	if material != nil {
		resp.MaterialLabel = material.Label()
	}
	if showDeleted {
		deleted := e.IsDeleted
		resp.IsDeleted = &deleted
	}
	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry, showDeleted bool) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e, nil, showDeleted)
	}
	return result
}

// EarningsLabel describes an entry's earnings for display.
func EarningsLabel(e *domain.LedgerEntry) string {
	if e.Action == domain.ActionOutgoing {
		return EarningsRestock
	}

	switch {
	case e.Earnings.IsZero() && e.PriceType == domain.PriceTypeOriginal:
		return EarningsSoldAtCost
	case e.Earnings.IsZero():
		return EarningsNone
	case e.Earnings.IsNegative():
		return EarningsLoss
	default:
		return e.Earnings.String()
	}
}

// RemarksPreview truncates remarks to their first ten characters.
func RemarksPreview(remarks string) string {
	runes := []rune(remarks)
	if len(runes) <= remarksPreviewRunes {
		return remarks
	}
	return string(runes[:remarksPreviewRunes]) + "..."
}

// CustomerResponse represents a customer in API responses. IsDeleted is
// only filled for admins.
type CustomerResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Gender           string          `json:"gender"`
	Level            string          `json:"level"`
	Phone            string          `json:"phone"`
	Collected        decimal.Decimal `json:"collected"`
	PaymentMethod    string          `json:"payment_method"`
	MemberVisits     int64           `json:"member_visits"`
	Visits           int64           `json:"visits"`
	RemainingVisits  int64           `json:"remaining_visits"`
	MembershipStatus string          `json:"membership_status"`
	Remarks          string          `json:"remarks"`
	RemarksPreview   string          `json:"remarks_preview"`
	IsDeleted        *bool           `json:"is_deleted,omitempty"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CustomerFromDomain converts a domain customer to response.
func CustomerFromDomain(c *domain.Customer, showDeleted bool) *CustomerResponse {
	resp := &CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Gender:           string(c.Gender),
		Level:            string(c.Level),
		Phone:            c.Phone,
		Collected:        c.Collected,
		PaymentMethod:    string(c.PaymentMethod),
		MemberVisits:     c.MemberVisits,
		Visits:           c.Visits,
		RemainingVisits:  c.RemainingVisits(),
		MembershipStatus: string(c.MembershipStatus()),
		Remarks:          c.Remarks,
		RemarksPreview:   RemarksPreview(c.Remarks),
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if showDeleted {
		deleted := c.IsDeleted
		resp.IsDeleted = &deleted
	}
	return resp
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer, showDeleted bool) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c, showDeleted)
	}
	return result
}

// EventTypeResponse represents an event type in API responses.
type EventTypeResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Name      string    `json:"name"`
	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventTypesFromDomain converts domain event types to responses.
func EventTypesFromDomain(eventTypes []*domain.EventType) []*EventTypeResponse {
	result := make([]*EventTypeResponse, len(eventTypes))
	for i, e := range eventTypes {
		result[i] = &EventTypeResponse{
			ID:        e.ID,
			Label:     e.Label(),
			Name:      e.Name,
			Remarks:   e.Remarks,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return result
}

// EventTypeChoicesFromUseCase converts event type choices to responses.
func EventTypeChoicesFromUseCase(choices []usecase.EventTypeChoice) []MaterialChoiceResponse {
	result := make([]MaterialChoiceResponse, len(choices))
	for i, c := range choices {
		result[i] = MaterialChoiceResponse{ID: c.ID, Label: c.Label}
	}
	return result
}

// ChargeResponse represents an extra charge in API responses. IsDeleted is
// only filled for admins.
type ChargeResponse struct {
	ID             string          `json:"id"`
	EventTypeID    string          `json:"event_type_id"`
	Count          int64           `json:"count"`
	Money          decimal.Decimal `json:"money"`
	Remarks        string          `json:"remarks"`
	RemarksPreview string          `json:"remarks_preview"`
	IsDeleted      *bool           `json:"is_deleted,omitempty"`
	CreatedBy      string          `json:"created_by"`
	UpdatedBy      string          `json:"updated_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ChargeFromDomain converts a domain charge to response.
func ChargeFromDomain(c *domain.ExtraCharge, showDeleted bool) *ChargeResponse {
	resp := &ChargeResponse{
		ID:             c.ID,
		EventTypeID:    c.EventTypeID,
		Count:          c.Count,
		Money:          c.Money,
		Remarks:        c.Remarks,
		RemarksPreview: RemarksPreview(c.Remarks),
		CreatedBy:      c.CreatedBy,
		UpdatedBy:      c.UpdatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if showDeleted {
		deleted := c.IsDeleted
		resp.IsDeleted = &deleted
	}
	return resp
}

// ChargesFromDomain converts domain charges to responses.
func ChargesFromDomain(charges []*domain.ExtraCharge, showDeleted bool) []*ChargeResponse {
	result := make([]*ChargeResponse, len(charges))
	for i, c := range charges {
		result[i] = ChargeFromDomain(c, showDeleted)
	}
	return result
}

// SummaryResponse represents a cash-flow summary.
type SummaryResponse struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	SalesMoney    decimal.Decimal `json:"sales_money"`
	SalesEarnings decimal.Decimal `json:"sales_earnings"`
	RestockSpend  decimal.Decimal `json:"restock_spend"`
	NetCash       decimal.Decimal `json:"net_cash"`
	SalesCount    int64           `json:"sales_count"`
	RestockCount  int64           `json:"restock_count"`
}

// SummaryFromDomain converts a summary to response.
func SummaryFromDomain(s *domain.LedgerSummary) *SummaryResponse {
	return &SummaryResponse{
		From:          s.From,
		To:            s.To,
		SalesMoney:    s.SalesMoney,
		SalesEarnings: s.SalesEarnings,
		RestockSpend:  s.RestockSpend,
		NetCash:       s.NetCash(),
		SalesCount:    s.SalesCount,
		RestockCount:  s.RestockCount,
	}
}

// ListResponse wraps paginated results.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
