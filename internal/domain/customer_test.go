package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCustomer_MembershipStatus(t *testing.T) {
	tests := []struct {
		name      string
		level     MemberLevel
		prepaid   int64
		visits    int64
		want      MembershipStatus
		remaining int64
	}{
		{"walk-in customer", LevelNotMember, 0, 7, MembershipNotMember, 0},
		{"member without visits", LevelMember, 10, 0, MembershipUnused, 10},
		{"member mid-way", LevelMember, 10, 4, MembershipActive, 6},
		{"member used up", LevelMember, 10, 10, MembershipExhausted, 0},
		{"member over-served", LevelMember, 10, 12, MembershipInconsistent, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Customer{Level: tt.level, MemberVisits: tt.prepaid, Visits: tt.visits}
			if got := c.MembershipStatus(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if got := c.RemainingVisits(); got != tt.remaining {
				t.Errorf("expected %d remaining, got %d", tt.remaining, got)
			}
		})
	}
}

func validCustomer() *Customer {
	return &Customer{
		Name:          "Li Wei",
		Gender:        GenderMale,
		Level:         LevelMember,
		Phone:         "13800138000",
		Collected:     decimal.RequireFromString("300.00"),
		PaymentMethod: PaymentWechat,
		MemberVisits:  10,
	}
}

func TestCustomer_Validate(t *testing.T) {
	if err := validCustomer().Validate(); err != nil {
		t.Fatalf("expected valid customer, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(c *Customer)
		wantErr error
	}{
		{"blank name", func(c *Customer) { c.Name = "  " }, ErrInvalidCustomerName},
		{"long name", func(c *Customer) { c.Name = strings.Repeat("n", 21) }, ErrInvalidCustomerName},
		{"unknown gender", func(c *Customer) { c.Gender = "x" }, ErrInvalidGender},
		{"unknown level", func(c *Customer) { c.Level = "gold" }, ErrInvalidMemberLevel},
		{"unknown payment", func(c *Customer) { c.PaymentMethod = "card" }, ErrInvalidPaymentMethod},
		{"phone with letters", func(c *Customer) { c.Phone = "1380013800a" }, ErrInvalidPhone},
		{"phone too long", func(c *Customer) { c.Phone = "138001380001" }, ErrInvalidPhone},
		{"negative visits", func(c *Customer) { c.Visits = -1 }, ErrInvalidVisitCount},
		{"fractional cents", func(c *Customer) { c.Collected = decimal.RequireFromString("1.005") }, ErrInvalidAmount},
		{"long remarks", func(c *Customer) { c.Remarks = strings.Repeat("r", MaxRemarksLength+1) }, ErrRemarksTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if KindOf(err) != KindValidation {
				t.Fatalf("expected validation kind, got %s", KindOf(err))
			}
		})
	}
}

func TestValidatePhone_AllowsEmpty(t *testing.T) {
	if err := ValidatePhone(""); err != nil {
		t.Fatalf("expected empty phone to be accepted, got %v", err)
	}
}
