package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Customer is a car owner on the shop register. Members prepay for a number
// of washes at the member price; Visits counts every wash served.
type Customer struct {
	ID            string
	Name          string
	Gender        Gender
	Level         MemberLevel
	Phone         string
	Collected     decimal.Decimal
	PaymentMethod PaymentMethod
	MemberVisits  int64
	Visits        int64
	Remarks       string
	CreatedBy     string
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Gender of a customer.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid reports whether g is a known gender.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// MemberLevel tells members from walk-in customers.
type MemberLevel string

const (
	LevelMember    MemberLevel = "member"
	LevelNotMember MemberLevel = "not_member"
)

// IsValid reports whether l is a known level.
func (l MemberLevel) IsValid() bool {
	return l == LevelMember || l == LevelNotMember
}

// PaymentMethod is how a membership fee was paid.
type PaymentMethod string

const (
	PaymentAlipay PaymentMethod = "alipay"
	PaymentWechat PaymentMethod = "wechat"
	PaymentCash   PaymentMethod = "cash"
)

// IsValid reports whether p is a known payment method.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentAlipay, PaymentWechat, PaymentCash:
		return true
	}
	return false
}

// MembershipStatus flags the state of a member's prepaid washes.
type MembershipStatus string

const (
	MembershipNotMember    MembershipStatus = "not_member"
	MembershipUnused       MembershipStatus = "unused"
	MembershipActive       MembershipStatus = "active"
	MembershipExhausted    MembershipStatus = "exhausted"
	MembershipInconsistent MembershipStatus = "inconsistent"
)

// MembershipStatus compares used washes against prepaid ones. Inconsistent
// means more washes were served than paid for.
func (c *Customer) MembershipStatus() MembershipStatus {
	if c.Level != LevelMember {
		return MembershipNotMember
	}

	switch {
	case c.Visits <= 0:
		return MembershipUnused
	case c.Visits == c.MemberVisits:
		return MembershipExhausted
	case c.Visits > c.MemberVisits:
		return MembershipInconsistent
	default:
		return MembershipActive
	}
}

// RemainingVisits is the number of prepaid washes left, never negative.
func (c *Customer) RemainingVisits() int64 {
	if c.Level != LevelMember || c.Visits >= c.MemberVisits {
		return 0
	}
	return c.MemberVisits - c.Visits
}

// Customer field limits.
const (
	MaxCustomerNameLength = 20
	MaxPhoneLength        = 11
)

// Validate checks every field of c.
func (c *Customer) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxCustomerNameLength {
		return fmt.Errorf("%w: 1 to %d characters", ErrInvalidCustomerName, MaxCustomerNameLength)
	}

	if !c.Gender.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidGender, c.Gender)
	}
	if !c.Level.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMemberLevel, c.Level)
	}
	if !c.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, c.PaymentMethod)
	}

	if err := ValidatePhone(c.Phone); err != nil {
		return err
	}

	if c.MemberVisits < 0 || c.Visits < 0 {
		return ErrInvalidVisitCount
	}

	if err := ValidateAmount(c.Collected); err != nil {
		return err
	}

	return ValidateRemarks(c.Remarks)
}

// ValidatePhone accepts an empty phone or up to eleven digits.
func ValidatePhone(phone string) error {
	if len(phone) > MaxPhoneLength {
		return fmt.Errorf("%w: at most %d digits", ErrInvalidPhone, MaxPhoneLength)
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return fmt.Errorf("%w: digits only", ErrInvalidPhone)
		}
	}
	return nil
}

// CustomerFilter narrows a customer listing. Zero values mean "any".
type CustomerFilter struct {
	CreatedBy      string
	Level          MemberLevel
	IncludeDeleted bool
	Limit          int
	Offset         int
}
