package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a promo discount is computed.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is a marketing discount code. A nil BranchID applies to every branch.
type PromoCode struct {
	ID            uuid.UUID       `json:"id"`
	BranchID      *uuid.UUID      `json:"branch_id,omitempty"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinPurchase   decimal.Decimal `json:"min_purchase"`
	MaxUses       int             `json:"max_uses"`
	UsedCount     int             `json:"used_count"`
	ValidFrom     *time.Time      `json:"valid_from,omitempty"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks the static shape of a promo code.
func (p PromoCode) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidArgument)
	}
	switch p.DiscountType {
	case DiscountPercentage:
		if p.DiscountValue.LessThanOrEqual(decimal.Zero) || p.DiscountValue.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage must be in (0, 100]", ErrInvalidArgument)
		}
	case DiscountFixed:
		if p.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: fixed discount must be positive", ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown discount_type %q", ErrInvalidArgument, p.DiscountType)
	}
	if p.MaxUses < 0 || p.MinPurchase.IsNegative() {
		return fmt.Errorf("%w: max_uses and min_purchase must not be negative", ErrInvalidArgument)
	}
	if p.ValidFrom != nil && p.ValidUntil != nil && p.ValidUntil.Before(*p.ValidFrom) {
		return fmt.Errorf("%w: valid_until before valid_from", ErrInvalidArgument)
	}
	return nil
}

// Check reports whether the code can be applied to amount at now.
func (p PromoCode) Check(amount decimal.Decimal, now time.Time) error {
	switch {
	case !p.IsActive:
		return fmt.Errorf("%w: inactive", ErrPromoInvalid)
	case p.ValidFrom != nil && now.Before(*p.ValidFrom):
		return fmt.Errorf("%w: not started", ErrPromoInvalid)
	case p.ValidUntil != nil && now.After(*p.ValidUntil):
		return fmt.Errorf("%w: expired", ErrPromoInvalid)
	case p.MaxUses > 0 && p.UsedCount >= p.MaxUses:
		return fmt.Errorf("%w: usage limit reached", ErrPromoInvalid)
	case amount.LessThan(p.MinPurchase):
		return fmt.Errorf("%w: minimum purchase is %s", ErrPromoInvalid, p.MinPurchase.StringFixed(2))
	}
	return nil
}

// Discount returns the discount for amount, never more than amount.
func (p PromoCode) Discount(amount decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		pct := decimal.Min(p.DiscountValue, hundred)
		d = amount.Mul(pct).Div(hundred)
	case DiscountFixed:
		d = p.DiscountValue
	}
	if d.GreaterThan(amount) {
		d = amount
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	return d.Round(2)
}

// Apply checks and computes the discount in one step.
func (p PromoCode) Apply(amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if err := p.Check(amount, now); err != nil {
		return decimal.Zero, err
	}
	return p.Discount(amount), nil
}

// ReferralStatus enumerates referral states.
type ReferralStatus string

const (
	ReferralPending  ReferralStatus = "pending"
	ReferralRewarded ReferralStatus = "rewarded"
)

// Referral links a referring member to a newly joined member.
type Referral struct {
	ID           uuid.UUID       `json:"id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	ReferrerID   uuid.UUID       `json:"referrer_id"`
	ReferredID   uuid.UUID       `json:"referred_id"`
	Status       ReferralStatus  `json:"status"`
	RewardAmount decimal.Decimal `json:"reward_amount"`
	RewardedAt   *time.Time      `json:"rewarded_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PromoPreview is the outcome of applying a promo code to an amount.
type PromoPreview struct {
	Code     string          `json:"code"`
	Amount   decimal.Decimal `json:"amount"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
