package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceFailed    InvoiceStatus = "failed"
	InvoiceCancelled InvoiceStatus = "cancelled"
	InvoiceRefunded  InvoiceStatus = "refunded"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoicePending, InvoiceCancelled},
	InvoicePending: {InvoicePaid, InvoiceFailed, InvoiceCancelled},
	InvoiceFailed:  {InvoicePending, InvoicePaid, InvoiceCancelled},
	InvoicePaid:    {InvoiceRefunded},
}

// CanTransition reports whether an invoice may move from s to next.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoicePending, InvoicePaid, InvoiceFailed, InvoiceCancelled, InvoiceRefunded:
		return true
	}
	return false
}

// InvoiceItem is a single invoice line.
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceOptions carries the creation inputs that are not part of the invoice row.
// A nil TaxRate applies the configured rate; an explicit zero issues an untaxed invoice.
type InvoiceOptions struct {
	PromoCode string
	TaxRate   *decimal.Decimal
}

// Invoice bills a member.
type Invoice struct {
	ID                uuid.UUID       `json:"id"`
	BranchID          uuid.UUID       `json:"branch_id"`
	MemberID          uuid.UUID       `json:"member_id"`
	Number            string          `json:"number"`
	Items             []InvoiceItem   `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Discount          decimal.Decimal `json:"discount"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	Status            InvoiceStatus   `json:"status"`
	PromoCodeID       *uuid.UUID      `json:"promo_code_id,omitempty"`
	MembershipID      *uuid.UUID      `json:"membership_id,omitempty"`
	DueDate           *time.Time      `json:"due_date,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	RazorpayOrderID   *string         `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string         `json:"razorpay_payment_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals recalculates line amounts and totals. Tax applies to the
// discounted subtotal at TaxRate percent; the total never goes below zero.
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	for i := range inv.Items {
		it := &inv.Items[i]
		it.Amount = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		subtotal = subtotal.Add(it.Amount)
	}
	inv.Subtotal = subtotal.Round(2)
	if inv.Discount.GreaterThan(inv.Subtotal) {
		inv.Discount = inv.Subtotal
	}
	if inv.Discount.IsNegative() {
		inv.Discount = decimal.Zero
	}
	taxable := inv.Subtotal.Sub(inv.Discount)
	inv.Tax = taxable.Mul(inv.TaxRate).Div(hundred).Round(2)
	inv.Total = taxable.Add(inv.Tax).Round(2)
	if inv.Total.IsNegative() {
		inv.Total = decimal.Zero
	}
}

// MinorUnits returns the total in the smallest currency unit (paise).
func (inv Invoice) MinorUnits() int64 {
	return inv.Total.Mul(hundred).Round(0).IntPart()
}
