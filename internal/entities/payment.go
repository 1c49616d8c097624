package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest starts a membership purchase.
type CheckoutRequest struct {
	MemberID  uuid.UUID
	PlanID    uuid.UUID
	PromoCode string
}

// Checkout is what the client needs to open the payment gateway.
type Checkout struct {
	Invoice  Invoice `json:"invoice"`
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

// PaymentVerification is returned by the gateway redirect.
type PaymentVerification struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Settlement records a payment against an invoice, found by order id or invoice id.
type Settlement struct {
	InvoiceID      uuid.UUID
	OrderID        string
	PaymentID      string
	PaymentMethod  string
	PaidAt         time.Time
	ReferralReward decimal.Decimal
}

// SettlementResult describes what settling an invoice changed.
type SettlementResult struct {
	Invoice        Invoice
	Member         *Member
	AlreadyPaid    bool
	ReferralCredit *Referral
}
