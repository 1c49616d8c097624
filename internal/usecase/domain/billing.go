package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/razorpay"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minOrderMinor is the smallest amount the gateway accepts, in minor units.
const minOrderMinor = 100

// CreateInvoice prices the items, applies an optional promo code and stores the invoice.
func (u *Usecase) CreateInvoice(ctx context.Context, actor entities.Actor, inv entities.Invoice, opts entities.InvoiceOptions) (*entities.Invoice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, inv.BranchID); err != nil {
		return nil, err
	}
	inv.TaxRate = u.billing.TaxRate
	if opts.TaxRate != nil {
		inv.TaxRate = *opts.TaxRate
	}
	if err := validateInvoice(&inv); err != nil {
		u.log.Errorw("failed to create invoice", "error", err)
		return nil, err
	}
	if inv.Currency == "" {
		inv.Currency = u.billing.Currency
	}

	m, err := u.repo.GetMember(ctx, inv.MemberID)
	if err != nil {
		return nil, err
	}
	if m.BranchID != inv.BranchID {
		return nil, fmt.Errorf("%w: member belongs to another branch", entities.ErrInvalidArgument)
	}
	if inv.MembershipID != nil {
		plan, err := u.repo.GetPlan(ctx, *inv.MembershipID)
		if err != nil {
			return nil, err
		}
		if plan.BranchID != inv.BranchID {
			return nil, fmt.Errorf("%w: plan belongs to another branch", entities.ErrInvalidArgument)
		}
	}

	inv.ComputeTotals()
	if code := strings.TrimSpace(opts.PromoCode); code != "" {
		promo, discount, err := u.applyPromo(ctx, inv.BranchID, code, inv.Subtotal)
		if err != nil {
			return nil, err
		}
		inv.PromoCodeID = &promo.ID
		inv.Discount = discount
		inv.ComputeTotals()
	}
	return u.repo.CreateInvoice(ctx, inv)
}

// Invoice returns an invoice with its items.
func (u *Usecase) Invoice(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Invoice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	inv, err := u.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, inv.BranchID); err != nil {
		return nil, err
	}
	return inv, nil
}

// Invoices lists invoices.
func (u *Usecase) Invoices(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Invoice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if f.Status != "" && !entities.InvoiceStatus(f.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, f.Status)
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListInvoices(ctx, f)
}

// UpdateInvoiceStatus moves an invoice through its lifecycle. Marking an invoice
// paid by hand settles it the same way an online payment does. Refunds need a manager.
func (u *Usecase) UpdateInvoiceStatus(ctx context.Context, actor entities.Actor, id uuid.UUID, status entities.InvoiceStatus) (*entities.Invoice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, status)
	}
	if status == entities.InvoiceRefunded {
		if err := requireRole(actor, managers...); err != nil {
			return nil, err
		}
	}
	inv, err := u.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, inv.BranchID); err != nil {
		return nil, err
	}
	if !inv.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, inv.Status, status)
	}

	if status == entities.InvoicePaid {
		res, err := u.settle(ctx, entities.Settlement{InvoiceID: id, PaymentMethod: "cash"})
		if err != nil {
			return nil, err
		}
		return &res.Invoice, nil
	}
	u.log.Infow("invoice status changed", "invoice_id", id, "from", inv.Status, "to", status, "user_id", actor.UserID)
	return u.repo.UpdateInvoiceStatus(ctx, id, status)
}

// DeleteInvoice removes a draft or pending invoice.
func (u *Usecase) DeleteInvoice(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	inv, err := u.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, inv.BranchID); err != nil {
		return err
	}
	return u.repo.DeleteInvoice(ctx, id)
}

// CreateCheckout prices a plan for a member, stores a pending invoice and opens a
// gateway order for it.
func (u *Usecase) CreateCheckout(ctx context.Context, actor entities.Actor, req entities.CheckoutRequest) (*entities.Checkout, error) {
	ctx, cancel := withTimeout(ctx, u.vendorTimeout)
	defer cancel()

	if u.payments == nil || !u.payments.Configured() {
		return nil, fmt.Errorf("%w: payment gateway is not configured", entities.ErrIntegrationDisabled)
	}
	if err := requireID(req.MemberID, "member_id"); err != nil {
		return nil, err
	}
	if err := requireID(req.PlanID, "plan_id"); err != nil {
		return nil, err
	}

	m, err := u.repo.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, m.BranchID); err != nil {
		return nil, err
	}
	plan, err := u.repo.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.BranchID != m.BranchID || !plan.IsActive {
		return nil, fmt.Errorf("%w: plan is not offered at the member's branch", entities.ErrInvalidArgument)
	}

	inv := entities.Invoice{
		BranchID:     m.BranchID,
		MemberID:     m.ID,
		Items:        []entities.InvoiceItem{{Description: plan.Name, Quantity: 1, UnitPrice: plan.Price}},
		TaxRate:      u.billing.TaxRate,
		Currency:     u.billing.Currency,
		Status:       entities.InvoicePending,
		MembershipID: &plan.ID,
	}
	inv.ComputeTotals()
	if code := strings.TrimSpace(req.PromoCode); code != "" {
		promo, discount, err := u.applyPromo(ctx, m.BranchID, code, inv.Subtotal)
		if err != nil {
			return nil, err
		}
		inv.PromoCodeID = &promo.ID
		inv.Discount = discount
		inv.ComputeTotals()
	}
	if inv.MinorUnits() < minOrderMinor {
		return nil, fmt.Errorf("%w: amount %s is below the gateway minimum", entities.ErrInvalidArgument, inv.Total.StringFixed(2))
	}

	created, err := u.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return nil, err
	}

	order, err := u.payments.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   created.MinorUnits(),
		Currency: created.Currency,
		Receipt:  created.Number,
		Notes: map[string]string{
			"invoice_id": created.ID.String(),
			"member_id":  m.ID.String(),
			"branch_id":  m.BranchID.String(),
		},
	})
	if err != nil {
		u.log.Errorw("failed to create payment order", "invoice_id", created.ID, "error", err)
		if _, uerr := u.repo.UpdateInvoiceStatus(ctx, created.ID, entities.InvoiceFailed); uerr != nil {
			u.log.Errorw("failed to mark invoice failed", "invoice_id", created.ID, "error", uerr)
		}
		return nil, fmt.Errorf("%w: create order: %v", entities.ErrUpstream, err)
	}
	if err := u.repo.SetInvoiceOrder(ctx, created.ID, order.ID); err != nil {
		return nil, err
	}
	created.RazorpayOrderID = &order.ID

	u.log.Infow("checkout created", "invoice_id", created.ID, "order_id", order.ID, "amount", order.Amount)
	return &entities.Checkout{
		Invoice:  *created,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    u.payments.KeyID(),
	}, nil
}

// VerifyCheckout checks the signature returned by the checkout redirect and settles the invoice.
func (u *Usecase) VerifyCheckout(ctx context.Context, actor entities.Actor, v entities.PaymentVerification) (*entities.Invoice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if u.payments == nil {
		return nil, fmt.Errorf("%w: payment gateway is not configured", entities.ErrIntegrationDisabled)
	}
	if v.OrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return nil, fmt.Errorf("%w: order_id, payment_id and signature are required", entities.ErrInvalidArgument)
	}
	if err := u.payments.VerifyPaymentSignature(v.OrderID, v.PaymentID, v.Signature); err != nil {
		u.log.Warnw("payment signature rejected", "order_id", v.OrderID, "payment_id", v.PaymentID)
		return nil, fmt.Errorf("%w: %v", entities.ErrSignatureMismatch, err)
	}
	inv, err := u.repo.GetInvoiceByOrder(ctx, v.OrderID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, inv.BranchID); err != nil {
		return nil, err
	}

	res, err := u.settle(ctx, entities.Settlement{OrderID: v.OrderID, PaymentID: v.PaymentID, PaymentMethod: "razorpay"})
	if err != nil {
		return nil, err
	}
	return &res.Invoice, nil
}

// HandleWebhook processes a signed gateway event. Events for unknown orders and
// repeated captures are acknowledged without changes.
func (u *Usecase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if u.payments == nil {
		return fmt.Errorf("%w: payment gateway is not configured", entities.ErrIntegrationDisabled)
	}
	if err := u.payments.VerifyWebhookSignature(body, signature); err != nil {
		u.log.Warnw("webhook signature rejected", "error", err)
		return fmt.Errorf("%w: %v", entities.ErrSignatureMismatch, err)
	}
	ev, err := razorpay.ParseWebhook(body)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}

	switch ev.Event {
	case razorpay.EventPaymentCaptured, razorpay.EventOrderPaid:
		if ev.OrderID == "" {
			u.log.Warnw("captured payment without order", "payment_id", ev.PaymentID)
			return nil
		}
		method := "razorpay"
		if ev.Method != "" {
			method = "razorpay:" + ev.Method
		}
		_, err := u.settle(ctx, entities.Settlement{OrderID: ev.OrderID, PaymentID: ev.PaymentID, PaymentMethod: method})
		if errors.Is(err, entities.ErrNotFound) {
			u.log.Warnw("webhook for unknown order", "event", ev.Event, "order_id", ev.OrderID)
			return nil
		}
		return err
	case razorpay.EventPaymentFailed:
		inv, err := u.repo.GetInvoiceByOrder(ctx, ev.OrderID)
		if errors.Is(err, entities.ErrNotFound) {
			u.log.Warnw("webhook for unknown order", "event", ev.Event, "order_id", ev.OrderID)
			return nil
		}
		if err != nil {
			return err
		}
		if inv.Status != entities.InvoicePending {
			return nil
		}
		u.log.Infow("payment failed", "invoice_id", inv.ID, "order_id", ev.OrderID, "reason", ev.ErrorReason)
		_, err = u.repo.UpdateInvoiceStatus(ctx, inv.ID, entities.InvoiceFailed)
		return err
	default:
		u.log.Debugw("ignoring webhook event", "event", ev.Event)
		return nil
	}
}

// settle applies a payment and, the first time only, queues the receipt and
// refreshes the member's door access.
func (u *Usecase) settle(ctx context.Context, s entities.Settlement) (*entities.SettlementResult, error) {
	s.PaidAt = u.now()
	s.ReferralReward = u.billing.ReferralReward
	res, err := u.repo.SettleInvoice(ctx, s)
	if err != nil {
		u.log.Errorw("failed to settle invoice", "order_id", s.OrderID, "invoice_id", s.InvoiceID, "error", err)
		return nil, err
	}
	if res.AlreadyPaid {
		u.log.Infow("invoice already settled", "invoice_id", res.Invoice.ID)
		return res, nil
	}
	u.log.Infow("invoice settled", "invoice_id", res.Invoice.ID, "total", res.Invoice.Total.StringFixed(2))
	if res.ReferralCredit != nil {
		u.log.Infow("referral rewarded", "referrer_id", res.ReferralCredit.ReferrerID, "amount", res.ReferralCredit.RewardAmount.StringFixed(2))
	}

	m := res.Member
	if m == nil {
		if m, err = u.repo.GetMember(ctx, res.Invoice.MemberID); err != nil {
			u.log.Warnw("receipt not sent: member lookup failed", "invoice_id", res.Invoice.ID, "error", err)
			return res, nil
		}
	}
	u.notifyMember(ctx, *m, entities.TemplatePaymentReceived, map[string]string{
		"amount":         res.Invoice.Total.StringFixed(2),
		"currency":       res.Invoice.Currency,
		"invoice_number": res.Invoice.Number,
	})
	if res.Member != nil {
		u.refreshAccess(ctx, *m)
	}
	return res, nil
}

// applyPromo resolves a code for a branch and computes its discount on amount.
func (u *Usecase) applyPromo(ctx context.Context, branchID uuid.UUID, code string, amount decimal.Decimal) (*entities.PromoCode, decimal.Decimal, error) {
	promo, err := u.repo.GetPromoByCode(ctx, branchID, code)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, decimal.Zero, fmt.Errorf("%w: unknown code %q", entities.ErrPromoInvalid, code)
	}
	if err != nil {
		return nil, decimal.Zero, err
	}
	discount, err := promo.Apply(amount, u.now())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return promo, discount, nil
}

func validateInvoice(inv *entities.Invoice) error {
	if err := requireID(inv.MemberID, "member_id"); err != nil {
		return err
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", entities.ErrInvalidArgument)
	}
	for i, it := range inv.Items {
		switch {
		case strings.TrimSpace(it.Description) == "":
			return fmt.Errorf("%w: item %d: description is required", entities.ErrInvalidArgument, i)
		case it.Quantity <= 0:
			return fmt.Errorf("%w: item %d: quantity must be positive", entities.ErrInvalidArgument, i)
		case it.UnitPrice.IsNegative():
			return fmt.Errorf("%w: item %d: unit_price must not be negative", entities.ErrInvalidArgument, i)
		}
	}
	switch inv.Status {
	case "":
		inv.Status = entities.InvoicePending
	case entities.InvoiceDraft, entities.InvoicePending:
	default:
		return fmt.Errorf("%w: new invoices are draft or pending", entities.ErrInvalidArgument)
	}
	if inv.Discount.IsNegative() || inv.TaxRate.IsNegative() {
		return fmt.Errorf("%w: discount and tax_rate must not be negative", entities.ErrInvalidArgument)
	}
	return nil
}
