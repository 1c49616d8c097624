package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	invoiceColumns = `id, branch_id, member_id, number, subtotal, discount, tax_rate, tax, total, currency,
status, promo_code_id, membership_id, due_date, paid_at, razorpay_order_id, razorpay_payment_id,
notes, created_at, updated_at`
	insertInvoiceQuery = `
INSERT INTO invoices(id, branch_id, member_id, subtotal, discount, tax_rate, tax, total, currency,
    status, promo_code_id, membership_id, due_date, razorpay_order_id, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
RETURNING ` + invoiceColumns
	insertInvoiceItemQuery = `
INSERT INTO invoice_items(id, invoice_id, position, description, quantity, unit_price, amount)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectInvoiceQuery        = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	selectInvoiceForUpdate    = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	selectInvoiceByOrderQuery = `SELECT ` + invoiceColumns + ` FROM invoices WHERE razorpay_order_id = $1`
	selectOrderForUpdate      = `SELECT ` + invoiceColumns + ` FROM invoices WHERE razorpay_order_id = $1 FOR UPDATE`
	selectInvoiceItemsQuery   = `
SELECT id, description, quantity, unit_price, amount
FROM invoice_items
WHERE invoice_id = $1
ORDER BY position`
	updateInvoiceStatusQuery = `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`
	setInvoiceOrderQuery     = `UPDATE invoices SET razorpay_order_id = $2, updated_at = $3 WHERE id = $1`
	markInvoicePaidQuery     = `
UPDATE invoices
SET status = 'paid', paid_at = $2, razorpay_payment_id = $3, updated_at = $2
WHERE id = $1`
	deleteInvoiceQuery = `DELETE FROM invoices WHERE id = $1 AND status IN ('draft', 'pending')`
	existsInvoiceQuery = `SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)`
	selectMemberForUpdate = `SELECT ` + memberColumns + ` FROM members WHERE id = $1 FOR UPDATE`
	redeemPromoQuery      = `
UPDATE promo_codes
SET used_count = used_count + 1, updated_at = now()
WHERE id = $1 AND (max_uses = 0 OR used_count < max_uses)`
	insertIncomeFromInvoiceQuery = `
INSERT INTO income_records(id, branch_id, category, amount, date, description, payment_method, invoice_id)
VALUES ($1, $2, 'membership', $3, $4, $5, $6, $7)
ON CONFLICT (invoice_id) DO NOTHING`
	rewardReferralQuery = `
UPDATE referrals
SET status = 'rewarded', reward_amount = $2, rewarded_at = $3
WHERE referred_id = $1 AND status = 'pending'
RETURNING ` + referralColumns
)

func scanInvoice(row pgx.Row) (entities.Invoice, error) {
	var inv entities.Invoice
	err := row.Scan(
		&inv.ID, &inv.BranchID, &inv.MemberID, &inv.Number, &inv.Subtotal, &inv.Discount, &inv.TaxRate, &inv.Tax, &inv.Total, &inv.Currency,
		&inv.Status, &inv.PromoCodeID, &inv.MembershipID, &inv.DueDate, &inv.PaidAt, &inv.RazorpayOrderID, &inv.RazorpayPaymentID,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}

func (p *Postgres) loadItems(ctx context.Context, q querier, inv *entities.Invoice) error {
	rows, err := q.Query(ctx, selectInvoiceItemsQuery, inv.ID)
	if err != nil {
		return mapError(err, "get invoice items")
	}
	items, err := collect(rows, "invoice items", func(r pgx.Rows) (entities.InvoiceItem, error) {
		var it entities.InvoiceItem
		err := r.Scan(&it.ID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount)
		return it, err
	})
	if err != nil {
		return err
	}
	inv.Items = items
	return nil
}

// CreateInvoice inserts an invoice with its items in one transaction.
func (p *Postgres) CreateInvoice(ctx context.Context, inv entities.Invoice) (*entities.Invoice, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	created, err := scanInvoice(tx.QueryRow(ctx, insertInvoiceQuery,
		inv.ID, inv.BranchID, inv.MemberID, inv.Subtotal.Round(2), inv.Discount.Round(2), inv.TaxRate, inv.Tax.Round(2), inv.Total.Round(2), inv.Currency,
		inv.Status, inv.PromoCodeID, inv.MembershipID, inv.DueDate, inv.RazorpayOrderID, inv.Notes, time.Now().UTC(),
	))
	if err != nil {
		p.log.Errorw("failed to create invoice", "error", err, "member_id", inv.MemberID)
		return nil, mapError(err, "create invoice")
	}

	created.Items = make([]entities.InvoiceItem, 0, len(inv.Items))
	for i, it := range inv.Items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if _, err := tx.Exec(ctx, insertInvoiceItemQuery, it.ID, created.ID, i, it.Description, it.Quantity, it.UnitPrice.Round(2), it.Amount.Round(2)); err != nil {
			return nil, mapError(err, "insert invoice item")
		}
		created.Items = append(created.Items, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("invoice created", "invoice_id", created.ID, "number", created.Number, "total", created.Total.StringFixed(2))
	return &created, nil
}

// GetInvoice returns an invoice with items.
func (p *Postgres) GetInvoice(ctx context.Context, id uuid.UUID) (*entities.Invoice, error) {
	inv, err := scanInvoice(p.db.QueryRow(ctx, selectInvoiceQuery, id))
	if err != nil {
		return nil, mapError(err, "get invoice")
	}
	if err := p.loadItems(ctx, p.db, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoiceByOrder returns the invoice attached to a gateway order.
func (p *Postgres) GetInvoiceByOrder(ctx context.Context, orderID string) (*entities.Invoice, error) {
	inv, err := scanInvoice(p.db.QueryRow(ctx, selectInvoiceByOrderQuery, orderID))
	if err != nil {
		return nil, mapError(err, "get invoice by order")
	}
	if err := p.loadItems(ctx, p.db, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices filters by branch, status, member search and creation date. Items are not loaded.
func (p *Postgres) ListInvoices(ctx context.Context, f entities.ListFilter) ([]entities.Invoice, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("number ILIKE ?", "%"+f.Search+"%")
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at < ?", *f.To)
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + w.sql() + ` ORDER BY created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		p.log.Errorw("failed to list invoices", "error", err)
		return nil, mapError(err, "list invoices")
	}
	return collect(rows, "invoices", func(r pgx.Rows) (entities.Invoice, error) { return scanInvoice(r) })
}

// UpdateInvoiceStatus moves an invoice to status if the transition is allowed.
func (p *Postgres) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status entities.InvoiceStatus) (*entities.Invoice, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inv, err := scanInvoice(tx.QueryRow(ctx, selectInvoiceForUpdate, id))
	if err != nil {
		return nil, mapError(err, "lock invoice")
	}
	if inv.Status == status {
		return p.GetInvoice(ctx, id)
	}
	if !inv.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, inv.Status, status)
	}

	now := time.Now().UTC()
	if status == entities.InvoicePaid {
		_, err = tx.Exec(ctx, markInvoicePaidQuery, id, now, inv.RazorpayPaymentID)
	} else {
		_, err = tx.Exec(ctx, updateInvoiceStatusQuery, id, status, now)
	}
	if err != nil {
		p.log.Errorw("failed to update invoice status", "error", err, "invoice_id", id, "status", status)
		return nil, mapError(err, "update invoice status")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("invoice status updated", "invoice_id", id, "from", inv.Status, "to", status)
	return p.GetInvoice(ctx, id)
}

// SetInvoiceOrder attaches a gateway order id.
func (p *Postgres) SetInvoiceOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	return execOne(ctx, p.db, "set invoice order", setInvoiceOrderQuery, id, orderID, time.Now().UTC())
}

// SettleInvoice marks the invoice of an order (or, without an order id, the
// invoice with InvoiceID) paid and applies its side effects
// in one transaction: promo redemption, membership extension, income booking
// and referral reward. Settling an already paid invoice changes nothing.
func (p *Postgres) SettleInvoice(ctx context.Context, s entities.Settlement) (*entities.SettlementResult, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, arg := selectOrderForUpdate, any(s.OrderID)
	if s.OrderID == "" {
		query, arg = selectInvoiceForUpdate, s.InvoiceID
	}
	inv, err := scanInvoice(tx.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapError(err, "lock invoice")
	}
	res := &entities.SettlementResult{}
	if inv.Status == entities.InvoicePaid {
		if err := p.loadItems(ctx, tx, &inv); err != nil {
			return nil, err
		}
		res.Invoice = inv
		res.AlreadyPaid = true
		return res, nil
	}
	if !inv.Status.CanTransition(entities.InvoicePaid) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, inv.Status, entities.InvoicePaid)
	}

	paidAt := s.PaidAt.UTC()
	var paymentID *string
	if s.PaymentID != "" {
		paymentID = &s.PaymentID
	}
	if _, err := tx.Exec(ctx, markInvoicePaidQuery, inv.ID, paidAt, paymentID); err != nil {
		return nil, mapError(err, "mark invoice paid")
	}
	inv.Status = entities.InvoicePaid
	inv.PaidAt = &paidAt
	inv.RazorpayPaymentID = paymentID

	if inv.PromoCodeID != nil {
		tag, err := tx.Exec(ctx, redeemPromoQuery, *inv.PromoCodeID)
		if err != nil {
			return nil, mapError(err, "redeem promo")
		}
		if tag.RowsAffected() == 0 {
			// The discount was granted at checkout; an exhausted code no longer blocks payment.
			p.log.Warnw("promo code exhausted at settlement", "promo_code_id", *inv.PromoCodeID, "invoice_id", inv.ID)
		}
	}

	if inv.MembershipID != nil {
		plan, err := p.getPlan(ctx, tx, *inv.MembershipID)
		if err != nil {
			return nil, err
		}
		member, err := scanMember(tx.QueryRow(ctx, selectMemberForUpdate, inv.MemberID))
		if err != nil {
			return nil, mapError(err, "lock member")
		}
		member.ExtendMembership(*plan, paidAt)
		updated, err := p.updateMember(ctx, tx, member)
		if err != nil {
			return nil, err
		}
		res.Member = updated
	}

	if _, err := tx.Exec(ctx, insertIncomeFromInvoiceQuery,
		uuid.New(), inv.BranchID, inv.Total.Round(2), paidAt, "Invoice "+inv.Number, s.PaymentMethod, inv.ID,
	); err != nil {
		return nil, mapError(err, "book income")
	}

	if s.ReferralReward.IsPositive() {
		ref, err := scanReferral(tx.QueryRow(ctx, rewardReferralQuery, inv.MemberID, s.ReferralReward.Round(2), paidAt))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, mapError(err, "reward referral")
		}
		if err == nil {
			res.ReferralCredit = &ref
		}
	}

	if err := p.loadItems(ctx, tx, &inv); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	res.Invoice = inv
	p.log.Infow("invoice settled", "invoice_id", inv.ID, "order_id", s.OrderID, "payment_id", s.PaymentID)
	return res, nil
}

// DeleteInvoice removes a draft or pending invoice.
func (p *Postgres) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, deleteInvoiceQuery, id)
	if err != nil {
		return mapError(err, "delete invoice")
	}
	if tag.RowsAffected() > 0 {
		p.log.Infow("invoice deleted", "invoice_id", id)
		return nil
	}
	var exists bool
	if err := p.db.QueryRow(ctx, existsInvoiceQuery, id).Scan(&exists); err != nil {
		return mapError(err, "check invoice")
	}
	if exists {
		return fmt.Errorf("%w: only draft or pending invoices can be deleted", entities.ErrConflict)
	}
	return entities.ErrNotFound
}
