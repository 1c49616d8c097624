package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	promoColumns = `id, branch_id, code, description, discount_type, discount_value, min_purchase,
max_uses, used_count, valid_from, valid_until, is_active, created_at, updated_at`
	insertPromoQuery = `
INSERT INTO promo_codes(id, branch_id, code, description, discount_type, discount_value, min_purchase,
    max_uses, valid_from, valid_until, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
RETURNING ` + promoColumns
	selectPromoQuery       = `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1`
	selectPromoByCodeQuery = `
SELECT ` + promoColumns + `
FROM promo_codes
WHERE upper(code) = $2 AND (branch_id = $1 OR branch_id IS NULL)
ORDER BY branch_id NULLS LAST
LIMIT 1`
	updatePromoQuery = `
UPDATE promo_codes
SET code = $2, description = $3, discount_type = $4, discount_value = $5, min_purchase = $6,
    max_uses = $7, valid_from = $8, valid_until = $9, is_active = $10, updated_at = $11
WHERE id = $1
RETURNING ` + promoColumns
	deletePromoQuery = `DELETE FROM promo_codes WHERE id = $1`
	redeemPromoByID  = `
UPDATE promo_codes
SET used_count = used_count + 1, updated_at = $2
WHERE id = $1 AND is_active AND (max_uses = 0 OR used_count < max_uses)`

	referralColumns     = `id, branch_id, referrer_id, referred_id, status, reward_amount, rewarded_at, created_at`
	insertReferralQuery = `
INSERT INTO referrals(id, branch_id, referrer_id, referred_id, status, reward_amount, created_at)
VALUES ($1, $2, $3, $4, 'pending', 0, $5)
RETURNING ` + referralColumns
)

func scanPromo(row pgx.Row) (entities.PromoCode, error) {
	var pc entities.PromoCode
	err := row.Scan(&pc.ID, &pc.BranchID, &pc.Code, &pc.Description, &pc.DiscountType, &pc.DiscountValue, &pc.MinPurchase,
		&pc.MaxUses, &pc.UsedCount, &pc.ValidFrom, &pc.ValidUntil, &pc.IsActive, &pc.CreatedAt, &pc.UpdatedAt)
	return pc, err
}

func scanReferral(row pgx.Row) (entities.Referral, error) {
	var r entities.Referral
	err := row.Scan(&r.ID, &r.BranchID, &r.ReferrerID, &r.ReferredID, &r.Status, &r.RewardAmount, &r.RewardedAt, &r.CreatedAt)
	return r, err
}

// CreatePromo inserts a promo code. Codes are stored upper-cased.
func (p *Postgres) CreatePromo(ctx context.Context, pc entities.PromoCode) (*entities.PromoCode, error) {
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	created, err := scanPromo(p.db.QueryRow(ctx, insertPromoQuery,
		pc.ID, pc.BranchID, strings.ToUpper(pc.Code), pc.Description, pc.DiscountType, pc.DiscountValue.Round(2), pc.MinPurchase.Round(2),
		pc.MaxUses, pc.ValidFrom, pc.ValidUntil, pc.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create promo code", "error", err, "code", pc.Code)
		return nil, mapError(err, "create promo code")
	}
	p.log.Infow("promo code created", "promo_code_id", created.ID, "code", created.Code)
	return &created, nil
}

// GetPromo returns a promo code by id.
func (p *Postgres) GetPromo(ctx context.Context, id uuid.UUID) (*entities.PromoCode, error) {
	pc, err := scanPromo(p.db.QueryRow(ctx, selectPromoQuery, id))
	if err != nil {
		return nil, mapError(err, "get promo code")
	}
	return &pc, nil
}

// GetPromoByCode resolves a code for a branch, preferring a branch-specific code over a global one.
func (p *Postgres) GetPromoByCode(ctx context.Context, branchID uuid.UUID, code string) (*entities.PromoCode, error) {
	pc, err := scanPromo(p.db.QueryRow(ctx, selectPromoByCodeQuery, branchID, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		return nil, mapError(err, "get promo code by code")
	}
	return &pc, nil
}

// ListPromos lists codes visible to a branch (its own and global ones).
func (p *Postgres) ListPromos(ctx context.Context, f entities.ListFilter) ([]entities.PromoCode, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("(branch_id = ? OR branch_id IS NULL)", *f.BranchID)
	}
	switch f.Status {
	case "active":
		w.conds = append(w.conds, "is_active")
	case "inactive":
		w.conds = append(w.conds, "NOT is_active")
	}
	if f.Search != "" {
		w.add("code ILIKE ?", "%"+f.Search+"%")
	}
	query := `SELECT ` + promoColumns + ` FROM promo_codes` + w.sql() + ` ORDER BY created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list promo codes")
	}
	return collect(rows, "promo codes", func(r pgx.Rows) (entities.PromoCode, error) { return scanPromo(r) })
}

// UpdatePromo overwrites mutable promo fields.
func (p *Postgres) UpdatePromo(ctx context.Context, pc entities.PromoCode) (*entities.PromoCode, error) {
	updated, err := scanPromo(p.db.QueryRow(ctx, updatePromoQuery,
		pc.ID, strings.ToUpper(pc.Code), pc.Description, pc.DiscountType, pc.DiscountValue.Round(2), pc.MinPurchase.Round(2),
		pc.MaxUses, pc.ValidFrom, pc.ValidUntil, pc.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to update promo code", "error", err, "promo_code_id", pc.ID)
		return nil, mapError(err, "update promo code")
	}
	return &updated, nil
}

// DeletePromo removes a promo code.
func (p *Postgres) DeletePromo(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete promo code", deletePromoQuery, id)
}

// RedeemPromo increments used_count while the code is active and below max_uses.
func (p *Postgres) RedeemPromo(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, redeemPromoByID, id, time.Now().UTC())
	if err != nil {
		return mapError(err, "redeem promo code")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usage limit reached or inactive", entities.ErrPromoInvalid)
	}
	p.log.Infow("promo code redeemed", "promo_code_id", id)
	return nil
}

// CreateReferral records a pending referral.
func (p *Postgres) CreateReferral(ctx context.Context, r entities.Referral) (*entities.Referral, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	created, err := scanReferral(p.db.QueryRow(ctx, insertReferralQuery, r.ID, r.BranchID, r.ReferrerID, r.ReferredID, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create referral", "error", err, "referrer_id", r.ReferrerID)
		return nil, mapError(err, "create referral")
	}
	p.log.Infow("referral created", "referral_id", created.ID, "referrer_id", created.ReferrerID, "referred_id", created.ReferredID)
	return &created, nil
}

// ListReferrals filters by branch and status.
func (p *Postgres) ListReferrals(ctx context.Context, f entities.ListFilter) ([]entities.Referral, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	query := `SELECT ` + referralColumns + ` FROM referrals` + w.sql() + ` ORDER BY created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list referrals")
	}
	return collect(rows, "referrals", func(r pgx.Rows) (entities.Referral, error) { return scanReferral(r) })
}

// MarkReferralRewarded rewards the pending referral of a referred member.
func (p *Postgres) MarkReferralRewarded(ctx context.Context, referredID uuid.UUID, amount decimal.Decimal, at time.Time) (*entities.Referral, error) {
	r, err := scanReferral(p.db.QueryRow(ctx, rewardReferralQuery, referredID, amount.Round(2), at))
	if err != nil {
		return nil, mapError(err, "reward referral")
	}
	p.log.Infow("referral rewarded", "referral_id", r.ID, "amount", amount.StringFixed(2))
	return &r, nil
}
