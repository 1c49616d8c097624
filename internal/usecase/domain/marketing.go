package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePromo creates a promo code. Codes without a branch apply everywhere and need an admin.
func (u *Usecase) CreatePromo(ctx context.Context, actor entities.Actor, p entities.PromoCode) (*entities.PromoCode, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.checkPromoAccess(actor, p.BranchID); err != nil {
		return nil, err
	}
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := p.Validate(); err != nil {
		u.log.Errorw("failed to create promo code", "error", err)
		return nil, err
	}
	p.UsedCount = 0
	return u.repo.CreatePromo(ctx, p)
}

// Promo returns a promo code.
func (u *Usecase) Promo(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PromoCode, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	p, err := u.repo.GetPromo(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.BranchID != nil && !actor.CanAccessBranch(*p.BranchID) {
		return nil, entities.ErrForbidden
	}
	return p, nil
}

// Promos lists the codes usable at a branch; Status is "active" or "inactive".
func (u *Usecase) Promos(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.PromoCode, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListPromos(ctx, f)
}

// UpdatePromo updates a promo code. The usage counter is not writable.
func (u *Usecase) UpdatePromo(ctx context.Context, actor entities.Actor, p entities.PromoCode) (*entities.PromoCode, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	current, err := u.repo.GetPromo(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := u.checkPromoAccess(actor, current.BranchID); err != nil {
		return nil, err
	}
	p.BranchID = current.BranchID
	p.UsedCount = current.UsedCount
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.MaxUses > 0 && p.MaxUses < current.UsedCount {
		return nil, fmt.Errorf("%w: max_uses below %d redemptions", entities.ErrInvalidArgument, current.UsedCount)
	}
	return u.repo.UpdatePromo(ctx, p)
}

// DeletePromo removes a promo code.
func (u *Usecase) DeletePromo(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	current, err := u.repo.GetPromo(ctx, id)
	if err != nil {
		return err
	}
	if err := u.checkPromoAccess(actor, current.BranchID); err != nil {
		return err
	}
	return u.repo.DeletePromo(ctx, id)
}

// ValidatePromo previews the discount a code gives on amount without redeeming it.
func (u *Usecase) ValidatePromo(ctx context.Context, actor entities.Actor, branchID uuid.UUID, code string, amount decimal.Decimal) (*entities.PromoPreview, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireBranch(actor, branchID); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", entities.ErrInvalidArgument)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", entities.ErrInvalidArgument)
	}
	p, discount, err := u.applyPromo(ctx, branchID, code, amount)
	if err != nil {
		return nil, err
	}
	return &entities.PromoPreview{
		Code:     p.Code,
		Amount:   amount.Round(2),
		Discount: discount,
		Total:    amount.Sub(discount).Round(2),
	}, nil
}

// CreateReferral links two members of a branch.
func (u *Usecase) CreateReferral(ctx context.Context, actor entities.Actor, r entities.Referral) (*entities.Referral, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if err := requireID(r.ReferrerID, "referrer_id"); err != nil {
		return nil, err
	}
	if err := requireID(r.ReferredID, "referred_id"); err != nil {
		return nil, err
	}
	if r.ReferrerID == r.ReferredID {
		return nil, fmt.Errorf("%w: a member cannot refer themselves", entities.ErrInvalidArgument)
	}
	referred, err := u.repo.GetMember(ctx, r.ReferredID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, referred.BranchID); err != nil {
		return nil, err
	}
	if _, err := u.repo.GetMember(ctx, r.ReferrerID); err != nil {
		return nil, err
	}
	r.BranchID = referred.BranchID
	r.Status = entities.ReferralPending
	r.RewardAmount, r.RewardedAt = decimal.Zero, nil
	return u.repo.CreateReferral(ctx, r)
}

// Referrals lists referrals; Status is "pending" or "rewarded".
func (u *Usecase) Referrals(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Referral, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListReferrals(ctx, f)
}

func (u *Usecase) checkPromoAccess(actor entities.Actor, branchID *uuid.UUID) error {
	if branchID == nil {
		return requireAdmin(actor)
	}
	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	return requireBranch(actor, *branchID)
}
