package domain

import (
	"context"
	"errors"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
)

// ExpireMemberships marks lapsed memberships expired, revokes their door access and
// reminds members whose membership ends within ReminderDays. A reminder is recorded
// against the membership end date once queued, so a failed one is retried on the
// next pass and a renewal re-arms it.
func (u *Usecase) ExpireMemberships(ctx context.Context, now time.Time) (entities.ExpiryResult, error) {
	var res entities.ExpiryResult

	ids, err := u.expireLapsed(ctx, now)
	if err != nil {
		u.log.Errorw("failed to expire memberships", "error", err)
		return res, err
	}
	res.Expired = len(ids)
	for _, id := range ids {
		u.revokeExpired(ctx, id)
	}

	expiring, err := u.expiringWithin(ctx, now, now.AddDate(0, 0, u.billing.ReminderDays))
	if err != nil {
		u.log.Errorw("failed to list expiring memberships", "error", err)
		return res, err
	}
	for _, e := range expiring {
		if u.remindExpiring(ctx, e) {
			res.Reminded++
		}
	}

	if res.Expired > 0 || res.Reminded > 0 || len(expiring) > 0 {
		u.log.Infow("membership expiry pass", "expired", res.Expired, "reminded", res.Reminded, "due", len(expiring))
	}
	return res, nil
}

func (u *Usecase) expireLapsed(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ExpireMemberships(ctx, now)
}

func (u *Usecase) expiringWithin(ctx context.Context, from, before time.Time) ([]entities.ExpiringMembership, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ExpiringMemberships(ctx, from, before)
}

func (u *Usecase) revokeExpired(ctx context.Context, id uuid.UUID) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	m, err := u.repo.GetMember(ctx, id)
	if err != nil {
		u.log.Warnw("expired member lookup failed", "member_id", id, "error", err)
		return
	}
	if m.HikvisionPersonID != nil {
		u.refreshAccess(ctx, *m)
	}
}

// remindExpiring reports whether at least one reminder was queued.
func (u *Usecase) remindExpiring(ctx context.Context, e entities.ExpiringMembership) bool {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	end := e.MembershipEnd
	queued := u.notifyMember(ctx, entities.Member{
		ID:            e.MemberID,
		BranchID:      e.BranchID,
		FullName:      e.FullName,
		Email:         e.Email,
		Phone:         e.Phone,
		MembershipEnd: &end,
	}, entities.TemplateMembershipExpiring, nil)
	if !queued {
		return false
	}
	if err := u.repo.MarkExpiryReminded(ctx, e.MemberID, e.MembershipEnd); err != nil {
		u.log.Warnw("failed to record expiry reminder", "member_id", e.MemberID, "error", err)
	}
	return true
}

// RunExpiryJob runs ExpireMemberships immediately and then on every interval tick
// until ctx is cancelled.
func (u *Usecase) RunExpiryJob(ctx context.Context) error {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		if _, err := u.ExpireMemberships(ctx, u.now()); err != nil && !errors.Is(err, context.Canceled) {
			u.log.Errorw("expiry job failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
