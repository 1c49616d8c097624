package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
)

const referralCodeAttempts = 3

// CreateMember registers a member, links the referrer when a referral code is given
// and queues the welcome message.
func (u *Usecase) CreateMember(ctx context.Context, actor entities.Actor, m entities.Member, referralCode string) (*entities.Member, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, m.BranchID); err != nil {
		return nil, err
	}
	if err := validateMember(&m); err != nil {
		u.log.Errorw("failed to create member", "error", err)
		return nil, err
	}
	if m.Status == "" {
		m.Status = entities.MemberInactive
	}

	var referrer *entities.Member
	if code := strings.TrimSpace(referralCode); code != "" {
		r, err := u.repo.GetMemberByReferralCode(ctx, code)
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown referral code %q", entities.ErrInvalidArgument, code)
		}
		if err != nil {
			return nil, err
		}
		referrer = r
		m.ReferredBy = &r.ID
	}

	var (
		created *entities.Member
		err     error
	)
	for i := 0; i < referralCodeAttempts; i++ {
		m.ReferralCode = newReferralCode(m.FullName)
		created, err = u.repo.CreateMember(ctx, m)
		if !errors.Is(err, entities.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if referrer != nil {
		if _, err := u.repo.CreateReferral(ctx, entities.Referral{
			BranchID:   created.BranchID,
			ReferrerID: referrer.ID,
			ReferredID: created.ID,
			Status:     entities.ReferralPending,
		}); err != nil {
			u.log.Errorw("failed to record referral", "member_id", created.ID, "referrer_id", referrer.ID, "error", err)
		}
	}

	u.notifyMember(ctx, *created, entities.TemplateWelcome, nil)
	return created, nil
}

// Member returns a member of the actor's branch.
func (u *Usecase) Member(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Member, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, coaching...); err != nil {
		return nil, err
	}
	m, err := u.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, m.BranchID); err != nil {
		return nil, err
	}
	return m, nil
}

// Members lists members filtered by branch, status and a name/email/phone search.
func (u *Usecase) Members(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Member, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, coaching...); err != nil {
		return nil, err
	}
	if f.Status != "" && !entities.MemberStatus(f.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, f.Status)
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListMembers(ctx, f)
}

// UpdateMember updates a member's profile and status. Membership dates are kept
// unless explicitly given.
func (u *Usecase) UpdateMember(ctx context.Context, actor entities.Actor, m entities.Member) (*entities.Member, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	current, err := u.repo.GetMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, current.BranchID); err != nil {
		return nil, err
	}
	if err := validateMember(&m); err != nil {
		return nil, err
	}

	m.BranchID = current.BranchID
	m.ReferralCode = current.ReferralCode
	m.ReferredBy = current.ReferredBy
	if m.Status == "" {
		m.Status = current.Status
	}
	if m.MembershipID == nil {
		m.MembershipID = current.MembershipID
	}
	if m.MembershipStart == nil {
		m.MembershipStart = current.MembershipStart
	}
	if m.MembershipEnd == nil {
		m.MembershipEnd = current.MembershipEnd
	}
	if m.HikvisionPersonID == nil {
		m.HikvisionPersonID = current.HikvisionPersonID
	}
	return u.repo.UpdateMember(ctx, m)
}

// DeleteMember removes a member.
func (u *Usecase) DeleteMember(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	m, err := u.repo.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, m.BranchID); err != nil {
		return err
	}
	return u.repo.DeleteMember(ctx, id)
}

// CreatePlan adds a membership plan to a branch catalogue.
func (u *Usecase) CreatePlan(ctx context.Context, actor entities.Actor, p entities.MembershipPlan) (*entities.MembershipPlan, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, p.BranchID); err != nil {
		return nil, err
	}
	if err := validatePlan(&p); err != nil {
		u.log.Errorw("failed to create plan", "error", err)
		return nil, err
	}
	return u.repo.CreatePlan(ctx, p)
}

// Plan returns a plan.
func (u *Usecase) Plan(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.MembershipPlan, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	p, err := u.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, p.BranchID); err != nil {
		return nil, err
	}
	return p, nil
}

// Plans lists plans of the actor's branch.
func (u *Usecase) Plans(ctx context.Context, actor entities.Actor, branchID *uuid.UUID, activeOnly bool) ([]entities.MembershipPlan, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	scoped, err := actor.ScopeBranch(branchID)
	if err != nil {
		return nil, err
	}
	return u.repo.ListPlans(ctx, scoped, activeOnly)
}

// PublicPlans lists the active plans of a branch for the public website.
func (u *Usecase) PublicPlans(ctx context.Context, branchID uuid.UUID) ([]entities.MembershipPlan, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID(branchID, "branch id"); err != nil {
		return nil, err
	}
	return u.repo.ListPlans(ctx, &branchID, true)
}

// UpdatePlan updates a plan. The branch cannot change.
func (u *Usecase) UpdatePlan(ctx context.Context, actor entities.Actor, p entities.MembershipPlan) (*entities.MembershipPlan, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	current, err := u.repo.GetPlan(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, current.BranchID); err != nil {
		return nil, err
	}
	p.BranchID = current.BranchID
	if err := validatePlan(&p); err != nil {
		return nil, err
	}
	return u.repo.UpdatePlan(ctx, p)
}

// DeletePlan removes a plan.
func (u *Usecase) DeletePlan(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	p, err := u.repo.GetPlan(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, p.BranchID); err != nil {
		return err
	}
	return u.repo.DeletePlan(ctx, id)
}

func validateMember(m *entities.Member) error {
	m.FullName = strings.TrimSpace(m.FullName)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Phone = strings.TrimSpace(m.Phone)
	switch {
	case m.FullName == "":
		return fmt.Errorf("%w: full_name is required", entities.ErrInvalidArgument)
	case m.Email == "" && m.Phone == "":
		return fmt.Errorf("%w: email or phone is required", entities.ErrInvalidArgument)
	case m.Email != "" && !strings.Contains(m.Email, "@"):
		return fmt.Errorf("%w: malformed email", entities.ErrInvalidArgument)
	case m.Status != "" && !m.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, m.Status)
	}
	return nil
}

func validatePlan(p *entities.MembershipPlan) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	case p.DurationDays <= 0:
		return fmt.Errorf("%w: duration_days must be positive", entities.ErrInvalidArgument)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", entities.ErrInvalidArgument)
	}
	p.Price = p.Price.Round(2)
	return nil
}

// newReferralCode builds a code from up to four letters of the name and a random suffix.
func newReferralCode(name string) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			prefix.WriteRune(r)
			if prefix.Len() == 4 {
				break
			}
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("GYM")
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix.String() + suffix
}
