package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	memberColumns = `id, branch_id, full_name, email, phone, gender, date_of_birth, status,
membership_id, membership_start, membership_end, referral_code, referred_by,
access_card_no, hikvision_person_id, created_at, updated_at`
	insertMemberQuery = `
INSERT INTO members(id, branch_id, full_name, email, phone, gender, date_of_birth, status,
    membership_id, membership_start, membership_end, referral_code, referred_by,
    access_card_no, hikvision_person_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
RETURNING ` + memberColumns
	selectMemberQuery          = `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	selectMemberByReferralCode = `SELECT ` + memberColumns + ` FROM members WHERE referral_code = upper($1)`
	updateMemberQuery          = `
UPDATE members
SET full_name = $2, email = $3, phone = $4, gender = $5, date_of_birth = $6, status = $7,
    membership_id = $8, membership_start = $9, membership_end = $10,
    access_card_no = $11, hikvision_person_id = $12, updated_at = $13
WHERE id = $1
RETURNING ` + memberColumns
	deleteMemberQuery        = `DELETE FROM members WHERE id = $1`
	expiringMembershipsQuery = `
SELECT id, branch_id, full_name, email, phone, membership_end
FROM members
WHERE status = 'active' AND membership_end >= $1 AND membership_end < $2
  AND expiry_reminded_for IS DISTINCT FROM membership_end
ORDER BY membership_end`
	markExpiryRemindedQuery = `UPDATE members SET expiry_reminded_for = $2 WHERE id = $1`
	setHikvisionPersonQuery = `UPDATE members SET hikvision_person_id = $2, updated_at = $3 WHERE id = $1`
	expireMembershipsQuery = `
UPDATE members
SET status = 'expired', updated_at = $1
WHERE status = 'active' AND membership_end IS NOT NULL AND membership_end <= $1
RETURNING id`

	planColumns     = `id, branch_id, name, description, duration_days, price, is_active, created_at, updated_at`
	insertPlanQuery = `
INSERT INTO memberships(id, branch_id, name, description, duration_days, price, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING ` + planColumns
	selectPlanQuery = `SELECT ` + planColumns + ` FROM memberships WHERE id = $1`
	listPlansQuery  = `
SELECT ` + planColumns + `
FROM memberships
WHERE ($1::uuid IS NULL OR branch_id = $1) AND ($2 = false OR is_active)
ORDER BY price, name`
	updatePlanQuery = `
UPDATE memberships
SET name = $2, description = $3, duration_days = $4, price = $5, is_active = $6, updated_at = $7
WHERE id = $1
RETURNING ` + planColumns
	deletePlanQuery = `DELETE FROM memberships WHERE id = $1`
)

func scanMember(row pgx.Row) (entities.Member, error) {
	var m entities.Member
	err := row.Scan(
		&m.ID, &m.BranchID, &m.FullName, &m.Email, &m.Phone, &m.Gender, &m.DateOfBirth, &m.Status,
		&m.MembershipID, &m.MembershipStart, &m.MembershipEnd, &m.ReferralCode, &m.ReferredBy,
		&m.AccessCardNo, &m.HikvisionPersonID, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// CreateMember inserts a member.
func (p *Postgres) CreateMember(ctx context.Context, m entities.Member) (*entities.Member, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	created, err := scanMember(p.db.QueryRow(ctx, insertMemberQuery,
		m.ID, m.BranchID, m.FullName, m.Email, m.Phone, m.Gender, m.DateOfBirth, m.Status,
		m.MembershipID, m.MembershipStart, m.MembershipEnd, m.ReferralCode, m.ReferredBy,
		m.AccessCardNo, m.HikvisionPersonID, time.Now().UTC(),
	))
	if err != nil {
		p.log.Errorw("failed to create member", "error", err, "branch_id", m.BranchID)
		return nil, mapError(err, "create member")
	}
	p.log.Infow("member created", "member_id", created.ID, "branch_id", created.BranchID)
	return &created, nil
}

// GetMember returns a member by id.
func (p *Postgres) GetMember(ctx context.Context, id uuid.UUID) (*entities.Member, error) {
	m, err := scanMember(p.db.QueryRow(ctx, selectMemberQuery, id))
	if err != nil {
		return nil, mapError(err, "get member")
	}
	return &m, nil
}

// GetMemberByReferralCode returns the member owning code.
func (p *Postgres) GetMemberByReferralCode(ctx context.Context, code string) (*entities.Member, error) {
	m, err := scanMember(p.db.QueryRow(ctx, selectMemberByReferralCode, code))
	if err != nil {
		return nil, mapError(err, "get member by referral code")
	}
	return &m, nil
}

// ListMembers filters by branch, status and a name/email/phone search.
func (p *Postgres) ListMembers(ctx context.Context, f entities.ListFilter) ([]entities.Member, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("(full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", "%"+f.Search+"%")
	}
	query := `SELECT ` + memberColumns + ` FROM members` + w.sql() + ` ORDER BY created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		p.log.Errorw("failed to list members", "error", err)
		return nil, mapError(err, "list members")
	}
	return collect(rows, "members", func(r pgx.Rows) (entities.Member, error) { return scanMember(r) })
}

// UpdateMember overwrites mutable member fields.
func (p *Postgres) UpdateMember(ctx context.Context, m entities.Member) (*entities.Member, error) {
	return p.updateMember(ctx, p.db, m)
}

func (p *Postgres) updateMember(ctx context.Context, q querier, m entities.Member) (*entities.Member, error) {
	updated, err := scanMember(q.QueryRow(ctx, updateMemberQuery,
		m.ID, m.FullName, m.Email, m.Phone, m.Gender, m.DateOfBirth, m.Status,
		m.MembershipID, m.MembershipStart, m.MembershipEnd,
		m.AccessCardNo, m.HikvisionPersonID, time.Now().UTC(),
	))
	if err != nil {
		p.log.Errorw("failed to update member", "error", err, "member_id", m.ID)
		return nil, mapError(err, "update member")
	}
	return &updated, nil
}

// DeleteMember removes a member.
func (p *Postgres) DeleteMember(ctx context.Context, id uuid.UUID) error {
	if err := execOne(ctx, p.db, "delete member", deleteMemberQuery, id); err != nil {
		return err
	}
	p.log.Infow("member deleted", "member_id", id)
	return nil
}

// ExpiringMemberships returns active memberships ending in [from, before).
func (p *Postgres) ExpiringMemberships(ctx context.Context, from, before time.Time) ([]entities.ExpiringMembership, error) {
	rows, err := p.db.Query(ctx, expiringMembershipsQuery, from, before)
	if err != nil {
		return nil, mapError(err, "expiring memberships")
	}
	return collect(rows, "expiring memberships", func(r pgx.Rows) (entities.ExpiringMembership, error) {
		var e entities.ExpiringMembership
		err := r.Scan(&e.MemberID, &e.BranchID, &e.FullName, &e.Email, &e.Phone, &e.MembershipEnd)
		return e, err
	})
}

// MarkExpiryReminded records that the reminder for the membership ending at
// membershipEnd went out. Renewing moves membership_end and re-arms the reminder.
func (p *Postgres) MarkExpiryReminded(ctx context.Context, memberID uuid.UUID, membershipEnd time.Time) error {
	return execOne(ctx, p.db, "mark expiry reminded", markExpiryRemindedQuery, memberID, membershipEnd.UTC())
}

// SetHikvisionPersonID stores the access-control person id of a member.
func (p *Postgres) SetHikvisionPersonID(ctx context.Context, memberID uuid.UUID, personID string) error {
	return execOne(ctx, p.db, "set hikvision person", setHikvisionPersonQuery, memberID, personID, time.Now().UTC())
}

// ExpireMemberships flips active members whose membership ended to expired.
func (p *Postgres) ExpireMemberships(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := p.db.Query(ctx, expireMembershipsQuery, now)
	if err != nil {
		p.log.Errorw("failed to expire memberships", "error", err)
		return nil, mapError(err, "expire memberships")
	}
	ids, err := collect(rows, "expired members", func(r pgx.Rows) (uuid.UUID, error) {
		var id uuid.UUID
		err := r.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		p.log.Infow("memberships expired", "count", len(ids))
	}
	return ids, nil
}

func scanPlan(row pgx.Row) (entities.MembershipPlan, error) {
	var pl entities.MembershipPlan
	err := row.Scan(&pl.ID, &pl.BranchID, &pl.Name, &pl.Description, &pl.DurationDays, &pl.Price, &pl.IsActive, &pl.CreatedAt, &pl.UpdatedAt)
	return pl, err
}

// CreatePlan inserts a membership plan.
func (p *Postgres) CreatePlan(ctx context.Context, pl entities.MembershipPlan) (*entities.MembershipPlan, error) {
	if pl.ID == uuid.Nil {
		pl.ID = uuid.New()
	}
	created, err := scanPlan(p.db.QueryRow(ctx, insertPlanQuery,
		pl.ID, pl.BranchID, pl.Name, pl.Description, pl.DurationDays, pl.Price.Round(2), pl.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create plan", "error", err, "branch_id", pl.BranchID)
		return nil, mapError(err, "create plan")
	}
	p.log.Infow("plan created", "plan_id", created.ID, "branch_id", created.BranchID)
	return &created, nil
}

// GetPlan returns a plan by id.
func (p *Postgres) GetPlan(ctx context.Context, id uuid.UUID) (*entities.MembershipPlan, error) {
	return p.getPlan(ctx, p.db, id)
}

func (p *Postgres) getPlan(ctx context.Context, q querier, id uuid.UUID) (*entities.MembershipPlan, error) {
	pl, err := scanPlan(q.QueryRow(ctx, selectPlanQuery, id))
	if err != nil {
		return nil, mapError(err, "get plan")
	}
	return &pl, nil
}

// ListPlans lists plans of a branch, or of every branch when branchID is nil.
func (p *Postgres) ListPlans(ctx context.Context, branchID *uuid.UUID, activeOnly bool) ([]entities.MembershipPlan, error) {
	rows, err := p.db.Query(ctx, listPlansQuery, branchID, activeOnly)
	if err != nil {
		return nil, mapError(err, "list plans")
	}
	return collect(rows, "plans", func(r pgx.Rows) (entities.MembershipPlan, error) { return scanPlan(r) })
}

// UpdatePlan overwrites mutable plan fields.
func (p *Postgres) UpdatePlan(ctx context.Context, pl entities.MembershipPlan) (*entities.MembershipPlan, error) {
	updated, err := scanPlan(p.db.QueryRow(ctx, updatePlanQuery,
		pl.ID, pl.Name, pl.Description, pl.DurationDays, pl.Price.Round(2), pl.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to update plan", "error", err, "plan_id", pl.ID)
		return nil, mapError(err, "update plan")
	}
	return &updated, nil
}

// DeletePlan removes a plan.
func (p *Postgres) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete plan", deletePlanQuery, id)
}
