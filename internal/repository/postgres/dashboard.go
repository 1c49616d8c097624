package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	countMembersQuery = `
SELECT count(*) FROM members
WHERE ($1::uuid IS NULL OR branch_id = $1) AND ($2 = '' OR status = $2)`
	countNewMembersQuery = `
SELECT count(*) FROM members
WHERE ($1::uuid IS NULL OR branch_id = $1) AND created_at >= $2 AND created_at < $3`
	countExpiringQuery = `
SELECT count(*) FROM members
WHERE ($1::uuid IS NULL OR branch_id = $1) AND status = 'active' AND membership_end >= $2 AND membership_end < $3`
	countBookingsQuery = `
SELECT count(*)
FROM class_bookings b
JOIN gym_classes c ON c.id = b.class_id
WHERE ($1::uuid IS NULL OR c.branch_id = $1) AND b.status <> 'cancelled' AND c.starts_at >= $2 AND c.starts_at < $3`
	countOpenFeedbackQuery = `
SELECT count(*) FROM feedback
WHERE ($1::uuid IS NULL OR branch_id = $1) AND status = 'open'`
	sumIncomeQuery = `
SELECT COALESCE(sum(amount), 0) FROM income_records
WHERE ($1::uuid IS NULL OR branch_id = $1) AND date >= $2 AND date < $3`
	sumExpenseQuery = `
SELECT COALESCE(sum(amount), 0) FROM expense_records
WHERE ($1::uuid IS NULL OR branch_id = $1) AND date >= $2 AND date < $3`
)

func (p *Postgres) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := p.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		p.log.Errorw("failed to count", "error", err, "op", op)
		return 0, mapError(err, op)
	}
	return n, nil
}

func (p *Postgres) sum(ctx context.Context, op, query string, args ...any) (decimal.Decimal, error) {
	var d decimal.Decimal
	if err := p.db.QueryRow(ctx, query, args...).Scan(&d); err != nil {
		p.log.Errorw("failed to sum", "error", err, "op", op)
		return decimal.Zero, mapError(err, op)
	}
	return d, nil
}

// CountMembers counts members, optionally by status.
func (p *Postgres) CountMembers(ctx context.Context, branchID *uuid.UUID, status entities.MemberStatus) (int64, error) {
	return p.count(ctx, "count members", countMembersQuery, branchID, string(status))
}

// CountNewMembers counts members created in [from, to).
func (p *Postgres) CountNewMembers(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error) {
	return p.count(ctx, "count new members", countNewMembersQuery, branchID, from, to)
}

// CountExpiring counts active memberships ending in [from, to).
func (p *Postgres) CountExpiring(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error) {
	return p.count(ctx, "count expiring", countExpiringQuery, branchID, from, to)
}

// CountBookings counts live bookings of classes starting in [from, to).
func (p *Postgres) CountBookings(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error) {
	return p.count(ctx, "count bookings", countBookingsQuery, branchID, from, to)
}

// CountOpenFeedback counts unresolved feedback.
func (p *Postgres) CountOpenFeedback(ctx context.Context, branchID *uuid.UUID) (int64, error) {
	return p.count(ctx, "count open feedback", countOpenFeedbackQuery, branchID)
}

// SumIncome totals income in [from, to).
func (p *Postgres) SumIncome(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	return p.sum(ctx, "sum income", sumIncomeQuery, branchID, from, to)
}

// SumExpense totals expenses in [from, to).
func (p *Postgres) SumExpense(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	return p.sum(ctx, "sum expense", sumExpenseQuery, branchID, from, to)
}
