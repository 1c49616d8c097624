package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
)

// CreateIncome books an income record.
func (u *Usecase) CreateIncome(ctx context.Context, actor entities.Actor, r entities.IncomeRecord) (*entities.IncomeRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, r.BranchID); err != nil {
		return nil, err
	}
	if err := validateMoneyRecord(&r.Category, &r.Date, r.Amount.IsPositive(), u.now()); err != nil {
		return nil, err
	}
	r.Amount = r.Amount.Round(2)
	return u.repo.CreateIncome(ctx, r)
}

// Income lists income records; Status filters by category.
func (u *Usecase) Income(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.IncomeRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListIncome(ctx, f)
}

// DeleteIncome removes a manual income record. Records booked from invoices stay.
func (u *Usecase) DeleteIncome(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	r, err := u.repo.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, r.BranchID); err != nil {
		return err
	}
	if r.InvoiceID != nil {
		return fmt.Errorf("%w: income of invoice %s cannot be deleted", entities.ErrConflict, *r.InvoiceID)
	}
	return u.repo.DeleteIncome(ctx, id)
}

// CreateExpense books an expense record.
func (u *Usecase) CreateExpense(ctx context.Context, actor entities.Actor, r entities.ExpenseRecord) (*entities.ExpenseRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, r.BranchID); err != nil {
		return nil, err
	}
	if err := validateMoneyRecord(&r.Category, &r.Date, r.Amount.IsPositive(), u.now()); err != nil {
		return nil, err
	}
	r.Amount = r.Amount.Round(2)
	return u.repo.CreateExpense(ctx, r)
}

// Expenses lists expense records; Status filters by category.
func (u *Usecase) Expenses(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.ExpenseRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListExpenses(ctx, f)
}

// DeleteExpense removes an expense record.
func (u *Usecase) DeleteExpense(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	r, err := u.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, r.BranchID); err != nil {
		return err
	}
	return u.repo.DeleteExpense(ctx, id)
}

// FinanceSummary totals income and expenses per category over [from, to).
func (u *Usecase) FinanceSummary(ctx context.Context, actor entities.Actor, branchID *uuid.UUID, from, to time.Time) (entities.FinanceSummary, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return entities.FinanceSummary{}, err
	}
	scoped, err := actor.ScopeBranch(branchID)
	if err != nil {
		return entities.FinanceSummary{}, err
	}
	from, to, err = u.period(from, to)
	if err != nil {
		return entities.FinanceSummary{}, err
	}
	return u.repo.FinanceSummary(ctx, scoped, from, to)
}

// period defaults an empty range to the current month and rejects inverted ones.
func (u *Usecase) period(from, to time.Time) (time.Time, time.Time, error) {
	if from.IsZero() && to.IsZero() {
		now := u.now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), nil
	}
	if to.IsZero() {
		to = u.now()
	}
	if !to.After(from) {
		return from, to, fmt.Errorf("%w: to must be after from", entities.ErrInvalidArgument)
	}
	return from, to, nil
}

func validateMoneyRecord(category *string, date *time.Time, positive bool, now time.Time) error {
	*category = strings.ToLower(strings.TrimSpace(*category))
	if *category == "" {
		return fmt.Errorf("%w: category is required", entities.ErrInvalidArgument)
	}
	if !positive {
		return fmt.Errorf("%w: amount must be positive", entities.ErrInvalidArgument)
	}
	if date.IsZero() {
		*date = now
	}
	return nil
}
