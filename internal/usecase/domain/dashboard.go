package domain

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Dashboard computes branch analytics over [from, to). The counters are queried concurrently.
func (u *Usecase) Dashboard(ctx context.Context, actor entities.Actor, branchID *uuid.UUID, from, to time.Time) (entities.DashboardStats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return entities.DashboardStats{}, err
	}
	scoped, err := actor.ScopeBranch(branchID)
	if err != nil {
		return entities.DashboardStats{}, err
	}
	from, to, err = u.period(from, to)
	if err != nil {
		return entities.DashboardStats{}, err
	}

	stats := entities.DashboardStats{BranchID: scoped, From: from, To: to}
	now := u.now()
	soon := now.AddDate(0, 0, u.billing.ReminderDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ActiveMembers, err = u.repo.CountMembers(gctx, scoped, entities.MemberActive)
		return err
	})
	g.Go(func() (err error) {
		stats.NewMembers, err = u.repo.CountNewMembers(gctx, scoped, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.ExpiringSoon, err = u.repo.CountExpiring(gctx, scoped, now, soon)
		return err
	})
	g.Go(func() (err error) {
		stats.ClassBookings, err = u.repo.CountBookings(gctx, scoped, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.OpenFeedback, err = u.repo.CountOpenFeedback(gctx, scoped)
		return err
	})
	g.Go(func() (err error) {
		stats.Revenue, err = u.repo.SumIncome(gctx, scoped, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.Expenses, err = u.repo.SumExpense(gctx, scoped, from, to)
		return err
	})
	g.Go(func() (err error) {
		stats.RevenueByMonth, err = u.repo.MonthlyRevenue(gctx, scoped, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Errorw("failed to build dashboard", "error", err)
		return entities.DashboardStats{}, err
	}
	stats.Net = stats.Revenue.Sub(stats.Expenses)
	return stats, nil
}
