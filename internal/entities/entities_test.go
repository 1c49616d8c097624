package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestInvoiceComputeTotals(t *testing.T) {
	inv := Invoice{
		Items: []InvoiceItem{
			{Description: "Monthly plan", Quantity: 1, UnitPrice: dec("1500.00")},
			{Description: "Locker", Quantity: 2, UnitPrice: dec("100")},
		},
		Discount: dec("200"),
		TaxRate:  dec("18"),
	}
	inv.ComputeTotals()

	require.True(t, dec("200.00").Equal(inv.Items[1].Amount), inv.Items[1].Amount.String())
	require.True(t, dec("1700").Equal(inv.Subtotal))
	require.True(t, dec("270").Equal(inv.Tax))
	require.True(t, dec("1770").Equal(inv.Total))
	require.Equal(t, int64(177000), inv.MinorUnits())
}

func TestInvoiceDiscountClamped(t *testing.T) {
	inv := Invoice{
		Items:    []InvoiceItem{{Quantity: 1, UnitPrice: dec("100")}},
		Discount: dec("150"),
		TaxRate:  dec("18"),
	}
	inv.ComputeTotals()
	require.True(t, inv.Discount.Equal(dec("100")))
	require.True(t, inv.Total.IsZero())
}

func TestInvoiceTransitions(t *testing.T) {
	require.True(t, InvoicePending.CanTransition(InvoicePaid))
	require.True(t, InvoiceFailed.CanTransition(InvoicePaid))
	require.True(t, InvoicePaid.CanTransition(InvoiceRefunded))
	require.False(t, InvoicePaid.CanTransition(InvoicePending))
	require.False(t, InvoiceCancelled.CanTransition(InvoicePaid))
	require.False(t, InvoiceDraft.CanTransition(InvoicePaid))
}

func TestPromoCheckAndDiscount(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	base := PromoCode{
		Code:          "SUMMER",
		DiscountType:  DiscountPercentage,
		DiscountValue: dec("20"),
		MinPurchase:   dec("500"),
		MaxUses:       10,
		UsedCount:     3,
		ValidFrom:     &past,
		ValidUntil:    &future,
		IsActive:      true,
	}
	require.NoError(t, base.Validate())

	d, err := base.Apply(dec("1000"), now)
	require.NoError(t, err)
	require.True(t, d.Equal(dec("200")))

	tests := []struct {
		name   string
		mutate func(p *PromoCode)
		amount string
	}{
		{"inactive", func(p *PromoCode) { p.IsActive = false }, "1000"},
		{"not started", func(p *PromoCode) { p.ValidFrom = &future }, "1000"},
		{"expired", func(p *PromoCode) { p.ValidUntil = &past }, "1000"},
		{"exhausted", func(p *PromoCode) { p.UsedCount = 10 }, "1000"},
		{"below minimum", func(p *PromoCode) {}, "499.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := p.Apply(dec(tt.amount), now)
			require.ErrorIs(t, err, ErrPromoInvalid)
		})
	}
}

func TestPromoFixedDiscountCappedAtAmount(t *testing.T) {
	p := PromoCode{Code: "FLAT", DiscountType: DiscountFixed, DiscountValue: dec("750"), IsActive: true}
	require.True(t, p.Discount(dec("500")).Equal(dec("500")))
	require.True(t, p.Discount(dec("1000")).Equal(dec("750")))
}

func TestPromoValidate(t *testing.T) {
	require.ErrorIs(t, PromoCode{DiscountType: DiscountFixed, DiscountValue: dec("1")}.Validate(), ErrInvalidArgument)
	require.ErrorIs(t, PromoCode{Code: "X", DiscountType: DiscountPercentage, DiscountValue: dec("120")}.Validate(), ErrInvalidArgument)
	require.ErrorIs(t, PromoCode{Code: "X", DiscountType: "bogus", DiscountValue: dec("1")}.Validate(), ErrInvalidArgument)
}

func TestMemberExtendMembership(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	plan := MembershipPlan{ID: uuid.New(), DurationDays: 30}

	var fresh Member
	fresh.ExtendMembership(plan, now)
	require.Equal(t, now, *fresh.MembershipStart)
	require.Equal(t, now.AddDate(0, 0, 30), *fresh.MembershipEnd)
	require.Equal(t, MemberActive, fresh.Status)
	require.True(t, fresh.HasActiveMembership(now))

	start := now.AddDate(0, 0, -20)
	end := now.AddDate(0, 0, 10)
	running := Member{MembershipStart: &start, MembershipEnd: &end, Status: MemberActive}
	running.ExtendMembership(plan, now)
	require.Equal(t, start, *running.MembershipStart)
	require.Equal(t, end.AddDate(0, 0, 30), *running.MembershipEnd)

	lapsedEnd := now.AddDate(0, 0, -1)
	lapsed := Member{MembershipStart: &start, MembershipEnd: &lapsedEnd, Status: MemberExpired}
	require.False(t, lapsed.HasActiveMembership(now))
	lapsed.ExtendMembership(plan, now)
	require.Equal(t, now, *lapsed.MembershipStart)
}

func TestActorScopeBranch(t *testing.T) {
	branch := uuid.New()
	other := uuid.New()

	admin := Actor{Role: RoleAdmin}
	got, err := admin.ScopeBranch(&other)
	require.NoError(t, err)
	require.Equal(t, other, *got)
	got, err = admin.ScopeBranch(nil)
	require.NoError(t, err)
	require.Nil(t, got)

	manager := Actor{Role: RoleManager, BranchID: &branch}
	got, err = manager.ScopeBranch(nil)
	require.NoError(t, err)
	require.Equal(t, branch, *got)
	_, err = manager.ScopeBranch(&other)
	require.ErrorIs(t, err, ErrForbidden)
	require.True(t, manager.CanAccessBranch(branch))
	require.False(t, manager.CanAccessBranch(other))

	_, err = Actor{Role: RoleStaff}.ScopeBranch(nil)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{Limit: 1000, Offset: -3}.Normalize()
	require.Equal(t, 200, f.Limit)
	require.Equal(t, 0, f.Offset)
	require.Equal(t, 50, ListFilter{}.Normalize().Limit)
}
