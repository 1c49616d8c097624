package domain

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) CreateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Branch), args.Error(1)
}

func (m *repoMock) GetBranch(ctx context.Context, id uuid.UUID) (*entities.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Branch), args.Error(1)
}

func (m *repoMock) ListBranches(ctx context.Context, activeOnly bool) ([]entities.Branch, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Branch), args.Error(1)
}

func (m *repoMock) UpdateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Branch), args.Error(1)
}

func (m *repoMock) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) GetProfile(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *repoMock) UpsertProfile(ctx context.Context, p entities.Profile) (*entities.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *repoMock) CreateMember(ctx context.Context, mem entities.Member) (*entities.Member, error) {
	args := m.Called(ctx, mem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *repoMock) GetMember(ctx context.Context, id uuid.UUID) (*entities.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *repoMock) GetMemberByReferralCode(ctx context.Context, code string) (*entities.Member, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *repoMock) ListMembers(ctx context.Context, f entities.ListFilter) ([]entities.Member, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Member), args.Error(1)
}

func (m *repoMock) UpdateMember(ctx context.Context, mem entities.Member) (*entities.Member, error) {
	args := m.Called(ctx, mem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *repoMock) DeleteMember(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) ExpiringMemberships(ctx context.Context, from, before time.Time) ([]entities.ExpiringMembership, error) {
	args := m.Called(ctx, from, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ExpiringMembership), args.Error(1)
}

func (m *repoMock) MarkExpiryReminded(ctx context.Context, memberID uuid.UUID, membershipEnd time.Time) error {
	return m.Called(ctx, memberID, membershipEnd).Error(0)
}

func (m *repoMock) SetHikvisionPersonID(ctx context.Context, memberID uuid.UUID, personID string) error {
	return m.Called(ctx, memberID, personID).Error(0)
}

func (m *repoMock) ExpireMemberships(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *repoMock) CreatePlan(ctx context.Context, p entities.MembershipPlan) (*entities.MembershipPlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MembershipPlan), args.Error(1)
}

func (m *repoMock) GetPlan(ctx context.Context, id uuid.UUID) (*entities.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MembershipPlan), args.Error(1)
}

func (m *repoMock) ListPlans(ctx context.Context, branchID *uuid.UUID, activeOnly bool) ([]entities.MembershipPlan, error) {
	args := m.Called(ctx, branchID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.MembershipPlan), args.Error(1)
}

func (m *repoMock) UpdatePlan(ctx context.Context, p entities.MembershipPlan) (*entities.MembershipPlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MembershipPlan), args.Error(1)
}

func (m *repoMock) DeletePlan(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) CreateInvoice(ctx context.Context, inv entities.Invoice) (*entities.Invoice, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *repoMock) GetInvoice(ctx context.Context, id uuid.UUID) (*entities.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *repoMock) GetInvoiceByOrder(ctx context.Context, orderID string) (*entities.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *repoMock) ListInvoices(ctx context.Context, f entities.ListFilter) ([]entities.Invoice, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Invoice), args.Error(1)
}

func (m *repoMock) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status entities.InvoiceStatus) (*entities.Invoice, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *repoMock) SetInvoiceOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	args := m.Called(ctx, id, orderID)
	return args.Error(0)
}

func (m *repoMock) SettleInvoice(ctx context.Context, s entities.Settlement) (*entities.SettlementResult, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SettlementResult), args.Error(1)
}

func (m *repoMock) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) CreateStaff(ctx context.Context, s entities.Staff) (*entities.Staff, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Staff), args.Error(1)
}

func (m *repoMock) GetStaff(ctx context.Context, id uuid.UUID) (*entities.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Staff), args.Error(1)
}

func (m *repoMock) ListStaff(ctx context.Context, f entities.ListFilter) ([]entities.Staff, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Staff), args.Error(1)
}

func (m *repoMock) UpdateStaff(ctx context.Context, s entities.Staff) (*entities.Staff, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Staff), args.Error(1)
}

func (m *repoMock) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) CreateClass(ctx context.Context, c entities.GymClass) (*entities.GymClass, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GymClass), args.Error(1)
}

func (m *repoMock) GetClass(ctx context.Context, id uuid.UUID) (*entities.GymClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GymClass), args.Error(1)
}

func (m *repoMock) ListClasses(ctx context.Context, f entities.ListFilter) ([]entities.GymClass, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.GymClass), args.Error(1)
}

func (m *repoMock) UpdateClass(ctx context.Context, c entities.GymClass) (*entities.GymClass, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GymClass), args.Error(1)
}

func (m *repoMock) DeleteClass(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) BookClass(ctx context.Context, classID, memberID uuid.UUID) (*entities.ClassBooking, error) {
	args := m.Called(ctx, classID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClassBooking), args.Error(1)
}

func (m *repoMock) GetBooking(ctx context.Context, id uuid.UUID) (*entities.ClassBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClassBooking), args.Error(1)
}

func (m *repoMock) CancelBooking(ctx context.Context, id uuid.UUID) (*entities.ClassBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClassBooking), args.Error(1)
}

func (m *repoMock) ListBookings(ctx context.Context, classID uuid.UUID) ([]entities.ClassBooking, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ClassBooking), args.Error(1)
}

func (m *repoMock) CreatePromo(ctx context.Context, p entities.PromoCode) (*entities.PromoCode, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PromoCode), args.Error(1)
}

func (m *repoMock) GetPromo(ctx context.Context, id uuid.UUID) (*entities.PromoCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PromoCode), args.Error(1)
}

func (m *repoMock) GetPromoByCode(ctx context.Context, branchID uuid.UUID, code string) (*entities.PromoCode, error) {
	args := m.Called(ctx, branchID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PromoCode), args.Error(1)
}

func (m *repoMock) ListPromos(ctx context.Context, f entities.ListFilter) ([]entities.PromoCode, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PromoCode), args.Error(1)
}

func (m *repoMock) UpdatePromo(ctx context.Context, p entities.PromoCode) (*entities.PromoCode, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PromoCode), args.Error(1)
}

func (m *repoMock) DeletePromo(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) RedeemPromo(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) CreateReferral(ctx context.Context, r entities.Referral) (*entities.Referral, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Referral), args.Error(1)
}

func (m *repoMock) ListReferrals(ctx context.Context, f entities.ListFilter) ([]entities.Referral, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Referral), args.Error(1)
}

func (m *repoMock) MarkReferralRewarded(ctx context.Context, referredID uuid.UUID, amount decimal.Decimal, at time.Time) (*entities.Referral, error) {
	args := m.Called(ctx, referredID, amount, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Referral), args.Error(1)
}

func (m *repoMock) CreateIncome(ctx context.Context, r entities.IncomeRecord) (*entities.IncomeRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IncomeRecord), args.Error(1)
}

func (m *repoMock) GetIncome(ctx context.Context, id uuid.UUID) (*entities.IncomeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IncomeRecord), args.Error(1)
}

func (m *repoMock) ListIncome(ctx context.Context, f entities.ListFilter) ([]entities.IncomeRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.IncomeRecord), args.Error(1)
}

func (m *repoMock) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) CreateExpense(ctx context.Context, r entities.ExpenseRecord) (*entities.ExpenseRecord, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ExpenseRecord), args.Error(1)
}

func (m *repoMock) GetExpense(ctx context.Context, id uuid.UUID) (*entities.ExpenseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ExpenseRecord), args.Error(1)
}

func (m *repoMock) ListExpenses(ctx context.Context, f entities.ListFilter) ([]entities.ExpenseRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ExpenseRecord), args.Error(1)
}

func (m *repoMock) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) FinanceSummary(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (entities.FinanceSummary, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(entities.FinanceSummary), args.Error(1)
}

func (m *repoMock) MonthlyRevenue(ctx context.Context, branchID *uuid.UUID, from, to time.Time) ([]entities.MonthlyTotal, error) {
	args := m.Called(ctx, branchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.MonthlyTotal), args.Error(1)
}

func (m *repoMock) ListIntegrationStatuses(ctx context.Context, branchID *uuid.UUID) ([]entities.IntegrationStatus, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.IntegrationStatus), args.Error(1)
}

func (m *repoMock) UpsertIntegrationStatus(ctx context.Context, s entities.IntegrationStatus) (*entities.IntegrationStatus, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IntegrationStatus), args.Error(1)
}

func (m *repoMock) GetHikvisionSettings(ctx context.Context, branchID uuid.UUID) (*entities.HikvisionSettings, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HikvisionSettings), args.Error(1)
}

func (m *repoMock) UpsertHikvisionSettings(ctx context.Context, s entities.HikvisionSettings) (*entities.HikvisionSettings, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HikvisionSettings), args.Error(1)
}

func (m *repoMock) ListDevices(ctx context.Context, branchID *uuid.UUID) ([]entities.HikvisionDevice, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.HikvisionDevice), args.Error(1)
}

func (m *repoMock) GetDevice(ctx context.Context, id uuid.UUID) (*entities.HikvisionDevice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HikvisionDevice), args.Error(1)
}

func (m *repoMock) CreateDevice(ctx context.Context, d entities.HikvisionDevice) (*entities.HikvisionDevice, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HikvisionDevice), args.Error(1)
}

func (m *repoMock) UpdateDevice(ctx context.Context, d entities.HikvisionDevice) (*entities.HikvisionDevice, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HikvisionDevice), args.Error(1)
}

func (m *repoMock) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) UpsertDevices(ctx context.Context, branchID uuid.UUID, devices []entities.HikvisionDevice) (int, error) {
	args := m.Called(ctx, branchID, devices)
	return args.Int(0), args.Error(1)
}

func (m *repoMock) ListZones(ctx context.Context, branchID *uuid.UUID) ([]entities.AccessZone, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AccessZone), args.Error(1)
}

func (m *repoMock) GetZone(ctx context.Context, id uuid.UUID) (*entities.AccessZone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AccessZone), args.Error(1)
}

func (m *repoMock) CreateZone(ctx context.Context, z entities.AccessZone) (*entities.AccessZone, error) {
	args := m.Called(ctx, z)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AccessZone), args.Error(1)
}

func (m *repoMock) DeleteZone(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) ListDoors(ctx context.Context, branchID *uuid.UUID) ([]entities.AccessDoor, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AccessDoor), args.Error(1)
}

func (m *repoMock) GetDoor(ctx context.Context, id uuid.UUID) (*entities.AccessDoor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AccessDoor), args.Error(1)
}

func (m *repoMock) CreateDoor(ctx context.Context, d entities.AccessDoor) (*entities.AccessDoor, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AccessDoor), args.Error(1)
}

func (m *repoMock) DeleteDoor(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) ListTemplates(ctx context.Context, branchID *uuid.UUID) ([]entities.NotificationTemplate, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.NotificationTemplate), args.Error(1)
}

func (m *repoMock) GetTemplate(ctx context.Context, id uuid.UUID) (*entities.NotificationTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NotificationTemplate), args.Error(1)
}

func (m *repoMock) FindTemplate(ctx context.Context, branchID uuid.UUID, key string, ch entities.Channel) (*entities.NotificationTemplate, error) {
	args := m.Called(ctx, branchID, key, ch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NotificationTemplate), args.Error(1)
}

func (m *repoMock) CreateTemplate(ctx context.Context, t entities.NotificationTemplate) (*entities.NotificationTemplate, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NotificationTemplate), args.Error(1)
}

func (m *repoMock) UpdateTemplate(ctx context.Context, t entities.NotificationTemplate) (*entities.NotificationTemplate, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NotificationTemplate), args.Error(1)
}

func (m *repoMock) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) CreateNotification(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(entities.Notification) *entities.Notification); ok {
		return fn(n), args.Error(1)
	}
	return args.Get(0).(*entities.Notification), args.Error(1)
}

func (m *repoMock) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus, errMsg string, at time.Time) error {
	args := m.Called(ctx, id, status, errMsg, at)
	return args.Error(0)
}

func (m *repoMock) ListNotifications(ctx context.Context, f entities.ListFilter) ([]entities.Notification, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Notification), args.Error(1)
}

func (m *repoMock) CreateFeedback(ctx context.Context, f entities.Feedback) (*entities.Feedback, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Feedback), args.Error(1)
}

func (m *repoMock) GetFeedback(ctx context.Context, id uuid.UUID) (*entities.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Feedback), args.Error(1)
}

func (m *repoMock) ListFeedback(ctx context.Context, f entities.ListFilter) ([]entities.Feedback, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Feedback), args.Error(1)
}

func (m *repoMock) ResolveFeedback(ctx context.Context, id uuid.UUID, response string, at time.Time) (*entities.Feedback, error) {
	args := m.Called(ctx, id, response, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Feedback), args.Error(1)
}

func (m *repoMock) GetSection(ctx context.Context, key string) (*entities.WebsiteSection, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebsiteSection), args.Error(1)
}

func (m *repoMock) ListSections(ctx context.Context, publishedOnly bool) ([]entities.WebsiteSection, error) {
	args := m.Called(ctx, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.WebsiteSection), args.Error(1)
}

func (m *repoMock) UpsertSection(ctx context.Context, s entities.WebsiteSection) (*entities.WebsiteSection, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebsiteSection), args.Error(1)
}

func (m *repoMock) CountMembers(ctx context.Context, branchID *uuid.UUID, status entities.MemberStatus) (int64, error) {
	args := m.Called(ctx, branchID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CountNewMembers(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CountExpiring(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CountBookings(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CountOpenFeedback(ctx context.Context, branchID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) SumIncome(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *repoMock) SumExpense(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, branchID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
