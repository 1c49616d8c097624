// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// BranchInterface exposes branch and profile operations.
type BranchInterface interface {
	CreateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*entities.Branch, error)
	ListBranches(ctx context.Context, activeOnly bool) ([]entities.Branch, error)
	UpdateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error)
	DeleteBranch(ctx context.Context, id uuid.UUID) error

	GetProfile(ctx context.Context, id uuid.UUID) (*entities.Profile, error)
	UpsertProfile(ctx context.Context, p entities.Profile) (*entities.Profile, error)
}

// MemberInterface exposes member and membership plan operations.
type MemberInterface interface {
	CreateMember(ctx context.Context, m entities.Member) (*entities.Member, error)
	GetMember(ctx context.Context, id uuid.UUID) (*entities.Member, error)
	GetMemberByReferralCode(ctx context.Context, code string) (*entities.Member, error)
	ListMembers(ctx context.Context, f entities.ListFilter) ([]entities.Member, error)
	UpdateMember(ctx context.Context, m entities.Member) (*entities.Member, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error
	ExpiringMemberships(ctx context.Context, from, before time.Time) ([]entities.ExpiringMembership, error)
	MarkExpiryReminded(ctx context.Context, memberID uuid.UUID, membershipEnd time.Time) error
	SetHikvisionPersonID(ctx context.Context, memberID uuid.UUID, personID string) error
	ExpireMemberships(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	CreatePlan(ctx context.Context, p entities.MembershipPlan) (*entities.MembershipPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*entities.MembershipPlan, error)
	ListPlans(ctx context.Context, branchID *uuid.UUID, activeOnly bool) ([]entities.MembershipPlan, error)
	UpdatePlan(ctx context.Context, p entities.MembershipPlan) (*entities.MembershipPlan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
}

// InvoiceInterface exposes billing operations.
type InvoiceInterface interface {
	CreateInvoice(ctx context.Context, inv entities.Invoice) (*entities.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*entities.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID string) (*entities.Invoice, error)
	ListInvoices(ctx context.Context, f entities.ListFilter) ([]entities.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status entities.InvoiceStatus) (*entities.Invoice, error)
	SetInvoiceOrder(ctx context.Context, id uuid.UUID, orderID string) error
	SettleInvoice(ctx context.Context, s entities.Settlement) (*entities.SettlementResult, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

// StaffInterface exposes staff operations.
type StaffInterface interface {
	CreateStaff(ctx context.Context, s entities.Staff) (*entities.Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*entities.Staff, error)
	ListStaff(ctx context.Context, f entities.ListFilter) ([]entities.Staff, error)
	UpdateStaff(ctx context.Context, s entities.Staff) (*entities.Staff, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error
}

// ClassInterface exposes class scheduling operations.
type ClassInterface interface {
	CreateClass(ctx context.Context, c entities.GymClass) (*entities.GymClass, error)
	GetClass(ctx context.Context, id uuid.UUID) (*entities.GymClass, error)
	ListClasses(ctx context.Context, f entities.ListFilter) ([]entities.GymClass, error)
	UpdateClass(ctx context.Context, c entities.GymClass) (*entities.GymClass, error)
	DeleteClass(ctx context.Context, id uuid.UUID) error
	BookClass(ctx context.Context, classID, memberID uuid.UUID) (*entities.ClassBooking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*entities.ClassBooking, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (*entities.ClassBooking, error)
	ListBookings(ctx context.Context, classID uuid.UUID) ([]entities.ClassBooking, error)
}

// PromoInterface exposes promo code and referral operations.
type PromoInterface interface {
	CreatePromo(ctx context.Context, p entities.PromoCode) (*entities.PromoCode, error)
	GetPromo(ctx context.Context, id uuid.UUID) (*entities.PromoCode, error)
	GetPromoByCode(ctx context.Context, branchID uuid.UUID, code string) (*entities.PromoCode, error)
	ListPromos(ctx context.Context, f entities.ListFilter) ([]entities.PromoCode, error)
	UpdatePromo(ctx context.Context, p entities.PromoCode) (*entities.PromoCode, error)
	DeletePromo(ctx context.Context, id uuid.UUID) error
	RedeemPromo(ctx context.Context, id uuid.UUID) error

	CreateReferral(ctx context.Context, r entities.Referral) (*entities.Referral, error)
	ListReferrals(ctx context.Context, f entities.ListFilter) ([]entities.Referral, error)
	MarkReferralRewarded(ctx context.Context, referredID uuid.UUID, amount decimal.Decimal, at time.Time) (*entities.Referral, error)
}

// FinanceInterface exposes income and expense bookkeeping.
type FinanceInterface interface {
	CreateIncome(ctx context.Context, r entities.IncomeRecord) (*entities.IncomeRecord, error)
	GetIncome(ctx context.Context, id uuid.UUID) (*entities.IncomeRecord, error)
	ListIncome(ctx context.Context, f entities.ListFilter) ([]entities.IncomeRecord, error)
	DeleteIncome(ctx context.Context, id uuid.UUID) error
	CreateExpense(ctx context.Context, r entities.ExpenseRecord) (*entities.ExpenseRecord, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*entities.ExpenseRecord, error)
	ListExpenses(ctx context.Context, f entities.ListFilter) ([]entities.ExpenseRecord, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	FinanceSummary(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (entities.FinanceSummary, error)
	MonthlyRevenue(ctx context.Context, branchID *uuid.UUID, from, to time.Time) ([]entities.MonthlyTotal, error)
}

// IntegrationInterface exposes integration state and access-control inventory.
type IntegrationInterface interface {
	ListIntegrationStatuses(ctx context.Context, branchID *uuid.UUID) ([]entities.IntegrationStatus, error)
	UpsertIntegrationStatus(ctx context.Context, s entities.IntegrationStatus) (*entities.IntegrationStatus, error)
	GetHikvisionSettings(ctx context.Context, branchID uuid.UUID) (*entities.HikvisionSettings, error)
	UpsertHikvisionSettings(ctx context.Context, s entities.HikvisionSettings) (*entities.HikvisionSettings, error)

	ListDevices(ctx context.Context, branchID *uuid.UUID) ([]entities.HikvisionDevice, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*entities.HikvisionDevice, error)
	CreateDevice(ctx context.Context, d entities.HikvisionDevice) (*entities.HikvisionDevice, error)
	UpdateDevice(ctx context.Context, d entities.HikvisionDevice) (*entities.HikvisionDevice, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	UpsertDevices(ctx context.Context, branchID uuid.UUID, devices []entities.HikvisionDevice) (int, error)

	ListZones(ctx context.Context, branchID *uuid.UUID) ([]entities.AccessZone, error)
	GetZone(ctx context.Context, id uuid.UUID) (*entities.AccessZone, error)
	CreateZone(ctx context.Context, z entities.AccessZone) (*entities.AccessZone, error)
	DeleteZone(ctx context.Context, id uuid.UUID) error
	ListDoors(ctx context.Context, branchID *uuid.UUID) ([]entities.AccessDoor, error)
	GetDoor(ctx context.Context, id uuid.UUID) (*entities.AccessDoor, error)
	CreateDoor(ctx context.Context, d entities.AccessDoor) (*entities.AccessDoor, error)
	DeleteDoor(ctx context.Context, id uuid.UUID) error
}

// NotificationInterface exposes templates, outbound notifications and feedback.
type NotificationInterface interface {
	ListTemplates(ctx context.Context, branchID *uuid.UUID) ([]entities.NotificationTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*entities.NotificationTemplate, error)
	FindTemplate(ctx context.Context, branchID uuid.UUID, key string, ch entities.Channel) (*entities.NotificationTemplate, error)
	CreateTemplate(ctx context.Context, t entities.NotificationTemplate) (*entities.NotificationTemplate, error)
	UpdateTemplate(ctx context.Context, t entities.NotificationTemplate) (*entities.NotificationTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	CreateNotification(ctx context.Context, n entities.Notification) (*entities.Notification, error)
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus, errMsg string, at time.Time) error
	ListNotifications(ctx context.Context, f entities.ListFilter) ([]entities.Notification, error)

	CreateFeedback(ctx context.Context, f entities.Feedback) (*entities.Feedback, error)
	GetFeedback(ctx context.Context, id uuid.UUID) (*entities.Feedback, error)
	ListFeedback(ctx context.Context, f entities.ListFilter) ([]entities.Feedback, error)
	ResolveFeedback(ctx context.Context, id uuid.UUID, response string, at time.Time) (*entities.Feedback, error)
}

// WebsiteInterface exposes public website content.
type WebsiteInterface interface {
	GetSection(ctx context.Context, key string) (*entities.WebsiteSection, error)
	ListSections(ctx context.Context, publishedOnly bool) ([]entities.WebsiteSection, error)
	UpsertSection(ctx context.Context, s entities.WebsiteSection) (*entities.WebsiteSection, error)
}

// DashboardInterface exposes aggregate counters used by analytics.
type DashboardInterface interface {
	CountMembers(ctx context.Context, branchID *uuid.UUID, status entities.MemberStatus) (int64, error)
	CountNewMembers(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error)
	CountExpiring(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error)
	CountBookings(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (int64, error)
	CountOpenFeedback(ctx context.Context, branchID *uuid.UUID) (int64, error)
	SumIncome(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	SumExpense(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
