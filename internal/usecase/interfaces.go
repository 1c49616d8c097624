package usecase

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BranchUsecaseInterface abstracts branch and profile operations for delivery layer.
type BranchUsecaseInterface interface {
	CreateBranch(ctx context.Context, actor entities.Actor, b entities.Branch) (*entities.Branch, error)
	Branch(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Branch, error)
	Branches(ctx context.Context, actor entities.Actor) ([]entities.Branch, error)
	PublicBranches(ctx context.Context) ([]entities.Branch, error)
	UpdateBranch(ctx context.Context, actor entities.Actor, b entities.Branch) (*entities.Branch, error)
	DeleteBranch(ctx context.Context, actor entities.Actor, id uuid.UUID) error

	Profile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	UpsertProfile(ctx context.Context, actor entities.Actor, p entities.Profile) (*entities.Profile, error)
}

// MemberUsecaseInterface abstracts member and plan operations.
type MemberUsecaseInterface interface {
	CreateMember(ctx context.Context, actor entities.Actor, m entities.Member, referralCode string) (*entities.Member, error)
	Member(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Member, error)
	Members(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Member, error)
	UpdateMember(ctx context.Context, actor entities.Actor, m entities.Member) (*entities.Member, error)
	DeleteMember(ctx context.Context, actor entities.Actor, id uuid.UUID) error

	CreatePlan(ctx context.Context, actor entities.Actor, p entities.MembershipPlan) (*entities.MembershipPlan, error)
	Plan(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.MembershipPlan, error)
	Plans(ctx context.Context, actor entities.Actor, branchID *uuid.UUID, activeOnly bool) ([]entities.MembershipPlan, error)
	PublicPlans(ctx context.Context, branchID uuid.UUID) ([]entities.MembershipPlan, error)
	UpdatePlan(ctx context.Context, actor entities.Actor, p entities.MembershipPlan) (*entities.MembershipPlan, error)
	DeletePlan(ctx context.Context, actor entities.Actor, id uuid.UUID) error
}

// BillingUsecaseInterface abstracts invoices and online checkout.
type BillingUsecaseInterface interface {
	CreateInvoice(ctx context.Context, actor entities.Actor, inv entities.Invoice, opts entities.InvoiceOptions) (*entities.Invoice, error)
	Invoice(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Invoice, error)
	Invoices(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, actor entities.Actor, id uuid.UUID, status entities.InvoiceStatus) (*entities.Invoice, error)
	DeleteInvoice(ctx context.Context, actor entities.Actor, id uuid.UUID) error

	CreateCheckout(ctx context.Context, actor entities.Actor, req entities.CheckoutRequest) (*entities.Checkout, error)
	VerifyCheckout(ctx context.Context, actor entities.Actor, v entities.PaymentVerification) (*entities.Invoice, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// StaffUsecaseInterface abstracts staff administration.
type StaffUsecaseInterface interface {
	CreateStaff(ctx context.Context, actor entities.Actor, s entities.Staff) (*entities.Staff, error)
	Staff(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Staff, error)
	StaffList(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Staff, error)
	UpdateStaff(ctx context.Context, actor entities.Actor, s entities.Staff) (*entities.Staff, error)
	DeleteStaff(ctx context.Context, actor entities.Actor, id uuid.UUID) error
}

// ClassUsecaseInterface abstracts class scheduling and bookings.
type ClassUsecaseInterface interface {
	CreateClass(ctx context.Context, actor entities.Actor, c entities.GymClass) (*entities.GymClass, error)
	Class(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.GymClass, error)
	Classes(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.GymClass, error)
	UpdateClass(ctx context.Context, actor entities.Actor, c entities.GymClass) (*entities.GymClass, error)
	DeleteClass(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	BookClass(ctx context.Context, actor entities.Actor, classID, memberID uuid.UUID) (*entities.ClassBooking, error)
	CancelBooking(ctx context.Context, actor entities.Actor, bookingID uuid.UUID) (*entities.ClassBooking, error)
	Bookings(ctx context.Context, actor entities.Actor, classID uuid.UUID) ([]entities.ClassBooking, error)
}

// MarketingUsecaseInterface abstracts promo codes and referrals.
type MarketingUsecaseInterface interface {
	CreatePromo(ctx context.Context, actor entities.Actor, p entities.PromoCode) (*entities.PromoCode, error)
	Promo(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PromoCode, error)
	Promos(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.PromoCode, error)
	UpdatePromo(ctx context.Context, actor entities.Actor, p entities.PromoCode) (*entities.PromoCode, error)
	DeletePromo(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	ValidatePromo(ctx context.Context, actor entities.Actor, branchID uuid.UUID, code string, amount decimal.Decimal) (*entities.PromoPreview, error)

	CreateReferral(ctx context.Context, actor entities.Actor, r entities.Referral) (*entities.Referral, error)
	Referrals(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Referral, error)
}

// FinanceUsecaseInterface abstracts income and expense bookkeeping.
type FinanceUsecaseInterface interface {
	CreateIncome(ctx context.Context, actor entities.Actor, r entities.IncomeRecord) (*entities.IncomeRecord, error)
	Income(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.IncomeRecord, error)
	DeleteIncome(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	CreateExpense(ctx context.Context, actor entities.Actor, r entities.ExpenseRecord) (*entities.ExpenseRecord, error)
	Expenses(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.ExpenseRecord, error)
	DeleteExpense(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	FinanceSummary(ctx context.Context, actor entities.Actor, branchID *uuid.UUID, from, to time.Time) (entities.FinanceSummary, error)
}

// IntegrationUsecaseInterface abstracts integration settings and access control.
type IntegrationUsecaseInterface interface {
	IntegrationStatuses(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.IntegrationStatus, error)
	SetIntegrationActive(ctx context.Context, actor entities.Actor, branchID uuid.UUID, integration string, active bool) (*entities.IntegrationStatus, error)

	HikvisionSettings(ctx context.Context, actor entities.Actor, branchID uuid.UUID) (*entities.HikvisionSettings, error)
	SaveHikvisionSettings(ctx context.Context, actor entities.Actor, s entities.HikvisionSettings) (*entities.HikvisionSettings, error)
	TestHikvisionConnection(ctx context.Context, actor entities.Actor, branchID uuid.UUID) error

	Devices(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.HikvisionDevice, error)
	CreateDevice(ctx context.Context, actor entities.Actor, d entities.HikvisionDevice) (*entities.HikvisionDevice, error)
	UpdateDevice(ctx context.Context, actor entities.Actor, d entities.HikvisionDevice) (*entities.HikvisionDevice, error)
	DeleteDevice(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	SyncDevices(ctx context.Context, actor entities.Actor, branchID uuid.UUID) (int, error)
	OpenDoor(ctx context.Context, actor entities.Actor, doorID uuid.UUID) error
	SyncMemberAccess(ctx context.Context, actor entities.Actor, memberID uuid.UUID) (*entities.Member, error)

	Zones(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.AccessZone, error)
	CreateZone(ctx context.Context, actor entities.Actor, z entities.AccessZone) (*entities.AccessZone, error)
	DeleteZone(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	Doors(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.AccessDoor, error)
	CreateDoor(ctx context.Context, actor entities.Actor, d entities.AccessDoor) (*entities.AccessDoor, error)
	DeleteDoor(ctx context.Context, actor entities.Actor, id uuid.UUID) error
}

// NotificationUsecaseInterface abstracts templates, outbound notifications and feedback.
type NotificationUsecaseInterface interface {
	Templates(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.NotificationTemplate, error)
	CreateTemplate(ctx context.Context, actor entities.Actor, t entities.NotificationTemplate) (*entities.NotificationTemplate, error)
	UpdateTemplate(ctx context.Context, actor entities.Actor, t entities.NotificationTemplate) (*entities.NotificationTemplate, error)
	DeleteTemplate(ctx context.Context, actor entities.Actor, id uuid.UUID) error
	PreviewTemplate(ctx context.Context, actor entities.Actor, id uuid.UUID, vars map[string]string) (*entities.TemplatePreview, error)
	SeedTemplates(ctx context.Context) (int, error)

	SendNotification(ctx context.Context, actor entities.Actor, req entities.SendRequest) (*entities.Notification, error)
	Notifications(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Notification, error)
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus, errMsg string) error

	SubmitFeedback(ctx context.Context, actor entities.Actor, f entities.Feedback) (*entities.Feedback, error)
	FeedbackList(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Feedback, error)
	ResolveFeedback(ctx context.Context, actor entities.Actor, id uuid.UUID, response string) (*entities.Feedback, error)
}

// WebsiteUsecaseInterface abstracts public website content.
type WebsiteUsecaseInterface interface {
	Section(ctx context.Context, key string) (*entities.WebsiteSection, error)
	Sections(ctx context.Context, publishedOnly bool) ([]entities.WebsiteSection, error)
	UpsertSection(ctx context.Context, actor entities.Actor, s entities.WebsiteSection) (*entities.WebsiteSection, error)
}

// AnalyticsUsecaseInterface abstracts dashboards and scheduled maintenance.
type AnalyticsUsecaseInterface interface {
	Dashboard(ctx context.Context, actor entities.Actor, branchID *uuid.UUID, from, to time.Time) (entities.DashboardStats, error)
	ExpireMemberships(ctx context.Context, now time.Time) (entities.ExpiryResult, error)
	RunExpiryJob(ctx context.Context) error
}
