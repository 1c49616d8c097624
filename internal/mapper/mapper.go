// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberRequest is the body of member create and update calls.
// ReferralCode is the code of the referring member, not the new member's own code.
type MemberRequest struct {
	BranchID     uuid.UUID             `json:"branch_id"`
	FullName     string                `json:"full_name"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	Gender       string                `json:"gender"`
	DateOfBirth  *time.Time            `json:"date_of_birth"`
	Status       entities.MemberStatus `json:"status"`
	AccessCardNo string                `json:"access_card_no"`
	ReferralCode string                `json:"referral_code"`
}

// ToMember builds an entities.Member from the request.
func (r MemberRequest) ToMember(id uuid.UUID) entities.Member {
	return entities.Member{
		ID:           id,
		BranchID:     r.BranchID,
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		Gender:       r.Gender,
		DateOfBirth:  r.DateOfBirth,
		Status:       r.Status,
		AccessCardNo: r.AccessCardNo,
	}
}

// InvoiceItemRequest is one requested invoice line.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceRequest is the body of invoice creation.
type InvoiceRequest struct {
	BranchID     uuid.UUID              `json:"branch_id"`
	MemberID     uuid.UUID              `json:"member_id"`
	Items        []InvoiceItemRequest   `json:"items"`
	Discount     decimal.Decimal        `json:"discount"`
	TaxRate      *decimal.Decimal       `json:"tax_rate"`
	Currency     string                 `json:"currency"`
	Status       entities.InvoiceStatus `json:"status"`
	MembershipID *uuid.UUID             `json:"membership_id"`
	DueDate      *time.Time             `json:"due_date"`
	Notes        string                 `json:"notes"`
	PromoCode    string                 `json:"promo_code"`
}

// ToInvoice builds an unpriced entities.Invoice from the request.
func (r InvoiceRequest) ToInvoice() entities.Invoice {
	items := make([]entities.InvoiceItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return entities.Invoice{
		BranchID:     r.BranchID,
		MemberID:     r.MemberID,
		Items:        items,
		Discount:     r.Discount,
		Currency:     r.Currency,
		Status:       r.Status,
		MembershipID: r.MembershipID,
		DueDate:      r.DueDate,
		Notes:        r.Notes,
	}
}

// Options returns the promo code and the tax rate override, if any.
func (r InvoiceRequest) Options() entities.InvoiceOptions {
	return entities.InvoiceOptions{PromoCode: r.PromoCode, TaxRate: r.TaxRate}
}

// StatusRequest changes the status of a resource.
type StatusRequest struct {
	Status string `json:"status"`
}

// CheckoutRequest starts a gateway payment for a plan.
type CheckoutRequest struct {
	MemberID  uuid.UUID `json:"member_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	PromoCode string    `json:"promo_code"`
}

// ToEntity maps the request to the domain request.
func (r CheckoutRequest) ToEntity() entities.CheckoutRequest {
	return entities.CheckoutRequest{MemberID: r.MemberID, PlanID: r.PlanID, PromoCode: r.PromoCode}
}

// VerificationRequest carries the fields the checkout widget returns on success.
type VerificationRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// ToEntity maps the request to the domain verification.
func (r VerificationRequest) ToEntity() entities.PaymentVerification {
	return entities.PaymentVerification{OrderID: r.OrderID, PaymentID: r.PaymentID, Signature: r.Signature}
}

// PromoValidationRequest previews a promo code against an amount.
type PromoValidationRequest struct {
	BranchID uuid.UUID       `json:"branch_id"`
	Code     string          `json:"code"`
	Amount   decimal.Decimal `json:"amount"`
}

// ProfileRequest assigns a role and branch to a user.
type ProfileRequest struct {
	FullName string        `json:"full_name"`
	Email    string        `json:"email"`
	Role     entities.Role `json:"role"`
	BranchID *uuid.UUID    `json:"branch_id"`
}

// ToProfile builds an entities.Profile for the user id.
func (r ProfileRequest) ToProfile(id uuid.UUID) entities.Profile {
	return entities.Profile{ID: id, FullName: r.FullName, Email: r.Email, Role: r.Role, BranchID: r.BranchID}
}

// IntegrationToggleRequest switches an integration on or off.
type IntegrationToggleRequest struct {
	BranchID uuid.UUID `json:"branch_id"`
	IsActive bool      `json:"is_active"`
}

// HikvisionSettingsRequest is the body of a settings save. An empty secret keeps the stored one.
type HikvisionSettingsRequest struct {
	AppKey    string `json:"app_key"`
	SecretKey string `json:"secret_key"`
	APIURL    string `json:"api_url"`
	SiteID    string `json:"site_id"`
	IsActive  bool   `json:"is_active"`
}

// ToSettings builds entities.HikvisionSettings for a branch.
func (r HikvisionSettingsRequest) ToSettings(branchID uuid.UUID) entities.HikvisionSettings {
	return entities.HikvisionSettings{
		BranchID:  branchID,
		AppKey:    r.AppKey,
		SecretKey: r.SecretKey,
		APIURL:    r.APIURL,
		SiteID:    r.SiteID,
		IsActive:  r.IsActive,
	}
}

// HikvisionSettingsResponse exposes settings without the secret.
type HikvisionSettingsResponse struct {
	BranchID         uuid.UUID `json:"branch_id"`
	AppKey           string    `json:"app_key"`
	APIURL           string    `json:"api_url"`
	SiteID           string    `json:"site_id"`
	IsActive         bool      `json:"is_active"`
	SecretConfigured bool      `json:"secret_configured"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToHikvisionSettingsResponse maps stored settings to the transport model.
func ToHikvisionSettingsResponse(s entities.HikvisionSettings) HikvisionSettingsResponse {
	return HikvisionSettingsResponse{
		BranchID:         s.BranchID,
		AppKey:           s.AppKey,
		APIURL:           s.APIURL,
		SiteID:           s.SiteID,
		IsActive:         s.IsActive,
		SecretConfigured: s.SecretConfigured(),
		UpdatedAt:        s.UpdatedAt,
	}
}

// SyncResponse reports how many records a sync touched.
type SyncResponse struct {
	Synced int `json:"synced"`
}

// SendNotificationRequest sends a templated message to a member.
type SendNotificationRequest struct {
	MemberID    uuid.UUID         `json:"member_id"`
	TemplateKey string            `json:"template_key"`
	Channel     entities.Channel  `json:"channel"`
	Vars        map[string]string `json:"vars"`
}

// ToEntity maps the request to the domain request.
func (r SendNotificationRequest) ToEntity() entities.SendRequest {
	return entities.SendRequest{MemberID: r.MemberID, TemplateKey: r.TemplateKey, Channel: r.Channel, Vars: r.Vars}
}

// PreviewRequest carries variables for a template preview.
type PreviewRequest struct {
	Vars map[string]string `json:"vars"`
}

// NotificationStatusRequest is the delivery callback body.
type NotificationStatusRequest struct {
	Status entities.NotificationStatus `json:"status"`
	Error  string                      `json:"error"`
}

// ResolveFeedbackRequest closes a feedback item.
type ResolveFeedbackRequest struct {
	Response string `json:"response"`
}

// BookingRequest books a member into a class.
type BookingRequest struct {
	MemberID uuid.UUID `json:"member_id"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	Profile entities.Profile `json:"profile"`
	Branch  *entities.Branch `json:"branch,omitempty"`
}
