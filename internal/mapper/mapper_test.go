package mapper

import (
	"testing"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestInvoiceRequestToInvoice(t *testing.T) {
	branch, member := uuid.New(), uuid.New()
	raw := `{
		"branch_id": "` + branch.String() + `",
		"member_id": "` + member.String() + `",
		"items": [
			{"description": "Monthly plan", "quantity": 1, "unit_price": "1500"},
			{"description": "Locker", "quantity": 2, "unit_price": 99.5}
		],
		"discount": "100",
		"currency": "INR",
		"promo_code": "SAVE10"
	}`

	var req InvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	require.Equal(t, "SAVE10", req.PromoCode)

	want := entities.Invoice{
		BranchID: branch,
		MemberID: member,
		Items: []entities.InvoiceItem{
			{Description: "Monthly plan", Quantity: 1, UnitPrice: decimal.NewFromInt(1500)},
			{Description: "Locker", Quantity: 2, UnitPrice: decimal.RequireFromString("99.5")},
		},
		Discount: decimal.NewFromInt(100),
		Currency: "INR",
	}
	if diff := cmp.Diff(want, req.ToInvoice(), decimalEqual); diff != "" {
		t.Fatalf("ToInvoice mismatch (-want +got):\n%s", diff)
	}
	require.Nil(t, req.Options().TaxRate)
	require.Equal(t, "SAVE10", req.Options().PromoCode)
}

func TestInvoiceRequestExplicitZeroTax(t *testing.T) {
	var req InvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tax_rate": "0", "items": []}`), &req))

	opts := req.Options()
	require.NotNil(t, opts.TaxRate)
	require.True(t, opts.TaxRate.IsZero())
}

func TestMemberRequestKeepsReferralOutOfMember(t *testing.T) {
	id := uuid.New()
	req := MemberRequest{FullName: "Asha Rao", Phone: "+919800000000", ReferralCode: "RAVI0A0B0C"}

	m := req.ToMember(id)
	require.Equal(t, id, m.ID)
	require.Empty(t, m.ReferralCode)
	require.Nil(t, m.ReferredBy)
}

func TestHikvisionSettingsResponseHidesSecret(t *testing.T) {
	branch := uuid.New()
	updated := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	settings := HikvisionSettingsRequest{
		AppKey:    "app",
		SecretKey: "s3cr3t",
		APIURL:    "https://isgp.example.com",
		SiteID:    "site-1",
		IsActive:  true,
	}.ToSettings(branch)
	settings.UpdatedAt = updated

	want := HikvisionSettingsResponse{
		BranchID:         branch,
		AppKey:           "app",
		APIURL:           "https://isgp.example.com",
		SiteID:           "site-1",
		IsActive:         true,
		SecretConfigured: true,
		UpdatedAt:        updated,
	}
	got := ToHikvisionSettingsResponse(settings)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}

	body, err := json.Marshal(got)
	require.NoError(t, err)
	require.NotContains(t, string(body), "s3cr3t")

	settings.SecretKey = ""
	require.False(t, ToHikvisionSettingsResponse(settings).SecretConfigured)
}
