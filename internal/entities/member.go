package entities

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus enumerates member lifecycle states.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberExpired  MemberStatus = "expired"
	MemberFrozen   MemberStatus = "frozen"
)

// Valid reports whether s is a known status.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberExpired, MemberFrozen:
		return true
	}
	return false
}

// Member is a gym customer.
type Member struct {
	ID                uuid.UUID    `json:"id"`
	BranchID          uuid.UUID    `json:"branch_id"`
	FullName          string       `json:"full_name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	Gender            string       `json:"gender,omitempty"`
	DateOfBirth       *time.Time   `json:"date_of_birth,omitempty"`
	Status            MemberStatus `json:"status"`
	MembershipID      *uuid.UUID   `json:"membership_id,omitempty"`
	MembershipStart   *time.Time   `json:"membership_start,omitempty"`
	MembershipEnd     *time.Time   `json:"membership_end,omitempty"`
	ReferralCode      string       `json:"referral_code"`
	ReferredBy        *uuid.UUID   `json:"referred_by,omitempty"`
	AccessCardNo      string       `json:"access_card_no,omitempty"`
	HikvisionPersonID *string      `json:"hikvision_person_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// HasActiveMembership reports whether the membership covers now.
func (m Member) HasActiveMembership(now time.Time) bool {
	if m.MembershipEnd == nil || m.Status == MemberFrozen {
		return false
	}
	return now.Before(*m.MembershipEnd)
}

// ExtendMembership applies a purchased plan. A running membership is
// extended from its end date, otherwise a new period starts at now.
func (m *Member) ExtendMembership(plan MembershipPlan, now time.Time) {
	start, from := now, now
	if m.MembershipEnd != nil && m.MembershipEnd.After(now) && m.MembershipStart != nil {
		start, from = *m.MembershipStart, *m.MembershipEnd
	}
	end := from.AddDate(0, 0, plan.DurationDays)
	planID := plan.ID
	m.MembershipID = &planID
	m.MembershipStart = &start
	m.MembershipEnd = &end
	m.Status = MemberActive
}

// ExpiringMembership is a member whose membership ends soon.
type ExpiringMembership struct {
	MemberID      uuid.UUID `json:"member_id"`
	BranchID      uuid.UUID `json:"branch_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	MembershipEnd time.Time `json:"membership_end"`
}

// ExpiryResult summarises one pass of the membership expiry job.
type ExpiryResult struct {
	Expired  int `json:"expired"`
	Reminded int `json:"reminded"`
}
