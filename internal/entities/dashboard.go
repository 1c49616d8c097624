package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is the analytics snapshot for a branch or all branches.
type DashboardStats struct {
	BranchID       *uuid.UUID      `json:"branch_id,omitempty"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	ActiveMembers  int64           `json:"active_members"`
	NewMembers     int64           `json:"new_members"`
	ExpiringSoon   int64           `json:"expiring_soon"`
	ClassBookings  int64           `json:"class_bookings"`
	OpenFeedback   int64           `json:"open_feedback"`
	Revenue        decimal.Decimal `json:"revenue"`
	Expenses       decimal.Decimal `json:"expenses"`
	Net            decimal.Decimal `json:"net"`
	RevenueByMonth []MonthlyTotal  `json:"revenue_by_month"`
}
