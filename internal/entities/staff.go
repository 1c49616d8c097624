package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffRole is the job function of a staff member.
type StaffRole string

const (
	StaffTrainer      StaffRole = "trainer"
	StaffManager      StaffRole = "manager"
	StaffReceptionist StaffRole = "receptionist"
	StaffOther        StaffRole = "other"
)

// Valid reports whether r is a known staff role.
func (r StaffRole) Valid() bool {
	switch r {
	case StaffTrainer, StaffManager, StaffReceptionist, StaffOther:
		return true
	}
	return false
}

// Staff is an employee of a branch.
type Staff struct {
	ID             uuid.UUID       `json:"id"`
	BranchID       uuid.UUID       `json:"branch_id"`
	ProfileID      *uuid.UUID      `json:"profile_id,omitempty"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Role           StaffRole       `json:"role"`
	Specialization string          `json:"specialization,omitempty"`
	Salary         decimal.Decimal `json:"salary"`
	HireDate       *time.Time      `json:"hire_date,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
