package entities

import (
	"time"

	"github.com/google/uuid"
)

// Role is the profile role stored in the profiles table.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleTrainer, RoleMember:
		return true
	}
	return false
}

// Profile is the application-side record of an authenticated user.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Actor is the caller of a usecase, derived from the session profile.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	BranchID *uuid.UUID
}

// ActorFromProfile builds an Actor for the given profile.
func ActorFromProfile(p Profile) Actor {
	return Actor{UserID: p.ID, Role: p.Role, BranchID: p.BranchID}
}

// IsAdmin reports whether the actor has global access.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// HasRole reports whether the actor holds one of roles. Admin always passes.
func (a Actor) HasRole(roles ...Role) bool {
	if a.IsAdmin() {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// CanAccessBranch reports whether rows of branchID are visible to the actor.
func (a Actor) CanAccessBranch(branchID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.BranchID != nil && *a.BranchID == branchID
}

// ScopeBranch narrows a requested branch filter to what the actor may see.
// Admins keep the requested filter; everyone else is pinned to their branch.
func (a Actor) ScopeBranch(requested *uuid.UUID) (*uuid.UUID, error) {
	if a.IsAdmin() {
		return requested, nil
	}
	if a.BranchID == nil {
		return nil, ErrForbidden
	}
	if requested != nil && *requested != *a.BranchID {
		return nil, ErrForbidden
	}
	id := *a.BranchID
	return &id, nil
}

// ListFilter is a generic list query.
type ListFilter struct {
	BranchID *uuid.UUID
	Status   string
	Search   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Normalize applies paging defaults and bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
