package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
)

// CreateStaff hires a staff member.
func (u *Usecase) CreateStaff(ctx context.Context, actor entities.Actor, s entities.Staff) (*entities.Staff, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, s.BranchID); err != nil {
		return nil, err
	}
	if err := validateStaff(&s); err != nil {
		u.log.Errorw("failed to create staff", "error", err)
		return nil, err
	}
	return u.repo.CreateStaff(ctx, s)
}

// Staff returns one staff member.
func (u *Usecase) Staff(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Staff, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	s, err := u.repo.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, s.BranchID); err != nil {
		return nil, err
	}
	return s, nil
}

// StaffList lists staff; Status filters by staff role.
func (u *Usecase) StaffList(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Staff, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, coaching...); err != nil {
		return nil, err
	}
	if f.Status != "" && !entities.StaffRole(f.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, f.Status)
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListStaff(ctx, f)
}

// UpdateStaff updates a staff member.
func (u *Usecase) UpdateStaff(ctx context.Context, actor entities.Actor, s entities.Staff) (*entities.Staff, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return nil, err
	}
	current, err := u.repo.GetStaff(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, current.BranchID); err != nil {
		return nil, err
	}
	s.BranchID = current.BranchID
	if err := validateStaff(&s); err != nil {
		return nil, err
	}
	return u.repo.UpdateStaff(ctx, s)
}

// DeleteStaff removes a staff member.
func (u *Usecase) DeleteStaff(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	s, err := u.repo.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, s.BranchID); err != nil {
		return err
	}
	return u.repo.DeleteStaff(ctx, id)
}

func validateStaff(s *entities.Staff) error {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	if s.Role == "" {
		s.Role = entities.StaffOther
	}
	switch {
	case s.FullName == "":
		return fmt.Errorf("%w: full_name is required", entities.ErrInvalidArgument)
	case !s.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, s.Role)
	case s.Salary.IsNegative():
		return fmt.Errorf("%w: salary must not be negative", entities.ErrInvalidArgument)
	}
	s.Salary = s.Salary.Round(2)
	return nil
}
