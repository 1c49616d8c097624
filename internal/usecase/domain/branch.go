package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
)

// CreateBranch creates a branch. Admin only.
func (u *Usecase) CreateBranch(ctx context.Context, actor entities.Actor, b entities.Branch) (*entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateBranch(&b); err != nil {
		u.log.Errorw("failed to create branch", "error", err)
		return nil, err
	}
	return u.repo.CreateBranch(ctx, b)
}

// Branch returns a branch visible to the actor.
func (u *Usecase) Branch(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireBranch(actor, id); err != nil {
		return nil, err
	}
	return u.repo.GetBranch(ctx, id)
}

// Branches lists every branch for admins and the own branch for everybody else.
func (u *Usecase) Branches(ctx context.Context, actor entities.Actor) ([]entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if actor.IsAdmin() {
		return u.repo.ListBranches(ctx, false)
	}
	if actor.BranchID == nil {
		return nil, entities.ErrForbidden
	}
	b, err := u.repo.GetBranch(ctx, *actor.BranchID)
	if err != nil {
		return nil, err
	}
	return []entities.Branch{*b}, nil
}

// PublicBranches lists active branches for the public website.
func (u *Usecase) PublicBranches(ctx context.Context) ([]entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListBranches(ctx, true)
}

// UpdateBranch updates branch details. Admin only.
func (u *Usecase) UpdateBranch(ctx context.Context, actor entities.Actor, b entities.Branch) (*entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(b.ID, "id"); err != nil {
		return nil, err
	}
	if err := validateBranch(&b); err != nil {
		return nil, err
	}
	return u.repo.UpdateBranch(ctx, b)
}

// DeleteBranch removes a branch and everything partitioned under it. Admin only.
func (u *Usecase) DeleteBranch(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := requireID(id, "id"); err != nil {
		return err
	}
	u.log.Infow("deleting branch", "branch_id", id, "user_id", actor.UserID)
	return u.repo.DeleteBranch(ctx, id)
}

// Profile returns the profile backing an authenticated session.
func (u *Usecase) Profile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}
	return u.repo.GetProfile(ctx, userID)
}

// UpsertProfile assigns a role and branch to a user. Admin only.
func (u *Usecase) UpsertProfile(ctx context.Context, actor entities.Actor, p entities.Profile) (*entities.Profile, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(p.ID, "id"); err != nil {
		return nil, err
	}
	if !p.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, p.Role)
	}
	if p.Role != entities.RoleAdmin && p.BranchID == nil {
		return nil, fmt.Errorf("%w: branch_id is required for role %q", entities.ErrInvalidArgument, p.Role)
	}
	return u.repo.UpsertProfile(ctx, p)
}

func validateBranch(b *entities.Branch) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	return nil
}
