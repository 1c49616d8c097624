package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	branchColumns      = `id, name, address, city, phone, email, is_active, created_at, updated_at`
	insertBranchQuery  = `
INSERT INTO branches(id, name, address, city, phone, email, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING ` + branchColumns
	selectBranchQuery  = `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	listBranchesQuery  = `SELECT ` + branchColumns + ` FROM branches WHERE ($1 = false OR is_active) ORDER BY name`
	updateBranchQuery  = `
UPDATE branches
SET name = $2, address = $3, city = $4, phone = $5, email = $6, is_active = $7, updated_at = $8
WHERE id = $1
RETURNING ` + branchColumns
	deleteBranchQuery  = `DELETE FROM branches WHERE id = $1`
	selectProfileQuery = `SELECT id, full_name, email, role, branch_id, created_at FROM profiles WHERE id = $1`
	upsertProfileQuery = `
INSERT INTO profiles(id, full_name, email, role, branch_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, email = EXCLUDED.email, role = EXCLUDED.role, branch_id = EXCLUDED.branch_id
RETURNING id, full_name, email, role, branch_id, created_at`
)

func scanBranch(row pgx.Row) (entities.Branch, error) {
	var b entities.Branch
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.City, &b.Phone, &b.Email, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateBranch inserts a branch.
func (p *Postgres) CreateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	created, err := scanBranch(p.db.QueryRow(ctx, insertBranchQuery,
		b.ID, b.Name, b.Address, b.City, b.Phone, b.Email, b.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create branch", "error", err, "name", b.Name)
		return nil, mapError(err, "create branch")
	}
	p.log.Infow("branch created", "branch_id", created.ID, "name", created.Name)
	return &created, nil
}

// GetBranch returns a branch by id.
func (p *Postgres) GetBranch(ctx context.Context, id uuid.UUID) (*entities.Branch, error) {
	b, err := scanBranch(p.db.QueryRow(ctx, selectBranchQuery, id))
	if err != nil {
		return nil, mapError(err, "get branch")
	}
	return &b, nil
}

// ListBranches returns branches ordered by name.
func (p *Postgres) ListBranches(ctx context.Context, activeOnly bool) ([]entities.Branch, error) {
	rows, err := p.db.Query(ctx, listBranchesQuery, activeOnly)
	if err != nil {
		return nil, mapError(err, "list branches")
	}
	return collect(rows, "branches", func(r pgx.Rows) (entities.Branch, error) { return scanBranch(r) })
}

// UpdateBranch overwrites mutable branch fields.
func (p *Postgres) UpdateBranch(ctx context.Context, b entities.Branch) (*entities.Branch, error) {
	updated, err := scanBranch(p.db.QueryRow(ctx, updateBranchQuery,
		b.ID, b.Name, b.Address, b.City, b.Phone, b.Email, b.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to update branch", "error", err, "branch_id", b.ID)
		return nil, mapError(err, "update branch")
	}
	return &updated, nil
}

// DeleteBranch removes a branch and everything scoped to it.
func (p *Postgres) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	if err := execOne(ctx, p.db, "delete branch", deleteBranchQuery, id); err != nil {
		return err
	}
	p.log.Infow("branch deleted", "branch_id", id)
	return nil
}

func scanProfile(row pgx.Row) (entities.Profile, error) {
	var pr entities.Profile
	err := row.Scan(&pr.ID, &pr.FullName, &pr.Email, &pr.Role, &pr.BranchID, &pr.CreatedAt)
	return pr, err
}

// GetProfile returns the profile of an authenticated user.
func (p *Postgres) GetProfile(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	pr, err := scanProfile(p.db.QueryRow(ctx, selectProfileQuery, id))
	if err != nil {
		return nil, mapError(err, "get profile")
	}
	return &pr, nil
}

// UpsertProfile creates or replaces a profile.
func (p *Postgres) UpsertProfile(ctx context.Context, pr entities.Profile) (*entities.Profile, error) {
	saved, err := scanProfile(p.db.QueryRow(ctx, upsertProfileQuery, pr.ID, pr.FullName, pr.Email, pr.Role, pr.BranchID))
	if err != nil {
		p.log.Errorw("failed to upsert profile", "error", err, "profile_id", pr.ID)
		return nil, mapError(err, "upsert profile")
	}
	p.log.Infow("profile saved", "profile_id", saved.ID, "role", saved.Role)
	return &saved, nil
}
