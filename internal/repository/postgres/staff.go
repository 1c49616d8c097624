package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	staffColumns     = `id, branch_id, profile_id, full_name, email, phone, role, specialization, salary, hire_date, is_active, created_at, updated_at`
	insertStaffQuery = `
INSERT INTO staff(id, branch_id, profile_id, full_name, email, phone, role, specialization, salary, hire_date, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
RETURNING ` + staffColumns
	selectStaffQuery = `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	updateStaffQuery = `
UPDATE staff
SET profile_id = $2, full_name = $3, email = $4, phone = $5, role = $6, specialization = $7,
    salary = $8, hire_date = $9, is_active = $10, updated_at = $11
WHERE id = $1
RETURNING ` + staffColumns
	deleteStaffQuery = `DELETE FROM staff WHERE id = $1`
)

func scanStaff(row pgx.Row) (entities.Staff, error) {
	var s entities.Staff
	err := row.Scan(&s.ID, &s.BranchID, &s.ProfileID, &s.FullName, &s.Email, &s.Phone, &s.Role,
		&s.Specialization, &s.Salary, &s.HireDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateStaff inserts a staff member.
func (p *Postgres) CreateStaff(ctx context.Context, s entities.Staff) (*entities.Staff, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	created, err := scanStaff(p.db.QueryRow(ctx, insertStaffQuery,
		s.ID, s.BranchID, s.ProfileID, s.FullName, s.Email, s.Phone, s.Role, s.Specialization,
		s.Salary.Round(2), s.HireDate, s.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create staff", "error", err, "branch_id", s.BranchID)
		return nil, mapError(err, "create staff")
	}
	p.log.Infow("staff created", "staff_id", created.ID, "role", created.Role)
	return &created, nil
}

// GetStaff returns a staff member by id.
func (p *Postgres) GetStaff(ctx context.Context, id uuid.UUID) (*entities.Staff, error) {
	s, err := scanStaff(p.db.QueryRow(ctx, selectStaffQuery, id))
	if err != nil {
		return nil, mapError(err, "get staff")
	}
	return &s, nil
}

// ListStaff filters by branch, role (Status) and name search.
func (p *Postgres) ListStaff(ctx context.Context, f entities.ListFilter) ([]entities.Staff, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("role = ?", f.Status)
	}
	if f.Search != "" {
		w.add("(full_name ILIKE ? OR email ILIKE ?)", "%"+f.Search+"%")
	}
	query := `SELECT ` + staffColumns + ` FROM staff` + w.sql() + ` ORDER BY full_name` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list staff")
	}
	return collect(rows, "staff", func(r pgx.Rows) (entities.Staff, error) { return scanStaff(r) })
}

// UpdateStaff overwrites mutable staff fields.
func (p *Postgres) UpdateStaff(ctx context.Context, s entities.Staff) (*entities.Staff, error) {
	updated, err := scanStaff(p.db.QueryRow(ctx, updateStaffQuery,
		s.ID, s.ProfileID, s.FullName, s.Email, s.Phone, s.Role, s.Specialization,
		s.Salary.Round(2), s.HireDate, s.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to update staff", "error", err, "staff_id", s.ID)
		return nil, mapError(err, "update staff")
	}
	return &updated, nil
}

// DeleteStaff removes a staff member.
func (p *Postgres) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete staff", deleteStaffQuery, id)
}
