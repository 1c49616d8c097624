package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	classColumns = `c.id, c.branch_id, c.trainer_id, c.name, c.description, c.starts_at, c.ends_at, c.capacity,
(SELECT count(*) FROM class_bookings b WHERE b.class_id = c.id AND b.status <> 'cancelled') AS booked,
c.status, c.created_at, c.updated_at`
	insertClassQuery = `
INSERT INTO gym_classes(id, branch_id, trainer_id, name, description, starts_at, ends_at, capacity, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING id`
	selectClassQuery = `SELECT ` + classColumns + ` FROM gym_classes c WHERE c.id = $1`
	updateClassQuery = `
UPDATE gym_classes
SET trainer_id = $2, name = $3, description = $4, starts_at = $5, ends_at = $6, capacity = $7, status = $8, updated_at = $9
WHERE id = $1`
	deleteClassQuery      = `DELETE FROM gym_classes WHERE id = $1`
	lockClassQuery        = `SELECT capacity, status FROM gym_classes WHERE id = $1 FOR UPDATE`
	countActiveBookings   = `SELECT count(*) FROM class_bookings WHERE class_id = $1 AND status <> 'cancelled'`
	bookingColumns        = `id, class_id, member_id, status, created_at`
	insertBookingQuery    = `
INSERT INTO class_bookings(id, class_id, member_id, status, created_at)
VALUES ($1, $2, $3, 'booked', $4)
RETURNING ` + bookingColumns
	selectBookingQuery  = `SELECT ` + bookingColumns + ` FROM class_bookings WHERE id = $1`
	cancelBookingQuery  = `
UPDATE class_bookings SET status = 'cancelled'
WHERE id = $1
RETURNING ` + bookingColumns
	listBookingsQuery = `SELECT ` + bookingColumns + ` FROM class_bookings WHERE class_id = $1 ORDER BY created_at`
)

func scanClass(row pgx.Row) (entities.GymClass, error) {
	var c entities.GymClass
	err := row.Scan(&c.ID, &c.BranchID, &c.TrainerID, &c.Name, &c.Description, &c.StartsAt, &c.EndsAt,
		&c.Capacity, &c.Booked, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanBooking(row pgx.Row) (entities.ClassBooking, error) {
	var b entities.ClassBooking
	err := row.Scan(&b.ID, &b.ClassID, &b.MemberID, &b.Status, &b.CreatedAt)
	return b, err
}

// CreateClass inserts a class.
func (p *Postgres) CreateClass(ctx context.Context, c entities.GymClass) (*entities.GymClass, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	var id uuid.UUID
	if err := p.db.QueryRow(ctx, insertClassQuery,
		c.ID, c.BranchID, c.TrainerID, c.Name, c.Description, c.StartsAt, c.EndsAt, c.Capacity, c.Status, time.Now().UTC(),
	).Scan(&id); err != nil {
		p.log.Errorw("failed to create class", "error", err, "branch_id", c.BranchID)
		return nil, mapError(err, "create class")
	}
	p.log.Infow("class created", "class_id", id, "starts_at", c.StartsAt)
	return p.GetClass(ctx, id)
}

// GetClass returns a class with its booked seat count.
func (p *Postgres) GetClass(ctx context.Context, id uuid.UUID) (*entities.GymClass, error) {
	c, err := scanClass(p.db.QueryRow(ctx, selectClassQuery, id))
	if err != nil {
		return nil, mapError(err, "get class")
	}
	return &c, nil
}

// ListClasses filters by branch, status and a start time window.
func (p *Postgres) ListClasses(ctx context.Context, f entities.ListFilter) ([]entities.GymClass, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("c.branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("c.status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("c.name ILIKE ?", "%"+f.Search+"%")
	}
	if f.From != nil {
		w.add("c.starts_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("c.starts_at < ?", *f.To)
	}
	query := `SELECT ` + classColumns + ` FROM gym_classes c` + w.sql() + ` ORDER BY c.starts_at` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list classes")
	}
	return collect(rows, "classes", func(r pgx.Rows) (entities.GymClass, error) { return scanClass(r) })
}

// UpdateClass overwrites mutable class fields.
func (p *Postgres) UpdateClass(ctx context.Context, c entities.GymClass) (*entities.GymClass, error) {
	if err := execOne(ctx, p.db, "update class", updateClassQuery,
		c.ID, c.TrainerID, c.Name, c.Description, c.StartsAt, c.EndsAt, c.Capacity, c.Status, time.Now().UTC(),
	); err != nil {
		p.log.Errorw("failed to update class", "error", err, "class_id", c.ID)
		return nil, err
	}
	return p.GetClass(ctx, c.ID)
}

// DeleteClass removes a class and its bookings.
func (p *Postgres) DeleteClass(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete class", deleteClassQuery, id)
}

// BookClass reserves a seat. The class row is locked so concurrent bookings
// cannot exceed capacity.
func (p *Postgres) BookClass(ctx context.Context, classID, memberID uuid.UUID) (*entities.ClassBooking, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		capacity int
		status   entities.ClassStatus
	)
	if err := tx.QueryRow(ctx, lockClassQuery, classID).Scan(&capacity, &status); err != nil {
		return nil, mapError(err, "lock class")
	}
	if status != entities.ClassScheduled {
		return nil, entities.ErrInvalidTransition
	}

	var booked int
	if err := tx.QueryRow(ctx, countActiveBookings, classID).Scan(&booked); err != nil {
		return nil, mapError(err, "count bookings")
	}
	if booked >= capacity {
		return nil, entities.ErrCapacityReached
	}

	b, err := scanBooking(tx.QueryRow(ctx, insertBookingQuery, uuid.New(), classID, memberID, time.Now().UTC()))
	if err != nil {
		return nil, mapError(err, "insert booking")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("class booked", "class_id", classID, "member_id", memberID, "seats_left", capacity-booked-1)
	return &b, nil
}

// GetBooking returns a booking by id.
func (p *Postgres) GetBooking(ctx context.Context, id uuid.UUID) (*entities.ClassBooking, error) {
	b, err := scanBooking(p.db.QueryRow(ctx, selectBookingQuery, id))
	if err != nil {
		return nil, mapError(err, "get booking")
	}
	return &b, nil
}

// CancelBooking releases a seat.
func (p *Postgres) CancelBooking(ctx context.Context, id uuid.UUID) (*entities.ClassBooking, error) {
	b, err := scanBooking(p.db.QueryRow(ctx, cancelBookingQuery, id))
	if err != nil {
		return nil, mapError(err, "cancel booking")
	}
	p.log.Infow("booking cancelled", "booking_id", id, "class_id", b.ClassID)
	return &b, nil
}

// ListBookings returns every booking of a class.
func (p *Postgres) ListBookings(ctx context.Context, classID uuid.UUID) ([]entities.ClassBooking, error) {
	rows, err := p.db.Query(ctx, listBookingsQuery, classID)
	if err != nil {
		return nil, mapError(err, "list bookings")
	}
	return collect(rows, "bookings", func(r pgx.Rows) (entities.ClassBooking, error) { return scanBooking(r) })
}
