package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
)

// CreateClass schedules a class.
func (u *Usecase) CreateClass(ctx context.Context, actor entities.Actor, c entities.GymClass) (*entities.GymClass, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if err := requireBranch(actor, c.BranchID); err != nil {
		return nil, err
	}
	if err := validateClass(&c); err != nil {
		u.log.Errorw("failed to create class", "error", err)
		return nil, err
	}
	if err := u.checkTrainer(ctx, c); err != nil {
		return nil, err
	}
	c.Status = entities.ClassScheduled
	return u.repo.CreateClass(ctx, c)
}

// Class returns a class with its current booking count.
func (u *Usecase) Class(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.GymClass, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, coaching...); err != nil {
		return nil, err
	}
	c, err := u.repo.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, c.BranchID); err != nil {
		return nil, err
	}
	return c, nil
}

// Classes lists classes starting in [From, To).
func (u *Usecase) Classes(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.GymClass, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, coaching...); err != nil {
		return nil, err
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, fmt.Errorf("%w: to must be after from", entities.ErrInvalidArgument)
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListClasses(ctx, f)
}

// UpdateClass reschedules or cancels a class. Capacity cannot drop below current bookings.
func (u *Usecase) UpdateClass(ctx context.Context, actor entities.Actor, c entities.GymClass) (*entities.GymClass, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	current, err := u.repo.GetClass(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, current.BranchID); err != nil {
		return nil, err
	}
	c.BranchID = current.BranchID
	if c.Status == "" {
		c.Status = current.Status
	}
	if err := validateClass(&c); err != nil {
		return nil, err
	}
	if c.Capacity < current.Booked {
		return nil, fmt.Errorf("%w: capacity %d is below %d existing bookings", entities.ErrConflict, c.Capacity, current.Booked)
	}
	if err := u.checkTrainer(ctx, c); err != nil {
		return nil, err
	}
	return u.repo.UpdateClass(ctx, c)
}

// DeleteClass removes a class and its bookings.
func (u *Usecase) DeleteClass(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	c, err := u.repo.GetClass(ctx, id)
	if err != nil {
		return err
	}
	if err := requireBranch(actor, c.BranchID); err != nil {
		return err
	}
	return u.repo.DeleteClass(ctx, id)
}

// BookClass books a member into a class of the same branch. The member needs a
// running membership.
func (u *Usecase) BookClass(ctx context.Context, actor entities.Actor, classID, memberID uuid.UUID) (*entities.ClassBooking, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	c, err := u.repo.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, c.BranchID); err != nil {
		return nil, err
	}
	m, err := u.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.BranchID != c.BranchID {
		return nil, fmt.Errorf("%w: member belongs to another branch", entities.ErrInvalidArgument)
	}
	now := u.now()
	if !m.HasActiveMembership(now) {
		return nil, fmt.Errorf("%w: member has no active membership", entities.ErrInvalidArgument)
	}
	if !c.StartsAt.After(now) {
		return nil, fmt.Errorf("%w: class has already started", entities.ErrInvalidTransition)
	}

	b, err := u.repo.BookClass(ctx, classID, memberID)
	if err != nil {
		return nil, err
	}
	u.notifyMember(ctx, *m, entities.TemplateClassBooked, map[string]string{
		"class_name": c.Name,
		"class_time": c.StartsAt.Format("02 Jan 2006 15:04"),
	})
	return b, nil
}

// CancelBooking cancels a booking.
func (u *Usecase) CancelBooking(ctx context.Context, actor entities.Actor, bookingID uuid.UUID) (*entities.ClassBooking, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	b, err := u.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	c, err := u.repo.GetClass(ctx, b.ClassID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, c.BranchID); err != nil {
		return nil, err
	}
	if b.Status == entities.BookingCancelled {
		return b, nil
	}
	return u.repo.CancelBooking(ctx, bookingID)
}

// Bookings lists the bookings of a class.
func (u *Usecase) Bookings(ctx context.Context, actor entities.Actor, classID uuid.UUID) ([]entities.ClassBooking, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, coaching...); err != nil {
		return nil, err
	}
	c, err := u.repo.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, c.BranchID); err != nil {
		return nil, err
	}
	return u.repo.ListBookings(ctx, classID)
}

func (u *Usecase) checkTrainer(ctx context.Context, c entities.GymClass) error {
	if c.TrainerID == nil {
		return nil
	}
	s, err := u.repo.GetStaff(ctx, *c.TrainerID)
	if err != nil {
		return err
	}
	if s.BranchID != c.BranchID || s.Role != entities.StaffTrainer || !s.IsActive {
		return fmt.Errorf("%w: trainer_id must be an active trainer of the branch", entities.ErrInvalidArgument)
	}
	return nil
}

func validateClass(c *entities.GymClass) error {
	c.Name = strings.TrimSpace(c.Name)
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	case c.StartsAt.IsZero() || !c.EndsAt.After(c.StartsAt):
		return fmt.Errorf("%w: ends_at must be after starts_at", entities.ErrInvalidArgument)
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", entities.ErrInvalidArgument)
	}
	switch c.Status {
	case "", entities.ClassScheduled, entities.ClassCancelled, entities.ClassCompleted:
	default:
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, c.Status)
	}
	return nil
}
