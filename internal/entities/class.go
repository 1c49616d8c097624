package entities

import (
	"time"

	"github.com/google/uuid"
)

// ClassStatus enumerates class states.
type ClassStatus string

const (
	ClassScheduled ClassStatus = "scheduled"
	ClassCancelled ClassStatus = "cancelled"
	ClassCompleted ClassStatus = "completed"
)

// GymClass is a scheduled group session.
type GymClass struct {
	ID          uuid.UUID   `json:"id"`
	BranchID    uuid.UUID   `json:"branch_id"`
	TrainerID   *uuid.UUID  `json:"trainer_id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartsAt    time.Time   `json:"starts_at"`
	EndsAt      time.Time   `json:"ends_at"`
	Capacity    int         `json:"capacity"`
	Booked      int         `json:"booked"`
	Status      ClassStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// BookingStatus enumerates booking states.
type BookingStatus string

const (
	BookingBooked    BookingStatus = "booked"
	BookingCancelled BookingStatus = "cancelled"
	BookingAttended  BookingStatus = "attended"
)

// ClassBooking reserves a class seat for a member.
type ClassBooking struct {
	ID        uuid.UUID     `json:"id"`
	ClassID   uuid.UUID     `json:"class_id"`
	MemberID  uuid.UUID     `json:"member_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
