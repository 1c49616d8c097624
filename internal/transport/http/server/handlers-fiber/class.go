package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// Classes lists scheduled classes. from/to bound the start time.
func (h *Handler) Classes(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	classes, err := h.uc.Classes(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(classes)
}

// CreateClass schedules a class.
func (h *Handler) CreateClass(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.GymClass
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	class, err := h.uc.CreateClass(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(class)
}

// Class returns one class.
func (h *Handler) Class(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	class, err := h.uc.Class(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(class)
}

// UpdateClass replaces a class.
func (h *Handler) UpdateClass(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.GymClass
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	class, err := h.uc.UpdateClass(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(class)
}

// DeleteClass removes a class.
func (h *Handler) DeleteClass(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteClass(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Bookings lists bookings of a class.
func (h *Handler) Bookings(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	bookings, err := h.uc.Bookings(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(bookings)
}

// BookClass books a member into a class.
func (h *Handler) BookClass(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.BookingRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	booking, err := h.uc.BookClass(c.UserContext(), a, id, body.MemberID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(booking)
}

// CancelBooking cancels a booking.
func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	booking, err := h.uc.CancelBooking(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(booking)
}
