package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/gofiber/fiber/v2"
)

// StaffList lists staff.
func (h *Handler) StaffList(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	staff, err := h.uc.StaffList(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(staff)
}

// CreateStaff adds a staff record.
func (h *Handler) CreateStaff(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.Staff
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	staff, err := h.uc.CreateStaff(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(staff)
}

// Staff returns one staff record.
func (h *Handler) Staff(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	staff, err := h.uc.Staff(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(staff)
}

// UpdateStaff replaces a staff record.
func (h *Handler) UpdateStaff(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.Staff
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	staff, err := h.uc.UpdateStaff(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(staff)
}

// DeleteStaff removes a staff record.
func (h *Handler) DeleteStaff(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteStaff(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
