package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/gofiber/fiber/v2"
)

// PublishedSections lists published website content.
func (h *Handler) PublishedSections(c *fiber.Ctx) error {
	sections, err := h.uc.Sections(c.UserContext(), true)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(sections)
}

// PublicSection returns one published section.
func (h *Handler) PublicSection(c *fiber.Ctx) error {
	section, err := h.uc.Section(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(section)
}

// Sections lists every section including drafts.
func (h *Handler) Sections(c *fiber.Ctx) error {
	sections, err := h.uc.Sections(c.UserContext(), false)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(sections)
}

// UpsertSection creates or replaces a section.
func (h *Handler) UpsertSection(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.WebsiteSection
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.Key = c.Params("key")
	section, err := h.uc.UpsertSection(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(section)
}
