package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// Promos lists promo codes.
func (h *Handler) Promos(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	promos, err := h.uc.Promos(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(promos)
}

// CreatePromo adds a promo code.
func (h *Handler) CreatePromo(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.PromoCode
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	promo, err := h.uc.CreatePromo(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(promo)
}

// Promo returns one promo code.
func (h *Handler) Promo(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	promo, err := h.uc.Promo(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(promo)
}

// UpdatePromo replaces a promo code.
func (h *Handler) UpdatePromo(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.PromoCode
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	promo, err := h.uc.UpdatePromo(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(promo)
}

// DeletePromo removes a promo code.
func (h *Handler) DeletePromo(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeletePromo(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ValidatePromo previews the discount a code gives on an amount.
func (h *Handler) ValidatePromo(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.PromoValidationRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	preview, err := h.uc.ValidatePromo(c.UserContext(), a, body.BranchID, body.Code, body.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(preview)
}

// Referrals lists referrals.
func (h *Handler) Referrals(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	referrals, err := h.uc.Referrals(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(referrals)
}

// CreateReferral records a referral between two members.
func (h *Handler) CreateReferral(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.Referral
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	referral, err := h.uc.CreateReferral(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(referral)
}
