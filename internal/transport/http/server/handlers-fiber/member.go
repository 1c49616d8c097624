package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Members lists members of the caller's branch.
func (h *Handler) Members(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	members, err := h.uc.Members(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(members)
}

// CreateMember registers a member, optionally referred by another member's code.
func (h *Handler) CreateMember(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.MemberRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	member, err := h.uc.CreateMember(c.UserContext(), a, body.ToMember(uuid.Nil), body.ReferralCode)
	if err != nil {
		h.log.Infow("create member failed", "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(member)
}

// Member returns one member.
func (h *Handler) Member(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	member, err := h.uc.Member(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(member)
}

// UpdateMember replaces a member's profile fields.
func (h *Handler) UpdateMember(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.MemberRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	member, err := h.uc.UpdateMember(c.UserContext(), a, body.ToMember(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(member)
}

// DeleteMember removes a member.
func (h *Handler) DeleteMember(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteMember(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// PublicPlans lists the active plans of a branch without authentication.
func (h *Handler) PublicPlans(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	plans, err := h.uc.PublicPlans(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(plans)
}

// Plans lists membership plans. ?active=true hides retired plans.
func (h *Handler) Plans(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	plans, err := h.uc.Plans(c.UserContext(), a, branchID, c.QueryBool("active"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(plans)
}

// CreatePlan adds a membership plan.
func (h *Handler) CreatePlan(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.MembershipPlan
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	plan, err := h.uc.CreatePlan(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(plan)
}

// Plan returns one plan.
func (h *Handler) Plan(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	plan, err := h.uc.Plan(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(plan)
}

// UpdatePlan replaces a plan.
func (h *Handler) UpdatePlan(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.MembershipPlan
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	plan, err := h.uc.UpdatePlan(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(plan)
}

// DeletePlan removes a plan.
func (h *Handler) DeletePlan(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeletePlan(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
