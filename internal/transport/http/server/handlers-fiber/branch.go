package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
)

// PublicBranches lists active branches without authentication.
func (h *Handler) PublicBranches(c *fiber.Ctx) error {
	branches, err := h.uc.PublicBranches(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(branches)
}

// Me returns the caller's profile and branch.
func (h *Handler) Me(c *fiber.Ctx) error {
	profile, ok := middleware.ProfileFrom(c)
	if !ok {
		return writeError(c, entities.ErrUnauthorized)
	}
	resp := mapper.MeResponse{Profile: profile}
	if profile.BranchID != nil {
		a, _ := actor(c)
		branch, err := h.uc.Branch(c.UserContext(), a, *profile.BranchID)
		if err != nil {
			return writeError(c, err)
		}
		resp.Branch = branch
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// UpsertProfile assigns a role and branch to a user.
func (h *Handler) UpsertProfile(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.ProfileRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	profile, err := h.uc.UpsertProfile(c.UserContext(), a, body.ToProfile(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(profile)
}

// Branches lists branches visible to the caller.
func (h *Handler) Branches(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branches, err := h.uc.Branches(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(branches)
}

// Branch returns one branch.
func (h *Handler) Branch(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	branch, err := h.uc.Branch(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(branch)
}

// CreateBranch adds a branch.
func (h *Handler) CreateBranch(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.Branch
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	branch, err := h.uc.CreateBranch(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(branch)
}

// UpdateBranch replaces a branch.
func (h *Handler) UpdateBranch(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.Branch
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	branch, err := h.uc.UpdateBranch(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(branch)
}

// DeleteBranch removes a branch.
func (h *Handler) DeleteBranch(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteBranch(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
