package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// branchParam reads the required branch_id query, defaulting to the caller's branch.
func branchParam(c *fiber.Ctx, a entities.Actor) (uuid.UUID, error) {
	id, err := queryUUID(c, "branch_id")
	if err != nil {
		return uuid.Nil, err
	}
	if id != nil {
		return *id, nil
	}
	if a.BranchID != nil {
		return *a.BranchID, nil
	}
	return uuid.Nil, badRequest("branch_id is required")
}

// IntegrationStatuses lists the state of every integration.
func (h *Handler) IntegrationStatuses(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	statuses, err := h.uc.IntegrationStatuses(c.UserContext(), a, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(statuses)
}

// SetIntegrationActive switches one integration on or off for a branch.
func (h *Handler) SetIntegrationActive(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.IntegrationToggleRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	status, err := h.uc.SetIntegrationActive(c.UserContext(), a, body.BranchID, c.Params("name"), body.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(status)
}

// HikvisionSettings returns a branch's credentials without the secret.
func (h *Handler) HikvisionSettings(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := branchParam(c, a)
	if err != nil {
		return writeError(c, err)
	}
	settings, err := h.uc.HikvisionSettings(c.UserContext(), a, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToHikvisionSettingsResponse(*settings))
}

// SaveHikvisionSettings stores a branch's credentials.
func (h *Handler) SaveHikvisionSettings(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := branchParam(c, a)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.HikvisionSettingsRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	settings, err := h.uc.SaveHikvisionSettings(c.UserContext(), a, body.ToSettings(branchID))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToHikvisionSettingsResponse(*settings))
}

// TestHikvisionConnection requests a token with the stored credentials.
func (h *Handler) TestHikvisionConnection(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := branchParam(c, a)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.TestHikvisionConnection(c.UserContext(), a, branchID); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": entities.IntegrationConnected})
}

// Devices lists registered access-control devices.
func (h *Handler) Devices(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	devices, err := h.uc.Devices(c.UserContext(), a, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(devices)
}

// CreateDevice registers a device by hand.
func (h *Handler) CreateDevice(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.HikvisionDevice
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	device, err := h.uc.CreateDevice(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(device)
}

// UpdateDevice replaces a device record.
func (h *Handler) UpdateDevice(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.HikvisionDevice
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	device, err := h.uc.UpdateDevice(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(device)
}

// DeleteDevice removes a device record.
func (h *Handler) DeleteDevice(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteDevice(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SyncDevices pulls the device inventory from the platform.
func (h *Handler) SyncDevices(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := branchParam(c, a)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.SyncDevices(c.UserContext(), a, branchID)
	if err != nil {
		h.log.Warnw("device sync failed", "branch_id", branchID, "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.SyncResponse{Synced: n})
}

// Zones lists access zones.
func (h *Handler) Zones(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	zones, err := h.uc.Zones(c.UserContext(), a, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(zones)
}

// CreateZone adds an access zone.
func (h *Handler) CreateZone(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.AccessZone
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	zone, err := h.uc.CreateZone(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(zone)
}

// DeleteZone removes an access zone.
func (h *Handler) DeleteZone(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteZone(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Doors lists access doors.
func (h *Handler) Doors(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	doors, err := h.uc.Doors(c.UserContext(), a, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(doors)
}

// CreateDoor adds an access door.
func (h *Handler) CreateDoor(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.AccessDoor
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	door, err := h.uc.CreateDoor(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(door)
}

// DeleteDoor removes an access door.
func (h *Handler) DeleteDoor(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteDoor(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// OpenDoor sends a remote open command.
func (h *Handler) OpenDoor(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.OpenDoor(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusAccepted)
}

// SyncMemberAccess pushes a member's validity window to the platform.
func (h *Handler) SyncMemberAccess(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	member, err := h.uc.SyncMemberAccess(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(member)
}
