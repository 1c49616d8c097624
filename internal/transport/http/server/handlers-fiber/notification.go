package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// Templates lists notification templates.
func (h *Handler) Templates(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, err := queryUUID(c, "branch_id")
	if err != nil {
		return writeError(c, err)
	}
	templates, err := h.uc.Templates(c.UserContext(), a, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(templates)
}

// CreateTemplate adds a template.
func (h *Handler) CreateTemplate(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.NotificationTemplate
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	tpl, err := h.uc.CreateTemplate(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(tpl)
}

// UpdateTemplate replaces a template.
func (h *Handler) UpdateTemplate(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body entities.NotificationTemplate
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	body.ID = id
	tpl, err := h.uc.UpdateTemplate(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(tpl)
}

// DeleteTemplate removes a template.
func (h *Handler) DeleteTemplate(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteTemplate(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// PreviewTemplate renders a template with sample variables.
func (h *Handler) PreviewTemplate(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.PreviewRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	preview, err := h.uc.PreviewTemplate(c.UserContext(), a, id, body.Vars)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(preview)
}

// Notifications lists outbound notifications.
func (h *Handler) Notifications(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.uc.Notifications(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(items)
}

// SendNotification renders a template for a member and queues it.
func (h *Handler) SendNotification(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.SendNotificationRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.SendNotification(c.UserContext(), a, body.ToEntity())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(n)
}

// UpdateNotificationStatus records a delivery outcome.
func (h *Handler) UpdateNotificationStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.NotificationStatusRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.UpdateNotificationStatus(c.UserContext(), id, body.Status, body.Error); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// FeedbackList lists member feedback.
func (h *Handler) FeedbackList(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.uc.FeedbackList(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(items)
}

// SubmitFeedback records feedback.
func (h *Handler) SubmitFeedback(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.Feedback
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	fb, err := h.uc.SubmitFeedback(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fb)
}

// ResolveFeedback closes a feedback item with a response.
func (h *Handler) ResolveFeedback(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.ResolveFeedbackRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	fb, err := h.uc.ResolveFeedback(c.UserContext(), a, id, body.Response)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fb)
}
