package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

const razorpaySignatureHeader = "X-Razorpay-Signature"

// Invoices lists invoices.
func (h *Handler) Invoices(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	invoices, err := h.uc.Invoices(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(invoices)
}

// CreateInvoice issues an invoice. Totals are computed server-side.
func (h *Handler) CreateInvoice(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.InvoiceRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.CreateInvoice(c.UserContext(), a, body.ToInvoice(), body.Options())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(inv)
}

// Invoice returns one invoice with its items.
func (h *Handler) Invoice(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.Invoice(c.UserContext(), a, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(inv)
}

// UpdateInvoiceStatus moves an invoice along its lifecycle.
func (h *Handler) UpdateInvoiceStatus(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.StatusRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.UpdateInvoiceStatus(c.UserContext(), a, id, entities.InvoiceStatus(body.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(inv)
}

// DeleteInvoice removes an unpaid invoice.
func (h *Handler) DeleteInvoice(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteInvoice(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateCheckout opens a gateway order for a plan purchase.
func (h *Handler) CreateCheckout(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.CheckoutRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	checkout, err := h.uc.CreateCheckout(c.UserContext(), a, body.ToEntity())
	if err != nil {
		h.log.Warnw("checkout failed", "member_id", body.MemberID, "plan_id", body.PlanID, "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(checkout)
}

// VerifyCheckout settles the invoice once the widget reports success.
func (h *Handler) VerifyCheckout(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body mapper.VerificationRequest
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.VerifyCheckout(c.UserContext(), a, body.ToEntity())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(inv)
}

// RazorpayWebhook receives gateway events. The raw body is needed for the signature.
func (h *Handler) RazorpayWebhook(c *fiber.Ctx) error {
	body := append([]byte(nil), c.Body()...)
	if err := h.uc.HandleWebhook(c.UserContext(), body, c.Get(razorpaySignatureHeader)); err != nil {
		h.log.Warnw("webhook rejected", "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}
