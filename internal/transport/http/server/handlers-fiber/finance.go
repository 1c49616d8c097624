package handlers_fiber

import (
	"net/http"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/gofiber/fiber/v2"
)

// Income lists income records.
func (h *Handler) Income(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	records, err := h.uc.Income(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(records)
}

// CreateIncome books a manual income record.
func (h *Handler) CreateIncome(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.IncomeRecord
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	record, err := h.uc.CreateIncome(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(record)
}

// DeleteIncome removes a manual income record.
func (h *Handler) DeleteIncome(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteIncome(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Expenses lists expense records.
func (h *Handler) Expenses(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := listFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	records, err := h.uc.Expenses(c.UserContext(), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(records)
}

// CreateExpense books an expense.
func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	var body entities.ExpenseRecord
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	record, err := h.uc.CreateExpense(c.UserContext(), a, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(record)
}

// DeleteExpense removes an expense.
func (h *Handler) DeleteExpense(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteExpense(c.UserContext(), a, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// FinanceSummary totals income and expenses over a period.
func (h *Handler) FinanceSummary(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, from, to, err := period(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.uc.FinanceSummary(c.UserContext(), a, branchID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(summary)
}

// Dashboard returns the branch overview for a period.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, err)
	}
	branchID, from, to, err := period(c)
	if err != nil {
		return writeError(c, err)
	}
	stats, err := h.uc.Dashboard(c.UserContext(), a, branchID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(stats)
}
