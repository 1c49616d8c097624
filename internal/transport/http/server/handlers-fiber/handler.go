// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/transport/http/middleware"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the REST API on top of the usecase layer.
type Handler struct {
	log *zap.SugaredLogger
	uc  usecase.InterfaceUsecase
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase) *Handler {
	return &Handler{
		log: log,
		uc:  usecase,
	}
}

// Register mounts every route under /api. authenticate must store the
// caller with the middleware package before calling Next.
func (h *Handler) Register(app fiber.Router, authenticate fiber.Handler) {
	api := app.Group("/api")

	api.Get("/public/branches", h.PublicBranches)
	api.Get("/public/branches/:id/plans", h.PublicPlans)
	api.Get("/public/website", h.PublishedSections)
	api.Get("/public/website/:key", h.PublicSection)
	api.Post("/webhooks/razorpay", h.RazorpayWebhook)

	front := middleware.RequireRole(entities.RoleManager, entities.RoleStaff)
	coaching := middleware.RequireRole(entities.RoleManager, entities.RoleStaff, entities.RoleTrainer)
	managers := middleware.RequireRole(entities.RoleManager)
	admin := middleware.RequireRole()

	api.Get("/me", authenticate, h.Me)
	api.Put("/profiles/:id", authenticate, admin, h.UpsertProfile)

	api.Get("/branches", authenticate, front, h.Branches)
	api.Get("/branches/:id", authenticate, front, h.Branch)
	api.Post("/branches", authenticate, admin, h.CreateBranch)
	api.Put("/branches/:id", authenticate, admin, h.UpdateBranch)
	api.Delete("/branches/:id", authenticate, admin, h.DeleteBranch)

	api.Get("/members", authenticate, front, h.Members)
	api.Post("/members", authenticate, front, h.CreateMember)
	api.Get("/members/:id", authenticate, front, h.Member)
	api.Put("/members/:id", authenticate, front, h.UpdateMember)
	api.Delete("/members/:id", authenticate, managers, h.DeleteMember)

	api.Get("/plans", authenticate, front, h.Plans)
	api.Post("/plans", authenticate, managers, h.CreatePlan)
	api.Get("/plans/:id", authenticate, front, h.Plan)
	api.Put("/plans/:id", authenticate, managers, h.UpdatePlan)
	api.Delete("/plans/:id", authenticate, managers, h.DeletePlan)

	api.Get("/invoices", authenticate, front, h.Invoices)
	api.Post("/invoices", authenticate, front, h.CreateInvoice)
	api.Get("/invoices/:id", authenticate, front, h.Invoice)
	api.Patch("/invoices/:id/status", authenticate, front, h.UpdateInvoiceStatus)
	api.Delete("/invoices/:id", authenticate, managers, h.DeleteInvoice)
	api.Post("/checkout", authenticate, front, h.CreateCheckout)
	api.Post("/checkout/verify", authenticate, front, h.VerifyCheckout)

	api.Get("/staff", authenticate, front, h.StaffList)
	api.Post("/staff", authenticate, managers, h.CreateStaff)
	api.Get("/staff/:id", authenticate, front, h.Staff)
	api.Put("/staff/:id", authenticate, managers, h.UpdateStaff)
	api.Delete("/staff/:id", authenticate, managers, h.DeleteStaff)

	api.Get("/classes", authenticate, coaching, h.Classes)
	api.Post("/classes", authenticate, front, h.CreateClass)
	api.Get("/classes/:id", authenticate, coaching, h.Class)
	api.Put("/classes/:id", authenticate, front, h.UpdateClass)
	api.Delete("/classes/:id", authenticate, front, h.DeleteClass)
	api.Get("/classes/:id/bookings", authenticate, coaching, h.Bookings)
	api.Post("/classes/:id/bookings", authenticate, front, h.BookClass)
	api.Delete("/bookings/:id", authenticate, front, h.CancelBooking)

	api.Get("/promo-codes", authenticate, front, h.Promos)
	api.Post("/promo-codes", authenticate, managers, h.CreatePromo)
	api.Post("/promo-codes/validate", authenticate, front, h.ValidatePromo)
	api.Get("/promo-codes/:id", authenticate, front, h.Promo)
	api.Put("/promo-codes/:id", authenticate, managers, h.UpdatePromo)
	api.Delete("/promo-codes/:id", authenticate, managers, h.DeletePromo)
	api.Get("/referrals", authenticate, front, h.Referrals)
	api.Post("/referrals", authenticate, front, h.CreateReferral)

	api.Get("/finance/income", authenticate, managers, h.Income)
	api.Post("/finance/income", authenticate, managers, h.CreateIncome)
	api.Delete("/finance/income/:id", authenticate, managers, h.DeleteIncome)
	api.Get("/finance/expenses", authenticate, managers, h.Expenses)
	api.Post("/finance/expenses", authenticate, managers, h.CreateExpense)
	api.Delete("/finance/expenses/:id", authenticate, managers, h.DeleteExpense)
	api.Get("/finance/summary", authenticate, managers, h.FinanceSummary)

	api.Get("/notifications", authenticate, front, h.Notifications)
	api.Post("/notifications", authenticate, front, h.SendNotification)
	api.Patch("/notifications/:id/status", authenticate, admin, h.UpdateNotificationStatus)
	api.Get("/notification-templates", authenticate, front, h.Templates)
	api.Post("/notification-templates", authenticate, managers, h.CreateTemplate)
	api.Put("/notification-templates/:id", authenticate, managers, h.UpdateTemplate)
	api.Delete("/notification-templates/:id", authenticate, managers, h.DeleteTemplate)
	api.Post("/notification-templates/:id/preview", authenticate, front, h.PreviewTemplate)

	api.Get("/feedback", authenticate, front, h.FeedbackList)
	api.Post("/feedback", authenticate, front, h.SubmitFeedback)
	api.Post("/feedback/:id/resolve", authenticate, front, h.ResolveFeedback)

	api.Get("/dashboard", authenticate, front, h.Dashboard)

	api.Get("/website", authenticate, admin, h.Sections)
	api.Put("/website/:key", authenticate, admin, h.UpsertSection)

	integrations := api.Group("/integrations", authenticate, admin)
	integrations.Get("/", h.IntegrationStatuses)
	integrations.Get("/hikvision/settings", h.HikvisionSettings)
	integrations.Put("/hikvision/settings", h.SaveHikvisionSettings)
	integrations.Post("/hikvision/test", h.TestHikvisionConnection)
	integrations.Get("/hikvision/devices", h.Devices)
	integrations.Post("/hikvision/devices", h.CreateDevice)
	integrations.Post("/hikvision/devices/sync", h.SyncDevices)
	integrations.Put("/hikvision/devices/:id", h.UpdateDevice)
	integrations.Delete("/hikvision/devices/:id", h.DeleteDevice)
	integrations.Get("/hikvision/zones", h.Zones)
	integrations.Post("/hikvision/zones", h.CreateZone)
	integrations.Delete("/hikvision/zones/:id", h.DeleteZone)
	integrations.Get("/hikvision/doors", h.Doors)
	integrations.Post("/hikvision/doors", h.CreateDoor)
	integrations.Delete("/hikvision/doors/:id", h.DeleteDoor)
	integrations.Post("/hikvision/doors/:id/open", h.OpenDoor)
	integrations.Post("/hikvision/members/:id/sync", h.SyncMemberAccess)
	integrations.Put("/:name", h.SetIntegrationActive)
}
