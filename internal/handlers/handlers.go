package handlers

import (
	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"
	"workshop-management-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	authSvc        *services.AuthService
	workshopSvc    *services.WorkshopService
	participantSvc *services.ParticipantService
	checkinSvc     *services.CheckInService
	statsSvc       *services.StatisticsService
	emailSvc       *services.EmailService
	permSvc        *services.RolePermissionService
	publisher      services.JobPublisher
	cfg            *config.Config
}

func NewHandler(
	authSvc *services.AuthService,
	workshopSvc *services.WorkshopService,
	participantSvc *services.ParticipantService,
	checkinSvc *services.CheckInService,
	statsSvc *services.StatisticsService,
	emailSvc *services.EmailService,
	permSvc *services.RolePermissionService,
	publisher services.JobPublisher,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authSvc:        authSvc,
		workshopSvc:    workshopSvc,
		participantSvc: participantSvc,
		checkinSvc:     checkinSvc,
		statsSvc:       statsSvc,
		emailSvc:       emailSvc,
		permSvc:        permSvc,
		publisher:      publisher,
		cfg:            cfg,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	// Public routes
	public := router.Group("/auth")
	{
		public.Post("/login", h.Login)
	}

	// Protected routes (JWT required)
	protected := router.Group("", middleware.JWTMiddleware(h.cfg))
	{
		protected.Get("/profile", h.GetProfile)

		workshops := protected.Group("/workshops")
		{
			workshops.Get("/", h.perm("workshops.list"), h.ListWorkshops)
			workshops.Post("/", h.perm("workshops.create"), h.CreateWorkshop)
			workshops.Get("/:id", h.perm("workshops.view"), h.GetWorkshop)
			workshops.Put("/:id", h.perm("workshops.update"), h.UpdateWorkshop)
			workshops.Delete("/:id", h.perm("workshops.delete"), h.DeleteWorkshop)
			workshops.Patch("/:id/status", h.perm("workshops.change_status"), h.ChangeWorkshopStatus)

			workshops.Get("/:id/ticket-types", h.perm("ticket_types.list"), h.ListTicketTypes)
			workshops.Post("/:id/ticket-types", h.perm("ticket_types.create"), h.AddTicketType)

			workshops.Get("/:id/participants", h.perm("participants.list"), h.ListParticipants)
			workshops.Post("/:id/participants", h.perm("participants.create"), h.RegisterParticipant)
			workshops.Post("/:id/participants/import", h.perm("participants.import"), h.ImportParticipants)
			workshops.Get("/:id/participants/export", h.perm("participants.export"), h.ExportParticipants)

			workshops.Get("/:id/templates", h.perm("templates.list"), h.ListTemplates)
			workshops.Post("/:id/templates", h.perm("templates.create"), h.CreateTemplate)

			workshops.Get("/:id/statistics", h.perm("statistics.workshop"), h.GetWorkshopStatistics)
			workshops.Get("/:id/checkin-stats", h.perm("checkin.stats"), h.GetCheckInStats)
			workshops.Get("/:id/checkin-export", h.perm("checkin.export"), h.ExportCheckInReport)
		}

		ticketTypes := protected.Group("/ticket-types")
		{
			ticketTypes.Put("/:id", h.perm("ticket_types.update"), h.UpdateTicketType)
			ticketTypes.Delete("/:id", h.perm("ticket_types.delete"), h.DeleteTicketType)
		}

		participants := protected.Group("/participants")
		{
			participants.Get("/:id", h.perm("participants.view"), h.GetParticipant)
			participants.Put("/:id", h.perm("participants.update"), h.UpdateParticipant)
			participants.Delete("/:id", h.perm("participants.delete"), h.DeleteParticipant)
			participants.Post("/:id/send-ticket", h.perm("participants.send_ticket"), h.SendTicketEmail)
			participants.Get("/:id/qr-payload", h.perm("checkin.scan"), h.GetCheckInPayload)
		}

		checkin := protected.Group("/checkin")
		{
			checkin.Post("/", h.perm("checkin.perform"), h.CheckInByTicketCode)
			checkin.Post("/scan", h.perm("checkin.scan"), h.ScanQRCode)
			checkin.Post("/bulk", h.perm("checkin.bulk"), h.BulkCheckIn)
			// action-style paths used by scanner clients
			checkin.Post("/undo/:id", h.perm("checkin.undo"), h.UndoCheckIn)
			checkin.Get("/statistics/:id", h.perm("checkin.stats"), h.GetCheckInStats)
			checkin.Post("/:id", h.perm("checkin.perform"), h.CheckInByID)
			checkin.Delete("/:id", h.perm("checkin.undo"), h.UndoCheckIn)
			checkin.Get("/search", h.perm("checkin.search"), h.SearchParticipants)
		}

		templates := protected.Group("/templates")
		{
			// registered before /:id so "variables" never matches as an id
			templates.Get("/variables", h.perm("templates.list"), h.GetTemplateVariables)
			templates.Get("/:id", h.perm("templates.view"), h.GetTemplate)
			templates.Put("/:id", h.perm("templates.update"), h.UpdateTemplate)
			templates.Delete("/:id", h.perm("templates.delete"), h.DeleteTemplate)
		}

		statistics := protected.Group("/statistics")
		{
			statistics.Get("/dashboard", h.perm("statistics.dashboard"), h.GetDashboardStatistics)
			statistics.Delete("/cache", h.perm("statistics.clear_cache"), h.ClearStatisticsCache)
		}

		// Admin only routes
		admin := protected.Group("/admin", middleware.AdminOnly)
		{
			admin.Get("/users", h.ListUsers)
			admin.Post("/users", h.CreateUser)
			// registered before /users/:id so "export" never matches as an id
			admin.Get("/users/export", h.ExportUsers)
			admin.Get("/users/:id", h.GetUser)
			admin.Put("/users/:id", h.UpdateUser)
			admin.Delete("/users/:id", h.DeleteUser)

			admin.Get("/roles", h.ListRoles)
			admin.Post("/roles", h.CreateRole)
			admin.Get("/roles/:id", h.GetRole)
			admin.Put("/roles/:id", h.UpdateRole)
			admin.Delete("/roles/:id", h.DeleteRole)
			admin.Get("/roles/:id/permissions", h.GetRolePermissions)
			admin.Put("/roles/:id/permissions", h.SetRolePermissions)
		}
	}
}

func (h *Handler) perm(routeName string) fiber.Handler {
	return middleware.RequirePermission(h.permSvc, routeName)
}

// ErrorHandler handles global errors
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		logger.WithField("error", err).Error("internal error")
	}

	return utils.Error(c, message, code)
}

// checkInStatus maps a check-in error kind to its HTTP status.
func checkInStatus(errorType string) int {
	switch errorType {
	case services.ErrKindNotFound:
		return fiber.StatusNotFound
	case services.ErrKindSystemError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
