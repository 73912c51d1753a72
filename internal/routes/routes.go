package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/audit"
	"github.com/MedVetSolutions/vet-scheduler/internal/billing"
	"github.com/MedVetSolutions/vet-scheduler/internal/cache"
	"github.com/MedVetSolutions/vet-scheduler/internal/config"
	"github.com/MedVetSolutions/vet-scheduler/internal/gate"
	"github.com/MedVetSolutions/vet-scheduler/internal/handlers"
	infraRepo "github.com/MedVetSolutions/vet-scheduler/internal/infra/repository"
	"github.com/MedVetSolutions/vet-scheduler/internal/middleware"
	"github.com/MedVetSolutions/vet-scheduler/internal/notify"
	ucAppointment "github.com/MedVetSolutions/vet-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/MedVetSolutions/vet-scheduler/internal/usecase/availability"
	ucPlan "github.com/MedVetSolutions/vet-scheduler/internal/usecase/plan"
	"github.com/MedVetSolutions/vet-scheduler/internal/video"
)

// Deps holds the long-lived pieces main wires up once and routes share.
type Deps struct {
	Cache    *cache.Cache
	Notifier *notify.Dispatcher
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(db)
	planRepo := infraRepo.NewPlanGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	accessGate := gate.New(
		gate.RolePermissions{},
		infraRepo.NewGormSubscriptionResolver(db),
		infraRepo.NewGormUsageCounter(db),
	)

	availabilitySvc := ucAvailability.NewService(availabilityRepo, deps.Cache)
	planSvc := ucPlan.NewService(planRepo)
	stripeSvc := billing.NewStripeFromConfig(cfg)
	provisioner := video.NewLinkProvisioner(cfg.VideoBaseURL)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	opts := ucAppointment.Options{
		EnforceAvailability: cfg.EnforceAvailability,
		GuardBooking:        cfg.GuardBooking,
	}

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		availabilitySvc,
		provisioner,
		deps.Notifier,
		auditDispatcher,
		opts,
	)

	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
		deps.Notifier,
	)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		auditDispatcher,
		deps.Notifier,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, accessGate)
	userHandler := handlers.NewUserHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	petHandler := handlers.NewPetHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		rescheduleAppointmentUC,
		transitionAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(db, availabilitySvc)
	planHandler := handlers.NewPlanHandler(planSvc, stripeSvc, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/plans", planHandler.ListActive)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.Profile)
			secured.GET("/me/subscription", meHandler.Subscription)
			secured.GET("/me/entitlements", meHandler.Entitlements)

			// ------------------------------
			// TEAM
			// ------------------------------
			secured.GET("/me/users", userHandler.List)
			secured.POST("/me/users",
				middleware.GateMiddleware(db, accessGate, gate.ActionCreateUser),
				userHandler.Create)
			secured.PATCH("/me/users/:id", userHandler.Update)
			secured.DELETE("/me/users/:id", userHandler.Delete)

			// ------------------------------
			// CLIENTS AND PETS
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id", clientHandler.Get)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)
			secured.GET("/me/clients/:id/appointments", appointmentHandler.ListByClient)

			secured.GET("/me/pets", petHandler.List)
			secured.GET("/me/pets/:id", petHandler.Get)
			secured.POST("/me/pets",
				middleware.GateMiddleware(db, accessGate, gate.ActionCreatePet),
				petHandler.Create)
			secured.PATCH("/me/pets/:id", petHandler.Update)
			secured.DELETE("/me/pets/:id", petHandler.Delete)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/me/schedule", availabilityHandler.GetWeeklySchedule)
			secured.PUT("/me/schedule", availabilityHandler.PutWeeklySchedule)
			secured.GET("/me/availability", availabilityHandler.CheckAvailability)

			secured.GET("/me/holidays", availabilityHandler.ListHolidays)
			secured.POST("/me/holidays", availabilityHandler.CreateHoliday)
			secured.DELETE("/me/holidays/:id", availabilityHandler.DeleteHoliday)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments",
				middleware.GateMiddleware(db, accessGate, gate.ActionCreateAppointment),
				appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDay)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/search", appointmentHandler.Search)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/start", appointmentHandler.Start)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/follow-up", appointmentHandler.FlagFollowUp)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// BILLING
			// ------------------------------
			secured.POST("/me/billing/checkout", planHandler.Checkout)

			// ------------------------------
			// PLAN ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole("owner", "admin"))
			{
				admin.GET("/plans", planHandler.ListAll)
				admin.GET("/plans/:id", planHandler.Get)
				admin.POST("/plans", planHandler.Create)
				admin.PATCH("/plans/:id", planHandler.Update)
				admin.PATCH("/plans/:id/active", planHandler.SetActive)
				admin.DELETE("/plans/:id", planHandler.Delete)
			}
		}
	}
}
