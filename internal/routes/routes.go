package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	"github.com/BruksfildServices01/clinic-recall/internal/config"
	"github.com/BruksfildServices01/clinic-recall/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-recall/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-recall/internal/middleware"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
	"github.com/BruksfildServices01/clinic-recall/internal/realtime"
	ucAppointment "github.com/BruksfildServices01/clinic-recall/internal/usecase/appointment"
	ucNotification "github.com/BruksfildServices01/clinic-recall/internal/usecase/notification"
	ucRecall "github.com/BruksfildServices01/clinic-recall/internal/usecase/recall"
)

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    zerolog.Logger
	Audit  *audit.Dispatcher
	Hub    *realtime.Hub
	Guard  ucNotification.Guard

	// nil disables the recall export
	Uploader ucRecall.Uploader
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	recallRepo := infraRepo.NewRecallGormRepository(d.DB)
	notificationRepo := infraRepo.NewNotificationGormRepository(d.DB)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, d.Audit, cfg.ClinicTimezone)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, d.Audit, cfg.ClinicTimezone)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, cfg.ClinicTimezone)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, cfg.ClinicTimezone)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)

	// ======================================================
	// 🧠 USE CASES — RECALL
	// ======================================================
	listCandidatesUC := ucRecall.NewListCandidates(recallRepo, cfg.ClinicTimezone, cfg.RecallMonths)
	dismissCandidateUC := ucRecall.NewDismissCandidate(recallRepo, d.Audit)
	exportCandidatesUC := ucRecall.NewExportCandidates(listCandidatesUC, d.Uploader, d.Audit)

	// ======================================================
	// 🧠 USE CASES — NOTIFICATIONS
	// ======================================================
	checkInUC := ucNotification.NewCheckIn(
		appointmentRepo,
		notificationRepo,
		d.Guard,
		d.Audit,
		cfg.ClinicTimezone,
		cfg.CheckInTTL,
	)
	listUnreadUC := ucNotification.NewListUnread(notificationRepo)
	markReadUC := ucNotification.NewMarkRead(notificationRepo, d.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg)
	meHandler := handlers.NewMeHandler(d.DB)
	patientHandler := handlers.NewPatientHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		confirmAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		checkInUC,
		cfg.ClinicTimezone,
	)

	recallHandler := handlers.NewRecallHandler(
		listCandidatesUC,
		dismissCandidateUC,
		exportCandidatesUC,
	)

	notificationHandler := handlers.NewNotificationHandler(
		listUnreadUC,
		markReadUC,
		d.Hub,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, cfg.ClinicTimezone)

	r.GET("/health", handlers.Health(d.Hub))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/bootstrap", authHandler.Bootstrap)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))

		admin := middleware.RequireRole(models.RoleAdmin)
		dentist := middleware.RequireRole(models.RoleDentist)
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/dentists", meHandler.ListDentists)
			secured.POST("/me/staff", admin, authHandler.RegisterStaff)

			secured.GET("/me/patients", patientHandler.List)
			secured.POST("/me/patients", admin, patientHandler.Create)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/me/appointments/:id/check-in", admin, appointmentHandler.CheckIn)

			// ------------------------------
			// RECALL
			// ------------------------------
			secured.GET("/me/recalls", admin, recallHandler.List)
			secured.POST("/me/recalls/export", admin, recallHandler.Export)
			secured.POST("/me/recalls/:patientId/dismiss", admin, recallHandler.Dismiss)

			// ------------------------------
			// NOTIFICATIONS
			// ------------------------------
			secured.GET("/me/notifications/unread", dentist, notificationHandler.Unread)
			secured.POST("/me/notifications/read", dentist, notificationHandler.MarkRead)
			secured.GET("/me/notifications/stream", dentist, notificationHandler.Stream)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
