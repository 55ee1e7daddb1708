package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/config"
	"github.com/campusgate/admissions-api/database"
	"github.com/campusgate/admissions-api/handlers"
	admin_handlers "github.com/campusgate/admissions-api/handlers/admin"
	auth_handlers "github.com/campusgate/admissions-api/handlers/auth"
	notification_handlers "github.com/campusgate/admissions-api/handlers/notification"
	payment_handlers "github.com/campusgate/admissions-api/handlers/payment"
	student_handlers "github.com/campusgate/admissions-api/handlers/student"
	university_handlers "github.com/campusgate/admissions-api/handlers/university"
	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/services/storage"
	"github.com/campusgate/admissions-api/utils/auth"
	"github.com/campusgate/admissions-api/utils/cache"
	"github.com/campusgate/admissions-api/utils/middleware"
)

// SetupRoutes wires services, handlers and the role-gated route groups
func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnvironmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "campusgate-admissions-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis-backed login lockouts; the API stays up without Redis
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	var bruteForceProtection *middleware.BruteForceProtection
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection is disabled.", err)
	} else {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object store for certificate scans; optional in development
	var documentStore *storage.Client
	if env.STORAGE_BUCKET != "" {
		documentStore, err = storage.NewClient(storage.Config{
			AccessKey: env.STORAGE_ACCESS_KEY,
			SecretKey: env.STORAGE_SECRET_KEY,
			Bucket:    env.STORAGE_BUCKET,
			Region:    env.STORAGE_REGION,
			Endpoint:  env.STORAGE_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Failed to set up document storage: %v. Uploads are disabled.", err)
		}
	}

	// Domain services
	notificationService := services.NewNotificationService(db)
	auditService := services.NewAuditService(db)
	applicationService := services.NewApplicationService(db, notificationService)
	paymentService := services.NewPaymentService(db, notificationService, applicationService, env.FRONTEND_URL)
	verificationService := services.NewVerificationService(db, notificationService, auditService)
	analyticsService := services.NewAnalyticsService(db)
	emailService := services.NewEmailService(env.FRONTEND_URL)
	if !emailService.IsConfigured() {
		log.Println("Warning: SMTP is not configured. Password reset tokens will be logged instead of emailed.")
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, emailService)
	studentHandler := student_handlers.NewStudentHandler(db, applicationService, documentStore)
	universityHandler := university_handlers.NewUniversityHandler(db, applicationService)
	paymentHandler := payment_handlers.NewPaymentHandler(db, paymentService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)
	adminHandler := admin_handlers.NewAdminHandler(db, verificationService, analyticsService, auditService, documentStore)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	app.Get("/ping", handlers.HandleCheckHealth(store))

	api := app.Group("/api/v1")

	// Auth (public, except logout/change-password)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Notifications (any authenticated role)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.List)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)

	// Student surface
	student := api.Group("/student", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent))
	student.Get("/profile", studentHandler.GetProfile)
	student.Put("/profile", studentHandler.UpdateProfile)
	student.Get("/programs", studentHandler.ListPrograms)
	student.Get("/programs/:id", studentHandler.GetProgram)
	student.Post("/applications", studentHandler.Apply)
	student.Get("/applications", studentHandler.ListApplications)
	student.Get("/applications/:id", studentHandler.GetApplication)
	student.Put("/applications/:id/withdraw", studentHandler.Withdraw)
	student.Post("/documents", studentHandler.UploadDocument)
	student.Get("/documents/:id/url", studentHandler.GetDocumentURL)

	// Payments (student-scoped)
	payments := api.Group("/payments", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent))
	payments.Post("/initiate", paymentHandler.Initiate)
	payments.Post("/verify", paymentHandler.Verify)
	payments.Get("/:applicationId", paymentHandler.Get)

	// University surface
	university := api.Group("/university", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleUniversity))
	university.Get("/profile", universityHandler.GetProfile)
	university.Put("/profile", universityHandler.UpdateProfile)
	university.Post("/programs", universityHandler.CreateProgram)
	university.Get("/programs", universityHandler.ListPrograms)
	university.Get("/programs/:id", universityHandler.GetProgram)
	university.Put("/programs/:id", universityHandler.UpdateProgram)
	university.Delete("/programs/:id", universityHandler.DeleteProgram)
	university.Get("/applications", universityHandler.ListApplications)
	university.Get("/applications/:id", universityHandler.GetApplication)
	university.Put("/applications/:id/status", universityHandler.ChangeStatus)

	// Admin surface
	admin := api.Group("/admin", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin))
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/revenue", adminHandler.Revenue)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/deactivate", adminHandler.DeactivateUser)
	admin.Put("/users/:id/reset-password", adminHandler.ResetUserPassword)
	admin.Get("/students", adminHandler.ListStudents)
	admin.Get("/students/:id", adminHandler.GetStudent)
	admin.Put("/students/:id/credentials/:credential/verify", adminHandler.VerifyCredential)
	admin.Put("/students/:id/credentials/:credential/reject", adminHandler.RejectCredential)
	admin.Put("/students/:id/allow-reapply", adminHandler.AllowReapply)
	admin.Get("/students/:id/documents/:docId/url", adminHandler.GetStudentDocumentURL)
	admin.Get("/universities", adminHandler.ListUniversities)
	admin.Get("/universities/:id", adminHandler.GetUniversity)
	admin.Put("/universities/:id/verify", adminHandler.VerifyUniversity)
	admin.Put("/universities/:id/reject", adminHandler.RejectUniversity)
	admin.Get("/applications", adminHandler.ListApplications)
	admin.Get("/payments", adminHandler.ListPayments)
	admin.Get("/logs", adminHandler.ListLogs)
}
