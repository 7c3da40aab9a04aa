package routes

import (
	"net/http"

	"inkstudio-backend/config"
	"inkstudio-backend/controllers"
	"inkstudio-backend/metrics"
	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router needs; main builds it once.
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Auth         *services.AuthService
	Profiles     *services.ProfileService
	Appointments *services.AppointmentService
	Promotions   *services.PromotionService
	Hub          *services.SessionHub
	AuthLimiter  *utils.RateLimiter
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	allowed := make(map[string]bool, len(d.Config.CORSOrigins))
	for _, o := range d.Config.CORSOrigins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
	}))

	r.Use(metrics.Middleware())
	r.Use(config.PerformanceLogger(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.Static("/uploads", d.Config.UploadDir)

	authRequired := controllers.AuthRequired(d.Auth)

	authController := controllers.NewAuthController(d.Auth, d.Config.IsProduction())
	auth := r.Group("/auth")
	{
		throttled := auth.Group("", d.AuthLimiter.Limit())
		throttled.POST("/register", authController.Register)
		throttled.POST("/login", authController.Login)
		throttled.POST("/google", authController.Google)

		auth.POST("/logout", authRequired, authController.Logout)
		auth.GET("/me", authRequired, authController.Me)
	}

	sessionController := controllers.NewSessionController(d.Auth, d.Hub, d.Logger, d.Config.CORSOrigins)
	r.GET("/ws/session", sessionController.Stream)

	promotionController := controllers.NewPromotionController(d.Promotions)
	availabilityController := controllers.NewAvailabilityController(d.Appointments)
	profileController := controllers.NewProfileController(d.Profiles)
	appointmentController := controllers.NewAppointmentController(d.Appointments)

	api := r.Group("/api")
	{
		// Public routes
		api.GET("/promotions", promotionController.GetActivePromotions)
		api.GET("/availability", availabilityController.GetAvailability)

		private := api.Group("", authRequired)

		profile := private.Group("/profile")
		{
			profile.GET("", profileController.GetProfile)
			profile.PUT("", profileController.UpdateProfile)
			profile.POST("/image", profileController.UploadImage)
			profile.GET("/loyalty", profileController.Loyalty)
		}

		appointments := private.Group("/appointments")
		{
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.GET("", appointmentController.GetMyAppointments)
			appointments.GET("/:id/whatsapp", appointmentController.GetWhatsAppLink)
			appointments.GET("/:id/qrcode", appointmentController.GetQRCode)
		}

		dashboardController := controllers.NewDashboardController(d.Appointments, d.Profiles, d.Config.Location())
		reportController := controllers.NewReportController(d.Appointments, d.Config.Location())

		admin := private.Group("/admin", controllers.AdminOnly())
		{
			admin.GET("/appointments", appointmentController.GetAppointments)
			admin.PUT("/appointments/:id/status", appointmentController.UpdateStatus)
			admin.DELETE("/appointments/:id", appointmentController.DeleteAppointment)

			admin.GET("/clients", dashboardController.GetClients)
			admin.GET("/dashboard", dashboardController.GetDashboardOverview)
			admin.GET("/reports", reportController.GetReportAnalytics)

			admin.GET("/promotions", promotionController.GetPromotions)
			admin.POST("/promotions", promotionController.CreatePromotion)
			admin.PUT("/promotions/:id", promotionController.UpdatePromotion)
			admin.DELETE("/promotions/:id", promotionController.DeletePromotion)
		}
	}

	return r
}
