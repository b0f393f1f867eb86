// File: consultly/routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"consultly/handlers"
	"consultly/middleware"
	"consultly/models"
)

// RegisterConsultationRoutes registers the consultation lifecycle,
// message-log, and stream endpoints.
func RegisterConsultationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/consultations")
	{
		// Booking and withdrawal are seeker operations.
		api.POST("", middleware.AuthRequired(models.RoleSeeker), hb.BookConsultationHandler)
		api.DELETE("/:id", middleware.AuthRequired(models.RoleSeeker), hb.CancelConsultationHandler)
		api.PATCH("/:id/review", middleware.AuthRequired(models.RoleSeeker), hb.ReviewConsultationHandler)

		// Everything else is shared between the two participants.
		shared := api.Group("", middleware.AuthAny(models.RoleSeeker, models.RoleAdvisor))
		shared.GET("", hb.ListConsultationsHandler)
		shared.GET("/stream", hb.StreamHandler)
		shared.GET("/:id", hb.GetConsultationHandler)
		shared.PATCH("/:id", hb.TransitionConsultationHandler)
		shared.POST("/:id/messages", hb.SendMessageHandler)
		shared.GET("/:id/messages", hb.ListMessagesHandler)
		shared.POST("/:id/messages/read", hb.MarkMessagesReadHandler)
	}
}

// RegisterMessageRoutes registers mutation endpoints addressed by message id.
func RegisterMessageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/messages", middleware.AuthAny(models.RoleSeeker, models.RoleAdvisor))
	{
		api.PATCH("/:id", hb.EditMessageHandler)
		api.DELETE("/:id", hb.DeleteMessageHandler)
	}
}

// RegisterNotificationRoutes registers the notification feed endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications", middleware.AuthAny(models.RoleSeeker, models.RoleAdvisor))
	{
		api.GET("", hb.ListNotificationsHandler)
		api.POST("/mark-all-read", hb.MarkNotificationsReadHandler)
	}
}

// RegisterSlotRoutes registers advisor slot management plus the public
// availability listing seekers browse.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots", middleware.AuthRequired(models.RoleAdvisor))
	{
		api.POST("", hb.CreateSlotHandler)
		api.GET("", hb.ListOwnSlotsHandler)
		api.DELETE("/:id", hb.DeleteSlotHandler)
	}

	r.GET("/api/advisors/:id/slots",
		middleware.AuthAny(models.RoleSeeker, models.RoleAdvisor, models.RoleOperator),
		hb.ListAdvisorSlotsHandler)
}

// RegisterAdminRoutes registers operator-only oversight endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin", middleware.AuthRequired(models.RoleOperator))
	{
		api.GET("/consultations", hb.AdminListConsultationsHandler)
		api.GET("/advisors/:id/consultations", hb.AdminAdvisorConsultationsHandler)
	}
}

// RegisterHealthRoute registers the liveness endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterConsultationRoutes(r, hb)
	RegisterMessageRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterSlotRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
