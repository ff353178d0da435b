package routes

import (
	"net/http"
	"time"

	"homely/handlers"
	"homely/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRequestRoutes registers the negotiation endpoints.
func RegisterRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/requests")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", hb.CreateRequestHandler)
		api.GET("/open", hb.ListOpenRequestsHandler)
		api.GET("/mine", hb.ListClientRequestsHandler)
		api.POST("/:id/bids", hb.PlaceBidHandler)
		api.POST("/:id/accept", hb.AcceptBidHandler)
		api.POST("/:id/cancel", hb.CancelRequestHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", hb.ScheduleBookingHandler)
		api.GET("/mine", hb.ListClientBookingsHandler)
		api.GET("/mine/active", hb.ListActiveBookingsHandler)
		api.GET("/assigned", hb.ListProviderBookingsHandler)
		api.PATCH("/:id/status", hb.UpdateBookingStatusHandler)
		api.POST("/:id/rating", hb.SubmitRatingHandler)
		api.POST("/:id/rating/skip", hb.SkipRatingHandler)
	}
}

// RegisterCatalogRoutes registers the public catalog endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/services/:id", hb.GetServiceHandler)
		api.GET("/services/:id/providers", hb.ProvidersForServiceHandler)
	}
}

// RegisterTrackingRoutes registers the live-location endpoints.
func RegisterTrackingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tracking")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.PUT("/location/:providerId", hb.PublishLocationHandler)
		api.GET("/location/:providerId", hb.GetLocationHandler)
		api.GET("/location/:providerId/stream", hb.StreamLocationHandler)
		api.GET("/eta", hb.ETAHandler)
	}
}

// SetupRouter configures global middleware and all route groups.
func SetupRouter(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "homely", "status": "ok"})
	})

	RegisterRequestRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterTrackingRoutes(r, hb)
}
