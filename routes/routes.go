package routes

import (
	"net/http"

	"carenow/handlers"
	"carenow/middleware"
	"carenow/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	registerBookingRoutes(r, hb)
	registerPartnerRoutes(r, hb)
	registerDeviceRoutes(r, hb)
	registerHealthRoute(r)
}

func registerBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("", hb.CreateBooking)
		api.GET("", hb.ListBookings)
		api.GET("/:id", hb.GetBooking)

		// Partner-side transitions.
		api.POST("/:id/accept", middleware.RequireRole("partner"), hb.AcceptBooking)
		api.POST("/:id/start", middleware.RequireRole("partner"), hb.StartBooking)
		api.POST("/:id/complete", middleware.RequireRole("partner"), hb.CompleteBooking)

		// Client-side actions.
		api.POST("/:id/cancel", middleware.RequireRole("client"), hb.CancelBooking)
		api.POST("/:id/payment", middleware.RequireRole("client"), hb.ProcessPayment)
	}
}

func registerPartnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/partners")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/match", hb.MatchPartners)
		api.GET("/top", hb.GetTopRated)
		api.GET("/:id", hb.GetPartnerByID)
	}
}

func registerDeviceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/devices")
	api.Use(middleware.AuthMiddleware())
	{
		api.PUT("/token", hb.UpdateDeviceToken)
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Mongo || !status.Redis {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}
