package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel-booking-backend/controllers"
	"hotel-booking-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the route table.
func SetupRouter(
	auth *controllers.AuthController,
	rooms *controllers.RoomController,
	bookings *controllers.BookingController,
	admin *controllers.AdminController,
	db *gorm.DB,
	jwtSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", auth.Register)
			authRoutes.POST("/login", auth.Login)
		}

		// Public room listing
		api.GET("/rooms", rooms.List)

		authed := api.Group("", middleware.RequireAuth(db, jwtSecret))
		{
			authed.GET("/auth/me", auth.Me)
			authed.PUT("/users/me", auth.UpdateMe)

			bookingRoutes := authed.Group("/bookings")
			{
				bookingRoutes.POST("", bookings.Create)
				bookingRoutes.GET("/me", bookings.MyBookings)
				bookingRoutes.PUT("/:id/cancel", bookings.Cancel)
			}

			adminOnly := authed.Group("", middleware.RequireAdmin())
			{
				adminOnly.POST("/rooms", rooms.Create)
				adminOnly.POST("/predict", admin.Predict)

				adminRoutes := adminOnly.Group("/admin")
				{
					adminRoutes.GET("/bookings", admin.AllBookings)
					adminRoutes.GET("/bookings/export", admin.ExportBookings)
					adminRoutes.GET("/users", admin.AllUsers)
					adminRoutes.GET("/analytics/stats", admin.Stats)
					adminRoutes.GET("/analytics/monthly-trends", admin.MonthlyTrends)
					adminRoutes.GET("/analytics/room-types", admin.RoomTypeStats)
					adminRoutes.POST("/predict-all-bookings", admin.PredictAll)
				}
			}
		}
	}

	return r
}
