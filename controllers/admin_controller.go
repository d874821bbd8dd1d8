package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

// AdminController bundles the ADMIN-only surfaces: global listings, analytics,
// manual prediction, bulk rescale and the xlsx export.
type AdminController struct {
	Bookings  *services.BookingService
	Users     *services.UserService
	Analytics *services.AnalyticsService
	Reports   *services.ReportService
	Predictor *services.PredictionService
}

func NewAdminController(
	bookings *services.BookingService,
	users *services.UserService,
	analytics *services.AnalyticsService,
	reports *services.ReportService,
	predictor *services.PredictionService,
) *AdminController {
	return &AdminController{
		Bookings:  bookings,
		Users:     users,
		Analytics: analytics,
		Reports:   reports,
		Predictor: predictor,
	}
}

// AllBookings handles GET /api/admin/bookings.
func (ac *AdminController) AllBookings(c *gin.Context) {
	bookings, err := ac.Bookings.GetAllBookings()
	if err != nil {
		log.Printf("❌ Failed to list bookings: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AllUsers handles GET /api/admin/users.
func (ac *AdminController) AllUsers(c *gin.Context) {
	users, err := ac.Users.ListUsers()
	if err != nil {
		log.Printf("❌ Failed to list users: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Stats handles GET /api/admin/analytics/stats.
func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.Analytics.Stats()
	if err != nil {
		log.Printf("❌ Failed to compute stats: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// MonthlyTrends handles GET /api/admin/analytics/monthly-trends.
func (ac *AdminController) MonthlyTrends(c *gin.Context) {
	trends, err := ac.Analytics.MonthlyTrends()
	if err != nil {
		log.Printf("❌ Failed to compute monthly trends: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute monthly trends")
		return
	}
	c.JSON(http.StatusOK, trends)
}

// RoomTypeStats handles GET /api/admin/analytics/room-types.
func (ac *AdminController) RoomTypeStats(c *gin.Context) {
	stats, err := ac.Analytics.RoomTypeStats()
	if err != nil {
		log.Printf("❌ Failed to compute room type stats: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute room type stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Predict handles POST /api/predict: manual scoring of arbitrary attributes.
func (ac *AdminController) Predict(c *gin.Context) {
	var req services.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, ac.Predictor.Predict(req))
}

// PredictAll handles POST /api/admin/predict-all-bookings.
func (ac *AdminController) PredictAll(c *gin.Context) {
	updated, total, err := ac.Bookings.RescaleActivePredictions()
	if err != nil {
		log.Printf("❌ Bulk prediction failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to rescale predictions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          fmt.Sprintf("Predictions updated for %d bookings", updated),
		"total_bookings":   total,
		"updated_bookings": updated,
	})
}

// ExportBookings handles GET /api/admin/bookings/export and streams an xlsx
// workbook.
func (ac *AdminController) ExportBookings(c *gin.Context) {
	workbook, err := ac.Reports.BookingsWorkbook()
	if err != nil {
		log.Printf("❌ Failed to build bookings export: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to build export")
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		log.Printf("❌ Failed to stream bookings export: %v", err)
	}
}
