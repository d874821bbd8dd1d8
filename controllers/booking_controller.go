package controllers

import (
	"log"
	"net/http"
	"strconv"

	"hotel-booking-backend/middleware"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

// Create handles POST /api/bookings.
func (bc *BookingController) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	booking, err := bc.Bookings.CreateBooking(user.ID, in)
	if err != nil {
		utils.JSONError(c, serviceErrorStatus(err), err.Error())
		return
	}

	log.Printf("✅ Booking %d created for user %d (room %d)", booking.ID, user.ID, booking.RoomID)
	c.JSON(http.StatusCreated, booking)
}

// MyBookings handles GET /api/bookings/me.
func (bc *BookingController) MyBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookings, err := bc.Bookings.GetUserBookings(user.ID)
	if err != nil {
		log.Printf("❌ Failed to list bookings for user %d: %v", user.ID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Cancel handles PUT /api/bookings/:id/cancel.
func (bc *BookingController) Cancel(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := bc.Bookings.CancelBooking(user.ID, uint(bookingID)); err != nil {
		utils.JSONError(c, serviceErrorStatus(err), err.Error())
		return
	}

	log.Printf("✅ Booking %d cancelled by user %d", bookingID, user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}
