package controllers

import (
	"log"
	"net/http"

	"hotel-booking-backend/models"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

// List handles GET /api/rooms.
func (rc *RoomController) List(c *gin.Context) {
	rooms, err := rc.Rooms.List()
	if err != nil {
		log.Printf("❌ Failed to list rooms: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// Create handles POST /api/rooms (admin only).
func (rc *RoomController) Create(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	if err := rc.Rooms.Create(&room); err != nil {
		utils.JSONError(c, serviceErrorStatus(err), err.Error())
		return
	}

	log.Printf("✅ Room created: %s (total %d)", room.RoomType, room.TotalRooms)
	c.JSON(http.StatusCreated, room)
}
