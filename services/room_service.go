package services

import (
	"errors"
	"fmt"

	"hotel-booking-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) List() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return &room, nil
}

// Create validates the inventory invariant before insert.
func (s *RoomService) Create(room *models.Room) error {
	if room.RoomType == "" {
		return newValidationError("room_type is required")
	}
	if room.TotalRooms <= 0 {
		return newValidationError("total_rooms must be positive")
	}
	if room.AvailableRooms < 0 || room.AvailableRooms > room.TotalRooms {
		return newValidationError("available_rooms must be between 0 and total_rooms")
	}
	if room.Price < 0 {
		return newValidationError("price cannot be negative")
	}

	if err := s.DB.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}
