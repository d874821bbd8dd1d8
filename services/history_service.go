package services

import (
	"fmt"

	"hotel-booking-backend/models"

	"gorm.io/gorm"
)

// GuestHistory is the point-in-time snapshot baked into a new booking.
type GuestHistory struct {
	RepeatedGuest      bool
	PriorCancellations int
	PriorCompleted     int
}

// HistoryService derives per-user counters from existing bookings at request
// time. No caching: correctness depends on reading current state, inside the
// same transaction as the booking insert.
type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// Snapshot computes the guest history for userID on the given handle. Pass the
// booking-creation transaction as tx so concurrent bookings by the same user
// cannot both observe an empty history; nil falls back to the service DB for
// read-only callers.
func (s *HistoryService) Snapshot(tx *gorm.DB, userID uint) (GuestHistory, error) {
	db := tx
	if db == nil {
		db = s.DB
	}

	var history GuestHistory

	var total int64
	if err := db.Model(&models.Booking{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return history, fmt.Errorf("failed to count bookings for user %d: %w", userID, err)
	}

	var cancelled int64
	if err := db.Model(&models.Booking{}).
		Where("user_id = ? AND status = ?", userID, models.BookingStatusCancelled).
		Count(&cancelled).Error; err != nil {
		return history, fmt.Errorf("failed to count cancellations for user %d: %w", userID, err)
	}

	var completed int64
	if err := db.Model(&models.Booking{}).
		Where("user_id = ? AND status = ?", userID, models.BookingStatusCompleted).
		Count(&completed).Error; err != nil {
		return history, fmt.Errorf("failed to count completed stays for user %d: %w", userID, err)
	}

	history.RepeatedGuest = total > 0
	history.PriorCancellations = int(cancelled)
	history.PriorCompleted = int(completed)
	return history, nil
}
