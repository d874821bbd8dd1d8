package services

import (
	"fmt"

	"hotel-booking-backend/models"

	"gorm.io/gorm"
)

// highRiskThreshold matches the "High" bucket boundary of the predictor.
const highRiskThreshold = 0.7

type BookingStats struct {
	TotalBookings     int64 `json:"total_bookings"`
	ActiveBookings    int64 `json:"active_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	HighRiskBookings  int64 `json:"high_risk_bookings"`
}

type MonthlyTrend struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type RoomTypeStat struct {
	RoomType string `json:"room_type"`
	Count    int64  `json:"count"`
}

type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

func (s *AnalyticsService) Stats() (BookingStats, error) {
	var stats BookingStats

	if err := s.DB.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count bookings: %w", err)
	}

	byStatus := []struct {
		status string
		target *int64
	}{
		{models.BookingStatusActive, &stats.ActiveBookings},
		{models.BookingStatusCancelled, &stats.CancelledBookings},
		{models.BookingStatusCompleted, &stats.CompletedBookings},
	}
	for _, q := range byStatus {
		if err := s.DB.Model(&models.Booking{}).
			Where("status = ?", q.status).
			Count(q.target).Error; err != nil {
			return stats, fmt.Errorf("failed to count %s bookings: %w", q.status, err)
		}
	}

	if err := s.DB.Model(&models.Booking{}).
		Where("cancellation_prediction >= ? AND status = ?", highRiskThreshold, models.BookingStatusActive).
		Count(&stats.HighRiskBookings).Error; err != nil {
		return stats, fmt.Errorf("failed to count high-risk bookings: %w", err)
	}

	return stats, nil
}

// MonthlyTrends groups bookings by arrival month, ascending.
func (s *AnalyticsService) MonthlyTrends() ([]MonthlyTrend, error) {
	var trends []MonthlyTrend
	if err := s.DB.Model(&models.Booking{}).
		Select("arrival_month AS month, COUNT(id) AS count").
		Group("arrival_month").
		Order("arrival_month").
		Scan(&trends).Error; err != nil {
		return nil, fmt.Errorf("failed to compute monthly trends: %w", err)
	}
	return trends, nil
}

// RoomTypeStats groups bookings by the reserved room-type label.
func (s *AnalyticsService) RoomTypeStats() ([]RoomTypeStat, error) {
	var stats []RoomTypeStat
	if err := s.DB.Model(&models.Booking{}).
		Select("room_type_reserved AS room_type, COUNT(id) AS count").
		Group("room_type_reserved").
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to compute room type stats: %w", err)
	}
	return stats, nil
}
