package services

import (
	"fmt"

	"hotel-booking-backend/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

var bookingExportHeader = []interface{}{
	"ID", "User ID", "Room ID", "Status", "Room Type", "Adults", "Children",
	"Weekend Nights", "Week Nights", "Meal Plan", "Market Segment",
	"Arrival Year", "Arrival Month", "Arrival Date", "Lead Time",
	"Avg Price Per Room", "Cancellation Prediction", "Created At",
}

// BookingsWorkbook builds an xlsx workbook with one row per booking, newest
// first. The caller owns closing/streaming the returned file.
func (s *ReportService) BookingsWorkbook() (*excelize.File, error) {
	var bookings []models.Booking
	if err := s.DB.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings for export: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &bookingExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, b := range bookings {
		prediction := interface{}(nil)
		if b.CancellationPrediction != nil {
			prediction = *b.CancellationPrediction
		}
		row := []interface{}{
			b.ID, b.UserID, b.RoomID, b.Status, b.RoomTypeReserved,
			b.NoOfAdults, b.NoOfChildren,
			b.NoOfWeekendNights, b.NoOfWeekNights, b.TypeOfMealPlan, b.MarketSegmentType,
			b.ArrivalYear, b.ArrivalMonth, b.ArrivalDate, b.LeadTime,
			b.AvgPricePerRoom, prediction, b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	return f, nil
}
