package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking lifecycle and room inventory reconciliation.
type BookingService struct {
	DB        *gorm.DB
	History   *HistoryService
	Predictor *PredictionService
}

func NewBookingService(db *gorm.DB, history *HistoryService, predictor *PredictionService) *BookingService {
	return &BookingService{DB: db, History: history, Predictor: predictor}
}

// CreateBookingInput is the client-facing payload. booking_date travels as an
// ISO calendar date string and is parsed once here, at the store boundary.
type CreateBookingInput struct {
	RoomID                  uint   `json:"room_id" binding:"required"`
	BookingDate             string `json:"booking_date"`
	NoOfAdults              int    `json:"no_of_adults" binding:"required,min=1"`
	NoOfChildren            int    `json:"no_of_children"`
	NoOfWeekendNights       int    `json:"no_of_weekend_nights"`
	NoOfWeekNights          int    `json:"no_of_week_nights"`
	TypeOfMealPlan          string `json:"type_of_meal_plan"`
	RequiredCarParkingSpace bool   `json:"required_car_parking_space"`
	RoomTypeReserved        string `json:"room_type_reserved" binding:"required"`
	LeadTime                int    `json:"lead_time"`
	ArrivalYear             int    `json:"arrival_year" binding:"required"`
	ArrivalMonth            int    `json:"arrival_month" binding:"required"`
	ArrivalDate             int    `json:"arrival_date" binding:"required"`
	MarketSegmentType       string `json:"market_segment_type"`
	NoOfSpecialRequests     int    `json:"no_of_special_requests"`
}

func (in *CreateBookingInput) applyDefaults() {
	if in.TypeOfMealPlan == "" {
		in.TypeOfMealPlan = "Not Selected"
	}
	if in.MarketSegmentType == "" {
		in.MarketSegmentType = "Online"
	}
}

func (in *CreateBookingInput) validate() error {
	if in.RoomID == 0 {
		return newValidationError("room_id is required")
	}
	if in.NoOfAdults <= 0 {
		return newValidationError("no_of_adults must be at least 1")
	}
	if in.NoOfChildren < 0 || in.NoOfWeekendNights < 0 || in.NoOfWeekNights < 0 ||
		in.LeadTime < 0 || in.NoOfSpecialRequests < 0 {
		return newValidationError("stay attributes cannot be negative")
	}
	if in.ArrivalMonth < 1 || in.ArrivalMonth > 12 {
		return newValidationError("arrival_month must be between 1 and 12")
	}
	if in.ArrivalDate < 1 || in.ArrivalDate > 31 {
		return newValidationError("arrival_date must be between 1 and 31")
	}
	return nil
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite has no row locks; its single-writer transaction lock already
// serialises the bookings this guards against.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateBooking runs the whole create flow as one unit of work: history
// snapshot, prediction, booking insert and room decrement commit together or
// not at all.
func (s *BookingService) CreateBooking(userID uint, in CreateBookingInput) (*models.Booking, error) {
	in.applyDefaults()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var bookingDate *time.Time
	if in.BookingDate != "" {
		t, err := time.Parse("2006-01-02", in.BookingDate)
		if err != nil {
			return nil, newValidationError("invalid booking_date format (want YYYY-MM-DD): %v", err)
		}
		bookingDate = &t
	}

	var created models.Booking
	var guestEmail, guestName string

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the user row so two concurrent bookings by the same user
		// cannot both snapshot an empty history.
		var user models.User
		if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user %d: %w", userID, err)
		}

		// Lock the room row so the availability check and the decrement are
		// serialised against concurrent bookings of the same room.
		var room models.Room
		if err := lockForUpdate(tx).First(&room, in.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to load room %d: %w", in.RoomID, err)
		}
		if room.AvailableRooms <= 0 {
			return ErrNoAvailability
		}

		history, err := s.History.Snapshot(tx, userID)
		if err != nil {
			return err
		}

		// Scoring is pure and stateless; it holds no locks of its own.
		prediction := s.Predictor.Predict(PredictionRequest{
			NoOfAdults:                       in.NoOfAdults,
			NoOfChildren:                     in.NoOfChildren,
			NoOfWeekendNights:                in.NoOfWeekendNights,
			NoOfWeekNights:                   in.NoOfWeekNights,
			TypeOfMealPlan:                   in.TypeOfMealPlan,
			RequiredCarParkingSpace:          in.RequiredCarParkingSpace,
			RoomTypeReserved:                 in.RoomTypeReserved,
			LeadTime:                         in.LeadTime,
			ArrivalYear:                      in.ArrivalYear,
			ArrivalMonth:                     in.ArrivalMonth,
			ArrivalDate:                      in.ArrivalDate,
			MarketSegmentType:                in.MarketSegmentType,
			RepeatedGuest:                    history.RepeatedGuest,
			NoOfPreviousCancellations:        history.PriorCancellations,
			NoOfPreviousBookingsNotCancelled: history.PriorCompleted,
			AvgPricePerRoom:                  room.Price,
			NoOfSpecialRequests:              in.NoOfSpecialRequests,
		})

		riskJSON, err := json.Marshal(prediction)
		if err != nil {
			return fmt.Errorf("failed to serialize risk assessment: %w", err)
		}
		probability := prediction.CancellationProbability

		booking := models.Booking{
			UserID:                           userID,
			RoomID:                           room.ID,
			BookingDate:                      bookingDate,
			NoOfAdults:                       in.NoOfAdults,
			NoOfChildren:                     in.NoOfChildren,
			NoOfWeekendNights:                in.NoOfWeekendNights,
			NoOfWeekNights:                   in.NoOfWeekNights,
			TypeOfMealPlan:                   in.TypeOfMealPlan,
			RequiredCarParkingSpace:          in.RequiredCarParkingSpace,
			RoomTypeReserved:                 in.RoomTypeReserved,
			LeadTime:                         in.LeadTime,
			ArrivalYear:                      in.ArrivalYear,
			ArrivalMonth:                     in.ArrivalMonth,
			ArrivalDate:                      in.ArrivalDate,
			MarketSegmentType:                in.MarketSegmentType,
			NoOfSpecialRequests:              in.NoOfSpecialRequests,
			RepeatedGuest:                    history.RepeatedGuest,
			NoOfPreviousCancellations:        history.PriorCancellations,
			NoOfPreviousBookingsNotCancelled: history.PriorCompleted,
			AvgPricePerRoom:                  room.Price,
			NoOfIndividuals:                  in.NoOfAdults + in.NoOfChildren,
			NoOfDaysBooked:                   in.NoOfWeekendNights + in.NoOfWeekNights,
			CancellationPrediction:           &probability,
			RiskAssessment:                   datatypes.JSON(riskJSON),
			Status:                           models.BookingStatusActive,
		}

		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// Guarded decrement: the WHERE keeps available_rooms from ever going
		// below zero even if the earlier check raced.
		res := tx.Model(&models.Room{}).
			Where("id = ? AND available_rooms > 0", room.ID).
			UpdateColumn("available_rooms", gorm.Expr("available_rooms - 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement room availability: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNoAvailability
		}

		created = booking
		guestEmail = user.Email
		guestName = user.FullName
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort confirmation mail after commit; a mail failure never fails
	// the booking.
	if err := utils.SendBookingConfirmationEmail(
		guestEmail, guestName, created.RoomTypeReserved,
		created.ArrivalYear, created.ArrivalMonth, created.ArrivalDate,
		created.NoOfDaysBooked, created.ID,
	); err != nil {
		log.Printf("⚠️  booking %d confirmation email failed: %v", created.ID, err)
	}

	return &created, nil
}

// CancelBooking flips an Active booking owned by userID to Cancelled and
// returns its room to inventory, atomically. Re-cancelling a terminal booking
// is a reported error, not a silent no-op.
func (s *BookingService) CancelBooking(userID uint, bookingID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", bookingID, userID).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", bookingID, err)
		}

		if booking.Status != models.BookingStatusActive {
			return ErrBookingNotActive
		}

		if err := tx.Model(&booking).
			Update("status", models.BookingStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel booking %d: %w", bookingID, err)
		}

		// The cap guard keeps available_rooms <= total_rooms. A vanished room
		// is tolerated the same way the increment is best-effort bounded.
		res := tx.Model(&models.Room{}).
			Where("id = ? AND available_rooms < total_rooms", booking.RoomID).
			UpdateColumn("available_rooms", gorm.Expr("available_rooms + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to restore room availability: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			log.Printf("⚠️  cancel booking %d: room %d missing or already at capacity", bookingID, booking.RoomID)
		}

		return nil
	})
}

// GetUserBookings lists a user's bookings, newest first.
func (s *BookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return bookings, nil
}

// GetAllBookings lists every booking, newest first.
func (s *BookingService) GetAllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking %d: %w", bookingID, err)
	}
	return &booking, nil
}

// predictionRequestFromBooking rebuilds a scoring request from a booking's own
// stored attributes, including the history snapshot taken at creation time.
func predictionRequestFromBooking(b *models.Booking) PredictionRequest {
	return PredictionRequest{
		NoOfAdults:                       b.NoOfAdults,
		NoOfChildren:                     b.NoOfChildren,
		NoOfWeekendNights:                b.NoOfWeekendNights,
		NoOfWeekNights:                   b.NoOfWeekNights,
		TypeOfMealPlan:                   b.TypeOfMealPlan,
		RequiredCarParkingSpace:          b.RequiredCarParkingSpace,
		RoomTypeReserved:                 b.RoomTypeReserved,
		LeadTime:                         b.LeadTime,
		ArrivalYear:                      b.ArrivalYear,
		ArrivalMonth:                     b.ArrivalMonth,
		ArrivalDate:                      b.ArrivalDate,
		MarketSegmentType:                b.MarketSegmentType,
		RepeatedGuest:                    b.RepeatedGuest,
		NoOfPreviousCancellations:        b.NoOfPreviousCancellations,
		NoOfPreviousBookingsNotCancelled: b.NoOfPreviousBookingsNotCancelled,
		AvgPricePerRoom:                  b.AvgPricePerRoom,
		NoOfSpecialRequests:              b.NoOfSpecialRequests,
	}
}

// RescaleActivePredictions re-scores every Active booking from its stored
// attributes and overwrites the prediction. Per-booking failures are logged
// and skipped, never fatal to the batch. Returns how many succeeded out of
// how many were attempted.
func (s *BookingService) RescaleActivePredictions() (updated int, total int, err error) {
	var active []models.Booking
	if err := s.DB.Where("status = ?", models.BookingStatusActive).Find(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to load active bookings: %w", err)
	}

	for i := range active {
		booking := &active[i]

		prediction := s.Predictor.Predict(predictionRequestFromBooking(booking))
		riskJSON, mErr := json.Marshal(prediction)
		if mErr != nil {
			log.Printf("⚠️  rescale: booking %d risk serialization failed: %v — skipping", booking.ID, mErr)
			continue
		}

		if uErr := s.DB.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"cancellation_prediction": prediction.CancellationProbability,
				"risk_assessment":         datatypes.JSON(riskJSON),
			}).Error; uErr != nil {
			log.Printf("⚠️  rescale: booking %d update failed: %v — skipping", booking.ID, uErr)
			continue
		}
		updated++
	}

	return updated, len(active), nil
}
