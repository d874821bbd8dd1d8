package services

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"hotel-booking-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:          email,
		HashedPassword: "x",
		FullName:       "Test Guest",
		Role:           models.RoleUser,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestRoom(t *testing.T, db *gorm.DB, available, total int) *models.Room {
	t.Helper()
	room := models.Room{RoomType: "Room Type 1", TotalRooms: total, AvailableRooms: available, Price: 100}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return &room
}

// fallbackPredictor has no artifacts, so every prediction is the neutral
// fallback. Booking creation must still succeed with it.
func fallbackPredictor() *PredictionService {
	return NewPredictionService("missing/model.json", "missing/scaler.json")
}

func newBookingService(db *gorm.DB, predictor *PredictionService) *BookingService {
	return NewBookingService(db, NewHistoryService(db), predictor)
}

func validInput(roomID uint) CreateBookingInput {
	return CreateBookingInput{
		RoomID:            roomID,
		BookingDate:       "2026-08-20",
		NoOfAdults:        2,
		NoOfChildren:      1,
		NoOfWeekendNights: 2,
		NoOfWeekNights:    3,
		RoomTypeReserved:  "Room Type 1",
		LeadTime:          10,
		ArrivalYear:       2026,
		ArrivalMonth:      9,
		ArrivalDate:       1,
	}
}

func roomAvailability(t *testing.T, db *gorm.DB, roomID uint) int {
	t.Helper()
	var room models.Room
	if err := db.First(&room, roomID).Error; err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	return room.AvailableRooms
}

func TestCreateBookingDecrementsAvailability(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 5, 5)
	svc := newBookingService(db, fallbackPredictor())

	booking, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if booking.Status != models.BookingStatusActive {
		t.Errorf("new booking status = %q, want Active", booking.Status)
	}
	if got := roomAvailability(t, db, room.ID); got != 4 {
		t.Errorf("available_rooms = %d, want 4", got)
	}
	if booking.NoOfIndividuals != 3 {
		t.Errorf("no_of_individuals = %d, want 3", booking.NoOfIndividuals)
	}
	if booking.NoOfDaysBooked != 5 {
		t.Errorf("no_of_days_booked = %d, want 5", booking.NoOfDaysBooked)
	}
	if booking.AvgPricePerRoom != room.Price {
		t.Errorf("avg_price_per_room = %v, want %v", booking.AvgPricePerRoom, room.Price)
	}

	// Broken model path: booking still carries the neutral prediction.
	if booking.CancellationPrediction == nil || *booking.CancellationPrediction != 0.5 {
		t.Errorf("cancellation_prediction = %v, want 0.5", booking.CancellationPrediction)
	}
	var risk PredictionResponse
	if err := json.Unmarshal(booking.RiskAssessment, &risk); err != nil {
		t.Fatalf("risk_assessment is not valid JSON: %v", err)
	}
	if risk.RiskLevel != RiskLevelUnknown {
		t.Errorf("risk level = %q, want Unknown", risk.RiskLevel)
	}
}

func TestFirstBookingHistorySnapshot(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 5, 5)
	svc := newBookingService(db, fallbackPredictor())

	first, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatalf("first CreateBooking failed: %v", err)
	}
	if first.RepeatedGuest || first.NoOfPreviousCancellations != 0 || first.NoOfPreviousBookingsNotCancelled != 0 {
		t.Errorf("first booking must have empty history, got %+v", first)
	}

	if err := svc.CancelBooking(user.ID, first.ID); err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}

	second, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatalf("second CreateBooking failed: %v", err)
	}
	if !second.RepeatedGuest {
		t.Error("second booking must see repeated_guest=true")
	}
	if second.NoOfPreviousCancellations != 1 {
		t.Errorf("prior cancellations = %d, want 1", second.NoOfPreviousCancellations)
	}

	// Snapshots are frozen: the first booking keeps its creation-time values.
	var reloaded models.Booking
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.RepeatedGuest {
		t.Error("earlier booking's snapshot must not be recomputed")
	}
}

func TestCancelBookingRestoresAvailability(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 3, 5)
	svc := newBookingService(db, fallbackPredictor())

	booking, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if got := roomAvailability(t, db, room.ID); got != 2 {
		t.Fatalf("available_rooms = %d, want 2", got)
	}

	if err := svc.CancelBooking(user.ID, booking.ID); err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if got := roomAvailability(t, db, room.ID); got != 3 {
		t.Errorf("available_rooms after cancel = %d, want 3", got)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, booking.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q, want Cancelled", reloaded.Status)
	}

	// Re-cancel is a reported error and leaves inventory untouched.
	if err := svc.CancelBooking(user.ID, booking.ID); !errors.Is(err, ErrBookingNotActive) {
		t.Errorf("re-cancel error = %v, want ErrBookingNotActive", err)
	}
	if got := roomAvailability(t, db, room.ID); got != 3 {
		t.Errorf("available_rooms after re-cancel = %d, want 3", got)
	}
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 3, 5)
	svc := newBookingService(db, fallbackPredictor())

	booking, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatal(err)
	}
	// Completed is set by an external process; simulate it directly.
	if err := db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", models.BookingStatusCompleted).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.CancelBooking(user.ID, booking.ID); !errors.Is(err, ErrBookingNotActive) {
		t.Errorf("cancelling a Completed booking: got %v, want ErrBookingNotActive", err)
	}
	if got := roomAvailability(t, db, room.ID); got != 2 {
		t.Errorf("available_rooms = %d, want 2 (unchanged)", got)
	}
}

func TestCancelForeignBookingNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	room := createTestRoom(t, db, 3, 5)
	svc := newBookingService(db, fallbackPredictor())

	booking, err := svc.CreateBooking(owner.ID, validInput(room.ID))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.CancelBooking(other.ID, booking.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("foreign cancel error = %v, want ErrBookingNotFound", err)
	}
}

func TestCreateBookingNoAvailability(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 0, 5)
	svc := newBookingService(db, fallbackPredictor())

	if _, err := svc.CreateBooking(user.ID, validInput(room.ID)); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("error = %v, want ErrNoAvailability", err)
	}

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Errorf("booking rows = %d, want 0 after rollback", count)
	}
	if got := roomAvailability(t, db, room.ID); got != 0 {
		t.Errorf("available_rooms = %d, want 0", got)
	}
}

func TestCreateBookingLastRoom(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 1, 5)
	svc := newBookingService(db, fallbackPredictor())

	if _, err := svc.CreateBooking(user.ID, validInput(room.ID)); err != nil {
		t.Fatalf("booking the last room failed: %v", err)
	}
	if got := roomAvailability(t, db, room.ID); got != 0 {
		t.Errorf("available_rooms = %d, want 0", got)
	}

	// The next attempt finds the room exhausted; never negative.
	if _, err := svc.CreateBooking(user.ID, validInput(room.ID)); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("error = %v, want ErrNoAvailability", err)
	}
	if got := roomAvailability(t, db, room.ID); got != 0 {
		t.Errorf("available_rooms = %d, want 0 (never negative)", got)
	}
}

// TestCreateBookingDecrementGuard forces the availability pre-check and the
// guarded decrement to disagree: a create callback empties the room right
// after the booking row is inserted, on the same transaction, so the decrement
// matches zero rows. The whole transaction must roll back.
func TestCreateBookingDecrementGuard(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 1, 5)
	svc := newBookingService(db, fallbackPredictor())

	err := db.Callback().Create().After("gorm:create").Register("drain_room_after_insert", func(tx *gorm.DB) {
		if tx.Statement.Schema == nil || tx.Statement.Schema.Table != "bookings" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Model(&models.Room{}).
			Where("id = ?", room.ID).
			UpdateColumn("available_rooms", 0)
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	if _, err := svc.CreateBooking(user.ID, validInput(room.ID)); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("error = %v, want ErrNoAvailability", err)
	}

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Errorf("booking rows = %d, want 0 after rollback", count)
	}
	// The drain ran inside the rolled-back transaction, so inventory is intact.
	if got := roomAvailability(t, db, room.ID); got != 1 {
		t.Errorf("available_rooms = %d, want 1", got)
	}
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	svc := newBookingService(db, fallbackPredictor())

	if _, err := svc.CreateBooking(user.ID, validInput(999)); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("error = %v, want ErrRoomNotFound", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 5, 5)
	svc := newBookingService(db, fallbackPredictor())

	in := validInput(room.ID)
	in.NoOfAdults = 0
	if _, err := svc.CreateBooking(user.ID, in); !IsValidationError(err) {
		t.Errorf("zero adults: error = %v, want validation error", err)
	}

	in = validInput(room.ID)
	in.BookingDate = "20/08/2026"
	if _, err := svc.CreateBooking(user.ID, in); !IsValidationError(err) {
		t.Errorf("bad date: error = %v, want validation error", err)
	}

	in = validInput(room.ID)
	in.ArrivalMonth = 13
	if _, err := svc.CreateBooking(user.ID, in); !IsValidationError(err) {
		t.Errorf("bad month: error = %v, want validation error", err)
	}

	// Nothing touched the store.
	if got := roomAvailability(t, db, room.ID); got != 5 {
		t.Errorf("available_rooms = %d, want 5", got)
	}
}

func TestCreateBookingUnknownCategories(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 5, 5)

	modelPath, scalerPath := writeArtifacts(t, 10)
	svc := newBookingService(db, NewPredictionService(modelPath, scalerPath))

	in := validInput(room.ID)
	in.TypeOfMealPlan = "Gourmet"
	in.RoomTypeReserved = "Room Type 9"

	booking, err := svc.CreateBooking(user.ID, in)
	if err != nil {
		t.Fatalf("unknown categories must not fail booking: %v", err)
	}
	var risk PredictionResponse
	if err := json.Unmarshal(booking.RiskAssessment, &risk); err != nil {
		t.Fatal(err)
	}
	if risk.RiskLevel == RiskLevelUnknown {
		t.Errorf("prediction degraded on unknown categories: %+v", risk)
	}
}

func TestRescaleActivePredictions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "guest@example.com")
	room := createTestRoom(t, db, 5, 5)

	// Bookings created with a broken model carry the 0.5 fallback.
	svc := newBookingService(db, fallbackPredictor())
	first, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBooking(user.ID, validInput(room.ID)); err != nil {
		t.Fatal(err)
	}
	cancelled, err := svc.CreateBooking(user.ID, validInput(room.ID))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.CancelBooking(user.ID, cancelled.ID); err != nil {
		t.Fatal(err)
	}

	// Re-run the batch with real artifacts; only Active bookings rescale.
	modelPath, scalerPath := writeArtifacts(t, -10)
	svc.Predictor = NewPredictionService(modelPath, scalerPath)

	updated, total, err := svc.RescaleActivePredictions()
	if err != nil {
		t.Fatalf("RescaleActivePredictions failed: %v", err)
	}
	if total != 2 || updated != 2 {
		t.Errorf("rescale = (%d updated, %d total), want (2, 2)", updated, total)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.CancellationPrediction == nil || *reloaded.CancellationPrediction < 0.99 {
		t.Errorf("active booking not rescaled: prediction = %v", reloaded.CancellationPrediction)
	}

	var untouched models.Booking
	if err := db.First(&untouched, cancelled.ID).Error; err != nil {
		t.Fatal(err)
	}
	if untouched.CancellationPrediction == nil || *untouched.CancellationPrediction != 0.5 {
		t.Errorf("cancelled booking must keep its prediction, got %v", untouched.CancellationPrediction)
	}
}
