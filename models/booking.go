package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BookingStatusActive    = "Active"
	BookingStatusCancelled = "Cancelled"
	BookingStatusCompleted = "Completed"
)

// Booking references User and Room by id only; callers that need the related
// records look them up, there are no back-pointer object graphs.
type Booking struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"column:user_id;index;not null" json:"user_id"`
	RoomID uint `gorm:"column:room_id;index;not null" json:"room_id"`

	BookingDate *time.Time `gorm:"column:booking_date" json:"booking_date,omitempty"`

	// Stay attributes, fixed at creation.
	NoOfAdults              int    `gorm:"column:no_of_adults;not null" json:"no_of_adults"`
	NoOfChildren            int    `gorm:"column:no_of_children;default:0" json:"no_of_children"`
	NoOfWeekendNights       int    `gorm:"column:no_of_weekend_nights;default:0" json:"no_of_weekend_nights"`
	NoOfWeekNights          int    `gorm:"column:no_of_week_nights;default:0" json:"no_of_week_nights"`
	TypeOfMealPlan          string `gorm:"column:type_of_meal_plan;size:32;default:Not Selected" json:"type_of_meal_plan"`
	RequiredCarParkingSpace bool   `gorm:"column:required_car_parking_space;default:false" json:"required_car_parking_space"`
	RoomTypeReserved        string `gorm:"column:room_type_reserved;size:64;not null" json:"room_type_reserved"`
	LeadTime                int    `gorm:"column:lead_time;default:0" json:"lead_time"`
	ArrivalYear             int    `gorm:"column:arrival_year;not null" json:"arrival_year"`
	ArrivalMonth            int    `gorm:"column:arrival_month;not null" json:"arrival_month"`
	ArrivalDate             int    `gorm:"column:arrival_date;not null" json:"arrival_date"`
	MarketSegmentType       string `gorm:"column:market_segment_type;size:32;default:Online" json:"market_segment_type"`
	NoOfSpecialRequests     int    `gorm:"column:no_of_special_requests;default:0" json:"no_of_special_requests"`

	// Guest-history snapshot taken inside the creation transaction. Never
	// recomputed retroactively.
	RepeatedGuest                     bool `gorm:"column:repeated_guest;default:false" json:"repeated_guest"`
	NoOfPreviousCancellations         int  `gorm:"column:no_of_previous_cancellations;default:0" json:"no_of_previous_cancellations"`
	NoOfPreviousBookingsNotCancelled  int  `gorm:"column:no_of_previous_bookings_not_cancelled;default:0" json:"no_of_previous_bookings_not_cancelled"`

	// Price snapshot copied from the room at booking time, not live-linked.
	AvgPricePerRoom float64 `gorm:"column:avg_price_per_room;not null" json:"avg_price_per_room"`

	// Derived counts, maintained by the store.
	NoOfIndividuals int `gorm:"column:no_of_individuals" json:"no_of_individuals"`
	NoOfDaysBooked  int `gorm:"column:no_of_days_booked" json:"no_of_days_booked"`

	// Nil until a prediction has been attached.
	CancellationPrediction *float64       `gorm:"column:cancellation_prediction" json:"cancellation_prediction,omitempty"`
	RiskAssessment         datatypes.JSON `gorm:"column:risk_assessment" json:"risk_assessment,omitempty"`

	Status string `gorm:"size:16;default:Active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
