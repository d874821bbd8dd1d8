package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
)

const featureCount = 19

// Risk tiers. "Unknown" is a valid tier, not an error: it signals the model
// path was unavailable while the booking itself still succeeded.
const (
	RiskLevelLow     = "Low"
	RiskLevelMedium  = "Medium"
	RiskLevelHigh    = "High"
	RiskLevelUnknown = "Unknown"
)

// PredictionRequest carries everything the model was trained on. Field names
// mirror the training dataset columns.
type PredictionRequest struct {
	NoOfAdults                       int     `json:"no_of_adults" binding:"required,min=1"`
	NoOfChildren                     int     `json:"no_of_children"`
	NoOfWeekendNights                int     `json:"no_of_weekend_nights"`
	NoOfWeekNights                   int     `json:"no_of_week_nights"`
	TypeOfMealPlan                   string  `json:"type_of_meal_plan"`
	RequiredCarParkingSpace          bool    `json:"required_car_parking_space"`
	RoomTypeReserved                 string  `json:"room_type_reserved" binding:"required"`
	LeadTime                         int     `json:"lead_time"`
	ArrivalYear                      int     `json:"arrival_year" binding:"required"`
	ArrivalMonth                     int     `json:"arrival_month" binding:"required"`
	ArrivalDate                      int     `json:"arrival_date" binding:"required"`
	MarketSegmentType                string  `json:"market_segment_type"`
	RepeatedGuest                    bool    `json:"repeated_guest"`
	NoOfPreviousCancellations        int     `json:"no_of_previous_cancellations"`
	NoOfPreviousBookingsNotCancelled int     `json:"no_of_previous_bookings_not_cancelled"`
	AvgPricePerRoom                  float64 `json:"avg_price_per_room"`
	NoOfSpecialRequests              int     `json:"no_of_special_requests"`
}

type PredictionResponse struct {
	WillCancel              bool    `json:"will_cancel"`
	CancellationProbability float64 `json:"cancellation_probability"`
	RiskLevel               string  `json:"risk_level"`
}

// scalerArtifact is a pre-fit standardising transform: z = (x - mean) / scale.
type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// classifierArtifact is a pre-fit binary classifier over the scaled vector.
// Class 1 is "will not cancel", class 0 is "will cancel".
type classifierArtifact struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// PredictionService scores bookings with externally trained artifacts. It is
// constructed explicitly and injected; there is no package-level singleton.
// When the artifacts failed to load the service stays usable and every call
// returns the neutral fallback.
type PredictionService struct {
	scaler *scalerArtifact
	model  *classifierArtifact
}

func NewPredictionService(modelPath, scalerPath string) *PredictionService {
	s := &PredictionService{}

	model, err := loadClassifier(modelPath)
	if err != nil {
		log.Printf("⚠️  prediction model unavailable (%s): %v — falling back to neutral predictions", modelPath, err)
		return s
	}
	scaler, err := loadScaler(scalerPath)
	if err != nil {
		log.Printf("⚠️  feature scaler unavailable (%s): %v — falling back to neutral predictions", scalerPath, err)
		return s
	}

	s.model = model
	s.scaler = scaler
	log.Println("✅ Prediction model and scaler loaded")
	return s
}

func loadScaler(path string) (*scalerArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact scalerArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("malformed scaler artifact: %w", err)
	}
	if len(artifact.Mean) != featureCount || len(artifact.Scale) != featureCount {
		return nil, fmt.Errorf("scaler expects %d features, got mean=%d scale=%d",
			featureCount, len(artifact.Mean), len(artifact.Scale))
	}
	for i, s := range artifact.Scale {
		if s == 0 {
			return nil, fmt.Errorf("scaler has zero scale at feature %d", i)
		}
	}
	return &artifact, nil
}

func loadClassifier(path string) (*classifierArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact classifierArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("malformed model artifact: %w", err)
	}
	if len(artifact.Weights) != featureCount {
		return nil, fmt.Errorf("model expects %d features, got %d", featureCount, len(artifact.Weights))
	}
	return &artifact, nil
}

// Ready reports whether real scoring is available.
func (s *PredictionService) Ready() bool {
	return s.model != nil && s.scaler != nil
}

func neutralFallback() PredictionResponse {
	return PredictionResponse{
		WillCancel:              false,
		CancellationProbability: 0.5,
		RiskLevel:               RiskLevelUnknown,
	}
}

// assembleFeatures builds the 19-element vector in the exact order the model
// was trained with. The order is an external contract; do not reorder.
func assembleFeatures(req PredictionRequest) []float64 {
	parking := 0.0
	if req.RequiredCarParkingSpace {
		parking = 1
	}
	repeated := 0.0
	if req.RepeatedGuest {
		repeated = 1
	}

	noOfIndividuals := req.NoOfAdults + req.NoOfChildren
	noOfDaysBooked := req.NoOfWeekendNights + req.NoOfWeekNights

	return []float64{
		float64(req.NoOfAdults),
		float64(req.NoOfChildren),
		float64(req.NoOfWeekendNights),
		float64(req.NoOfWeekNights),
		float64(mealPlanCode(req.TypeOfMealPlan)),
		parking,
		float64(roomTypeCode(req.RoomTypeReserved)),
		float64(req.LeadTime),
		float64(req.ArrivalYear),
		float64(req.ArrivalMonth),
		float64(req.ArrivalDate),
		float64(marketSegmentCode(req.MarketSegmentType)),
		repeated,
		float64(req.NoOfPreviousCancellations),
		float64(req.NoOfPreviousBookingsNotCancelled),
		req.AvgPricePerRoom,
		float64(req.NoOfSpecialRequests),
		float64(noOfIndividuals),
		float64(noOfDaysBooked),
	}
}

func (s *PredictionService) transform(features []float64) []float64 {
	scaled := make([]float64, len(features))
	for i, x := range features {
		scaled[i] = (x - s.scaler.Mean[i]) / s.scaler.Scale[i]
	}
	return scaled
}

// predictProba returns the hard class and the [P(class 0), P(class 1)]
// distribution for a scaled vector.
func (s *PredictionService) predictProba(scaled []float64) (int, [2]float64) {
	z := s.model.Bias
	for i, w := range s.model.Weights {
		z += w * scaled[i]
	}
	p1 := 1.0 / (1.0 + math.Exp(-z))
	p0 := 1.0 - p1

	class := 0
	if p1 > p0 {
		class = 1
	}
	return class, [2]float64{p0, p1}
}

// Predict never fails the caller: artifact absence or any scoring problem
// yields the neutral fallback instead of an error.
func (s *PredictionService) Predict(req PredictionRequest) PredictionResponse {
	if !s.Ready() {
		return neutralFallback()
	}

	features := assembleFeatures(req)
	scaled := s.transform(features)
	class, proba := s.predictProba(scaled)

	for _, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			log.Printf("⚠️  prediction produced a non-finite probability — falling back")
			return neutralFallback()
		}
	}

	// The probability mass is always reported as "chance of cancellation":
	// P(class 0) when the point-prediction is class 0, otherwise 1 - P(class 1).
	prob := proba[0]
	if class != 0 {
		prob = 1 - proba[1]
	}

	return PredictionResponse{
		WillCancel:              class == 0,
		CancellationProbability: prob,
		RiskLevel:               riskLevelFor(prob),
	}
}

func riskLevelFor(probability float64) string {
	switch {
	case probability >= 0.7:
		return RiskLevelHigh
	case probability >= 0.4:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
