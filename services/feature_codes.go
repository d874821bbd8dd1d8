package services

// Categorical-to-integer code tables. These values are part of the trained
// model's contract: the classifier saw exactly these encodings during training,
// so changing any entry silently breaks prediction correctness. Keep them as
// data, not logic.

var mealPlanCodes = map[string]int{
	"Meal Plan 1":  0,
	"Meal Plan 2":  1,
	"Meal Plan 3":  2,
	"Not Selected": 3,
}

var roomTypeCodes = map[string]int{
	"Room Type 1": 0,
	"Room Type 2": 1,
	"Room Type 3": 2,
	"Room Type 4": 3,
	"Room Type 5": 4,
	"Room Type 6": 5,
	"Room Type 7": 6,
}

var marketSegmentCodes = map[string]int{
	"Aviation":      0,
	"Complementary": 1,
	"Corporate":     2,
	"Offline":       3,
	"Online":        4,
}

// Unknown categories never fail scoring; they fall back to the code the model
// treats as the default bucket.
const (
	mealPlanFallback      = 3
	roomTypeFallback      = 0
	marketSegmentFallback = 4
)

func mealPlanCode(plan string) int {
	if code, ok := mealPlanCodes[plan]; ok {
		return code
	}
	return mealPlanFallback
}

func roomTypeCode(roomType string) int {
	if code, ok := roomTypeCodes[roomType]; ok {
		return code
	}
	return roomTypeFallback
}

func marketSegmentCode(segment string) int {
	if code, ok := marketSegmentCodes[segment]; ok {
		return code
	}
	return marketSegmentFallback
}
