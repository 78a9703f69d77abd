package pricing

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights is the constant table behind the price formula. It is plain
// configuration: the defaults are hand-tuned and a JSON file can override
// any subset of them.
type Weights struct {
	Intercept float64         `json:"intercept"`
	Distance  DistanceWeights `json:"distance"`
	Luggage   LuggageWeights  `json:"luggage"`
	Floor     FloorWeights    `json:"floor"`
	Demand    DemandWeights   `json:"demand"`
	Urgency   UrgencyWeights  `json:"urgency"`
	Fragile   FragileWeights  `json:"fragile"`
	Rooms     RoomWeights     `json:"rooms"`

	// MinPrice is the hard floor applied to the raw price.
	MinPrice float64 `json:"min_price"`
	// AlaCarteMarkup prices the same services booked individually.
	AlaCarteMarkup float64 `json:"a_la_carte_markup"`
}

type DistanceWeights struct {
	LogCoeff    float64 `json:"log_coeff"`
	LinearCoeff float64 `json:"linear_coeff"`
}

type LuggageWeights struct {
	LinearCoeff    float64 `json:"linear_coeff"`
	QuadraticCoeff float64 `json:"quadratic_coeff"`
}

type FloorWeights struct {
	GroundDiscount float64 `json:"ground_discount"`
	PerFloorAbove  float64 `json:"per_floor_above"`
	CapFloor       int     `json:"cap_floor"`
}

type DemandWeights struct {
	PeakAmplitude      float64 `json:"peak_amplitude"`
	PeakHour           float64 `json:"peak_hour"`
	SecondaryPeakHour  float64 `json:"secondary_peak_hour"`
	SecondaryPeakScale float64 `json:"secondary_peak_scale"`
}

type UrgencyWeights struct {
	SameDayMultiplier float64 `json:"same_day_multiplier"`
	DecayRate         float64 `json:"decay_rate"`
}

type FragileWeights struct {
	FlatFee       float64 `json:"flat_fee"`
	PercentUplift float64 `json:"percent_uplift"`
}

type RoomWeights struct {
	PerRoom float64 `json:"per_room"`
}

// DefaultWeights returns the production constant table.
func DefaultWeights() Weights {
	return Weights{
		Intercept: 850,
		Distance: DistanceWeights{
			LogCoeff:    420,
			LinearCoeff: 38,
		},
		Luggage: LuggageWeights{
			LinearCoeff:    3.2,
			QuadraticCoeff: 0.008,
		},
		Floor: FloorWeights{
			GroundDiscount: -80,
			PerFloorAbove:  55,
			CapFloor:       10,
		},
		Demand: DemandWeights{
			PeakAmplitude:      0.22,
			PeakHour:           10,
			SecondaryPeakHour:  17,
			SecondaryPeakScale: 0.6,
		},
		Urgency: UrgencyWeights{
			SameDayMultiplier: 1.45,
			DecayRate:         0.18,
		},
		Fragile: FragileWeights{
			FlatFee:       350,
			PercentUplift: 0.08,
		},
		Rooms: RoomWeights{
			PerRoom: 280,
		},
		MinPrice:       500,
		AlaCarteMarkup: 1.15,
	}
}

// LoadWeights reads a JSON weight file on top of DefaultWeights, so the file
// only needs the keys it changes.
func LoadWeights(path string) (Weights, error) {
	weights := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return weights, fmt.Errorf("failed to read weights file: %w", err)
	}

	if err := json.Unmarshal(data, &weights); err != nil {
		return DefaultWeights(), fmt.Errorf("failed to parse weights file: %w", err)
	}

	return weights, nil
}
