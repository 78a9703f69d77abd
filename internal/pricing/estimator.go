package pricing

import "math"

// Input ranges. Callers validate against these; Predict re-clamps anyway.
const (
	MinDistanceKm    = 0.5
	MaxDistanceKm    = 50.0
	MinLuggageKg     = 5.0
	MaxLuggageKg     = 500.0
	MinFloorLevel    = 0
	MaxFloorLevel    = 20
	MinHourOfDay     = 0
	MaxHourOfDay     = 23
	MinDaysUntilMove = 0
	MaxDaysUntilMove = 30
	MinRooms         = 1
	MaxRooms         = 6
)

// MoveInputs describes a single move.
type MoveInputs struct {
	DistanceKm      float64 `json:"distanceKm"`
	LuggageKg       float64 `json:"luggageKg"`
	FloorLevel      int     `json:"floorLevel"`
	HourOfDay       int     `json:"hourOfDay"`
	DaysUntilMove   int     `json:"daysUntilMove"`
	HasFragileItems bool    `json:"hasFragileItems"`
	NumberOfRooms   int     `json:"numberOfRooms"`
}

type DemandLevel string

const (
	DemandLow      DemandLevel = "low"
	DemandModerate DemandLevel = "moderate"
	DemandHigh     DemandLevel = "high"
	DemandSurge    DemandLevel = "surge"
)

// PriceBreakdown holds the rounded components of a quote.
type PriceBreakdown struct {
	DistanceCost     int     `json:"distanceCost"`
	LuggageCost      int     `json:"luggageCost"`
	FloorSurcharge   int     `json:"floorSurcharge"`
	DemandMultiplier float64 `json:"demandMultiplier"`
	UrgencySurcharge int     `json:"urgencySurcharge"`
	FragileCost      int     `json:"fragileCost"`
	RoomCost         int     `json:"roomCost"`
}

type ConfidenceInterval struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// PricePrediction is the full quote returned for a move.
type PricePrediction struct {
	BasePrice          int                 `json:"basePrice"`
	BasePricePaise     int                 `json:"basePricePaise"`
	Confidence         float64             `json:"confidence"`
	ConfidenceInterval ConfidenceInterval  `json:"confidenceInterval"`
	Breakdown          PriceBreakdown      `json:"breakdown"`
	Packages           []PackagePrediction `json:"packages"`
	DemandLevel        DemandLevel         `json:"demandLevel"`
	SavingsTip         string              `json:"savingsTip"`
}

// Estimator prices moves from a fixed weight table. It holds no mutable
// state and is safe for concurrent use.
type Estimator struct {
	weights Weights
	tiers   []PackageTier
}

// NewEstimator creates an estimator for the given weights.
func NewEstimator(weights Weights) *Estimator {
	return &Estimator{
		weights: weights,
		tiers:   DefaultTiers(),
	}
}

var defaultEstimator = NewEstimator(DefaultWeights())

// Predict prices a move with the default weights.
func Predict(inputs MoveInputs) PricePrediction {
	return defaultEstimator.Predict(inputs)
}

// Weights returns the table the estimator was built with.
func (e *Estimator) Weights() Weights {
	return e.weights
}

// Predict computes the quote for a move. Out-of-range inputs are clamped.
func (e *Estimator) Predict(inputs MoveInputs) PricePrediction {
	in := ClampInputs(inputs)
	w := e.weights

	distanceCost := w.Distance.LogCoeff*math.Log1p(in.DistanceKm) +
		w.Distance.LinearCoeff*in.DistanceKm

	luggageCost := w.Luggage.LinearCoeff*in.LuggageKg +
		w.Luggage.QuadraticCoeff*in.LuggageKg*in.LuggageKg

	var floorSurcharge float64
	if in.FloorLevel == 0 {
		floorSurcharge = w.Floor.GroundDiscount
	} else {
		floorSurcharge = w.Floor.PerFloorAbove * float64(min(in.FloorLevel, w.Floor.CapFloor))
	}

	demandMultiplier := e.demandMultiplier(in.HourOfDay)
	urgencyFactor := e.urgencyFactor(in.DaysUntilMove)
	urgencySurcharge := w.Intercept * (urgencyFactor - 1)

	subtotal := w.Intercept + distanceCost + luggageCost + floorSurcharge + urgencySurcharge

	var fragileCost float64
	if in.HasFragileItems {
		fragileCost = w.Fragile.FlatFee + subtotal*w.Fragile.PercentUplift
	}

	roomCost := float64(max(in.NumberOfRooms-1, 0)) * w.Rooms.PerRoom

	// The demand multiplier scales everything, fragile and room costs included.
	rawPrice := (subtotal + fragileCost + roomCost) * demandMultiplier
	basePrice := int(roundHalfUp(math.Max(rawPrice, w.MinPrice)))

	confidence := computeConfidence(in)
	margin := float64(basePrice) * (1 - confidence) * 0.5
	demandLevel := categorizeDemand(demandMultiplier, urgencyFactor)

	return PricePrediction{
		BasePrice:      basePrice,
		BasePricePaise: basePrice * 100,
		Confidence:     confidence,
		ConfidenceInterval: ConfidenceInterval{
			Low:  int(roundHalfUp(float64(basePrice) - margin)),
			High: int(roundHalfUp(float64(basePrice) + margin)),
		},
		Breakdown: PriceBreakdown{
			DistanceCost:     int(roundHalfUp(distanceCost)),
			LuggageCost:      int(roundHalfUp(luggageCost)),
			FloorSurcharge:   int(roundHalfUp(floorSurcharge)),
			DemandMultiplier: roundHalfUp(demandMultiplier*100) / 100,
			UrgencySurcharge: int(roundHalfUp(urgencySurcharge)),
			FragileCost:      int(roundHalfUp(fragileCost)),
			RoomCost:         int(roundHalfUp(roomCost)),
		},
		Packages:    e.pricePackages(basePrice),
		DemandLevel: demandLevel,
		SavingsTip:  savingsTip(in, demandLevel),
	}
}

// demandMultiplier is 1 plus the larger of two cosine peaks, never below 1.
func (e *Estimator) demandMultiplier(hour int) float64 {
	d := e.weights.Demand
	h := float64(hour)
	primary := math.Cos((h-d.PeakHour)/12*math.Pi) * d.PeakAmplitude
	secondary := math.Cos((h-d.SecondaryPeakHour)/12*math.Pi) * d.PeakAmplitude * d.SecondaryPeakScale
	return 1 + math.Max(math.Max(primary, secondary), 0)
}

// urgencyFactor decays exponentially from the same-day multiplier towards 1.
func (e *Estimator) urgencyFactor(days int) float64 {
	u := e.weights.Urgency
	if days <= 0 {
		return u.SameDayMultiplier
	}
	return 1 + (u.SameDayMultiplier-1)*math.Exp(-u.DecayRate*float64(days))
}

// ClampInputs forces every field into its documented range.
func ClampInputs(in MoveInputs) MoveInputs {
	return MoveInputs{
		DistanceKm:      clampFloat(in.DistanceKm, MinDistanceKm, MaxDistanceKm),
		LuggageKg:       clampFloat(in.LuggageKg, MinLuggageKg, MaxLuggageKg),
		FloorLevel:      clampInt(in.FloorLevel, MinFloorLevel, MaxFloorLevel),
		HourOfDay:       clampInt(in.HourOfDay, MinHourOfDay, MaxHourOfDay),
		DaysUntilMove:   clampInt(in.DaysUntilMove, MinDaysUntilMove, MaxDaysUntilMove),
		HasFragileItems: in.HasFragileItems,
		NumberOfRooms:   clampInt(in.NumberOfRooms, MinRooms, MaxRooms),
	}
}

func computeConfidence(in MoveInputs) float64 {
	c := 0.92

	if in.DistanceKm > 30 {
		c -= 0.08
	}
	if in.LuggageKg > 300 {
		c -= 0.06
	}
	if in.DaysUntilMove <= 1 {
		c -= 0.05
	}
	if in.FloorLevel > 8 {
		c -= 0.04
	}
	if in.NumberOfRooms > 4 {
		c -= 0.03
	}

	if in.DistanceKm >= 2 && in.DistanceKm <= 15 {
		c += 0.03
	}
	if in.LuggageKg >= 20 && in.LuggageKg <= 150 {
		c += 0.02
	}

	return clampFloat(c, 0.6, 0.97)
}

func categorizeDemand(demandMultiplier, urgencyFactor float64) DemandLevel {
	combined := demandMultiplier * urgencyFactor
	switch {
	case combined >= 1.55:
		return DemandSurge
	case combined >= 1.25:
		return DemandHigh
	case combined >= 1.08:
		return DemandModerate
	default:
		return DemandLow
	}
}

// savingsTip returns the first matching tip, checked in priority order.
func savingsTip(in MoveInputs, demand DemandLevel) string {
	switch {
	case demand == DemandSurge:
		return "💡 Move 2–3 days out to save up to 30%. Same-day surge pricing is active."
	case in.HourOfDay >= 8 && in.HourOfDay <= 12:
		return "💡 Shifting to an afternoon slot (2–5 PM) could save ₹200–400."
	case in.LuggageKg > 200:
		return "💡 Consider splitting into 2 trips — batched loads qualify for 15% discounts."
	case in.FloorLevel > 5:
		return "💡 If a lift is available, mention it during booking for a ₹100–200 floor discount."
	case in.NumberOfRooms >= 3:
		return "💡 Multi-room moves get 10% off with the Premium package. Bundle & save."
	default:
		return "💡 You're in a sweet spot! Current demand is low — great time to book."
	}
}

// roundHalfUp rounds .5 towards positive infinity, negative values included.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
