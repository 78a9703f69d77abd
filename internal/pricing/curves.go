package pricing

import "fmt"

const (
	DefaultCurveSteps = 20

	curveMinKm     = 0.5
	curveMaxKm     = 30.0
	curveFirstHour = 6
	curveLastHour  = 22
)

// CurvePoint is one sample of a price curve.
type CurvePoint struct {
	X     float64 `json:"x"`
	Y     int     `json:"y"`
	Label string  `json:"label"`
}

// DistanceCurve samples the base price at steps+1 evenly spaced distances
// between 0.5 and 30 km, keeping every other input fixed.
func (e *Estimator) DistanceCurve(base MoveInputs, steps int) []CurvePoint {
	if steps <= 0 {
		steps = DefaultCurveSteps
	}

	points := make([]CurvePoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		km := curveMinKm + float64(i)/float64(steps)*(curveMaxKm-curveMinKm)
		in := base
		in.DistanceKm = km
		points = append(points, CurvePoint{
			X:     roundHalfUp(km*10) / 10,
			Y:     e.Predict(in).BasePrice,
			Label: fmt.Sprintf("%.1f km", km),
		})
	}
	return points
}

// HourlyCurve samples the base price at every hour from 6 AM to 10 PM.
func (e *Estimator) HourlyCurve(base MoveInputs) []CurvePoint {
	points := make([]CurvePoint, 0, curveLastHour-curveFirstHour+1)
	for h := curveFirstHour; h <= curveLastHour; h++ {
		in := base
		in.HourOfDay = h
		points = append(points, CurvePoint{
			X:     float64(h),
			Y:     e.Predict(in).BasePrice,
			Label: hourLabel(h),
		})
	}
	return points
}

// DistanceCurve samples the default estimator.
func DistanceCurve(base MoveInputs, steps int) []CurvePoint {
	return defaultEstimator.DistanceCurve(base, steps)
}

// HourlyCurve samples the default estimator.
func HourlyCurve(base MoveInputs) []CurvePoint {
	return defaultEstimator.HourlyCurve(base)
}

func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}
