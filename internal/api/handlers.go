package api

import (
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shifty/server/internal/geometry"
	"shifty/server/internal/matching"
	"shifty/server/internal/payments"
	"shifty/server/internal/pricing"
)

const (
	msgInvalidBody = "Invalid request body"

	maxTopN = 5
)

type Handler struct {
	logger      *logrus.Logger
	estimator   *pricing.Estimator
	ranker      *matching.Ranker
	serviceArea *geometry.ServiceArea
	payments    *payments.Service
}

func NewHandler(estimator *pricing.Estimator, ranker *matching.Ranker, serviceArea *geometry.ServiceArea, paymentService *payments.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if estimator == nil {
		estimator = pricing.NewEstimator(pricing.DefaultWeights())
	}
	if ranker == nil {
		ranker = matching.NewRanker(nil)
	}

	registerValidators()

	return &Handler{
		logger:      logger,
		estimator:   estimator,
		ranker:      ranker,
		serviceArea: serviceArea,
		payments:    paymentService,
	}
}

// PredictRequest mirrors pricing.MoveInputs with presence tracking. Fields are
// checked in declaration order and the first failure is reported.
type PredictRequest struct {
	DistanceKm      *float64 `json:"distanceKm" binding:"required,gte=0.5,lte=50"`
	LuggageKg       *float64 `json:"luggageKg" binding:"required,gte=5,lte=500"`
	FloorLevel      *float64 `json:"floorLevel" binding:"required,gte=0,lte=20"`
	HourOfDay       *float64 `json:"hourOfDay" binding:"required,gte=0,lte=23"`
	DaysUntilMove   *float64 `json:"daysUntilMove" binding:"required,gte=0,lte=30"`
	HasFragileItems bool     `json:"hasFragileItems"`
	NumberOfRooms   *float64 `json:"numberOfRooms" binding:"required,gte=1,lte=6"`
	IncludeCurves   *bool    `json:"includeCurves"`
}

var predictMessages = map[string]string{
	"DistanceKm":    "Distance must be between 0.5 and 50 km",
	"LuggageKg":     "Luggage weight must be between 5 and 500 kg",
	"FloorLevel":    "Floor level must be between 0 and 20",
	"HourOfDay":     "Hour must be between 0 and 23",
	"DaysUntilMove": "Days until move must be between 0 and 30",
	"NumberOfRooms": "Number of rooms must be between 1 and 6",
}

func (r PredictRequest) inputs() pricing.MoveInputs {
	return pricing.MoveInputs{
		DistanceKm:      *r.DistanceKm,
		LuggageKg:       *r.LuggageKg,
		FloorLevel:      int(math.Round(*r.FloorLevel)),
		HourOfDay:       int(math.Round(*r.HourOfDay)),
		DaysUntilMove:   int(math.Round(*r.DaysUntilMove)),
		HasFragileItems: r.HasFragileItems,
		NumberOfRooms:   int(math.Round(*r.NumberOfRooms)),
	}
}

type PriceCurves struct {
	DistanceCurve []pricing.CurvePoint `json:"distanceCurve"`
	HourlyCurve   []pricing.CurvePoint `json:"hourlyCurve"`
}

type PredictResponse struct {
	Prediction pricing.PricePrediction `json:"prediction"`
	Curves     *PriceCurves            `json:"curves,omitempty"`
}

func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if msg, ok := firstFieldMessage(err, predictMessages); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		h.logger.WithError(err).Debug("Failed to parse predict request")
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	inputs := req.inputs()
	resp := PredictResponse{Prediction: h.estimator.Predict(inputs)}
	if req.IncludeCurves == nil || *req.IncludeCurves {
		resp.Curves = &PriceCurves{
			DistanceCurve: h.estimator.DistanceCurve(inputs, pricing.DefaultCurveSteps),
			HourlyCurve:   h.estimator.HourlyCurve(inputs),
		}
	}

	h.logger.WithFields(logrus.Fields{
		"base_price":   resp.Prediction.BasePrice,
		"demand_level": resp.Prediction.DemandLevel,
	}).Debug("Priced move")

	c.JSON(http.StatusOK, resp)
}

// RecommendationRequest is a student profile as posted by the matcher form
type RecommendationRequest struct {
	Budget          *float64 `json:"budget" binding:"required,gte=4000,lte=20000"`
	MoveDate        string   `json:"moveDate" binding:"movedate"`
	Vibe            string   `json:"vibe" binding:"oneof=focus balanced social"`
	Luggage         string   `json:"luggage" binding:"oneof=light medium heavy"`
	SourceArea      string   `json:"sourceArea" binding:"notblank"`
	DestinationArea string   `json:"destinationArea" binding:"notblank"`
	TopN            *float64 `json:"topN"`
}

var recommendationMessages = map[string]string{
	"Budget":          "Budget must be between ₹4,000 and ₹20,000",
	"MoveDate":        "Invalid move date",
	"Vibe":            "Invalid vibe or luggage selection",
	"Luggage":         "Invalid vibe or luggage selection",
	"SourceArea":      "Source and destination areas are required",
	"DestinationArea": "Source and destination areas are required",
}

func (r RecommendationRequest) topN() int {
	if r.TopN == nil {
		return matching.DefaultTopN
	}
	return int(math.Min(math.Max(*r.TopN, 1), maxTopN))
}

func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if msg, ok := firstFieldMessage(err, recommendationMessages); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		h.logger.WithError(err).Debug("Failed to parse recommendation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	profile := matching.StudentProfile{
		Budget:          *req.Budget,
		MoveDate:        req.MoveDate,
		Luggage:         matching.LuggageVolume(req.Luggage),
		Vibe:            matching.Vibe(req.Vibe),
		SourceArea:      strings.TrimSpace(req.SourceArea),
		DestinationArea: strings.TrimSpace(req.DestinationArea),
	}

	recommendations := h.ranker.Recommend(profile, nil, req.topN())
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
