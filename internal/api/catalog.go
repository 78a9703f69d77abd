package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shifty/server/config"
	"shifty/server/internal/geometry"
	"shifty/server/internal/models"
)

// ListingView is a listing with its closest campus checkpoint
type ListingView struct {
	models.HousingListing
	NearestCampus    string  `json:"nearestCampus,omitempty"`
	CampusDistanceKm float64 `json:"campusDistanceKm"`
}

type ServiceAreaResponse struct {
	Checkpoints []models.CampusNode `json:"checkpoints"`
	ActiveFleet models.FleetSummary `json:"activeFleet"`
	Polyline    [][2]float64        `json:"polyline"`
	Bounds      geometry.Bounds     `json:"bounds"`
}

func (h *Handler) listingView(listing models.HousingListing) ListingView {
	view := ListingView{HousingListing: listing}
	if h.serviceArea == nil {
		return view
	}
	if nearest, ok := h.serviceArea.Nearest(listing.Coordinates); ok {
		view.NearestCampus = nearest.Name
		view.CampusDistanceKm = nearest.DistanceKm
	}
	return view
}

// GetListings returns the whole catalog
func (h *Handler) GetListings(c *gin.Context) {
	listings := config.GetListings()
	views := make([]ListingView, len(listings))
	for i, listing := range listings {
		views[i] = h.listingView(listing)
	}
	c.JSON(http.StatusOK, gin.H{"listings": views})
}

// GetListing returns a single listing by id
func (h *Handler) GetListing(c *gin.Context) {
	listing := config.GetListingByID(c.Param("id"))
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, h.listingView(*listing))
}

// GetServiceArea returns the checkpoints the fleet serves, as JSON or GeoJSON
func (h *Handler) GetServiceArea(c *gin.Context) {
	if h.serviceArea == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service area not configured"})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "geojson":
		c.Header("Content-Type", "application/geo+json")
		c.JSON(http.StatusOK, h.serviceArea.FeatureCollection())
	case "json":
		c.JSON(http.StatusOK, ServiceAreaResponse{
			Checkpoints: h.serviceArea.Checkpoints(),
			ActiveFleet: config.Fleet,
			Polyline:    h.serviceArea.Polyline(),
			Bounds:      h.serviceArea.Bounds(),
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format"})
	}
}
