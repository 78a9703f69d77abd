package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"shifty/server/internal/models"
)

var (
	listings    []models.HousingListing
	listingLock sync.RWMutex
)

// DefaultListings returns the built-in Dehradun catalog
func DefaultListings() []models.HousingListing {
	return []models.HousingListing{
		{
			ID:                "clement-courtyard",
			Title:             "Clement Courtyard",
			Address:           "Opp. Graphic Era Hill University Gate No. 2, Clement Town",
			Zone:              "Clement Town Gate 2",
			Rent:              8500,
			Coordinates:       models.Coordinates{Lat: 30.282941, Lng: 78.041243},
			Capacity:          3,
			Tags:              []string{"quiet", "study-friendly", "single"},
			Amenities:         []string{"24/7 water", "Wi-Fi 200 Mbps", "Laundry"},
			Rating:            4.8,
			TravelTimeMinutes: 6,
		},
		{
			ID:                "geu-green-homes",
			Title:             "GEU Green Homes",
			Address:           "Lane No. 5, Near Graphic Era University, Clement Town",
			Zone:              "Lane 5 Clement Town",
			Rent:              7200,
			Coordinates:       models.Coordinates{Lat: 30.268981, Lng: 78.011972},
			Capacity:          4,
			Tags:              []string{"social", "budget", "shared"},
			Amenities:         []string{"Common kitchen", "Gym", "CCTV"},
			Rating:            4.5,
			TravelTimeMinutes: 12,
		},
		{
			ID:                "rajpur-rise",
			Title:             "Rajpur Rise Residences",
			Address:           "Rajpur Road Extension, Dehradun",
			Zone:              "Rajpur Road",
			Rent:              11000,
			Coordinates:       models.Coordinates{Lat: 30.308249, Lng: 78.04871},
			Capacity:          2,
			Tags:              []string{"premium", "balcony", "privacy"},
			Amenities:         []string{"Housekeeping", "Inverter backup", "Café"},
			Rating:            4.9,
			TravelTimeMinutes: 18,
		},
		{
			ID:                "doon-duplex",
			Title:             "Doon Duplex Pods",
			Address:           "GMS Road, Ballupur Chowk",
			Zone:              "GMS Road",
			Rent:              6200,
			Coordinates:       models.Coordinates{Lat: 30.311299, Lng: 78.009622},
			Capacity:          6,
			Tags:              []string{"ultra-budget", "pods", "community"},
			Amenities:         []string{"AR lockers", "Study pods", "Rooftop cinema"},
			Rating:            4.2,
			TravelTimeMinutes: 22,
		},
	}
}

// LoadListings replaces the catalog with the listings in a JSON file
func LoadListings(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read listings file: %w", err)
	}

	var catalog models.ListingsCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("failed to parse listings file: %w", err)
	}

	if len(catalog.Listings) == 0 {
		return fmt.Errorf("listings file %s contains no listings", path)
	}

	seen := make(map[string]bool, len(catalog.Listings))
	for _, listing := range catalog.Listings {
		if listing.ID == "" {
			return fmt.Errorf("listing %q has no id", listing.Title)
		}
		if seen[listing.ID] {
			return fmt.Errorf("duplicate listing id: %s", listing.ID)
		}
		seen[listing.ID] = true
	}

	listingLock.Lock()
	defer listingLock.Unlock()
	listings = catalog.Listings
	return nil
}

// ResetListings restores the built-in catalog
func ResetListings() {
	listingLock.Lock()
	defer listingLock.Unlock()
	listings = nil
}

// GetListings returns a copy of the current catalog
func GetListings() []models.HousingListing {
	listingLock.RLock()
	defer listingLock.RUnlock()

	if listings == nil {
		return DefaultListings()
	}

	result := make([]models.HousingListing, len(listings))
	copy(result, listings)
	return result
}

// GetListingByID returns a listing from the current catalog
func GetListingByID(id string) *models.HousingListing {
	for _, listing := range GetListings() {
		if listing.ID == id {
			return &listing
		}
	}
	return nil
}
