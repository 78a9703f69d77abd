package models

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HousingListing is a hostel or flat offered near campus. Listings are
// reference data and are never modified by the ranker.
type HousingListing struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Address           string      `json:"address"`
	Zone              string      `json:"zone"`
	Rent              int         `json:"rent"`
	Coordinates       Coordinates `json:"coordinates"`
	Capacity          int         `json:"capacity"`
	Tags              []string    `json:"tags"`
	Amenities         []string    `json:"amenities"`
	Rating            float64     `json:"rating"`
	TravelTimeMinutes int         `json:"travelTimeMinutes"`
}

// HasTag reports whether the listing carries the given tag.
func (l *HousingListing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ListingsCatalog is the on-disk format of the listing catalog.
type ListingsCatalog struct {
	Listings []HousingListing `json:"listings"`
}
