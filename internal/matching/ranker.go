package matching

import (
	"fmt"
	"math"
	"sort"
	"time"

	"shifty/server/config"
	"shifty/server/internal/models"
)

type Vibe string

const (
	VibeFocus    Vibe = "focus"
	VibeBalanced Vibe = "balanced"
	VibeSocial   Vibe = "social"
)

type LuggageVolume string

const (
	LuggageLight  LuggageVolume = "light"
	LuggageMedium LuggageVolume = "medium"
	LuggageHeavy  LuggageVolume = "heavy"
)

const (
	DefaultTopN = 3

	baselineScore          = 50.0
	rentPenaltyPerThousand = 6.0
	travelPivotMinutes     = 25.0
	travelBonusPerMinute   = 1.5
	vibeTagBonus           = 8.0
	storageBonus           = 5.0
	urgentHandoverBonus    = 4.0
	urgentWindowDays       = 7
	urgentMaxCapacity      = 3
	outsideZonePenalty     = 6.0
	sourceMatchThreshold   = 8
	sourceBonus            = 4.0
)

var vibeTags = map[Vibe][]string{
	VibeFocus:    {"quiet", "study-friendly", "privacy"},
	VibeBalanced: {"balcony", "shared", "community"},
	VibeSocial:   {"social", "community", "pods"},
}

var luggageWeight = map[LuggageVolume]float64{
	LuggageLight:  1,
	LuggageMedium: 2,
	LuggageHeavy:  3,
}

// ValidVibe reports whether v is a known vibe.
func ValidVibe(v Vibe) bool {
	_, ok := vibeTags[v]
	return ok
}

// ValidLuggage reports whether l is a known luggage volume.
func ValidLuggage(l LuggageVolume) bool {
	_, ok := luggageWeight[l]
	return ok
}

// StudentProfile is what a student tells us about their move.
type StudentProfile struct {
	Budget          float64       `json:"budget"`
	MoveDate        string        `json:"moveDate"`
	Luggage         LuggageVolume `json:"luggage"`
	Vibe            Vibe          `json:"vibe"`
	SourceArea      string        `json:"sourceArea"`
	DestinationArea string        `json:"destinationArea"`
}

// Recommendation is a listing with its score and the reasons behind it.
type Recommendation struct {
	models.HousingListing
	Score        int      `json:"score"`
	Rationale    []string `json:"rationale"`
	RouteSummary string   `json:"routeSummary,omitempty"`
}

// Ranker scores listings against a student profile. The clock is only used
// to work out how soon the move is.
type Ranker struct {
	now func() time.Time
}

// NewRanker creates a ranker. A nil clock means time.Now.
func NewRanker(now func() time.Time) *Ranker {
	if now == nil {
		now = time.Now
	}
	return &Ranker{now: now}
}

// Recommend scores every listing and returns the best topN, highest score
// first. Equal scores keep catalog order. A nil catalog means the configured
// listings and a non-positive topN means DefaultTopN.
func (r *Ranker) Recommend(profile StudentProfile, listings []models.HousingListing, topN int) []Recommendation {
	if listings == nil {
		listings = config.GetListings()
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	moveInDays, dated := r.daysUntil(profile.MoveDate)
	urgent := dated && moveInDays <= urgentWindowDays

	results := make([]Recommendation, 0, len(listings))
	for _, listing := range listings {
		results = append(results, scoreListing(profile, listing, urgent))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

func scoreListing(profile StudentProfile, listing models.HousingListing, urgent bool) Recommendation {
	score := baselineScore
	var rationale []string

	deviation := float64(listing.Rent) - profile.Budget
	score -= deviation / 1000 * rentPenaltyPerThousand
	if deviation <= 0 {
		rationale = append(rationale, "Within your budget comfort zone")
	} else if deviation < 1500 {
		rationale = append(rationale, "Slightly above budget but higher comfort")
	}

	score += (travelPivotMinutes - float64(listing.TravelTimeMinutes)) * travelBonusPerMinute
	if listing.TravelTimeMinutes <= 10 {
		rationale = append(rationale, "Quick bike ride to campus")
	}

	matched := 0
	for _, tag := range vibeTags[profile.Vibe] {
		if listing.HasTag(tag) {
			matched++
		}
	}
	score += float64(matched) * vibeTagBonus
	if matched > 0 {
		rationale = append(rationale, fmt.Sprintf("Matches your %s vibe", profile.Vibe))
	}

	// capacity stands in for storage space
	if float64(listing.Capacity)*1.2 >= luggageWeight[profile.Luggage] {
		score += storageBonus
		rationale = append(rationale, "Enough storage for your luggage load")
	}

	if urgent && listing.Capacity <= urgentMaxCapacity {
		score += urgentHandoverBonus
		rationale = append(rationale, "Fast handover possible for urgent move")
	}

	normalizedDestination := NormalizeLocation(profile.DestinationArea)
	if boost := ZoneMatchScore(listing.Zone, profile.DestinationArea); boost > 0 {
		score += float64(boost)
		rationale = append(rationale, "Aligned with your desired destination zone")
	} else if normalizedDestination != "" {
		score -= outsideZonePenalty
		rationale = append(rationale, "Outside your declared destination, but still viable")
	}

	if ZoneMatchScore(listing.Zone, profile.SourceArea) >= sourceMatchThreshold {
		score += sourceBonus
		rationale = append(rationale, "Minimal logistics from your current location")
	}

	var routeSummary string
	if NormalizeLocation(profile.SourceArea) != "" || normalizedDestination != "" {
		pickup := profile.SourceArea
		if pickup == "" {
			pickup = "Pickup TBD"
		}
		routeSummary = fmt.Sprintf("%s → %s", pickup, listing.Zone)
	}

	if rationale == nil {
		rationale = []string{}
	}

	return Recommendation{
		HousingListing: listing,
		Score:          int(math.Floor(score + 0.5)),
		Rationale:      rationale,
		RouteSummary:   routeSummary,
	}
}

// daysUntil counts calendar days from today to the move date in the
// ranker's clock location, floored at zero.
func (r *Ranker) daysUntil(moveDate string) (int, bool) {
	now := r.now()
	date, err := parseMoveDateIn(moveDate, now.Location())
	if err != nil {
		return 0, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date = date.In(now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	days := int(math.Round(day.Sub(today).Hours() / 24))
	return max(days, 0), true
}

// ParseMoveDate accepts a plain date (2006-01-02) or an RFC 3339 timestamp.
func ParseMoveDate(value string) (time.Time, error) {
	return parseMoveDateIn(value, time.UTC)
}

func parseMoveDateIn(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid move date %q", value)
	}
	return t, nil
}
