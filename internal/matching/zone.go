package matching

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeLocation lowercases a place name and reduces every run of
// non-alphanumeric characters to a single space.
func NormalizeLocation(value string) string {
	return strings.TrimSpace(nonAlphanumeric.ReplaceAllString(strings.ToLower(value), " "))
}

// ZoneMatchScore scores how well a free-text area matches a listing zone:
// 12 when either contains the other, otherwise 4 per shared word.
func ZoneMatchScore(listingZone, targetArea string) int {
	zone := NormalizeLocation(listingZone)
	target := NormalizeLocation(targetArea)
	if target == "" {
		return 0
	}
	if strings.Contains(zone, target) || strings.Contains(target, zone) {
		return 12
	}

	zoneTokens := make(map[string]bool)
	for _, token := range strings.Split(zone, " ") {
		zoneTokens[token] = true
	}

	overlap := 0
	for _, token := range strings.Split(target, " ") {
		if zoneTokens[token] {
			overlap++
		}
	}
	return overlap * 4
}
