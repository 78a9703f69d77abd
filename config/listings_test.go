package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeListingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetListings_DefaultCatalog(t *testing.T) {
	ResetListings()

	listings := GetListings()
	require.Len(t, listings, 4)
	assert.Equal(t, "clement-courtyard", listings[0].ID)
	assert.Equal(t, "doon-duplex", listings[3].ID)
}

func TestGetListings_ReturnsCopy(t *testing.T) {
	ResetListings()

	listings := GetListings()
	listings[0].Rent = 1

	assert.Equal(t, 8500, GetListings()[0].Rent)
}

func TestGetListingByID(t *testing.T) {
	ResetListings()

	listing := GetListingByID("rajpur-rise")
	require.NotNil(t, listing)
	assert.Equal(t, 11000, listing.Rent)
	assert.Equal(t, "Rajpur Road", listing.Zone)

	assert.Nil(t, GetListingByID("missing"))
}

func TestLoadListings(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError string
		expectedIDs []string
	}{
		{
			name: "Valid catalog",
			content: `{"listings": [
				{"id": "a", "title": "A", "zone": "Prem Nagar", "rent": 5000, "capacity": 2, "travelTimeMinutes": 9},
				{"id": "b", "title": "B", "zone": "Ballupur", "rent": 9000, "capacity": 4, "travelTimeMinutes": 15}
			]}`,
			expectedIDs: []string{"a", "b"},
		},
		{
			name:        "Empty catalog",
			content:     `{"listings": []}`,
			expectError: "contains no listings",
		},
		{
			name:        "Missing id",
			content:     `{"listings": [{"title": "Nameless"}]}`,
			expectError: "has no id",
		},
		{
			name:        "Duplicate id",
			content:     `{"listings": [{"id": "a"}, {"id": "a"}]}`,
			expectError: "duplicate listing id",
		},
		{
			name:        "Malformed json",
			content:     `{"listings": [`,
			expectError: "failed to parse listings file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetListings()
			t.Cleanup(ResetListings)

			err := LoadListings(writeListingsFile(t, tt.content))
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Len(t, GetListings(), 4, "failed load must keep the previous catalog")
				return
			}

			require.NoError(t, err)
			var ids []string
			for _, l := range GetListings() {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestLoadListings_MissingFile(t *testing.T) {
	err := LoadListings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
