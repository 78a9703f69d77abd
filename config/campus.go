package config

import "shifty/server/internal/models"

// CampusNodes are the checkpoints the moving fleet serves
var CampusNodes = []models.CampusNode{
	{Name: "Graphic Era University", Lat: 30.2666, Lng: 78.0138},
	{Name: "Graphic Era Hill University", Lat: 30.2828, Lng: 78.0415},
	{Name: "IMS Unison", Lat: 30.3561, Lng: 77.9947},
}

// Fleet is the fleet currently on duty
var Fleet = models.FleetSummary{
	ActiveMovers:       18,
	ColdStorageTrucks:  5,
	EtaAccuracyMinutes: 12,
}

// GetCampusNames returns the names of all checkpoints
func GetCampusNames() []string {
	names := make([]string, len(CampusNodes))
	for i, node := range CampusNodes {
		names[i] = node.Name
	}
	return names
}

// GetCampusByName returns a checkpoint by name
func GetCampusByName(name string) *models.CampusNode {
	for _, node := range CampusNodes {
		if node.Name == name {
			return &node
		}
	}
	return nil
}
