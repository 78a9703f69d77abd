package models

// CampusNode is a service-area checkpoint.
type CampusNode struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// FleetSummary describes the movers currently on duty.
type FleetSummary struct {
	ActiveMovers       int `json:"activeMovers"`
	ColdStorageTrucks  int `json:"coldStorageTrucks"`
	EtaAccuracyMinutes int `json:"etaAccuracyMinutes"`
}
