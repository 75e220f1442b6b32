package models

import "time"

// Location is the geographic part of a farm profile.
type Location struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName *string `json:"location_name"`
}

// SoilFarmDetails is the agronomic part of a farm profile. Every field is
// optional.
type SoilFarmDetails struct {
	SoilType       *string  `json:"soil_type"`
	PH             *float64 `json:"ph"`
	Nitrogen       *float64 `json:"nitrogen"`
	Phosphorus     *float64 `json:"phosphorus"`
	Potassium      *float64 `json:"potassium"`
	FarmSizeAcres  *float64 `json:"farm_size_acres"`
	IrrigationType *string  `json:"irrigation_type"`
	Season         *string  `json:"season"`
}

// FarmProfile is the single profile row kept per user.
type FarmProfile struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName *string  `json:"location_name"`
	SoilFarmDetails
	LastUpdated time.Time `json:"last_updated"`
}
