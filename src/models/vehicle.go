package models

import "time"

// RegisteredVehicle represents a monthly-ticket vehicle in the
// registered_vehicles table. Plate is unique.
type RegisteredVehicle struct {
	ID          int64      `json:"id"`
	Plate       string     `json:"plate"`
	VehicleType string     `json:"vehicle_type,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}
