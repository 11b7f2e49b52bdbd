package models

// Vehicle represents a customer EV known to the backend.
type Vehicle struct {
	ID           int64  `json:"id"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	VIN          string `json:"vin"`
	Year         int    `json:"year,omitempty"`
	Mileage      *int64 `json:"mileage,omitempty"` // last recorded, km
	OwnerName    string `json:"ownerName,omitempty"`
	OwnerPhone   string `json:"ownerPhone,omitempty"`
	OwnerEmail   string `json:"ownerEmail,omitempty"`
	OwnerAddress string `json:"ownerAddress,omitempty"`
}

// RegisterVehicleRequest is the payload for POST /vehicles.
type RegisterVehicleRequest struct {
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	VIN          string `json:"vin"`
	Year         int    `json:"year,omitempty"`
	Mileage      int64  `json:"mileage,omitempty"`
}
