// Package services wraps the backend's REST resources. Each method maps to
// exactly one endpoint and does nothing beyond payload shaping.
package services

import (
	"net/url"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
)

// Services bundles every resource client over one API client.
type Services struct {
	Auth        *AuthService
	Bookings    *BookingService
	Centers     *CenterService
	Receptions  *ReceptionService
	Vehicles    *VehicleService
	Technicians *TechnicianService
	Inspections *InspectionService
	SpareParts  *SparePartService
}

// New creates all resource services over c.
func New(c *apiclient.Client) *Services {
	return &Services{
		Auth:        &AuthService{client: c},
		Bookings:    &BookingService{client: c},
		Centers:     &CenterService{client: c},
		Receptions:  &ReceptionService{client: c},
		Vehicles:    &VehicleService{client: c},
		Technicians: &TechnicianService{client: c},
		Inspections: &InspectionService{client: c},
		SpareParts:  &SparePartService{client: c},
	}
}

func statusQuery(status string) url.Values {
	if status == "" {
		return nil
	}
	return url.Values{"status": {status}}
}
