package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// VehicleService talks to the vehicle endpoints.
type VehicleService struct {
	client *apiclient.Client
}

// Search finds a vehicle by plate and/or VIN. A miss returns nil, nil.
// GET /vehicles/search?licensePlate=&vin=
func (s *VehicleService) Search(ctx context.Context, plate, vin string) (*models.Vehicle, error) {
	q := url.Values{}
	if plate != "" {
		q.Set("licensePlate", plate)
	}
	if vin != "" {
		q.Set("vin", vin)
	}
	res := s.client.Get(ctx, "/vehicles/search", q)
	if !res.Success && res.Status == http.StatusNotFound {
		return nil, nil
	}
	var out *models.Vehicle
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mine lists the caller's vehicles. GET /customers/my-vehicles
func (s *VehicleService) Mine(ctx context.Context) ([]models.Vehicle, error) {
	var out []models.Vehicle
	if err := s.client.Get(ctx, "/customers/my-vehicles", nil).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register adds a vehicle to the caller's account. POST /vehicles
func (s *VehicleService) Register(ctx context.Context, req models.RegisterVehicleRequest) (*models.Vehicle, error) {
	var out models.Vehicle
	if err := s.client.Post(ctx, "/vehicles", nil, req).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
