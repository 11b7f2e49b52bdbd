package services

import (
	"context"
	"net/url"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// CenterService talks to the service-center and package catalogue endpoints.
type CenterService struct {
	client *apiclient.Client
}

// List returns all service centers. GET /service-centers
func (s *CenterService) List(ctx context.Context) ([]models.ServiceCenter, error) {
	var out []models.ServiceCenter
	if err := s.client.Get(ctx, "/service-centers", nil).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// TimeSlots returns the slots of a center on a yyyy-MM-dd date.
// GET /service-centers/{id}/time-slots?date=
func (s *CenterService) TimeSlots(ctx context.Context, centerID int64, date string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	q := url.Values{"date": {date}}
	if err := s.client.Get(ctx, apiclient.Path("service-centers", centerID, "time-slots"), q).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Packages returns the maintenance package catalogue. GET /maintenance-packages
func (s *CenterService) Packages(ctx context.Context) ([]models.MaintenancePackage, error) {
	var out []models.MaintenancePackage
	if err := s.client.Get(ctx, "/maintenance-packages", nil).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
