package services

import (
	"context"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// TechnicianService talks to the technician endpoints.
type TechnicianService struct {
	client *apiclient.Client
}

// List returns the center's technicians. GET /technicians
func (s *TechnicianService) List(ctx context.Context) ([]models.Technician, error) {
	var out []models.Technician
	if err := s.client.Get(ctx, "/technicians", nil).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyReceptions returns the receptions assigned to the calling technician.
// GET /technicians/my-receptions
func (s *TechnicianService) MyReceptions(ctx context.Context) ([]models.Reception, error) {
	var out []models.Reception
	if err := s.client.Get(ctx, "/technicians/my-receptions", nil).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
