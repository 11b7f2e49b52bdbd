package services

import (
	"context"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// InspectionService talks to the inspection-record endpoints.
type InspectionService struct {
	client *apiclient.Client
}

// ByReception lists a reception's checklist. GET /inspection-records/reception/{id}
func (s *InspectionService) ByReception(ctx context.Context, receptionID int64) ([]models.InspectionRecord, error) {
	var out []models.InspectionRecord
	if err := s.client.Get(ctx, apiclient.Path("inspection-records", "reception", receptionID), nil).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one record. GET /inspection-records/{id}
func (s *InspectionService) Get(ctx context.Context, id int64) (*models.InspectionRecord, error) {
	var out models.InspectionRecord
	if err := s.client.Get(ctx, apiclient.Path("inspection-records", id), nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update records a single outcome. PUT /inspection-records/{id}
func (s *InspectionService) Update(ctx context.Context, u models.InspectionUpdate) (*models.InspectionRecord, error) {
	var out models.InspectionRecord
	if err := s.client.Put(ctx, apiclient.Path("inspection-records", u.ID), u).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchUpdate records many outcomes in one call.
// PUT /inspection-records/batch-update
func (s *InspectionService) BatchUpdate(ctx context.Context, updates []models.InspectionUpdate) ([]models.InspectionRecord, error) {
	var out []models.InspectionRecord
	body := models.BatchUpdateRequest{Updates: updates}
	if err := s.client.Put(ctx, "/inspection-records/batch-update", body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
