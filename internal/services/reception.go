package services

import (
	"context"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// ReceptionService talks to the front-desk reception endpoints.
type ReceptionService struct {
	client *apiclient.Client
}

// Create records a vehicle intake. POST /receptions
func (s *ReceptionService) Create(ctx context.Context, req models.CreateReceptionRequest) (*models.Reception, error) {
	var out models.Reception
	if err := s.client.Post(ctx, "/receptions", nil, req).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns receptions, optionally by status. GET /receptions[?status=]
func (s *ReceptionService) List(ctx context.Context, status models.ReceptionStatus) ([]models.Reception, error) {
	var out []models.Reception
	if err := s.client.Get(ctx, "/receptions", statusQuery(string(status))).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one reception. GET /receptions/{id}
func (s *ReceptionService) Get(ctx context.Context, id int64) (*models.Reception, error) {
	var out models.Reception
	if err := s.client.Get(ctx, apiclient.Path("receptions", id), nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus moves a reception to status. PATCH /receptions/{id}/status
func (s *ReceptionService) UpdateStatus(ctx context.Context, id int64, status models.ReceptionStatus) (*models.Reception, error) {
	var out models.Reception
	body := models.StatusUpdateRequest{Status: status}
	if err := s.client.Patch(ctx, apiclient.Path("receptions", id, "status"), body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignTechnician assigns a technician. POST /receptions/{id}/assign
func (s *ReceptionService) AssignTechnician(ctx context.Context, id, technicianID int64) (*models.Reception, error) {
	var out models.Reception
	body := models.AssignRequest{TechnicianID: technicianID}
	if err := s.client.Post(ctx, apiclient.Path("receptions", id, "assign"), nil, body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddParts attaches spare parts after intake. PATCH /receptions/{id}/add-parts
func (s *ReceptionService) AddParts(ctx context.Context, id int64, partIDs []int64) (*models.Reception, error) {
	var out models.Reception
	body := models.AddPartsRequest{SparePartIDs: partIDs}
	if err := s.client.Patch(ctx, apiclient.Path("receptions", id, "add-parts"), body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvoice settles a completed reception. POST /receptions/{id}/invoice
func (s *ReceptionService) CreateInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var out models.Invoice
	if err := s.client.Post(ctx, apiclient.Path("receptions", id, "invoice"), nil, nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
