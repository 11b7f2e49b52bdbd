package services

import (
	"context"
	"net/url"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// SparePartService reads the parts inventory. It never mutates stock.
type SparePartService struct {
	client *apiclient.Client
}

// List returns spare parts, only those in stock when inStockOnly is set.
// GET /spare-parts[?inStock=true]
func (s *SparePartService) List(ctx context.Context, inStockOnly bool) ([]models.SparePart, error) {
	var q url.Values
	if inStockOnly {
		q = url.Values{"inStock": {"true"}}
	}
	var out []models.SparePart
	if err := s.client.Get(ctx, "/spare-parts", q).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one part. GET /spare-parts/{id}
func (s *SparePartService) Get(ctx context.Context, id int64) (*models.SparePart, error) {
	var out models.SparePart
	if err := s.client.Get(ctx, apiclient.Path("spare-parts", id), nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
