package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// BookingService talks to the booking endpoints.
type BookingService struct {
	client *apiclient.Client
}

// Create submits a new booking. Known conflicts come back as
// apiclient.KindConflict with customer-facing copy. POST /bookings
func (s *BookingService) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	var out models.Booking
	if err := s.client.Post(ctx, "/bookings", nil, req).Decode(&out); err != nil {
		return nil, apiclient.BookingConflict(err)
	}
	return &out, nil
}

// Mine lists the caller's bookings, optionally by status.
// GET /customers/my-bookings[?status=]
func (s *BookingService) Mine(ctx context.Context, status string) ([]models.Booking, error) {
	var out []models.Booking
	if err := s.client.Get(ctx, "/customers/my-bookings", statusQuery(status)).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// List lists all bookings for staff. GET /bookings[?status=]
func (s *BookingService) List(ctx context.Context, status string) ([]models.Booking, error) {
	var out []models.Booking
	if err := s.client.Get(ctx, "/bookings", statusQuery(status)).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one booking. GET /bookings/{id}
func (s *BookingService) Get(ctx context.Context, id int64) (*models.Booking, error) {
	var out models.Booking
	if err := s.client.Get(ctx, apiclient.Path("bookings", id), nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestCancel asks staff to cancel a paid booking.
// PUT /bookings/{id}/request-cancel
func (s *BookingService) RequestCancel(ctx context.Context, id int64, reason string) (*models.Booking, error) {
	return s.transition(ctx, id, "request-cancel", models.CancelRequest{Reason: reason})
}

// ApproveCancel accepts a cancellation request. PUT /bookings/{id}/approve-cancel
func (s *BookingService) ApproveCancel(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, "approve-cancel", nil)
}

// RejectCancel turns down a cancellation request. PUT /bookings/{id}/reject-cancel
func (s *BookingService) RejectCancel(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, "reject-cancel", nil)
}

// Cancel cancels an unpaid booking outright. PUT /bookings/{id}/cancel
func (s *BookingService) Cancel(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, "cancel", nil)
}

func (s *BookingService) transition(ctx context.Context, id int64, action string, body interface{}) (*models.Booking, error) {
	var out models.Booking
	if err := s.client.Put(ctx, apiclient.Path("bookings", id, action), body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignTechnician assigns a technician to a booking.
// POST /bookings/{id}/assign?technicianId=
func (s *BookingService) AssignTechnician(ctx context.Context, id, technicianID int64) (*models.Booking, error) {
	q := url.Values{"technicianId": {strconv.FormatInt(technicianID, 10)}}
	var out models.Booking
	if err := s.client.Post(ctx, apiclient.Path("bookings", id, "assign"), q, nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDepositPayment requests a gateway URL for the booking deposit.
// POST /bookings/{id}/create-deposit-payment
func (s *BookingService) CreateDepositPayment(ctx context.Context, id int64) (*models.DepositPayment, error) {
	var out models.DepositPayment
	if err := s.client.Post(ctx, apiclient.Path("bookings", id, "create-deposit-payment"), nil, nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
