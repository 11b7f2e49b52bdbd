package models

import "github.com/shopspring/decimal"

// BookingStatus is the backend booking lifecycle state.
type BookingStatus string

const (
	BookingPendingPayment        BookingStatus = "pending_payment"
	BookingUpcoming              BookingStatus = "upcoming"
	BookingCancellationRequested BookingStatus = "cancellation_requested"
	BookingReceived              BookingStatus = "received"
	BookingCompleted             BookingStatus = "completed"
	BookingCancelled             BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Contact is the customer contact snapshot captured with a booking.
type Contact struct {
	Name    string `json:"customerName" validate:"required"`
	Phone   string `json:"customerPhone" validate:"required,vnphone"`
	Email   string `json:"customerEmail,omitempty" validate:"omitempty,email"`
	Address string `json:"customerAddress,omitempty"`
}

// Booking is a scheduled service appointment.
type Booking struct {
	ID              int64           `json:"id"`
	VehicleID       int64           `json:"vehicleId"`
	LicensePlate    string          `json:"licensePlate,omitempty"`
	VehicleModel    string          `json:"vehicleModel,omitempty"`
	ServiceCenterID int64           `json:"serviceCenterId"`
	CenterName      string          `json:"serviceCenterName,omitempty"`
	BookingDate     string          `json:"bookingDate"`
	TimeSlot        string          `json:"timeSlot"`
	OfferType       int             `json:"offerType"`
	PackageID       *int64          `json:"packageId,omitempty"`
	SparePartIDs    []int64         `json:"sparePartIds,omitempty"`
	Contact
	Notes          string          `json:"notes,omitempty"`
	Status         BookingStatus   `json:"status"`
	TechnicianID   *int64          `json:"technicianId,omitempty"`
	TechnicianName string          `json:"technicianName,omitempty"`
	DepositAmount  decimal.Decimal `json:"depositAmount"`
	CreatedAt      Timestamp       `json:"createdAt"`
}

// Offer returns the display id of the booking's offer type.
func (b Booking) Offer() OfferType {
	return OfferTypeFromCode(b.OfferType)
}

// CreateBookingRequest is the payload for POST /bookings.
type CreateBookingRequest struct {
	VehicleID       int64   `json:"vehicleId"`
	ServiceCenterID int64   `json:"serviceCenterId"`
	BookingDate     string  `json:"bookingDate"`
	TimeSlot        string  `json:"timeSlot"`
	OfferType       int     `json:"offerType"`
	PackageID       *int64  `json:"packageId,omitempty"`
	SparePartIDs    []int64 `json:"sparePartIds,omitempty"`
	Contact
	Notes string `json:"notes,omitempty"`
}

// CancelRequest carries the customer's reason for a cancellation request.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// DepositPayment is the gateway handoff returned for a booking deposit.
type DepositPayment struct {
	PaymentURL string          `json:"paymentUrl"`
	Amount     decimal.Decimal `json:"amount"`
	TxnRef     string          `json:"txnRef,omitempty"`
}

// PendingBooking is the snapshot kept across the payment gateway round trip.
type PendingBooking struct {
	Booking    Booking   `json:"booking"`
	CenterName string    `json:"centerName,omitempty"`
	SavedAt    Timestamp `json:"savedAt"`
}
