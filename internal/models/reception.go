package models

import "github.com/shopspring/decimal"

// ReceptionStatus is the front-desk work-order lifecycle state.
type ReceptionStatus string

const (
	ReceptionReceived   ReceptionStatus = "RECEIVED"
	ReceptionAssigned   ReceptionStatus = "ASSIGNED"
	ReceptionInProgress ReceptionStatus = "IN_PROGRESS"
	ReceptionCompleted  ReceptionStatus = "COMPLETED"
	ReceptionPaid       ReceptionStatus = "PAID"
)

// ReceptionPart is a spare part attached to a reception.
type ReceptionPart struct {
	SparePartID int64           `json:"sparePartId"`
	Name        string          `json:"name"`
	PartNumber  string          `json:"partNumber,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	AddedAt     Timestamp       `json:"addedAt"`
}

// Reception is the front-desk record of a vehicle dropped off for service.
type Reception struct {
	ID               int64           `json:"id"`
	BookingID        *int64          `json:"bookingId,omitempty"`
	CustomerName     string          `json:"customerName"`
	CustomerPhone    string          `json:"customerPhone"`
	CustomerEmail    string          `json:"customerEmail,omitempty"`
	CustomerAddress  string          `json:"customerAddress,omitempty"`
	VehicleModel     string          `json:"vehicleModel"`
	LicensePlate     string          `json:"licensePlate"`
	VIN              string          `json:"vin,omitempty"`
	Mileage          int64           `json:"mileage"`
	OfferTypes       []int           `json:"offerTypes"`
	PackageID        *int64          `json:"packageId,omitempty"`
	PackageName      string          `json:"packageName,omitempty"`
	SpareParts       []ReceptionPart `json:"spareParts,omitempty"`
	IssueDescription string          `json:"issueDescription,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	TechnicianID     *int64          `json:"technicianId,omitempty"`
	TechnicianName   string          `json:"technicianName,omitempty"`
	Status           ReceptionStatus `json:"status"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	CreatedAt        Timestamp       `json:"createdAt"`
}

// IsWalkIn reports whether the reception has no originating booking.
func (r Reception) IsWalkIn() bool {
	return r.BookingID == nil
}

// HasOffer reports whether the reception includes the given offer type.
func (r Reception) HasOffer(o OfferType) bool {
	code, ok := o.Code()
	if !ok {
		return false
	}
	for _, c := range r.OfferTypes {
		if c == code {
			return true
		}
	}
	return false
}

// CreateReceptionRequest is the payload for POST /receptions.
type CreateReceptionRequest struct {
	BookingID        *int64  `json:"bookingId,omitempty"`
	CustomerName     string  `json:"customerName"`
	CustomerPhone    string  `json:"customerPhone"`
	CustomerEmail    string  `json:"customerEmail,omitempty"`
	CustomerAddress  string  `json:"customerAddress,omitempty"`
	VehicleModel     string  `json:"vehicleModel"`
	LicensePlate     string  `json:"licensePlate"`
	VIN              string  `json:"vin,omitempty"`
	Mileage          int64   `json:"mileage"`
	OfferTypes       []int   `json:"offerTypes"`
	PackageID        *int64  `json:"packageId,omitempty"`
	SparePartIDs     []int64 `json:"sparePartIds,omitempty"`
	IssueDescription string  `json:"issueDescription,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// StatusUpdateRequest is the payload for PATCH /receptions/{id}/status.
type StatusUpdateRequest struct {
	Status ReceptionStatus `json:"status"`
}

// Invoice is created when a completed reception is settled.
type Invoice struct {
	ID          int64           `json:"id"`
	ReceptionID int64           `json:"receptionId"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   Timestamp       `json:"createdAt"`
}
