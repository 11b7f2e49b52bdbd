package reception

import (
	"strings"

	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/lookup"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/validator"
)

// Form is the front-desk intake form. It is persisted as a draft between
// sessions, so every field is JSON-tagged.
type Form struct {
	BookingID        *int64             `json:"bookingId,omitempty"`
	CustomerName     string             `json:"customerName" validate:"required"`
	CustomerPhone    string             `json:"customerPhone" validate:"required,vnphone"`
	CustomerEmail    string             `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerAddress  string             `json:"customerAddress,omitempty"`
	VehicleModel     string             `json:"vehicleModel" validate:"required"`
	LicensePlate     string             `json:"licensePlate" validate:"required"`
	VIN              string             `json:"vin,omitempty"`
	Mileage          int64              `json:"mileage" validate:"gt=0"`
	Offers           []models.OfferType `json:"offers"`
	PackageID        *int64             `json:"packageId,omitempty"`
	SparePartIDs     []int64            `json:"sparePartIds,omitempty"`
	IssueDescription string             `json:"issueDescription,omitempty"`
	Notes            string             `json:"notes,omitempty"`

	// Vehicle lookup outcome. A found vehicle locks its fields.
	Lookup       lookup.Status   `json:"lookupStatus"`
	KnownVehicle *models.Vehicle `json:"knownVehicle,omitempty"`
}

// FromBooking prefills a form for a customer arriving with a booking.
func FromBooking(b models.Booking) Form {
	id := b.ID
	f := Form{
		BookingID:       &id,
		CustomerName:    b.Name,
		CustomerPhone:   b.Phone,
		CustomerEmail:   b.Email,
		CustomerAddress: b.Address,
		VehicleModel:    b.VehicleModel,
		LicensePlate:    b.LicensePlate,
		Notes:           b.Notes,
	}
	if offer := b.Offer(); offer != "" {
		f.Offers = []models.OfferType{offer}
		if offer == models.OfferRepair {
			f.IssueDescription = b.Notes
		}
	}
	f.PackageID = b.PackageID
	f.SparePartIDs = append([]int64(nil), b.SparePartIDs...)
	return f
}

// HasOffer reports whether o is selected.
func (f *Form) HasOffer(o models.OfferType) bool {
	for _, x := range f.Offers {
		if x == o {
			return true
		}
	}
	return false
}

// ToggleOffer selects or deselects o. Deselecting maintenance drops the
// package; deselecting replacement drops the parts.
func (f *Form) ToggleOffer(o models.OfferType) {
	if f.HasOffer(o) {
		kept := f.Offers[:0]
		for _, x := range f.Offers {
			if x != o {
				kept = append(kept, x)
			}
		}
		f.Offers = kept
		switch o {
		case models.OfferMaintenance:
			f.PackageID = nil
		case models.OfferReplacement:
			f.SparePartIDs = nil
		}
		return
	}
	f.Offers = append(f.Offers, o)
}

// SelectPackage sets the maintenance package, replacing any previous one.
func (f *Form) SelectPackage(id int64) {
	f.PackageID = &id
	if !f.HasOffer(models.OfferMaintenance) {
		f.Offers = append(f.Offers, models.OfferMaintenance)
	}
}

// ApplyLookup records a lookup result. A found vehicle overwrites and locks
// the vehicle fields and fills empty customer fields from the owner.
func (f *Form) ApplyLookup(res lookup.Result) {
	f.Lookup = res.Status
	f.KnownVehicle = nil
	if res.Status != lookup.StatusFound || res.Vehicle == nil {
		return
	}
	v := *res.Vehicle
	f.KnownVehicle = &v
	f.VehicleModel = v.Model
	f.LicensePlate = v.LicensePlate
	f.VIN = v.VIN
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&f.CustomerName, v.OwnerName)
	fill(&f.CustomerPhone, v.OwnerPhone)
	fill(&f.CustomerEmail, v.OwnerEmail)
	fill(&f.CustomerAddress, v.OwnerAddress)
}

// VehicleLocked reports whether vehicle fields came from a lookup hit.
func (f *Form) VehicleLocked() bool {
	return f.Lookup == lookup.StatusFound && f.KnownVehicle != nil
}

// Validate returns field errors, or nil when the form can be submitted.
func (f *Form) Validate() validator.FieldErrors {
	errs := validator.FieldErrors{}
	for k, v := range validator.Validate(f) {
		errs[k] = v
	}

	if len(f.Offers) == 0 {
		errs["offerTypes"] = "Vui lòng chọn ít nhất một loại dịch vụ"
	}
	for _, o := range f.Offers {
		if _, ok := o.Code(); !ok {
			errs["offerTypes"] = "Loại dịch vụ không hợp lệ"
		}
	}
	if f.HasOffer(models.OfferRepair) && strings.TrimSpace(f.IssueDescription) == "" {
		errs["issueDescription"] = "Vui lòng mô tả vấn đề của xe"
	}
	if f.HasOffer(models.OfferMaintenance) && f.PackageID == nil {
		errs["packageId"] = "Vui lòng chọn gói bảo dưỡng"
	}
	if f.HasOffer(models.OfferReplacement) && len(f.SparePartIDs) == 0 {
		errs["sparePartIds"] = "Vui lòng chọn phụ tùng cần thay"
	}

	if _, taken := errs["licensePlate"]; !taken && !f.VehicleLocked() && f.BookingID == nil {
		switch f.Lookup {
		case lookup.StatusNotFound:
			errs["licensePlate"] = "Không tìm thấy xe trong hệ thống"
		case lookup.StatusFailed:
			errs["licensePlate"] = "Chưa tra cứu được xe, vui lòng thử lại"
		default:
			errs["licensePlate"] = "Vui lòng tra cứu xe trước khi tiếp nhận"
		}
	}
	if f.Mileage > 0 && !lookup.CheckMileage(f.KnownVehicle, f.Mileage) {
		errs["mileage"] = "Số km phải lớn hơn " + format.Mileage(*f.KnownVehicle.Mileage)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Request shapes the form into the create payload. Package and parts are
// sent only with their offer.
func (f *Form) Request() models.CreateReceptionRequest {
	codes := make([]int, 0, len(f.Offers))
	for _, o := range f.Offers {
		if code, ok := o.Code(); ok {
			codes = append(codes, code)
		}
	}

	req := models.CreateReceptionRequest{
		BookingID:        f.BookingID,
		CustomerName:     strings.TrimSpace(f.CustomerName),
		CustomerPhone:    format.NormalizePhone(f.CustomerPhone),
		CustomerEmail:    strings.TrimSpace(f.CustomerEmail),
		CustomerAddress:  strings.TrimSpace(f.CustomerAddress),
		VehicleModel:     strings.TrimSpace(f.VehicleModel),
		LicensePlate:     format.NormalizePlate(f.LicensePlate),
		VIN:              strings.ToUpper(strings.TrimSpace(f.VIN)),
		Mileage:          f.Mileage,
		OfferTypes:       codes,
		IssueDescription: strings.TrimSpace(f.IssueDescription),
		Notes:            strings.TrimSpace(f.Notes),
	}
	if f.HasOffer(models.OfferMaintenance) {
		req.PackageID = f.PackageID
	}
	if f.HasOffer(models.OfferReplacement) {
		req.SparePartIDs = append([]int64(nil), f.SparePartIDs...)
	}
	return req
}
