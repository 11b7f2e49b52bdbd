package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/validator"
)

// ErrNotReady is returned when submit is attempted before the confirm step
// is complete.
var ErrNotReady = errors.New("booking is not ready to submit")

// BookingCreator creates bookings on the backend.
type BookingCreator interface {
	Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
}

// Wizard runs the reducer and owns the single submit action.
type Wizard struct {
	bookings BookingCreator
	pending  db.KeyValue
	submit   inflight.Flag

	mu    sync.Mutex
	state State
}

// New opens a wizard. pending receives the snapshot that survives the
// payment gateway redirect.
func New(bookings BookingCreator, pending db.KeyValue, draft Draft) *Wizard {
	return &Wizard{bookings: bookings, pending: pending, state: Initial(draft)}
}

// Dispatch applies e and returns the resulting state.
func (w *Wizard) Dispatch(e Event) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = Reduce(w.state, e)
	return w.state
}

// State returns the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit validates the draft and creates the booking. A second call while
// the first is in flight returns inflight.ErrBusy without a request.
func (w *Wizard) Submit(ctx context.Context) (*models.Booking, error) {
	var created *models.Booking
	err := w.submit.Run(func() error {
		st := w.State()
		if st.Step != StepConfirm || !CanAdvance(st) {
			return ErrNotReady
		}

		if errs := Validate(st.Draft); errs != nil {
			w.Dispatch(SubmitRejected{FieldErrors: errs})
			return errs
		}

		req, err := BuildRequest(st.Draft)
		if err != nil {
			return err
		}

		w.Dispatch(SubmitStarted{})
		booking, err := w.bookings.Create(ctx, req)
		if err != nil {
			msg := apiclient.Message(err)
			log.WithError(err).WithFields(log.Fields{
				"vehicle_id": req.VehicleID,
				"center_id":  req.ServiceCenterID,
				"conflict":   apiclient.IsKind(err, apiclient.KindConflict),
			}).Warn("Booking creation failed")
			w.Dispatch(SubmitFailed{Message: msg})
			return err
		}

		snapshot := models.PendingBooking{
			Booking:    *booking,
			CenterName: st.Draft.CenterName,
			SavedAt:    models.Timestamp{Time: time.Now()},
		}
		if err := w.pending.Set(ctx, db.KeyPendingBooking, snapshot); err != nil {
			log.WithError(err).WithField("booking_id", booking.ID).Warn("Failed to save pending booking snapshot")
		}

		w.Dispatch(SubmitSucceeded{Booking: *booking})
		log.WithFields(log.Fields{"booking_id": booking.ID, "status": booking.Status}).Info("Booking created")
		created = booking
		return nil
	})
	return created, err
}

// Validate checks the draft fields the backend would otherwise reject.
func Validate(d Draft) validator.FieldErrors {
	errs := validator.FieldErrors{}
	for k, v := range validator.Validate(d.Contact) {
		errs[k] = v
	}
	if d.VehicleID == 0 {
		errs["vehicleId"] = "Vui lòng chọn xe"
	}
	if _, ok := d.Offer.Code(); !ok {
		errs["offerType"] = "Vui lòng chọn loại dịch vụ"
	}
	if d.Offer == models.OfferRepair && strings.TrimSpace(d.Notes) == "" {
		errs["notes"] = "Vui lòng mô tả vấn đề của xe"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// BuildRequest shapes the draft into the create payload.
func BuildRequest(d Draft) (models.CreateBookingRequest, error) {
	code, ok := d.Offer.Code()
	if !ok {
		return models.CreateBookingRequest{}, fmt.Errorf("unknown offer type %q", d.Offer)
	}
	contact := d.Contact
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Email = strings.TrimSpace(contact.Email)

	return models.CreateBookingRequest{
		VehicleID:       d.VehicleID,
		ServiceCenterID: d.CenterID,
		BookingDate:     d.Date,
		TimeSlot:        d.TimeSlot,
		OfferType:       code,
		PackageID:       d.PackageID,
		SparePartIDs:    d.SparePartIDs,
		Contact:         contact,
		Notes:           strings.TrimSpace(d.Notes),
	}, nil
}
