// Package wizard is the four-step booking flow: center, date, time slot,
// confirm. State changes go through Reduce so every guard can be tested
// without a terminal or a backend.
package wizard

import (
	"strings"

	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// Step is a wizard screen.
type Step int

const (
	StepSelectCenter Step = iota + 1
	StepSelectDate
	StepSelectTimeSlot
	StepConfirm
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepSelectCenter:
		return "select-center"
	case StepSelectDate:
		return "select-date"
	case StepSelectTimeSlot:
		return "select-time-slot"
	case StepConfirm:
		return "confirm"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Draft accumulates the booking across steps.
type Draft struct {
	CenterID     int64            `json:"serviceCenterId"`
	CenterName   string           `json:"serviceCenterName,omitempty"`
	Date         string           `json:"bookingDate"`
	TimeSlot     string           `json:"timeSlot"`
	VehicleID    int64            `json:"vehicleId"`
	Offer        models.OfferType `json:"offer"`
	PackageID    *int64           `json:"packageId,omitempty"`
	SparePartIDs []int64          `json:"sparePartIds,omitempty"`
	Contact      models.Contact   `json:"contact"`
	Notes        string           `json:"notes,omitempty"`
}

// State is the whole wizard. Closed wizards ignore every event.
type State struct {
	Step        Step
	Draft       Draft
	Submitting  bool
	Closed      bool
	FieldErrors map[string]string
	Error       string
	Booking     *models.Booking
}

// Initial opens the wizard on the first step with a prefilled draft.
func Initial(d Draft) State {
	return State{Step: StepSelectCenter, Draft: d}
}

// Event is anything that can happen to the wizard.
type Event interface {
	event()
}

type (
	// SelectCenter picks a service center; date and slot are cleared when
	// the center changes.
	SelectCenter struct {
		ID   int64
		Name string
	}
	// SelectDate picks a yyyy-MM-dd date; the slot is cleared when it changes.
	SelectDate struct{ Date string }
	// SelectTimeSlot picks a slot start time.
	SelectTimeSlot struct{ Slot string }
	// ChooseOffer sets the service category and its selections.
	ChooseOffer struct {
		Offer        models.OfferType
		PackageID    *int64
		SparePartIDs []int64
	}
	// EditContact replaces the contact snapshot and notes.
	EditContact struct {
		Contact models.Contact
		Notes   string
	}
	// Next advances one step when the current step is complete.
	Next struct{}
	// Back steps back; on the first step it closes the wizard.
	Back struct{}
	// SubmitStarted marks the create request as in flight.
	SubmitStarted struct{}
	// SubmitRejected carries client-side validation failures.
	SubmitRejected struct{ FieldErrors map[string]string }
	// SubmitFailed carries the message of a failed create request.
	SubmitFailed struct{ Message string }
	// SubmitSucceeded carries the created booking.
	SubmitSucceeded struct{ Booking models.Booking }
)

func (SelectCenter) event()    {}
func (SelectDate) event()      {}
func (SelectTimeSlot) event()  {}
func (ChooseOffer) event()     {}
func (EditContact) event()     {}
func (Next) event()            {}
func (Back) event()            {}
func (SubmitStarted) event()   {}
func (SubmitRejected) event()  {}
func (SubmitFailed) event()    {}
func (SubmitSucceeded) event() {}

// CanAdvance reports whether the primary action of the current step is
// enabled: next on the three selection steps, submit on confirm.
func CanAdvance(s State) bool {
	if s.Closed || s.Submitting {
		return false
	}
	d := s.Draft
	switch s.Step {
	case StepSelectCenter:
		return d.CenterID != 0
	case StepSelectDate:
		return d.Date != ""
	case StepSelectTimeSlot:
		return d.TimeSlot != ""
	case StepConfirm:
		return d.CenterID != 0 && d.Date != "" && d.TimeSlot != ""
	default:
		return false
	}
}

// Reduce applies e to s and returns the new state. s is never modified.
func Reduce(s State, e Event) State {
	if s.Closed {
		return s
	}
	// Selections are locked while a submit is in flight or after success.
	if s.Submitting || s.Step == StepSuccess {
		switch e.(type) {
		case SubmitFailed, SubmitSucceeded, SubmitRejected:
		default:
			return s
		}
	}

	next := s
	switch e := e.(type) {
	case SelectCenter:
		if s.Step != StepSelectCenter {
			return s
		}
		if e.ID != s.Draft.CenterID {
			next.Draft.Date = ""
			next.Draft.TimeSlot = ""
		}
		next.Draft.CenterID = e.ID
		next.Draft.CenterName = e.Name

	case SelectDate:
		if s.Step != StepSelectDate {
			return s
		}
		date := strings.TrimSpace(e.Date)
		if date != s.Draft.Date {
			next.Draft.TimeSlot = ""
		}
		next.Draft.Date = date

	case SelectTimeSlot:
		if s.Step != StepSelectTimeSlot {
			return s
		}
		next.Draft.TimeSlot = strings.TrimSpace(e.Slot)

	case ChooseOffer:
		next.Draft.Offer = e.Offer
		next.Draft.PackageID = nil
		next.Draft.SparePartIDs = nil
		switch e.Offer {
		case models.OfferMaintenance:
			next.Draft.PackageID = e.PackageID
		case models.OfferReplacement:
			next.Draft.SparePartIDs = append([]int64(nil), e.SparePartIDs...)
		}
		next.FieldErrors = nil

	case EditContact:
		next.Draft.Contact = e.Contact
		next.Draft.Notes = e.Notes
		next.FieldErrors = nil

	case Next:
		if s.Step == StepConfirm || !CanAdvance(s) {
			return s
		}
		next.Step = s.Step + 1
		next.Error = ""

	case Back:
		if s.Step == StepSelectCenter {
			return State{Step: StepSelectCenter, Closed: true}
		}
		next.Step = s.Step - 1
		next.Error = ""
		next.FieldErrors = nil

	case SubmitStarted:
		if s.Step != StepConfirm || !CanAdvance(s) {
			return s
		}
		next.Submitting = true
		next.Error = ""
		next.FieldErrors = nil

	case SubmitRejected:
		next.Submitting = false
		next.FieldErrors = copyErrors(e.FieldErrors)

	case SubmitFailed:
		next.Submitting = false
		next.Error = e.Message

	case SubmitSucceeded:
		if !s.Submitting {
			return s
		}
		booking := e.Booking
		next.Submitting = false
		next.Step = StepSuccess
		next.Booking = &booking
	}
	return next
}

func copyErrors(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
