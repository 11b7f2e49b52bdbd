package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/validator"
)

type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

// blockingBookings holds every Create until release is closed.
type blockingBookings struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBookings) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.entered <- struct{}{}
	<-b.release
	return &models.Booking{ID: 1, Status: models.BookingPendingPayment}, nil
}

func readyDraft() Draft {
	return Draft{
		VehicleID: 12,
		Offer:     models.OfferRepair,
		Contact:   models.Contact{Name: " Nguyễn An ", Phone: "0912345678", Email: "an@example.vn"},
		Notes:     "Pin sụt nhanh",
	}
}

func readyWizard(t *testing.T, creator BookingCreator, kv db.KeyValue) *Wizard {
	t.Helper()
	w := New(creator, kv, readyDraft())
	for _, e := range []Event{
		SelectCenter{ID: 1, Name: "Quận 7"}, Next{},
		SelectDate{Date: "2025-03-10"}, Next{},
		SelectTimeSlot{Slot: "09:00"}, Next{},
	} {
		w.Dispatch(e)
	}
	require.Equal(t, StepConfirm, w.State().Step)
	return w
}

func TestWizard_SubmitSuccessSavesPendingSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryStore()
	bookings := new(MockBookings)

	booking := &models.Booking{ID: 99, Status: models.BookingPendingPayment}
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(req models.CreateBookingRequest) bool {
		return req.OfferType == 2 && req.ServiceCenterID == 1 && req.TimeSlot == "09:00" &&
			req.Contact.Name == "Nguyễn An" && req.VehicleID == 12
	})).Return(booking, nil).Once()

	w := readyWizard(t, bookings, kv)
	got, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.ID)

	st := w.State()
	assert.Equal(t, StepSuccess, st.Step)
	assert.False(t, st.Submitting)

	var pending models.PendingBooking
	ok, err := kv.Get(ctx, db.KeyPendingBooking, &pending)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(99), pending.Booking.ID)
	assert.Equal(t, "Quận 7", pending.CenterName)

	bookings.AssertExpectations(t)
}

func TestWizard_SubmitConflictShowsFriendlyMessage(t *testing.T) {
	bookings := new(MockBookings)
	conflict := &apiclient.Error{Kind: apiclient.KindConflict, Status: 409, Message: "Xe này đã có lịch hẹn đang chờ xử lý"}
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil, conflict).Once()

	w := readyWizard(t, bookings, db.NewMemoryStore())
	_, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindConflict))

	st := w.State()
	assert.Equal(t, StepConfirm, st.Step)
	assert.False(t, st.Submitting)
	assert.Equal(t, conflict.Message, st.Error)
}

func TestWizard_SubmitValidationBlocksRequest(t *testing.T) {
	bookings := new(MockBookings)
	kv := db.NewMemoryStore()
	w := New(bookings, kv, Draft{Offer: models.OfferRepair, Contact: models.Contact{Name: "An", Phone: "123"}})
	for _, e := range []Event{
		SelectCenter{ID: 1}, Next{}, SelectDate{Date: "2025-03-10"}, Next{}, SelectTimeSlot{Slot: "09:00"}, Next{},
	} {
		w.Dispatch(e)
	}

	_, err := w.Submit(context.Background())
	var fieldErrs validator.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "customerPhone")
	assert.Contains(t, fieldErrs, "vehicleId")
	assert.Contains(t, fieldErrs, "notes")
	assert.Equal(t, map[string]string(fieldErrs), w.State().FieldErrors)

	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWizard_SubmitBeforeConfirm(t *testing.T) {
	bookings := new(MockBookings)
	w := New(bookings, db.NewMemoryStore(), readyDraft())
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWizard_DoubleSubmitSendsOneRequest(t *testing.T) {
	creator := &blockingBookings{entered: make(chan struct{}, 1), release: make(chan struct{})}
	w := readyWizard(t, creator, db.NewMemoryStore())

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		done <- err
	}()
	<-creator.entered

	assert.True(t, w.State().Submitting)
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, inflight.ErrBusy)

	close(creator.release)
	require.NoError(t, <-done)

	creator.mu.Lock()
	assert.Equal(t, 1, creator.calls)
	creator.mu.Unlock()
	assert.Equal(t, StepSuccess, w.State().Step)
}

func TestValidate_MaintenanceNeedsNoNotes(t *testing.T) {
	d := readyDraft()
	d.Offer = models.OfferMaintenance
	d.Notes = ""
	assert.Nil(t, Validate(d))

	d.Offer = "tuning"
	assert.Contains(t, Validate(d), "offerType")
}

func TestBuildRequest_MapsOfferCodes(t *testing.T) {
	for offer, code := range map[models.OfferType]int{
		models.OfferMaintenance: 0,
		models.OfferReplacement: 1,
		models.OfferRepair:      2,
	} {
		d := readyDraft()
		d.Offer = offer
		req, err := BuildRequest(d)
		require.NoError(t, err)
		assert.Equal(t, code, req.OfferType)
	}

	d := readyDraft()
	d.Offer = ""
	_, err := BuildRequest(d)
	assert.Error(t, err)
}
