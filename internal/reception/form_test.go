package reception

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/lookup"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/validator"
)

func validForm() Form {
	return Form{
		BookingID:     int64Ptr(21),
		CustomerName:  "Trần Bình",
		CustomerPhone: "0987 654 321",
		VehicleModel:  "VF e34",
		LicensePlate:  "51a-123.45",
		VIN:           "rlnv5jsd1nh000001",
		Mileage:       15200,
		Offers:        []models.OfferType{models.OfferMaintenance},
		PackageID:     int64Ptr(2),
	}
}

func TestForm_ValidateRequiredFields(t *testing.T) {
	f := Form{}
	errs := f.Validate()
	for _, field := range []string{"customerName", "customerPhone", "vehicleModel", "licensePlate", "mileage", "offerTypes"} {
		assert.Contains(t, errs, field)
	}

	f = validForm()
	assert.Nil(t, f.Validate())
}

func TestForm_RepairNeedsIssueDescription(t *testing.T) {
	f := validForm()
	f.ToggleOffer(models.OfferRepair)
	assert.Contains(t, f.Validate(), "issueDescription")

	f.IssueDescription = "Xe báo lỗi sạc"
	assert.Nil(t, f.Validate())
}

func TestForm_SelectPackageReplaces(t *testing.T) {
	f := Form{}
	f.SelectPackage(1)
	f.SelectPackage(3)
	assert.Equal(t, int64(3), *f.PackageID)
	assert.Equal(t, []models.OfferType{models.OfferMaintenance}, f.Offers)

	f.ToggleOffer(models.OfferMaintenance)
	assert.Nil(t, f.PackageID)
	assert.Empty(t, f.Offers)
}

func TestForm_LookupMissBlocksWalkIn(t *testing.T) {
	f := validForm()
	f.BookingID = nil
	f.ApplyLookup(lookup.Result{Status: lookup.StatusNotFound})
	assert.Equal(t, "Không tìm thấy xe trong hệ thống", f.Validate()["licensePlate"])
	assert.False(t, f.VehicleLocked())

	f.BookingID = int64Ptr(44)
	assert.Nil(t, f.Validate())
}

func TestForm_UnverifiedWalkInBlocked(t *testing.T) {
	tests := []struct {
		name   string
		lookup lookup.Result
		want   string
	}{
		{"never looked up", lookup.Result{Status: lookup.StatusIdle}, "Vui lòng tra cứu xe trước khi tiếp nhận"},
		{"lookup still running", lookup.Result{Status: lookup.StatusSearching}, "Vui lòng tra cứu xe trước khi tiếp nhận"},
		{"lookup failed", lookup.Result{Status: lookup.StatusFailed, Err: assert.AnError}, "Chưa tra cứu được xe, vui lòng thử lại"},
		{"found without vehicle", lookup.Result{Status: lookup.StatusFound}, "Vui lòng tra cứu xe trước khi tiếp nhận"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.BookingID = nil
			f.ApplyLookup(tt.lookup)
			assert.Equal(t, tt.want, f.Validate()["licensePlate"])

			f.BookingID = int64Ptr(44)
			assert.Nil(t, f.Validate())
		})
	}
}

func TestForm_LookupHitLocksAndChecksMileage(t *testing.T) {
	f := Form{Offers: []models.OfferType{models.OfferRepair}, IssueDescription: "Kêu ở bánh sau", Mileage: 15000}
	f.ApplyLookup(lookup.Result{Status: lookup.StatusFound, Vehicle: &models.Vehicle{
		ID: 4, Model: "VF8", LicensePlate: "30E12345", VIN: "VIN0001", Mileage: int64Ptr(15000),
		OwnerName: "Lê Chi", OwnerPhone: "0912345678",
	}})

	assert.True(t, f.VehicleLocked())
	assert.Equal(t, "VF8", f.VehicleModel)
	assert.Equal(t, "Lê Chi", f.CustomerName)
	assert.Contains(t, f.Validate(), "mileage")

	f.Mileage = 15001
	assert.Nil(t, f.Validate())
}

func TestForm_RequestShapesPayload(t *testing.T) {
	f := validForm()
	f.SparePartIDs = []int64{9}
	f.ToggleOffer(models.OfferRepair)
	f.IssueDescription = " Pin yếu "

	req := f.Request()
	assert.Equal(t, []int{0, 2}, req.OfferTypes)
	assert.Equal(t, int64(2), *req.PackageID)
	assert.Nil(t, req.SparePartIDs)
	assert.Equal(t, "51A12345", req.LicensePlate)
	assert.Equal(t, "0987654321", req.CustomerPhone)
	assert.Equal(t, "RLNV5JSD1NH000001", req.VIN)
	assert.Equal(t, "Pin yếu", req.IssueDescription)
}

func TestFromBooking(t *testing.T) {
	b := models.Booking{
		ID:           12,
		OfferType:    2,
		LicensePlate: "51A12345",
		Contact:      models.Contact{Name: "An", Phone: "0912345678"},
		Notes:        "Không sạc được",
	}
	f := FromBooking(b)
	assert.Equal(t, int64(12), *f.BookingID)
	assert.Equal(t, []models.OfferType{models.OfferRepair}, f.Offers)
	assert.Equal(t, "Không sạc được", f.IssueDescription)
}

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Create(ctx context.Context, req models.CreateReceptionRequest) (*models.Reception, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reception), args.Error(1)
}

func TestIntake_DraftRoundTripAndClearOnSuccess(t *testing.T) {
	ctx := context.Background()
	creator := new(MockCreator)
	in := NewIntake(creator, db.NewMemoryStore())

	_, ok, err := in.LoadDraft(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	f := validForm()
	require.NoError(t, in.SaveDraft(ctx, f))
	loaded, ok, err := in.LoadDraft(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.LicensePlate, loaded.LicensePlate)

	creator.On("Create", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	_, err = in.Submit(ctx, loaded)
	assert.ErrorIs(t, err, assert.AnError)
	_, ok, _ = in.LoadDraft(ctx)
	assert.True(t, ok)

	creator.On("Create", mock.Anything, mock.Anything).Return(&models.Reception{ID: 30, Status: models.ReceptionReceived}, nil).Once()
	r, err := in.Submit(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, int64(30), r.ID)
	_, ok, _ = in.LoadDraft(ctx)
	assert.False(t, ok)
}

func TestIntake_InvalidFormNeverReachesBackend(t *testing.T) {
	creator := new(MockCreator)
	_, err := NewIntake(creator, db.NewMemoryStore()).Submit(context.Background(), Form{})

	var fieldErrs validator.FieldErrors
	assert.True(t, errors.As(err, &fieldErrs))
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
