package reception

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/no-solace/ev-maintenance-system/internal/models"
)

type MockBatch struct {
	mock.Mock
}

func (m *MockBatch) BatchUpdate(ctx context.Context, updates []models.InspectionUpdate) ([]models.InspectionRecord, error) {
	args := m.Called(ctx, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InspectionRecord), args.Error(1)
}

func sampleRecords() []models.InspectionRecord {
	return []models.InspectionRecord{
		{ID: 1, ReceptionID: 9, Category: "Pin", Description: "Kiểm tra dung lượng pin", ActualStatus: models.OutcomePending},
		{ID: 2, ReceptionID: 9, Category: "Phanh", Description: "Kiểm tra má phanh", ActualStatus: models.OutcomeNormal},
		{ID: 3, ReceptionID: 9, Category: "Lốp", Description: "Kiểm tra áp suất lốp"},
	}
}

var sampleStock = []models.SparePart{
	{ID: 50, Name: "Má phanh trước", StockQuantity: 2},
	{ID: 51, Name: "Lốp 19 inch", StockQuantity: 0},
}

func TestChecklist_EffectiveOutcomesAndCompletion(t *testing.T) {
	c := NewChecklist(new(MockBatch), models.ReceptionInProgress, sampleRecords(), sampleStock)

	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, models.OutcomePending, records[2].ActualStatus)
	assert.False(t, c.CanComplete())
	assert.Equal(t, 33.3, c.Progress())

	require.NoError(t, c.Set(1, models.OutcomeClean, nil))
	assert.False(t, c.CanComplete())
	require.NoError(t, c.Set(3, models.OutcomeAdjust, nil))
	assert.True(t, c.CanComplete())
	assert.Equal(t, float64(100), c.Progress())
	assert.Equal(t, 2, c.Dirty())

	c.Discard(3)
	assert.False(t, c.CanComplete())
}

func TestChecklist_SetValidation(t *testing.T) {
	c := NewChecklist(new(MockBatch), models.ReceptionInProgress, sampleRecords(), sampleStock)

	assert.ErrorIs(t, c.Set(1, "BROKEN", nil), ErrInvalidOutcome)
	assert.ErrorIs(t, c.Set(99, models.OutcomeClean, nil), ErrUnknownRecord)
	assert.ErrorIs(t, c.Set(2, models.OutcomeReplace, nil), ErrPartRequired)
	assert.ErrorIs(t, c.Set(2, models.OutcomeReplace, int64Ptr(51)), ErrPartOutOfStock)
	assert.ErrorIs(t, c.Set(2, models.OutcomeReplace, int64Ptr(77)), ErrPartOutOfStock)
	assert.Zero(t, c.Dirty())

	require.NoError(t, c.Set(2, models.OutcomeReplace, int64Ptr(50)))
	assert.Equal(t, int64(50), *c.Records()[1].SparePartID)
}

func TestChecklist_ReadOnlyWhenSettled(t *testing.T) {
	for _, status := range []models.ReceptionStatus{models.ReceptionCompleted, models.ReceptionPaid} {
		c := NewChecklist(new(MockBatch), status, sampleRecords(), sampleStock)
		assert.True(t, c.ReadOnly())
		assert.ErrorIs(t, c.Set(1, models.OutcomeClean, nil), ErrReadOnly)
		assert.ErrorIs(t, c.Flush(context.Background()), ErrReadOnly)
	}
}

func TestChecklist_FlushSendsOneBatchAndClearsDraft(t *testing.T) {
	api := new(MockBatch)
	c := NewChecklist(api, models.ReceptionInProgress, sampleRecords(), sampleStock)
	require.NoError(t, c.Set(3, models.OutcomeAdjust, nil))
	require.NoError(t, c.Set(1, models.OutcomeClean, nil))

	api.On("BatchUpdate", mock.Anything, []models.InspectionUpdate{
		{ID: 1, ActualStatus: models.OutcomeClean},
		{ID: 3, ActualStatus: models.OutcomeAdjust},
	}).Return([]models.InspectionRecord{}, nil).Once()

	require.NoError(t, c.Flush(context.Background()))
	assert.Zero(t, c.Dirty())
	assert.True(t, c.CanComplete())
	api.AssertExpectations(t)

	require.NoError(t, c.Flush(context.Background()))
	api.AssertNumberOfCalls(t, "BatchUpdate", 1)
}

func TestChecklist_FlushFailureKeepsDraft(t *testing.T) {
	api := new(MockBatch)
	c := NewChecklist(api, models.ReceptionInProgress, sampleRecords(), sampleStock)
	require.NoError(t, c.Set(1, models.OutcomeClean, nil))

	api.On("BatchUpdate", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	assert.ErrorIs(t, c.Flush(context.Background()), assert.AnError)
	assert.Equal(t, 1, c.Dirty())
	assert.Equal(t, models.OutcomeClean, c.Records()[0].ActualStatus)
}

func TestChecklist_FlushUsesServerRecords(t *testing.T) {
	api := new(MockBatch)
	c := NewChecklist(api, models.ReceptionInProgress, sampleRecords(), sampleStock)
	require.NoError(t, c.Set(1, models.OutcomeInspect, nil))

	api.On("BatchUpdate", mock.Anything, mock.Anything).Return([]models.InspectionRecord{
		{ID: 1, ReceptionID: 9, Category: "Pin", Description: "Đã kiểm tra", ActualStatus: models.OutcomeInspect},
	}, nil).Once()
	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, "Đã kiểm tra", c.Records()[0].Description)
}

func TestChecklist_EmptyCanComplete(t *testing.T) {
	c := NewChecklist(new(MockBatch), models.ReceptionInProgress, nil, nil)
	assert.True(t, c.CanComplete())
	assert.Zero(t, c.Progress())
	done, total := c.Done()
	assert.Zero(t, done)
	assert.Zero(t, total)
}
