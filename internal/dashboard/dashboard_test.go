package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/no-solace/ev-maintenance-system/internal/models"
)

func bookings() []models.Booking {
	return []models.Booking{
		{ID: 1, BookingDate: "2025-03-01", Status: models.BookingCompleted, LicensePlate: "51A12345", Contact: models.Contact{Name: "Nguyễn An", Phone: "0912345678"}},
		{ID: 2, BookingDate: "2025-03-05", Status: models.BookingUpcoming, LicensePlate: "30E67890", Contact: models.Contact{Name: "Trần Bình", Phone: "0987654321"}},
		{ID: 3, BookingDate: "2025-03-03", Status: models.BookingCancelled, LicensePlate: "43C11111", Contact: models.Contact{Name: "Lê Chi", Phone: "0905000111"}},
		{ID: 4, BookingDate: "2025-03-05", Status: models.BookingUpcoming, LicensePlate: "51G22222", Contact: models.Contact{Name: "Phạm Dũng", Phone: "0933222444"}},
	}
}

func bookingIDs(list []models.Booking) []int64 {
	out := make([]int64, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestApply_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"all", Filter{}, []int64{1, 2, 3, 4}},
		{"status case-insensitive", Filter{Status: "UPCOMING"}, []int64{2, 4}},
		{"date range inclusive", Filter{From: day("2025-03-03"), To: day("2025-03-05")}, []int64{2, 3, 4}},
		{"from only", Filter{From: day("2025-03-04")}, []int64{2, 4}},
		{"to only", Filter{To: day("2025-03-01")}, []int64{1}},
		{"name search", Filter{Query: "bình"}, []int64{2}},
		{"plate search with separators", Filter{Query: "51a-123"}, []int64{1}},
		{"phone search with spaces", Filter{Query: "0905 000"}, []int64{3}},
		{"id search", Filter{Query: "#4"}, []int64{4}},
		{"no match", Filter{Query: "zzz"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(bookings(), BookingRow, tt.filter, Sort{Key: SortByID})
			assert.Equal(t, tt.want, bookingIDs(got))
		})
	}
}

func TestApply_Sorts(t *testing.T) {
	list := bookings()
	assert.Equal(t, []int64{1, 3, 2, 4}, bookingIDs(Apply(list, BookingRow, Filter{}, Sort{Key: SortByDate})))
	assert.Equal(t, []int64{2, 4, 3, 1}, bookingIDs(Apply(list, BookingRow, Filter{}, Sort{Key: SortByDate, Desc: true})))
	assert.Equal(t, []int64{4, 3, 2, 1}, bookingIDs(Apply(list, BookingRow, Filter{}, Sort{Key: SortByID, Desc: true})))
	assert.Equal(t, []int64{3, 1, 2, 4}, bookingIDs(Apply(list, BookingRow, Filter{}, Sort{Key: SortByStatus})))
	assert.Equal(t, []int64{1, 2, 3, 4}, bookingIDs(list))
}

func TestBookingStats(t *testing.T) {
	stats := BookingStats(bookings())
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 33.3, stats.CompletionRate)

	require.NotEmpty(t, stats.ByStatus)
	top := stats.ByStatus[0]
	assert.Equal(t, "UPCOMING", top.Status)
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, float64(50), top.Percent)
	assert.NotEmpty(t, top.Label)
}

func TestStats_Empty(t *testing.T) {
	stats := ReceptionStats(nil)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.CompletionRate)
	assert.Empty(t, stats.ByStatus)
}

func TestReceptionStatsGroupByHourAndRevenue(t *testing.T) {
	at := func(h int) models.Timestamp {
		return models.Timestamp{Time: time.Date(2025, 3, 10, h, 15, 0, 0, time.UTC)}
	}
	list := []models.Reception{
		{ID: 1, Status: models.ReceptionPaid, CreatedAt: at(8), TotalCost: decimal.NewFromInt(500000)},
		{ID: 2, Status: models.ReceptionCompleted, CreatedAt: at(8), TotalCost: decimal.NewFromInt(900000)},
		{ID: 3, Status: models.ReceptionInProgress, CreatedAt: at(14)},
		{ID: 4, Status: models.ReceptionPaid, CreatedAt: at(16), TotalCost: decimal.NewFromInt(250000)},
		{ID: 5, Status: models.ReceptionReceived},
	}

	stats := ReceptionStats(list)
	assert.Equal(t, float64(60), stats.CompletionRate)

	hours := GroupByHour(list, time.UTC)
	assert.Equal(t, 2, hours[8])
	assert.Equal(t, 1, hours[14])
	assert.Equal(t, 1, hours[16])
	assert.Equal(t, 0, hours[0])

	assert.True(t, decimal.NewFromInt(750000).Equal(Revenue(list)))
}

func TestReceptionRowSearch(t *testing.T) {
	list := []models.Reception{
		{ID: 10, LicensePlate: "51A-123.45", CustomerName: "Ngô Minh", CustomerPhone: "+84912345678"},
		{ID: 11, LicensePlate: "30E-1234", CustomerName: "Đỗ Hà", CustomerPhone: "0987654321"},
	}
	got := Apply(list, ReceptionRow, Filter{Query: "0912"}, Sort{Key: SortByID})
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
}
