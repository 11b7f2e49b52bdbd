package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 ₫"},
		{500, "500 ₫"},
		{1000, "1.000 ₫"},
		{1500000, "1.500.000 ₫"},
		{123456789, "123.456.789 ₫"},
		{-25000, "-25.000 ₫"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.in))
	}
}

func TestMoney_RoundsToWholeDong(t *testing.T) {
	assert.Equal(t, "350.001 ₫", Money(decimal.RequireFromString("350000.5")))
	assert.Equal(t, "12.345 km", Mileage(12345))
}

func TestDate_SameCalendarDay(t *testing.T) {
	assert.Equal(t, "15/03/2024", Date("15-03-2024"))
	assert.Equal(t, "15/03/2024", Date("2024-03-15"))
	assert.Equal(t, Date("15-03-2024"), Date("2024-03-15"))
	assert.Equal(t, "15/03/2024", Date("2024-03-15T23:30:00"))
	assert.Equal(t, "15/03/2024", Date("2024-03-15T23:30:00+07:00"))
}

func TestDate_Unparseable(t *testing.T) {
	assert.Equal(t, "", Date(""))
	assert.Equal(t, "next week", Date(" next week "))
	_, ok := ParseDate("31-02-2024")
	assert.False(t, ok)
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "15/03/2024 09:05", DateTime(ts))
	assert.Equal(t, "", DateTime(time.Time{}))
	assert.Equal(t, "2024-03-15", ISODate(ts))
}

func TestTimeSlot(t *testing.T) {
	assert.Equal(t, "08:00", TimeSlot("08:00:00"))
	assert.Equal(t, "08:30", TimeSlot("08:30"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "0912 345 678", Phone("0912345678"))
	assert.Equal(t, "0912 345 678", Phone("+84 912.345.678"))
	assert.Equal(t, "12345", Phone("12345"))
}

func TestPlate(t *testing.T) {
	assert.Equal(t, "51A-123.45", Plate("51a12345"))
	assert.Equal(t, "51A-123.45", Plate("51A-123.45"))
	assert.Equal(t, "30E-1234", Plate("30e 1234"))
	assert.Equal(t, "59X1-234.56", Plate("59x123456"))
	assert.Equal(t, "ABC", Plate("abc"))
	assert.Equal(t, "51A12345", NormalizePlate(" 51a-123.45 "))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(4, 4))
	assert.Equal(t, "66,7%", Percent(66.7))
	assert.Equal(t, "50%", Percent(50))
}
