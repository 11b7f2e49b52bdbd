package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferType_Code(t *testing.T) {
	code, ok := OfferMaintenance.Code()
	assert.True(t, ok)
	assert.Equal(t, 0, code)

	code, ok = OfferType("REPAIR").Code()
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	_, ok = OfferType("detailing").Code()
	assert.False(t, ok)

	assert.Equal(t, OfferReplacement, OfferTypeFromCode(1))
	assert.Equal(t, OfferType(""), OfferTypeFromCode(9))
}

func TestReception_HasOfferAndWalkIn(t *testing.T) {
	bookingID := int64(7)
	r := Reception{OfferTypes: []int{0, 2}, BookingID: &bookingID}

	assert.True(t, r.HasOffer(OfferMaintenance))
	assert.True(t, r.HasOffer(OfferRepair))
	assert.False(t, r.HasOffer(OfferReplacement))
	assert.False(t, r.IsWalkIn())
	assert.True(t, Reception{}.IsWalkIn())
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var out struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"2024-03-15T08:30:00","b":"2024-03-15T08:30:00Z","c":null}`), &out)
	require.NoError(t, err)

	assert.Equal(t, 2024, out.A.Year())
	assert.Equal(t, time.March, out.A.Month())
	assert.Equal(t, 8, out.A.Hour())
	assert.Equal(t, 30, out.B.Minute())
	assert.True(t, out.C.IsZero())

	err = json.Unmarshal([]byte(`{"a":"yesterday"}`), &out)
	assert.Error(t, err)
}
