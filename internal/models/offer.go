package models

import "strings"

// OfferType is the display id of a backend service category.
type OfferType string

const (
	OfferMaintenance OfferType = "maintenance"
	OfferReplacement OfferType = "replacement"
	OfferRepair      OfferType = "repair"
)

// offerCodes maps display ids to the backend's integer enum.
var offerCodes = map[OfferType]int{
	OfferMaintenance: 0,
	OfferReplacement: 1,
	OfferRepair:      2,
}

// Code returns the backend enum value for the offer type.
func (o OfferType) Code() (int, bool) {
	code, ok := offerCodes[OfferType(strings.ToLower(string(o)))]
	return code, ok
}

// OfferTypeFromCode is the inverse of Code. Unknown codes yield "".
func OfferTypeFromCode(code int) OfferType {
	for o, c := range offerCodes {
		if c == code {
			return o
		}
	}
	return ""
}

// ParseOfferType accepts a display id or the backend enum name.
func ParseOfferType(s string) (OfferType, bool) {
	o := OfferType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := offerCodes[o]
	return o, ok
}
