package models

// InspectionOutcome is the recorded result of one checklist line.
type InspectionOutcome string

const (
	OutcomePending   InspectionOutcome = "PENDING"
	OutcomeInspect   InspectionOutcome = "INSPECT"
	OutcomeClean     InspectionOutcome = "CLEAN"
	OutcomeReplace   InspectionOutcome = "REPLACE"
	OutcomeLubricate InspectionOutcome = "LUBRICATE"
	OutcomeNormal    InspectionOutcome = "NORMAL"
	OutcomeAdjust    InspectionOutcome = "ADJUST"
)

// IsValidOutcome reports whether o is a known outcome, PENDING included.
func IsValidOutcome(o InspectionOutcome) bool {
	switch o {
	case OutcomePending, OutcomeInspect, OutcomeClean, OutcomeReplace,
		OutcomeLubricate, OutcomeNormal, OutcomeAdjust:
		return true
	default:
		return false
	}
}

// InspectionRecord is one checklist line item tied to a reception.
type InspectionRecord struct {
	ID           int64             `json:"id"`
	ReceptionID  int64             `json:"receptionId"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	ActualStatus InspectionOutcome `json:"actualStatus"`
	SparePartID  *int64            `json:"sparePartId,omitempty"`
}

// InspectionUpdate is a single outcome change.
type InspectionUpdate struct {
	ID           int64             `json:"id"`
	ActualStatus InspectionOutcome `json:"actualStatus"`
	SparePartID  *int64            `json:"sparePartId,omitempty"`
}

// BatchUpdateRequest is the payload for PUT /inspection-records/batch-update.
type BatchUpdateRequest struct {
	Updates []InspectionUpdate `json:"updates"`
}
