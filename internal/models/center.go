package models

import "github.com/shopspring/decimal"

// ServiceCenter is a physical service location customers book into.
type ServiceCenter struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone,omitempty"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// TimeSlot is one bookable start time on a given date.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining"`
}

// PackageTask is one checklist line of a maintenance package.
type PackageTask struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// MaintenancePackage is a priced bundle of maintenance tasks.
type MaintenancePackage struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Tasks       []PackageTask   `json:"tasks,omitempty"`
}
