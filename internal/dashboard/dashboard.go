// Package dashboard filters, sorts and aggregates booking and reception
// lists for the staff and admin tables.
package dashboard

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/status"
)

// Row is the searchable view of one table line.
type Row struct {
	ID       int64
	Status   string
	Date     time.Time
	Plate    string
	Customer string
	Phone    string
}

// BookingRow views a booking as a table row, dated by its appointment.
func BookingRow(b models.Booking) Row {
	date, _ := format.ParseDate(b.BookingDate)
	return Row{
		ID:       b.ID,
		Status:   string(b.Status),
		Date:     date,
		Plate:    b.LicensePlate,
		Customer: b.Name,
		Phone:    b.Phone,
	}
}

// ReceptionRow views a reception as a table row, dated by its creation.
func ReceptionRow(r models.Reception) Row {
	return Row{
		ID:       r.ID,
		Status:   string(r.Status),
		Date:     r.CreatedAt.Time,
		Plate:    r.LicensePlate,
		Customer: r.CustomerName,
		Phone:    r.CustomerPhone,
	}
}

// Filter narrows a table. Zero fields match everything. From and To are
// inclusive calendar days.
type Filter struct {
	Status string
	From   time.Time
	To     time.Time
	Query  string
}

// Match reports whether row passes every set criterion.
func (f Filter) Match(row Row) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, row.Status) {
		return false
	}
	if !f.From.IsZero() && row.Date.Before(startOfDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && !row.Date.Before(startOfDay(f.To).AddDate(0, 0, 1)) {
		return false
	}
	return matchesQuery(row, f.Query)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// matchesQuery searches id, plate, customer name and phone, ignoring case
// and plate or phone separators. "#12" matches id 12 only.
func matchesQuery(row Row, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if id, ok := strings.CutPrefix(q, "#"); ok {
		return strconv.FormatInt(row.ID, 10) == id
	}
	if strings.Contains(strconv.FormatInt(row.ID, 10), q) {
		return true
	}
	if strings.Contains(strings.ToLower(row.Customer), q) {
		return true
	}
	if plate := format.NormalizePlate(q); plate != "" && strings.Contains(format.NormalizePlate(row.Plate), plate) {
		return true
	}
	if digits := format.NormalizePhone(q); digits != "" && strings.Contains(format.NormalizePhone(row.Phone), digits) {
		return true
	}
	return false
}

// SortKey selects the column to sort by.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByStatus SortKey = "status"
	SortByID     SortKey = "id"
)

// Sort is a column and direction.
type Sort struct {
	Key  SortKey
	Desc bool
}

func (s Sort) less(a, b Row) bool {
	var less, equal bool
	switch s.Key {
	case SortByStatus:
		sa, sb := strings.ToUpper(a.Status), strings.ToUpper(b.Status)
		less, equal = sa < sb, sa == sb
	case SortByID:
		less, equal = a.ID < b.ID, a.ID == b.ID
	default:
		less, equal = a.Date.Before(b.Date), a.Date.Equal(b.Date)
	}
	if equal {
		return a.ID < b.ID
	}
	if s.Desc {
		return !less
	}
	return less
}

// Apply filters and sorts list without modifying it.
func Apply[T any](list []T, view func(T) Row, f Filter, s Sort) []T {
	type entry struct {
		item T
		row  Row
	}
	kept := make([]entry, 0, len(list))
	for _, item := range list {
		if row := view(item); f.Match(row) {
			kept = append(kept, entry{item, row})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return s.less(kept[i].row, kept[j].row) })

	out := make([]T, 0, len(kept))
	for _, e := range kept {
		out = append(out, e.item)
	}
	return out
}

// StatusShare is one status's slice of a table.
type StatusShare struct {
	Status  string
	Label   string
	Count   int
	Percent float64
}

// Stats summarises a table.
type Stats struct {
	Total          int
	ByStatus       []StatusShare
	CompletionRate float64
}

// BookingStats counts bookings by status. Completion is the share of
// completed bookings among those not cancelled.
func BookingStats(list []models.Booking) Stats {
	rows := make([]Row, 0, len(list))
	done, live := 0, 0
	for _, b := range list {
		rows = append(rows, BookingRow(b))
		if b.Status != models.BookingCancelled {
			live++
		}
		if b.Status == models.BookingCompleted {
			done++
		}
	}
	return Stats{
		Total:          len(list),
		ByStatus:       shares(rows, status.Booking),
		CompletionRate: format.Percentage(done, live),
	}
}

// ReceptionStats counts receptions by status. Completion counts COMPLETED
// and PAID.
func ReceptionStats(list []models.Reception) Stats {
	rows := make([]Row, 0, len(list))
	done := 0
	for _, r := range list {
		rows = append(rows, ReceptionRow(r))
		if r.Status == models.ReceptionCompleted || r.Status == models.ReceptionPaid {
			done++
		}
	}
	return Stats{
		Total:          len(list),
		ByStatus:       shares(rows, status.Reception),
		CompletionRate: format.Percentage(done, len(list)),
	}
}

func shares(rows []Row, display func(string) status.Display) []StatusShare {
	counts := map[string]int{}
	for _, r := range rows {
		counts[strings.ToUpper(r.Status)]++
	}
	out := make([]StatusShare, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusShare{
			Status:  s,
			Label:   display(s).Label,
			Count:   n,
			Percent: format.Percentage(n, len(rows)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// GroupByHour counts receptions by the local hour they were created.
func GroupByHour(list []models.Reception, loc *time.Location) [24]int {
	if loc == nil {
		loc = time.Local
	}
	var hours [24]int
	for _, r := range list {
		if r.CreatedAt.IsZero() {
			continue
		}
		hours[r.CreatedAt.In(loc).Hour()]++
	}
	return hours
}

// Revenue sums the total cost of paid receptions.
func Revenue(list []models.Reception) decimal.Decimal {
	total := decimal.Zero
	for _, r := range list {
		if r.Status == models.ReceptionPaid {
			total = total.Add(r.TotalCost)
		}
	}
	return total
}
