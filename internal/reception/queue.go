package reception

import (
	"sort"

	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// SortQueue orders a list for display without modifying it. The RECEIVED
// list puts booked customers ahead of walk-ins, each group oldest first;
// every other list is newest first by id.
func SortQueue(list []models.Reception, status models.ReceptionStatus) []models.Reception {
	out := append([]models.Reception(nil), list...)
	if status != models.ReceptionReceived {
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsWalkIn() != b.IsWalkIn() {
			return !a.IsWalkIn()
		}
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.Before(b.CreatedAt.Time)
		}
		return a.ID < b.ID
	})
	return out
}
