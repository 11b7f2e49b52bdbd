package reception

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// InitialPartsWindow separates parts chosen at intake from parts added
// later by the technician.
const InitialPartsWindow = 5 * time.Minute

// IsInitialPart reports whether p was attached within the intake window.
// A part without an added-at time counts as initial.
func IsInitialPart(r models.Reception, p models.ReceptionPart) bool {
	if p.AddedAt.IsZero() || r.CreatedAt.IsZero() {
		return true
	}
	return p.AddedAt.Sub(r.CreatedAt.Time) <= InitialPartsWindow
}

// SplitParts groups the reception's parts into initial and added.
func SplitParts(r models.Reception) (initial, added []models.ReceptionPart) {
	for _, p := range r.SpareParts {
		if IsInitialPart(r, p) {
			initial = append(initial, p)
		} else {
			added = append(added, p)
		}
	}
	return initial, added
}

// PartsTotal sums unit price times quantity. A zero quantity counts as one.
func PartsTotal(parts []models.ReceptionPart) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}
		total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
