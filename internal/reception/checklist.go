package reception

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

var (
	// ErrReadOnly is returned when editing a completed reception's checklist.
	ErrReadOnly = errors.New("checklist is read-only")
	// ErrUnknownRecord is returned for a record id not on the checklist.
	ErrUnknownRecord = errors.New("inspection record not found")
	// ErrInvalidOutcome is returned for an outcome outside the known set.
	ErrInvalidOutcome = errors.New("invalid inspection outcome")
	// ErrPartRequired is returned when REPLACE has no spare part chosen.
	ErrPartRequired = errors.New("replace requires a spare part")
)

// BatchUpdater sends checklist changes in one request.
type BatchUpdater interface {
	BatchUpdate(ctx context.Context, updates []models.InspectionUpdate) ([]models.InspectionRecord, error)
}

// Checklist merges server-confirmed records with unsaved local edits.
type Checklist struct {
	api      BatchUpdater
	readOnly bool
	stock    map[int64]models.SparePart
	flush    inflight.Flag

	mu        sync.Mutex
	order     []int64
	confirmed map[int64]models.InspectionRecord
	draft     map[int64]models.InspectionUpdate
}

// NewChecklist builds a checklist for a reception in status. inventory is
// consulted when an outcome of REPLACE names a part.
func NewChecklist(api BatchUpdater, status models.ReceptionStatus, records []models.InspectionRecord, inventory []models.SparePart) *Checklist {
	c := &Checklist{
		api:       api,
		readOnly:  IsSettled(status),
		stock:     make(map[int64]models.SparePart, len(inventory)),
		confirmed: make(map[int64]models.InspectionRecord, len(records)),
		draft:     make(map[int64]models.InspectionUpdate),
	}
	for _, p := range inventory {
		c.stock[p.ID] = p
	}
	for _, r := range records {
		if _, dup := c.confirmed[r.ID]; !dup {
			c.order = append(c.order, r.ID)
		}
		c.confirmed[r.ID] = r
	}
	return c
}

// ReadOnly reports whether edits are refused.
func (c *Checklist) ReadOnly() bool {
	return c.readOnly
}

// Set records a local outcome for recordID. REPLACE needs an in-stock part.
func (c *Checklist) Set(recordID int64, outcome models.InspectionOutcome, sparePartID *int64) error {
	if c.readOnly {
		return ErrReadOnly
	}
	if !models.IsValidOutcome(outcome) {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	update := models.InspectionUpdate{ID: recordID, ActualStatus: outcome}
	if outcome == models.OutcomeReplace {
		if sparePartID == nil {
			return ErrPartRequired
		}
		part, ok := c.stock[*sparePartID]
		if !ok || !part.InStock() {
			return fmt.Errorf("%w: %d", ErrPartOutOfStock, *sparePartID)
		}
		id := *sparePartID
		update.SparePartID = &id
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.confirmed[recordID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRecord, recordID)
	}
	c.draft[recordID] = update
	return nil
}

// Discard drops the unsaved edit for recordID.
func (c *Checklist) Discard(recordID int64) {
	c.mu.Lock()
	delete(c.draft, recordID)
	c.mu.Unlock()
}

// Records returns every record with its effective outcome, in server order.
func (c *Checklist) Records() []models.InspectionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.InspectionRecord, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.effective(id))
	}
	return out
}

func (c *Checklist) effective(id int64) models.InspectionRecord {
	r := c.confirmed[id]
	if u, ok := c.draft[id]; ok {
		r.ActualStatus = u.ActualStatus
		r.SparePartID = u.SparePartID
	}
	if r.ActualStatus == "" {
		r.ActualStatus = models.OutcomePending
	}
	return r
}

// Dirty reports the number of unsaved edits.
func (c *Checklist) Dirty() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.draft)
}

// Done returns how many records have a non-PENDING effective outcome.
func (c *Checklist) Done() (done, total int) {
	for _, r := range c.Records() {
		if r.ActualStatus != models.OutcomePending {
			done++
		}
		total++
	}
	return done, total
}

// CanComplete is true when every record has a non-PENDING outcome. A
// reception with no records has nothing left to check.
func (c *Checklist) CanComplete() bool {
	done, total := c.Done()
	return done == total
}

// Progress is the completed share of the checklist as a percentage.
func (c *Checklist) Progress() float64 {
	done, total := c.Done()
	return format.Percentage(done, total)
}

// Flush sends every unsaved edit in one batch. The draft is cleared only
// when the backend accepts the batch. Edits made during the request stay
// in the draft.
func (c *Checklist) Flush(ctx context.Context) error {
	if c.readOnly {
		return ErrReadOnly
	}
	return c.flush.Run(func() error {
		c.mu.Lock()
		updates := make([]models.InspectionUpdate, 0, len(c.draft))
		for _, u := range c.draft {
			updates = append(updates, u)
		}
		c.mu.Unlock()
		if len(updates) == 0 {
			return nil
		}
		sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })

		saved, err := c.api.BatchUpdate(ctx, updates)
		if err != nil {
			log.WithError(err).WithField("updates", len(updates)).Warn("Checklist batch update failed")
			return err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		for _, u := range updates {
			if r, ok := c.confirmed[u.ID]; ok {
				r.ActualStatus = u.ActualStatus
				r.SparePartID = u.SparePartID
				c.confirmed[u.ID] = r
			}
			if cur, ok := c.draft[u.ID]; ok && sameUpdate(cur, u) {
				delete(c.draft, u.ID)
			}
		}
		for _, r := range saved {
			if _, ok := c.confirmed[r.ID]; ok {
				c.confirmed[r.ID] = r
			}
		}
		log.WithField("updates", len(updates)).Info("Checklist saved")
		return nil
	})
}

func sameUpdate(a, b models.InspectionUpdate) bool {
	if a.ActualStatus != b.ActualStatus {
		return false
	}
	if a.SparePartID == nil || b.SparePartID == nil {
		return a.SparePartID == nil && b.SparePartID == nil
	}
	return *a.SparePartID == *b.SparePartID
}
