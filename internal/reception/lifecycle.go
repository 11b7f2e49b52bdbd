// Package reception tracks a vehicle from front-desk intake to settlement:
// status transitions, the maintenance checklist, spare parts and the
// waiting queue.
package reception

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

var (
	// ErrInvalidTransition is returned for skips and backward moves.
	ErrInvalidTransition = errors.New("invalid reception status transition")
	// ErrTechnicianRequired is returned when assigning without a technician.
	ErrTechnicianRequired = errors.New("a technician must be chosen before assignment")
	// ErrSettled is returned when parts are added to a completed reception.
	ErrSettled = errors.New("reception is already completed")
	// ErrPartOutOfStock is returned when a chosen part has no stock.
	ErrPartOutOfStock = errors.New("spare part is out of stock")
	// ErrChecklistIncomplete is returned when completing a reception that
	// still has PENDING inspection records.
	ErrChecklistIncomplete = errors.New("checklist has pending items")
)

// allowedTransitions lists the only forward step from each status.
var allowedTransitions = map[models.ReceptionStatus]models.ReceptionStatus{
	models.ReceptionReceived:   models.ReceptionAssigned,
	models.ReceptionAssigned:   models.ReceptionInProgress,
	models.ReceptionInProgress: models.ReceptionCompleted,
	models.ReceptionCompleted:  models.ReceptionPaid,
}

// NextStatus returns the status a reception may move to, if any.
func NextStatus(from models.ReceptionStatus) (models.ReceptionStatus, bool) {
	to, ok := allowedTransitions[from]
	return to, ok
}

// CanTransition reports whether from → to is the single allowed step.
func CanTransition(from, to models.ReceptionStatus) bool {
	next, ok := allowedTransitions[from]
	return ok && next == to
}

// API is the subset of the reception endpoints the workflow drives.
type API interface {
	Get(ctx context.Context, id int64) (*models.Reception, error)
	AssignTechnician(ctx context.Context, id, technicianID int64) (*models.Reception, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReceptionStatus) (*models.Reception, error)
	AddParts(ctx context.Context, id int64, partIDs []int64) (*models.Reception, error)
	CreateInvoice(ctx context.Context, id int64) (*models.Invoice, error)
}

// ChecklistSource loads the inspection records of a reception.
type ChecklistSource interface {
	ByReception(ctx context.Context, receptionID int64) ([]models.InspectionRecord, error)
}

// Workflow moves receptions through their lifecycle. Each action is
// single-flight.
type Workflow struct {
	api        API
	checklists ChecklistSource
	advance    inflight.Flag
	parts      inflight.Flag
}

// NewWorkflow creates a workflow over api. checklists is read before a
// reception is completed.
func NewWorkflow(api API, checklists ChecklistSource) *Workflow {
	return &Workflow{api: api, checklists: checklists}
}

// Transition moves r to status to. RECEIVED → ASSIGNED needs technicianID;
// IN_PROGRESS → COMPLETED needs every inspection record resolved;
// COMPLETED → PAID creates the invoice. Invalid moves never reach the
// backend.
func (w *Workflow) Transition(ctx context.Context, r models.Reception, to models.ReceptionStatus, technicianID *int64) (*models.Reception, error) {
	if !CanTransition(r.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, r.Status, to)
	}
	if to == models.ReceptionAssigned && (technicianID == nil || *technicianID <= 0) {
		return nil, ErrTechnicianRequired
	}

	var updated *models.Reception
	err := w.advance.Run(func() error {
		entry := log.WithFields(log.Fields{"reception_id": r.ID, "from": r.Status, "to": to})

		var err error
		switch to {
		case models.ReceptionAssigned:
			updated, err = w.api.AssignTechnician(ctx, r.ID, *technicianID)
		case models.ReceptionCompleted:
			if err = w.checkComplete(ctx, r); err == nil {
				updated, err = w.api.UpdateStatus(ctx, r.ID, to)
			}
		case models.ReceptionPaid:
			var invoice *models.Invoice
			invoice, err = w.api.CreateInvoice(ctx, r.ID)
			if err == nil {
				entry = entry.WithFields(log.Fields{"invoice_id": invoice.ID, "amount": invoice.Amount.String()})
				updated, err = w.api.Get(ctx, r.ID)
			}
		default:
			updated, err = w.api.UpdateStatus(ctx, r.ID, to)
		}
		if err != nil {
			entry.WithError(err).Warn("Reception transition failed")
			return err
		}
		entry.Info("Reception status updated")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// checkComplete refuses completion while any inspection record is PENDING.
func (w *Workflow) checkComplete(ctx context.Context, r models.Reception) error {
	records, err := w.checklists.ByReception(ctx, r.ID)
	if err != nil {
		return err
	}
	list := NewChecklist(nil, r.Status, records, nil)
	if !list.CanComplete() {
		done, total := list.Done()
		return fmt.Errorf("%w: %d of %d done", ErrChecklistIncomplete, done, total)
	}
	return nil
}

// Advance moves r one step forward.
func (w *Workflow) Advance(ctx context.Context, r models.Reception, technicianID *int64) (*models.Reception, error) {
	to, ok := NextStatus(r.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %s is final", ErrInvalidTransition, r.Status)
	}
	return w.Transition(ctx, r, to, technicianID)
}

// AddParts attaches in-stock parts to a reception that is not yet completed.
func (w *Workflow) AddParts(ctx context.Context, r models.Reception, parts []models.SparePart) (*models.Reception, error) {
	if IsSettled(r.Status) {
		return nil, ErrSettled
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if !p.InStock() {
			return nil, fmt.Errorf("%w: %s", ErrPartOutOfStock, p.Name)
		}
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return &r, nil
	}

	var updated *models.Reception
	err := w.parts.Run(func() error {
		var err error
		updated, err = w.api.AddParts(ctx, r.ID, ids)
		if err != nil {
			log.WithError(err).WithField("reception_id", r.ID).Warn("Failed to add spare parts")
		}
		return err
	})
	return updated, err
}

// IsSettled reports whether work on the reception is finished.
func IsSettled(s models.ReceptionStatus) bool {
	return s == models.ReceptionCompleted || s == models.ReceptionPaid
}
