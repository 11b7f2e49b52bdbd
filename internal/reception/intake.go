package reception

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// Creator records a new reception.
type Creator interface {
	Create(ctx context.Context, req models.CreateReceptionRequest) (*models.Reception, error)
}

// Intake submits intake forms and keeps the unsent form as a draft.
type Intake struct {
	receptions Creator
	drafts     db.KeyValue
	submit     inflight.Flag
}

// NewIntake creates an intake over local-scoped draft storage.
func NewIntake(receptions Creator, drafts db.KeyValue) *Intake {
	return &Intake{receptions: receptions, drafts: drafts}
}

// SaveDraft stores the form so an interrupted intake can resume.
func (i *Intake) SaveDraft(ctx context.Context, f Form) error {
	if err := i.drafts.Set(ctx, db.KeyReceptionDraft, f); err != nil {
		return fmt.Errorf("failed to save reception draft: %w", err)
	}
	return nil
}

// LoadDraft returns the saved form, if any.
func (i *Intake) LoadDraft(ctx context.Context) (Form, bool, error) {
	var f Form
	ok, err := i.drafts.Get(ctx, db.KeyReceptionDraft, &f)
	if err != nil {
		return Form{}, false, fmt.Errorf("failed to load reception draft: %w", err)
	}
	return f, ok, nil
}

// ClearDraft drops the saved form.
func (i *Intake) ClearDraft(ctx context.Context) error {
	return i.drafts.Delete(ctx, db.KeyReceptionDraft)
}

// Submit validates f and creates the reception. Validation failures return
// validator.FieldErrors without a request. The draft is cleared only after
// the backend accepts the reception.
func (i *Intake) Submit(ctx context.Context, f Form) (*models.Reception, error) {
	if errs := f.Validate(); errs != nil {
		return nil, errs
	}

	var created *models.Reception
	err := i.submit.Run(func() error {
		req := f.Request()
		r, err := i.receptions.Create(ctx, req)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"plate":      req.LicensePlate,
				"booking_id": req.BookingID,
			}).Warn("Reception creation failed")
			return err
		}
		if err := i.ClearDraft(ctx); err != nil {
			log.WithError(err).Warn("Failed to clear reception draft")
		}
		log.WithFields(log.Fields{"reception_id": r.ID, "walk_in": r.IsWalkIn()}).Info("Vehicle received")
		created = r
		return nil
	})
	return created, err
}
