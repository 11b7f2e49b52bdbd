package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// gatewaySuccessCode is the gateway's response code for an approved payment.
const gatewaySuccessCode = "00"

// Return is what the gateway reported on redirect back to the portal.
type Return struct {
	Success      bool
	ResponseCode string
	TxnRef       string
}

// ParseReturn reads the redirect query. Either the portal's own
// payment=success flag or an approved gateway response code counts.
func ParseReturn(q url.Values) Return {
	r := Return{
		ResponseCode: q.Get("vnp_ResponseCode"),
		TxnRef:       q.Get("vnp_TxnRef"),
	}
	r.Success = strings.EqualFold(q.Get("payment"), "success") || r.ResponseCode == gatewaySuccessCode
	return r
}

// Pending reads and clears the pending-booking snapshot.
type Pending struct {
	kv db.KeyValue
}

// NewPending creates a snapshot accessor over session-scoped storage.
func NewPending(kv db.KeyValue) *Pending {
	return &Pending{kv: kv}
}

// Save stores the snapshot, replacing any previous one.
func (p *Pending) Save(ctx context.Context, snapshot models.PendingBooking) error {
	return p.kv.Set(ctx, db.KeyPendingBooking, snapshot)
}

// Load returns the snapshot, or nil when none is stored.
func (p *Pending) Load(ctx context.Context) (*models.PendingBooking, error) {
	var snapshot models.PendingBooking
	ok, err := p.kv.Get(ctx, db.KeyPendingBooking, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending booking: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

// Clear drops the snapshot.
func (p *Pending) Clear(ctx context.Context) error {
	return p.kv.Delete(ctx, db.KeyPendingBooking)
}

// Restore loads the snapshot and clears it. A corrupt snapshot is cleared
// and reported.
func (p *Pending) Restore(ctx context.Context) (*models.PendingBooking, error) {
	snapshot, err := p.Load(ctx)
	if clearErr := p.Clear(ctx); clearErr != nil && err == nil {
		err = fmt.Errorf("failed to clear pending booking: %w", clearErr)
	}
	return snapshot, err
}
