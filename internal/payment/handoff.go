// Package payment hands a booking deposit off to the external gateway and
// keeps the pending-booking snapshot that survives the round trip.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// ErrNoPaymentURL is returned when the backend answers without a gateway URL.
var ErrNoPaymentURL = errors.New("backend returned no payment url")

// DepositCreator asks the backend for a gateway URL.
type DepositCreator interface {
	CreateDepositPayment(ctx context.Context, bookingID int64) (*models.DepositPayment, error)
}

// Opener sends the user to the gateway, for example by launching a browser.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open calls f(url).
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// Handoff starts deposit payments. Only one can be in flight at a time.
type Handoff struct {
	deposits DepositCreator
	opener   Opener
	flag     inflight.Flag
}

// NewHandoff creates a handoff that opens gateway URLs with opener.
func NewHandoff(deposits DepositCreator, opener Opener) *Handoff {
	return &Handoff{deposits: deposits, opener: opener}
}

// Busy reports whether a payment request is outstanding.
func (h *Handoff) Busy() bool {
	return h.flag.Busy()
}

// Start requests the deposit URL for bookingID and opens it. On failure the
// error is returned for display and nothing else changes.
func (h *Handoff) Start(ctx context.Context, bookingID int64) (*models.DepositPayment, error) {
	var payment *models.DepositPayment
	err := h.flag.Run(func() error {
		entry := log.WithField("booking_id", bookingID)

		p, err := h.deposits.CreateDepositPayment(ctx, bookingID)
		if err != nil {
			entry.WithError(err).Warn("Deposit payment request failed")
			return err
		}
		if strings.TrimSpace(p.PaymentURL) == "" {
			entry.Warn("Deposit payment response had no url")
			return ErrNoPaymentURL
		}

		if err := h.opener.Open(p.PaymentURL); err != nil {
			return fmt.Errorf("failed to open payment page: %w", err)
		}
		entry.WithFields(log.Fields{"amount": p.Amount.String(), "txn_ref": p.TxnRef}).Info("Redirected to payment gateway")
		payment = p
		return nil
	})
	return payment, err
}
