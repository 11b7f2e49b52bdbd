// Package handlers serves the portal's local HTTP endpoints. The only
// caller is the payment gateway redirecting the user's browser back.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/middleware"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/payment"
)

// PaymentOutcome is reported once per gateway return.
type PaymentOutcome struct {
	Return  payment.Return
	Booking *models.PendingBooking
	Err     error
}

// PaymentHandler handles the gateway redirect back to the portal.
type PaymentHandler struct {
	pending *payment.Pending
	notify  func(PaymentOutcome)
}

// NewPaymentHandler creates a handler. notify may be nil.
func NewPaymentHandler(pending *payment.Pending, notify func(PaymentOutcome)) *PaymentHandler {
	if notify == nil {
		notify = func(PaymentOutcome) {}
	}
	return &PaymentHandler{pending: pending, notify: notify}
}

// Routes builds the router for the loopback listener.
func (h *PaymentHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewRateLimitMiddleware().RateLimit(30, time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{Success: true, Message: "ok"})
	})
	r.Get("/payment/return", h.Return)
	return r
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Return handles GET /payment/return. A successful payment restores and
// clears the pending-booking snapshot. A failed one leaves it in place so
// the deposit can be retried.
func (h *PaymentHandler) Return(w http.ResponseWriter, r *http.Request) {
	ret := payment.ParseReturn(r.URL.Query())
	entry := log.WithFields(log.Fields{
		"response_code": ret.ResponseCode,
		"txn_ref":       ret.TxnRef,
		"success":       ret.Success,
	})

	if !ret.Success {
		entry.Warn("Payment was not completed")
		h.notify(PaymentOutcome{Return: ret})
		writeJSON(w, http.StatusOK, response{Success: false, Message: "Thanh toán không thành công"})
		return
	}

	snapshot, err := h.pending.Restore(r.Context())
	if err != nil {
		entry.WithError(err).Error("Failed to restore pending booking")
		h.notify(PaymentOutcome{Return: ret, Err: err})
		writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Không thể khôi phục thông tin đặt lịch"})
		return
	}

	if snapshot != nil {
		entry = entry.WithField("booking_id", snapshot.Booking.ID)
	}
	entry.Info("Deposit payment completed")
	h.notify(PaymentOutcome{Return: ret, Booking: snapshot})
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Thanh toán đặt cọc thành công", Data: snapshot})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to write response")
	}
}
