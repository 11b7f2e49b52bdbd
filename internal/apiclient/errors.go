package apiclient

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// DefaultErrorMessage is shown when the backend gives no usable message.
const DefaultErrorMessage = "Đã có lỗi xảy ra. Vui lòng thử lại."

// Kind classifies a failed call for the caller's error handling.
type Kind int

const (
	KindBackend Kind = iota
	KindConflict
	KindUnauthorized
	KindNetwork
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "backend"
	}
}

// Error is the uniform failure of an API call. Message is ready to show to
// the user; Raw keeps the backend wording when Message was replaced.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Raw     string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message returns the text to surface for any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

// conflictRules map fragments of known backend conflict messages to
// friendlier copy. The backend exposes no error codes for these, so matching
// is by case-insensitive substring.
var conflictRules = []struct {
	fragments []string
	message   string
}{
	{
		fragments: []string{"already has a pending booking", "already booked", "đã có lịch hẹn"},
		message:   "Xe này đã có lịch hẹn đang chờ xử lý. Vui lòng kiểm tra lại danh sách lịch hẹn của bạn.",
	},
	{
		fragments: []string{"in service", "being serviced", "đang được bảo dưỡng"},
		message:   "Xe này hiện đang được bảo dưỡng tại trung tâm, chưa thể đặt lịch mới.",
	},
}

// BookingConflict rewrites a backend failure of booking creation into the
// matching conflict copy. Other errors are returned unchanged.
func BookingConflict(err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) || (apiErr.Kind != KindBackend && apiErr.Kind != KindConflict) {
		return err
	}
	friendly, matched := FriendlyMessage(apiErr.Raw)
	if !matched {
		return err
	}
	mapped := *apiErr
	mapped.Kind = KindConflict
	mapped.Message = friendly
	return &mapped
}

// FriendlyMessage returns replacement copy for a known conflict message.
func FriendlyMessage(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, rule := range conflictRules {
		for _, f := range rule.fragments {
			if strings.Contains(lower, f) {
				return rule.message, true
			}
		}
	}
	return "", false
}

func classifyRequestError(ctx context.Context, err error) *Error {
	msg := DefaultErrorMessage
	switch {
	case isTimeoutError(ctx, err):
		msg = "Máy chủ phản hồi quá lâu. Vui lòng thử lại."
	case isNetworkError(err):
		msg = "Không thể kết nối tới máy chủ. Vui lòng kiểm tra kết nối mạng."
	}
	return &Error{Kind: KindNetwork, Message: msg, Raw: err.Error(), Err: err}
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
