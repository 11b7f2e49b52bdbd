// Package status maps backend lifecycle strings to display labels and style
// tokens. Lookups never fail: anything not in the tables renders as Unknown.
package status

import "strings"

// Display is what a status renders as.
type Display struct {
	Label string
	Color string
}

// Unknown is returned for any status missing from the tables.
var Unknown = Display{Label: "Không xác định", Color: "bg-gray-100 text-gray-800"}

const (
	yellow = "bg-yellow-100 text-yellow-800"
	blue   = "bg-blue-100 text-blue-800"
	orange = "bg-orange-100 text-orange-800"
	indigo = "bg-indigo-100 text-indigo-800"
	purple = "bg-purple-100 text-purple-800"
	green  = "bg-green-100 text-green-800"
	red    = "bg-red-100 text-red-800"
	teal   = "bg-teal-100 text-teal-800"
	gray   = "bg-gray-100 text-gray-800"
)

// Booking covers both the customer-facing lowercase states and the
// uppercase states staff endpoints report.
var bookingDisplays = map[string]Display{
	"PENDING_PAYMENT":        {Label: "Chờ thanh toán cọc", Color: yellow},
	"PENDING":                {Label: "Chờ xác nhận", Color: yellow},
	"APPROVED":               {Label: "Đã xác nhận", Color: blue},
	"UPCOMING":               {Label: "Sắp tới", Color: blue},
	"ASSIGNED":               {Label: "Đã phân công", Color: indigo},
	"CANCELLATION_REQUESTED": {Label: "Yêu cầu hủy", Color: orange},
	"RECEIVED":               {Label: "Đã tiếp nhận", Color: indigo},
	"IN_PROGRESS":            {Label: "Đang thực hiện", Color: purple},
	"COMPLETED":              {Label: "Hoàn thành", Color: green},
	"CANCELLED":              {Label: "Đã hủy", Color: red},
}

var receptionDisplays = map[string]Display{
	"RECEIVED":    {Label: "Đã tiếp nhận", Color: blue},
	"ASSIGNED":    {Label: "Đã phân công", Color: indigo},
	"IN_PROGRESS": {Label: "Đang sửa chữa", Color: purple},
	"COMPLETED":   {Label: "Hoàn thành", Color: green},
	"PAID":        {Label: "Đã thanh toán", Color: teal},
}

var inspectionDisplays = map[string]Display{
	"PENDING":   {Label: "Chưa kiểm tra", Color: gray},
	"INSPECT":   {Label: "Kiểm tra", Color: blue},
	"CLEAN":     {Label: "Vệ sinh", Color: teal},
	"REPLACE":   {Label: "Thay thế", Color: red},
	"LUBRICATE": {Label: "Bôi trơn", Color: yellow},
	"NORMAL":    {Label: "Bình thường", Color: green},
	"ADJUST":    {Label: "Điều chỉnh", Color: orange},
}

var paymentDisplays = map[string]Display{
	"PENDING": {Label: "Chờ thanh toán", Color: yellow},
	"SUCCESS": {Label: "Thành công", Color: green},
	"PAID":    {Label: "Đã thanh toán", Color: green},
	"FAILED":  {Label: "Thất bại", Color: red},
}

func lookup(table map[string]Display, s string) Display {
	key := strings.ToUpper(strings.TrimSpace(s))
	if d, ok := table[key]; ok {
		return d
	}
	return Unknown
}

// Booking returns the display for a booking status.
func Booking(s string) Display { return lookup(bookingDisplays, s) }

// Reception returns the display for a reception status.
func Reception(s string) Display { return lookup(receptionDisplays, s) }

// Inspection returns the display for an inspection outcome.
func Inspection(s string) Display { return lookup(inspectionDisplays, s) }

// Payment returns the display for a payment status.
func Payment(s string) Display { return lookup(paymentDisplays, s) }

// IsKnownBooking reports whether s has a dedicated booking display.
func IsKnownBooking(s string) bool {
	_, ok := bookingDisplays[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// IsKnownReception reports whether s has a dedicated reception display.
func IsKnownReception(s string) bool {
	_, ok := receptionDisplays[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}
