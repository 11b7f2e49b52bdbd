// Package format turns raw backend values into Vietnamese display strings.
package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currencySymbol = "₫"
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// inputDateLayouts is every date shape the backend or the forms produce.
var inputDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Currency renders an integer đồng amount, e.g. 1500000 -> "1.500.000 ₫".
func Currency(amount int64) string {
	return Money(decimal.NewFromInt(amount))
}

// Money renders a decimal amount rounded to whole đồng.
func Money(amount decimal.Decimal) string {
	return groupThousands(amount.Round(0).StringFixed(0)) + " " + currencySymbol
}

// Mileage renders kilometres with dot grouping.
func Mileage(km int64) string {
	return groupThousands(decimal.NewFromInt(km).String()) + " km"
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ParseDate accepts ISO dates, dd-MM-yyyy, dd/MM/yyyy and date-times.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders a calendar date as dd/MM/yyyy. Unparseable input is returned
// unchanged so that odd backend values remain visible.
func Date(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return t.Format(dateLayout)
}

// DateTime renders a timestamp as dd/MM/yyyy HH:mm.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// ISODate renders t as the yyyy-MM-dd the backend expects in payloads.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// TimeSlot trims seconds from "HH:mm:ss".
func TimeSlot(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") && strings.Count(s, ":") == 2 {
		return s[:5]
	}
	return s
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips separators and rewrites +84 to a leading 0.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+84") {
		s = "0" + s[3:]
	}
	return nonDigits.ReplaceAllString(s, "")
}

// Phone renders a 10-digit number as "0912 345 678".
func Phone(s string) string {
	digits := NormalizePhone(s)
	if len(digits) != 10 {
		return strings.TrimSpace(s)
	}
	return digits[:4] + " " + digits[4:7] + " " + digits[7:]
}

var (
	plateChars   = regexp.MustCompile(`[^A-Z0-9]`)
	platePattern = regexp.MustCompile(`^(\d{2}[A-Z]{1,2}\d??)(\d{4,5})$`)
)

// NormalizePlate upper-cases and drops separators: "51a-123.45" -> "51A12345".
func NormalizePlate(s string) string {
	return plateChars.ReplaceAllString(strings.ToUpper(s), "")
}

// Plate renders a Vietnamese plate as "51A-123.45" or "51A-1234".
func Plate(s string) string {
	norm := NormalizePlate(s)
	m := platePattern.FindStringSubmatch(norm)
	if m == nil {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	if len(m[2]) == 5 {
		return m[1] + "-" + m[2][:3] + "." + m[2][3:]
	}
	return m[1] + "-" + m[2]
}

// Percentage returns part/total*100 rounded to one decimal. A zero total is 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	p, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		Float64()
	return p
}

// Percent renders a percentage with a comma decimal separator, e.g. "66,7%".
func Percent(p float64) string {
	s := decimal.NewFromFloat(p).Round(1).String()
	return strings.Replace(s, ".", ",", 1) + "%"
}
