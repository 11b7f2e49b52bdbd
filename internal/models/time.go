package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the shapes the backend uses for date-times. Spring's
// LocalDateTime comes without a zone, older endpoints send RFC3339.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Timestamp is a time.Time that tolerates zone-less backend date-times.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses any of the layouts the backend emits.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}
