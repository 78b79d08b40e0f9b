package rfctime

import (
	"bytes"
	"encoding/json"
	"time"
)

// Layout used for timestamps in API responses.
//
// Timestamps are always rendered in UTC with millisecond precision,
// e.g. "2024-05-06T07:08:09.123Z".
const Layout = "2006-01-02T15:04:05.000Z07:00"

// RFC3339 is a time.Time which is exchanged as RFC3339 date-time string.
type RFC3339 time.Time

func (t RFC3339) Time() time.Time {
	return time.Time(t)
}

// Equal reports both are nil, or both point the same instant.
func (t *RFC3339) Equal(other *RFC3339) bool {
	if (t == nil) != (other == nil) {
		return false
	}
	return t == nil || t.Time().Equal(other.Time())
}

func (t RFC3339) String() string {
	return time.Time(t).UTC().Format(Layout)
}

// Parse accepts any RFC3339 date-time, with or without fractional seconds.
func Parse(s string) (RFC3339, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return RFC3339{}, err
	}
	return RFC3339(t), nil
}

func (t RFC3339) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *RFC3339) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	ret, err := Parse(s)
	if err != nil {
		return err
	}
	*t = ret
	return nil
}
