package jsonfile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestamp is the on-disk form of created_at. New values are written as
// RFC 3339; the locale-style "(Wed Sep 10 14:32:01 2025)" strings written by
// the original program are still accepted.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(tt.Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	legacy := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "("), ")"))
	if ts, err := time.ParseInLocation(time.ANSIC, legacy, time.Local); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("created_at: unrecognised timestamp %q", s)
}
