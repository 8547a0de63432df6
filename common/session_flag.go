package common

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/guregu/null.v3"
)

// SessionFlag marks a debug activation. It is stored as
// {"timestamp": <epoch milliseconds>}.
type SessionFlag struct {
	Timestamp null.Float `json:"timestamp"`
}

// NewSessionFlag returns a flag activated at t.
func NewSessionFlag(t time.Time) SessionFlag {
	return SessionFlag{Timestamp: null.FloatFrom(float64(t.UnixMilli()))}
}

// ParseSessionFlag decodes a stored flag.
func ParseSessionFlag(data string) (SessionFlag, error) {
	var f SessionFlag
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return SessionFlag{}, fmt.Errorf("parsing session flag: %w", err)
	}
	return f, nil
}

// Encode returns the stored form of the flag.
func (f SessionFlag) Encode() (string, error) {
	bb, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding session flag: %w", err)
	}
	return string(bb), nil
}

// ValidAt reports whether the flag still activates the session at now. A
// null or zero timestamp never does. The window is inclusive and fractional
// timestamps are compared as is.
func (f SessionFlag) ValidAt(now time.Time, expiration time.Duration) bool {
	if !f.Timestamp.Valid || f.Timestamp.Float64 == 0 {
		return false
	}
	return float64(now.UnixMilli())-f.Timestamp.Float64 <= float64(expiration.Milliseconds())
}
