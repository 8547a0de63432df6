package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFlagEncode(t *testing.T) {
	t.Parallel()

	data, err := NewSessionFlag(time.UnixMilli(1234)).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":1234}`, data)
}

func TestSessionFlagValidAt(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(10_000)
	f := NewSessionFlag(time.UnixMilli(4_000))

	assert.True(t, f.ValidAt(now, 6*time.Second))
	assert.False(t, f.ValidAt(now, 6*time.Second-time.Millisecond))
	assert.False(t, SessionFlag{}.ValidAt(now, time.Hour))
}

func TestParseSessionFlagErrors(t *testing.T) {
	t.Parallel()

	for _, data := range []string{``, `{`, `[]`, `{"timestamp":"abc"}`, `{"timestamp":true}`} {
		_, err := ParseSessionFlag(data)
		assert.Error(t, err, data)
	}
}

func TestSessionFlagFractionalTimestamp(t *testing.T) {
	t.Parallel()

	f, err := ParseSessionFlag(`{"timestamp":1699999999000.5}`)
	require.NoError(t, err)

	now := time.UnixMilli(1_700_000_000_000)
	assert.True(t, f.ValidAt(now, 90*time.Minute))
	assert.True(t, f.ValidAt(now, 1000*time.Millisecond))
	assert.False(t, f.ValidAt(now, 999*time.Millisecond))
}
