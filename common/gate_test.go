package common

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neotools/neo-clarity/storage"
)

type identifyCall struct {
	userID, sessionID string
}

type recorder struct {
	calls []identifyCall
	err   error
	panic bool
}

func (r *recorder) identify(userID, sessionID string) error {
	r.calls = append(r.calls, identifyCall{userID, sessionID})
	if r.panic {
		panic("clarity blew up")
	}
	return r.err
}

type failingStore struct {
	storage.SessionStore
	failGet, failSet bool
}

func (f *failingStore) GetItem(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("get failed")
	}
	return f.SessionStore.GetItem(key)
}

func (f *failingStore) SetItem(key, value string) error {
	if f.failSet {
		return storage.ErrQuotaExceeded
	}
	return f.SessionStore.SetItem(key, value)
}

func newTestGate(t *testing.T, now time.Time, store storage.SessionStore) *Gate {
	t.Helper()

	g, err := NewGate(DefaultConfig(),
		WithClock(ClockFunc(func() time.Time { return now })),
		WithStore(store),
		WithLogger(NewLogger(NullLogger(), true)),
	)
	require.NoError(t, err)
	return g
}

func params(t *testing.T, query string) url.Values {
	t.Helper()

	v, err := url.ParseQuery(query)
	require.NoError(t, err)
	return v
}

func storeFlag(t *testing.T, s storage.SessionStore, ts time.Time) {
	t.Helper()

	data, err := NewSessionFlag(ts).Encode()
	require.NoError(t, err)
	require.NoError(t, s.SetItem(DefaultSessionStorageKey, data))
}

func TestGateActivateOrCheckActivation(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name  string
		prior string
	}{
		{name: "empty_storage"},
		{name: "expired_flag", prior: `{"timestamp":1}`},
		{name: "fresh_flag", prior: `{"timestamp":1699999999000}`},
		{name: "malformed_flag", prior: `{not json`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := storage.NewMemorySessionStore(0)
			if tt.prior != "" {
				require.NoError(t, s.SetItem(DefaultSessionStorageKey, tt.prior))
			}
			g := newTestGate(t, now, s)

			assert.True(t, g.ActivateOrCheck(params(t, "neo_debug=true"), now))

			data, ok, err := s.GetItem(DefaultSessionStorageKey)
			require.NoError(t, err)
			require.True(t, ok)
			flag, err := ParseSessionFlag(data)
			require.NoError(t, err)
			assert.Equal(t, float64(now.UnixMilli()), flag.Timestamp.Float64)
		})
	}
}

func TestGateActivateOrCheckExpiry(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{name: "just_set", age: 0, want: true},
		{name: "ten_minutes", age: 10 * time.Minute, want: true},
		{name: "boundary", age: 5_400_000 * time.Millisecond, want: true},
		{name: "past_boundary", age: 5_400_001 * time.Millisecond, want: false},
		{name: "ninety_one_minutes", age: 91 * time.Minute, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := storage.NewMemorySessionStore(0)
			storeFlag(t, s, now.Add(-tt.age))
			g := newTestGate(t, now, s)

			assert.Equal(t, tt.want, g.ActivateOrCheck(url.Values{}, now))
		})
	}
}

func TestGateActivateOrCheckFractionalFlag(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)
	s := storage.NewMemorySessionStore(0)
	require.NoError(t, s.SetItem(DefaultSessionStorageKey, `{"timestamp":1699999999000.5}`))
	g := newTestGate(t, now, s)

	assert.True(t, g.ActivateOrCheck(url.Values{}, now))
}

func TestGateActivateOrCheckInactive(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name   string
		query  string
		stored string
	}{
		{name: "no_flag", query: ""},
		{name: "debug_false", query: "neo_debug=false"},
		{name: "debug_case_sensitive", query: "neo_debug=TRUE"},
		{name: "malformed", stored: `{"timestamp":`},
		{name: "not_an_object", stored: `123`},
		{name: "string_timestamp", stored: `{"timestamp":"abc"}`},
		{name: "null_timestamp", stored: `{"timestamp":null}`},
		{name: "missing_timestamp", stored: `{}`},
		{name: "zero_timestamp", stored: `{"timestamp":0}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := storage.NewMemorySessionStore(0)
			if tt.stored != "" {
				require.NoError(t, s.SetItem(DefaultSessionStorageKey, tt.stored))
			}
			g := newTestGate(t, now, s)

			assert.False(t, g.ActivateOrCheck(params(t, tt.query), now))
		})
	}
}

func TestGateActivateOrCheckStorageFailures(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	t.Run("write_failure_still_active", func(t *testing.T) {
		t.Parallel()

		s := &failingStore{SessionStore: storage.NewMemorySessionStore(0), failSet: true}
		g := newTestGate(t, now, s)

		assert.True(t, g.ActivateOrCheck(params(t, "neo_debug=true"), now))
	})
	t.Run("read_failure_inactive", func(t *testing.T) {
		t.Parallel()

		inner := storage.NewMemorySessionStore(0)
		storeFlag(t, inner, now)
		g := newTestGate(t, now, &failingStore{SessionStore: inner, failGet: true})

		assert.False(t, g.ActivateOrCheck(url.Values{}, now))
	})
	t.Run("quota_exceeded", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(4)
		g := newTestGate(t, now, s)

		assert.True(t, g.ActivateOrCheck(params(t, "neo_debug=true"), now))
		assert.Empty(t, s.Items())
	})
}

func TestGateExtractIdentifiers(t *testing.T) {
	t.Parallel()

	g := newTestGate(t, time.Now(), storage.NewMemorySessionStore(0))

	assert.Equal(t,
		Identifiers{UserID: "abc", SessionID: "123"},
		g.ExtractIdentifiers(params(t, "neo_cuid=abc&neo_csid=123")))
	assert.Equal(t, Identifiers{}, g.ExtractIdentifiers(url.Values{}))
	assert.Equal(t,
		Identifiers{UserID: "a b/c"},
		g.ExtractIdentifiers(params(t, "neo_cuid=a+b%2Fc")))
}

func TestGateRunIdentificationOnce(t *testing.T) {
	t.Parallel()

	ids := Identifiers{UserID: "abc", SessionID: "123"}

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, time.Now(), s)
		var r recorder

		g.RunIdentificationOnce(r.identify, ids)
		g.RunIdentificationOnce(r.identify, ids)

		assert.Equal(t, []identifyCall{{"abc", "123"}}, r.calls)
		v, ok, err := s.GetItem(DefaultIdentificationDoneKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "true", v)
	})
	t.Run("error_marks_done", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, time.Now(), s)
		r := recorder{err: errors.New("network down")}

		g.RunIdentificationOnce(r.identify, ids)
		g.RunIdentificationOnce(r.identify, ids)

		assert.Len(t, r.calls, 1)
		assert.True(t, g.identificationDone())
	})
	t.Run("panic_marks_done", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, time.Now(), s)
		r := recorder{panic: true}

		assert.NotPanics(t, func() { g.RunIdentificationOnce(r.identify, ids) })
		assert.True(t, g.identificationDone())
	})
	t.Run("absent_capability_stays_pending", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, time.Now(), s)

		g.RunIdentificationOnce(nil, ids)

		_, ok, err := s.GetItem(DefaultIdentificationDoneKey)
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("other_done_value_is_unset", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		require.NoError(t, s.SetItem(DefaultIdentificationDoneKey, "yes"))
		g := newTestGate(t, time.Now(), s)
		var r recorder

		g.RunIdentificationOnce(r.identify, ids)

		assert.Len(t, r.calls, 1)
	})
}

func TestGateInitializeScenarios(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	t.Run("url_activation", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, now, s)
		var r recorder

		st := g.Initialize(params(t, "neo_debug=true&neo_cuid=abc&neo_csid=123"), r.identify)

		assert.Equal(t, StateActiveDone, st)
		assert.Equal(t, []identifyCall{{"abc", "123"}}, r.calls)
		v, _, err := s.GetItem(DefaultIdentificationDoneKey)
		require.NoError(t, err)
		assert.Equal(t, "true", v)
	})
	t.Run("expired_flag", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		storeFlag(t, s, now.Add(-91*time.Minute))
		g := newTestGate(t, now, s)
		var r recorder

		assert.Equal(t, StateInactive, g.Initialize(url.Values{}, r.identify))
		assert.Empty(t, r.calls)
	})
	t.Run("already_done", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		storeFlag(t, s, now.Add(-10*time.Minute))
		require.NoError(t, s.SetItem(DefaultIdentificationDoneKey, "true"))
		g := newTestGate(t, now, s)
		var r recorder

		assert.Equal(t, StateActiveDone, g.Initialize(url.Values{}, r.identify))
		assert.Empty(t, r.calls)
	})
	t.Run("identify_panics", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, now, s)
		r := recorder{panic: true}

		var st State
		assert.NotPanics(t, func() {
			st = g.Initialize(params(t, "neo_debug=true"), r.identify)
		})
		assert.Equal(t, StateActiveDone, st)
	})
	t.Run("capability_arrives_later", func(t *testing.T) {
		t.Parallel()

		s := storage.NewMemorySessionStore(0)
		g := newTestGate(t, now, s)
		var r recorder

		assert.Equal(t, StateActivePending, g.Initialize(params(t, "neo_debug=true&neo_cuid=u"), nil))
		assert.Equal(t, StateActiveDone, g.Initialize(params(t, "neo_cuid=u"), r.identify))
		assert.Equal(t, []identifyCall{{"u", ""}}, r.calls)
	})
}

func TestGateState(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)
	s := storage.NewMemorySessionStore(0)
	g := newTestGate(t, now, s)

	assert.Equal(t, StateInactive, g.State(url.Values{}, now))
	assert.Equal(t, StateActivePending, g.State(params(t, "neo_debug=true"), now))
	assert.Equal(t, StateActivePending, g.State(url.Values{}, now.Add(time.Minute)))

	g.markIdentificationDone()
	assert.Equal(t, StateActiveDone, g.State(url.Values{}, now.Add(time.Minute)))
	assert.Equal(t, StateInactive, g.State(url.Values{}, now.Add(2*time.Hour)))
}

func TestNewGateInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ExpirationTime = 0

	_, err := NewGate(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
