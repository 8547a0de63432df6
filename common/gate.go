package common

import (
	"fmt"
	"net/url"
	"time"

	"github.com/neotools/neo-clarity/storage"
)

// identificationDoneValue is the stored value of a set done flag.
const identificationDoneValue = "true"

// activationValue is the only debug parameter value that activates a session.
const activationValue = "true"

// State is the per session state of the gate.
type State string

// Gate states.
const (
	StateInactive      State = "INACTIVE"
	StateActivePending State = "ACTIVE_PENDING"
	StateActiveDone    State = "ACTIVE_DONE"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Gate decides whether a page load belongs to a debug session and identifies
// that session at most once.
type Gate struct {
	cfg    Config
	clock  Clock
	store  storage.SessionStore
	logger *Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock sets the gate clock.
func WithClock(c Clock) GateOption {
	return func(g *Gate) { g.clock = c }
}

// WithStore sets the session storage the gate reads and writes.
func WithStore(s storage.SessionStore) GateOption {
	return func(g *Gate) { g.store = s }
}

// WithLogger sets the gate logger. Its verbosity is replaced by the
// configured VerboseLog.
func WithLogger(l *Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// NewGate returns a gate for cfg. Without options it uses the wall clock, a
// fresh in-memory session store and the logrus standard logger.
func NewGate(cfg Config, opts ...GateOption) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating gate: %w", err)
	}

	g := &Gate{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = ClockFunc(time.Now)
	}
	if g.store == nil {
		g.store = storage.NewMemorySessionStore(0)
	}
	if g.logger == nil {
		g.logger = NewLogger(nil, cfg.VerboseLog)
	} else {
		g.logger = NewLogger(g.logger.FieldLogger, cfg.VerboseLog)
	}

	return g, nil
}

// Config returns the gate configuration.
func (g *Gate) Config() Config {
	return g.cfg
}

// Logger returns the gate logger.
func (g *Gate) Logger() *Logger {
	return g.logger
}

// Initialize runs the gate for one page load and returns the resulting
// state. It never fails.
func (g *Gate) Initialize(params url.Values, identify IdentifyFunc) State {
	if !g.ActivateOrCheck(params, g.clock.Now()) {
		g.logger.Infof("Gate:Initialize", "debug mode not activated, identify not executed")
		return StateInactive
	}

	g.RunIdentificationOnce(identify, g.ExtractIdentifiers(params))
	if g.identificationDone() {
		return StateActiveDone
	}
	return StateActivePending
}

// ActivateOrCheck reports whether the session is a debug session at now.
// The debug parameter set to "true" activates the session and refreshes its
// window. Otherwise the stored flag decides.
func (g *Gate) ActivateOrCheck(params url.Values, now time.Time) bool {
	if params.Get(g.cfg.DebugParam) == activationValue {
		g.activate(now)
		return true
	}

	return g.flagValid(now)
}

// ExtractIdentifiers returns the identifiers carried by params. Missing
// parameters are empty.
func (g *Gate) ExtractIdentifiers(params url.Values) Identifiers {
	return extractIdentifiers(params, g.cfg)
}

// RunIdentificationOnce calls identify unless this session was already
// identified. A failing identify is logged and still marks the session
// identified. A nil identify means the capability is absent and leaves the
// session pending.
func (g *Gate) RunIdentificationOnce(identify IdentifyFunc, ids Identifiers) {
	if g.identificationDone() {
		g.logger.Infof("Gate:RunIdentificationOnce", "identification already performed in this session")
		return
	}
	if identify == nil {
		g.logger.Errorf("Gate:RunIdentificationOnce", "identify capability is not available")
		return
	}

	if err := callIdentify(identify, ids); err != nil {
		g.logger.Errorf("Gate:RunIdentificationOnce", "identification failed: %v", err)
	} else {
		g.logger.Infof("Gate:RunIdentificationOnce", "identification successful: userId=%q sessionId=%q",
			ids.UserID, ids.SessionID)
	}
	g.markIdentificationDone()
}

// State returns the session state at now without identifying. Like
// ActivateOrCheck it records an explicit activation.
func (g *Gate) State(params url.Values, now time.Time) State {
	if !g.ActivateOrCheck(params, now) {
		return StateInactive
	}
	if g.identificationDone() {
		return StateActiveDone
	}
	return StateActivePending
}

func (g *Gate) activate(now time.Time) {
	data, err := NewSessionFlag(now).Encode()
	if err != nil {
		g.logger.Errorf("Gate:activate", "failed to encode session flag: %v", err)
		return
	}
	if err := g.store.SetItem(g.cfg.SessionStorageKey, data); err != nil {
		g.logger.Errorf("Gate:activate", "failed to set session storage item: %v", err)
	}
}

func (g *Gate) flagValid(now time.Time) bool {
	data, ok, err := g.store.GetItem(g.cfg.SessionStorageKey)
	if err != nil {
		g.logger.Errorf("Gate:flagValid", "failed to read session storage item: %v", err)
		return false
	}
	if !ok || data == "" {
		return false
	}

	flag, err := ParseSessionFlag(data)
	if err != nil {
		g.logger.Errorf("Gate:flagValid", "failed to parse session storage data: %v", err)
		return false
	}

	return flag.ValidAt(now, g.cfg.ExpirationTime)
}

func (g *Gate) identificationDone() bool {
	v, ok, err := g.store.GetItem(g.cfg.IdentificationDoneKey)
	if err != nil {
		g.logger.Errorf("Gate:identificationDone", "failed to read identification done flag: %v", err)
		return false
	}
	return ok && v == identificationDoneValue
}

func (g *Gate) markIdentificationDone() {
	if err := g.store.SetItem(g.cfg.IdentificationDoneKey, identificationDoneValue); err != nil {
		g.logger.Errorf("Gate:markIdentificationDone", "failed to set identification done flag: %v", err)
	}
}

// callIdentify turns a panicking identify into an error.
func callIdentify(identify IdentifyFunc, ids Identifiers) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("identify panicked: %v", r)
		}
	}()
	return identify(ids.UserID, ids.SessionID)
}
