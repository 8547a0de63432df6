package clarity

import (
	"fmt"
	"net/url"
	"time"

	"github.com/neotools/neo-clarity/api"
	"github.com/neotools/neo-clarity/common"
	"github.com/neotools/neo-clarity/storage"
)

var _ api.Tab = &Tab{}

// Tab simulates a browser tab running the tracker on every page load.
type Tab struct {
	gate  *common.Gate
	clock common.Clock
	store storage.ClearableSessionStore
}

// NewTab returns a tab with its own session storage. A nil store gives the
// tab an in-memory one.
func NewTab(
	cfg common.Config, store storage.ClearableSessionStore, clock common.Clock, logger *common.Logger,
) (*Tab, error) {
	if store == nil {
		store = storage.NewMemorySessionStore(0)
	}
	opts := []common.GateOption{common.WithStore(store)}
	if clock != nil {
		opts = append(opts, common.WithClock(clock))
	}
	if logger != nil {
		opts = append(opts, common.WithLogger(logger))
	}

	gate, err := common.NewGate(cfg, opts...)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Tab{
		gate:  gate,
		clock: clock,
		store: store,
	}, nil
}

// Navigate loads rawURL in the tab. identify is the identify capability of
// the page, nil when the page has none.
func (t *Tab) Navigate(rawURL string, identify common.IdentifyFunc) (*common.PageLoad, error) {
	params, err := queryOf(rawURL)
	if err != nil {
		return nil, err
	}

	var identified bool
	if identify != nil {
		inner := identify
		identify = func(userID, sessionID string) error {
			identified = true
			return inner(userID, sessionID)
		}
	}
	st := t.gate.Initialize(params, identify)

	return &common.PageLoad{
		URL:        rawURL,
		Active:     st != common.StateInactive,
		State:      st,
		Identified: identified,
	}, nil
}

// State returns the session state a load of rawURL would see, without
// identifying.
func (t *Tab) State(rawURL string) (common.State, error) {
	params, err := queryOf(rawURL)
	if err != nil {
		return "", err
	}
	return t.gate.State(params, t.now()), nil
}

// SessionItem reads the tab's session storage. A read failure is logged and
// reported as a missing item.
func (t *Tab) SessionItem(key string) (string, bool) {
	v, ok, err := t.store.GetItem(key)
	if err != nil {
		t.gate.Logger().Errorf("Tab:SessionItem", "failed to read session storage item %q: %v", key, err)
		return "", false
	}
	return v, ok
}

// Clear ends the tab session.
func (t *Tab) Clear() error {
	if err := t.store.Clear(); err != nil {
		return fmt.Errorf("clearing tab session: %w", err)
	}
	return nil
}

func (t *Tab) now() time.Time {
	if t.clock == nil {
		return time.Now()
	}
	return t.clock.Now()
}

func queryOf(rawURL string) (url.Values, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL %q: %w", rawURL, err)
	}
	return u.Query(), nil
}
