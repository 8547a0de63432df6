package clarity

import (
	"github.com/dop251/goja"

	"github.com/neotools/neo-clarity/api"
)

// mapTab to the JS module.
func mapTab(rt *goja.Runtime, tab api.Tab) mapping {
	return mapping{
		// navigate uses the clarity argument as the identify capability and
		// falls back to a global clarity function when it is omitted.
		"navigate": func(rawURL string, clarity goja.Value) (mapping, error) {
			identify := globalIdentify(rt)
			if gojaValueExists(clarity) {
				identify = identifyFromJS(rt, clarity)
			}
			pl, err := tab.Navigate(rawURL, identify)
			if err != nil {
				return nil, err //nolint:wrapcheck
			}
			return mapping{
				"url":        pl.URL,
				"active":     pl.Active,
				"state":      string(pl.State),
				"identified": pl.Identified,
			}, nil
		},
		"state": func(rawURL string) (string, error) {
			st, err := tab.State(rawURL)
			return string(st), err //nolint:wrapcheck
		},
		"sessionItem": func(key string) goja.Value {
			v, ok := tab.SessionItem(key)
			if !ok {
				return goja.Null()
			}
			return rt.ToValue(v)
		},
		"clear": tab.Clear,
	}
}
