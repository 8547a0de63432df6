package clarity

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/neotools/neo-clarity/common"
)

// ParseConfig parses the tracker configuration a host page supplies. Present
// options override the defaults and unknown ones are ignored.
func ParseConfig(rt *goja.Runtime, opts goja.Value) (common.Config, error) {
	cfg := common.DefaultConfig()

	if !gojaValueExists(opts) {
		return cfg, nil // return the default options
	}

	var o common.ConfigOverrides
	obj := opts.ToObject(rt)
	for _, k := range obj.Keys() {
		v := obj.Get(k)
		switch k {
		case "DEBUG_PARAM":
			o.DebugParam = stringOption(v)
		case "CUID_PARAM":
			o.CUIDParam = stringOption(v)
		case "CSID_PARAM":
			o.CSIDParam = stringOption(v)
		case "SESSION_STORAGE_KEY":
			o.SessionStorageKey = stringOption(v)
		case "EXPIRATION_TIME_MS":
			d := time.Duration(v.ToInteger()) * time.Millisecond
			o.ExpirationTime = &d
		case "IDENTIFICATION_DONE_KEY":
			o.IdentificationDoneKey = stringOption(v)
		case "VERBOSE_LOG":
			b := v.ToBoolean()
			o.VerboseLog = &b
		}
	}

	cfg = cfg.Merge(o)
	if err := cfg.Validate(); err != nil {
		return common.Config{}, fmt.Errorf("parsing tracker config: %w", err)
	}

	return cfg, nil
}

// exportConfig is the JS view of cfg, keyed by option name.
func exportConfig(cfg common.Config) mapping {
	return mapping{
		"DEBUG_PARAM":             cfg.DebugParam,
		"CUID_PARAM":              cfg.CUIDParam,
		"CSID_PARAM":              cfg.CSIDParam,
		"SESSION_STORAGE_KEY":     cfg.SessionStorageKey,
		"EXPIRATION_TIME_MS":      cfg.ExpirationTime.Milliseconds(),
		"IDENTIFICATION_DONE_KEY": cfg.IdentificationDoneKey,
		"VERBOSE_LOG":             cfg.VerboseLog,
	}
}

func stringOption(v goja.Value) *string {
	s := v.String()
	return &s
}
