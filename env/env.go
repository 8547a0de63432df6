// Package env reads neo-clarity settings from environment variables.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/neotools/neo-clarity/common"
)

// Options are the gate options that may come from the environment. Unset
// variables leave the defaults alone.
type Options struct {
	DebugParam            *string        `env:"NEO_CLARITY_DEBUG_PARAM"`
	CUIDParam             *string        `env:"NEO_CLARITY_CUID_PARAM"`
	CSIDParam             *string        `env:"NEO_CLARITY_CSID_PARAM"`
	SessionStorageKey     *string        `env:"NEO_CLARITY_SESSION_STORAGE_KEY"`
	ExpirationTime        *time.Duration `env:"NEO_CLARITY_EXPIRATION_TIME"`
	IdentificationDoneKey *string        `env:"NEO_CLARITY_IDENTIFICATION_DONE_KEY"`
	VerboseLog            *bool          `env:"NEO_CLARITY_VERBOSE_LOG"`

	// StateDir is where the CLI keeps its tab session and settings.
	StateDir string `env:"NEO_CLARITY_STATE_DIR"`
}

// Parse loads Options from the process environment.
func Parse() (Options, error) {
	return ParseWith(env.Options{})
}

// ParseWith loads Options using opts, which tests use to supply an
// environment map.
func ParseWith(opts env.Options) (Options, error) {
	var o Options
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// Overrides returns the gate overrides carried by o.
func (o Options) Overrides() common.ConfigOverrides {
	return common.ConfigOverrides{
		DebugParam:            o.DebugParam,
		CUIDParam:             o.CUIDParam,
		CSIDParam:             o.CSIDParam,
		SessionStorageKey:     o.SessionStorageKey,
		ExpirationTime:        o.ExpirationTime,
		IdentificationDoneKey: o.IdentificationDoneKey,
		VerboseLog:            o.VerboseLog,
	}
}

// Config merges the overrides over the default gate configuration.
func (o Options) Config() common.Config {
	return common.DefaultConfig().Merge(o.Overrides())
}

// ResolveStateDir returns StateDir, falling back to a directory under the
// user config dir.
func (o Options) ResolveStateDir() (string, error) {
	if o.StateDir != "" {
		return filepath.Clean(o.StateDir), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving state dir: %w", err)
	}
	return filepath.Join(dir, "neo-clarity"), nil
}
