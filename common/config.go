package common

import (
	"errors"
	"fmt"
	"time"
)

// Default configuration values. These match the option defaults a host page
// gets when it does not configure the tracker.
const (
	DefaultDebugParam            = "neo_debug"
	DefaultCUIDParam             = "neo_cuid"
	DefaultCSIDParam             = "neo_csid"
	DefaultSessionStorageKey     = "neo_debug"
	DefaultExpirationTime        = 90 * time.Minute
	DefaultIdentificationDoneKey = "clarity_identified"
	DefaultVerboseLog            = true
)

// Config stores the debug session gate configuration.
type Config struct {
	DebugParam            string        `js:"DEBUG_PARAM"`
	CUIDParam             string        `js:"CUID_PARAM"`
	CSIDParam             string        `js:"CSID_PARAM"`
	SessionStorageKey     string        `js:"SESSION_STORAGE_KEY"`
	ExpirationTime        time.Duration `js:"EXPIRATION_TIME_MS"`
	IdentificationDoneKey string        `js:"IDENTIFICATION_DONE_KEY"`
	VerboseLog            bool          `js:"VERBOSE_LOG"`
}

// DefaultConfig returns the default gate configuration.
func DefaultConfig() Config {
	return Config{
		DebugParam:            DefaultDebugParam,
		CUIDParam:             DefaultCUIDParam,
		CSIDParam:             DefaultCSIDParam,
		SessionStorageKey:     DefaultSessionStorageKey,
		ExpirationTime:        DefaultExpirationTime,
		IdentificationDoneKey: DefaultIdentificationDoneKey,
		VerboseLog:            DefaultVerboseLog,
	}
}

// ConfigOverrides holds user supplied options. A nil field keeps the value
// it is merged over.
type ConfigOverrides struct {
	DebugParam            *string
	CUIDParam             *string
	CSIDParam             *string
	SessionStorageKey     *string
	ExpirationTime        *time.Duration
	IdentificationDoneKey *string
	VerboseLog            *bool
}

// Merge shallow merges o over c and returns the result.
func (c Config) Merge(o ConfigOverrides) Config {
	if o.DebugParam != nil {
		c.DebugParam = *o.DebugParam
	}
	if o.CUIDParam != nil {
		c.CUIDParam = *o.CUIDParam
	}
	if o.CSIDParam != nil {
		c.CSIDParam = *o.CSIDParam
	}
	if o.SessionStorageKey != nil {
		c.SessionStorageKey = *o.SessionStorageKey
	}
	if o.ExpirationTime != nil {
		c.ExpirationTime = *o.ExpirationTime
	}
	if o.IdentificationDoneKey != nil {
		c.IdentificationDoneKey = *o.IdentificationDoneKey
	}
	if o.VerboseLog != nil {
		c.VerboseLog = *o.VerboseLog
	}
	return c
}

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate validates the configuration.
func (c Config) Validate() error {
	names := []struct {
		option, value string
	}{
		{"DEBUG_PARAM", c.DebugParam},
		{"CUID_PARAM", c.CUIDParam},
		{"CSID_PARAM", c.CSIDParam},
		{"SESSION_STORAGE_KEY", c.SessionStorageKey},
		{"IDENTIFICATION_DONE_KEY", c.IdentificationDoneKey},
	}
	for _, n := range names {
		if n.value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, n.option)
		}
	}
	if c.SessionStorageKey == c.IdentificationDoneKey {
		return fmt.Errorf("%w: SESSION_STORAGE_KEY and IDENTIFICATION_DONE_KEY must differ", ErrInvalidConfig)
	}
	if c.ExpirationTime <= 0 {
		return fmt.Errorf(`%w: EXPIRATION_TIME_MS "%d": precondition 0 < EXPIRATION_TIME_MS failed`,
			ErrInvalidConfig, c.ExpirationTime.Milliseconds())
	}

	return nil
}
