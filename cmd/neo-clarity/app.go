package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/neotools/neo-clarity/common"
	"github.com/neotools/neo-clarity/env"
	"github.com/neotools/neo-clarity/storage"
)

const (
	sessionFile  = "session.json"
	settingsFile = "settings.toml"
)

type app struct {
	opts    env.Options
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

func newApp(opts env.Options, out, errOut io.Writer) *app {
	return &app{
		opts:   opts,
		out:    out,
		errOut: errOut,
	}
}

func (a *app) config() (common.Config, error) {
	cfg := a.opts.Config()
	if err := cfg.Validate(); err != nil {
		return common.Config{}, err //nolint:wrapcheck
	}
	return cfg, nil
}

func (a *app) logger(cfg common.Config) *common.Logger {
	l := logrus.New()
	l.SetOutput(a.errOut)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: a.noColor})
	return common.NewLogger(l, cfg.VerboseLog)
}

func (a *app) statePath(name string) (string, error) {
	dir, err := a.opts.ResolveStateDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, name), nil
}

func (a *app) sessionStore() (*storage.FileSessionStore, error) {
	p, err := a.statePath(sessionFile)
	if err != nil {
		return nil, err
	}
	s, err := storage.OpenFileSessionStore(p, nil)
	if err != nil {
		return nil, fmt.Errorf("opening tab session: %w", err)
	}
	return s, nil
}

func (a *app) settings() (*storage.SettingsFile, error) {
	p, err := a.statePath(settingsFile)
	if err != nil {
		return nil, err
	}
	return storage.NewSettingsFile(p, nil), nil
}

func (a *app) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if a.noColor {
		c.DisableColor()
	}
	return c
}
