package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neotools/neo-clarity/debuglink"
	"github.com/neotools/neo-clarity/storage"
)

func newBaseURLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base-url",
		Short: "Manage the saved base URL",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <url>",
			Short: "Validate and save the base URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				base := strings.TrimSpace(args[0])
				if err := debuglink.ValidateBaseURL(base); err != nil {
					return err //nolint:wrapcheck
				}
				sf, err := a.settings()
				if err != nil {
					return err
				}
				if err := sf.Save(cmd.Context(), storage.Settings{BaseURL: base}); err != nil {
					return err //nolint:wrapcheck
				}
				a.color(color.FgGreen).Fprintln(a.out, "URL Set")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the saved base URL",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sf, err := a.settings()
				if err != nil {
					return err
				}
				if err := sf.Clear(); err != nil {
					return err //nolint:wrapcheck
				}
				a.color(color.FgRed).Fprintln(a.out, "Base URL Cleared")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved base URL",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.loadSettings()
				if err != nil {
					return err
				}
				if s.BaseURL == "" {
					return debuglink.ErrBaseURLNotSet
				}
				fmt.Fprintln(a.out, s.BaseURL)
				return nil
			},
		},
	)

	return cmd
}

func (a *app) loadSettings() (storage.Settings, error) {
	sf, err := a.settings()
	if err != nil {
		return storage.Settings{}, err
	}
	return sf.Load() //nolint:wrapcheck
}

func newURLCmd(a *app) *cobra.Command {
	var req debuglink.Request

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Generate a debug session link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if req.BaseURL == "" {
				s, err := a.loadSettings()
				if err != nil {
					return err
				}
				req.BaseURL = s.BaseURL
			}
			if rem := debuglink.Remaining(req.SessionID); rem < 0 {
				a.color(color.FgYellow).Fprintln(a.errOut, debuglink.RemainingLabel(req.SessionID))
			}

			link, err := debuglink.Generate(req, cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}
			fmt.Fprintln(a.out, link)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "user email, hashed into the user id")
	cmd.Flags().StringVar(&req.SessionID, "session-id", "", "session id (at most 25 characters)")
	cmd.Flags().StringVar(&req.BaseURL, "base-url", "", "base URL, overrides the saved one")

	return cmd
}

func newHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <email>",
		Short: "Print the hash of an email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return debuglink.ErrMissingEmail
			}
			fmt.Fprintln(a.out, debuglink.HashEmail(email))
			return nil
		},
	}
}
