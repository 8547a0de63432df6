package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neotools/neo-clarity/clarity"
	"github.com/neotools/neo-clarity/common"
)

func newLoadCmd(a *app) *cobra.Command {
	var (
		noClarity    bool
		failIdentify bool
	)

	cmd := &cobra.Command{
		Use:   "load <url>",
		Short: "Simulate a page load in the persistent tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			store, err := a.sessionStore()
			if err != nil {
				return err
			}
			tab, err := clarity.NewTab(cfg, store, nil, a.logger(cfg))
			if err != nil {
				return err //nolint:wrapcheck
			}

			var identify common.IdentifyFunc
			if !noClarity {
				identify = func(userID, sessionID string) error {
					if failIdentify {
						return errors.New("identify rejected")
					}
					a.color(color.FgCyan).Fprintf(a.out, "clarity(\"identify\", %q, %q)\n", userID, sessionID)
					return nil
				}
			}

			pl, err := tab.Navigate(args[0], identify)
			if err != nil {
				return err //nolint:wrapcheck
			}
			a.stateColor(pl.State).Fprintf(a.out, "%s", pl.State)
			fmt.Fprintf(a.out, " active=%t identified=%t\n", pl.Active, pl.Identified)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noClarity, "no-clarity", false, "load the page without the identify capability")
	cmd.Flags().BoolVar(&failIdentify, "fail-identify", false, "make the identify call fail")

	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Close the persistent tab, ending its session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.sessionStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err //nolint:wrapcheck
			}
			fmt.Fprintln(a.out, "session cleared")
			return nil
		},
	}
}

func newScriptCmd(a *app) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the host page script tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			html, err := clarity.ConfigScript(cfg, projectID)
			if err != nil {
				return err //nolint:wrapcheck
			}
			fmt.Fprintln(a.out, html)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project-id", "", "Clarity project id to load")

	return cmd
}

func (a *app) stateColor(st common.State) *color.Color {
	switch st {
	case common.StateActiveDone:
		return a.color(color.FgGreen)
	case common.StateActivePending:
		return a.color(color.FgYellow)
	default:
		return a.color(color.Faint)
	}
}
