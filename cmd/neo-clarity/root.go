package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "neo-clarity",
		Short:         "Debug session links and tracker simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newBaseURLCmd(a),
		newURLCmd(a),
		newHashCmd(a),
		newLoadCmd(a),
		newResetCmd(a),
		newScriptCmd(a),
	)

	return root
}
