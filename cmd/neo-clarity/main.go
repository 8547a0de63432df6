// Command neo-clarity generates debug session links and simulates the debug
// session tracker across page loads.
package main

import (
	"fmt"
	"os"

	"github.com/neotools/neo-clarity/env"
)

func main() {
	opts, err := env.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := newApp(opts, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
