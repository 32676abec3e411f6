package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	Verbose bool
	Config  string
	History string
	Plugins []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootOpts := &globalOptions{}
	root := &cobra.Command{
		Use:          "rotbuf",
		Short:        "Transform text with ROT13/ROT47 and keep the results in a buffer",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&rootOpts.Verbose, "verbose", false, "enable debug logging")
	root.PersistentFlags().StringVar(&rootOpts.Config, "config", "", "configuration file (YAML)")
	root.PersistentFlags().StringVar(&rootOpts.History, "history", "", "SQLite history file (overrides config)")
	root.PersistentFlags().StringSliceVar(&rootOpts.Plugins, "plugin", nil, "cipher plugin .so path (repeatable)")

	session := sessionCmd(rootOpts)
	root.RunE = session.RunE
	root.AddCommand(session)
	root.AddCommand(transformCmd(rootOpts, false))
	root.AddCommand(transformCmd(rootOpts, true))
	root.AddCommand(ciphersCmd(rootOpts))
	root.AddCommand(inspectCmd(rootOpts))
	root.AddCommand(historyCmd(rootOpts))
	return root
}
