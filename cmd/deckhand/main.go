package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/deckhand/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	cfgPath string
	verbose bool
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.cfgPath)
}

func newRoot() *cobra.Command {
	opts := &rootOptions{}
	var root = &cobra.Command{
		Use:           "deckhand",
		Short:         "Drive PowerPoint from MCP clients",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "config file (default is ./config/deckhand.json)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(serveCMD(opts), tokenCMD(opts), planCMD(opts), toolsCMD())
	return root
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deckhand:", err)
		os.Exit(1)
	}
}
