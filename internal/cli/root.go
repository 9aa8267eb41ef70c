package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/toparity/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs, and the
// logger is attached to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "toparity converts omega-automata to parity automata",
		Long: `toparity converts omega-automata with arbitrary Emerson-Lei acceptance
conditions into equivalent automata with a parity acceptance condition,
using the index appearance record construction.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/toparity/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
