package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/adminstack/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Adminstack orders page hierarchies and tracks breadcrumb navigation",
		Long:         `Adminstack orders parent/child hierarchies, keeps a breadcrumb and switch stack per session, browses paged tables and serves all of it over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				enableTracing(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/adminstack/config.toml)")

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.crumbsCommand())
	root.AddCommand(c.switchCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
