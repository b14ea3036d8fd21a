package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adminstack/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GraphQL response cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo(cmd.OutOrStdout(), "Cache is disabled")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Cleared cache")
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail(cmd.OutOrStdout(), "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where responses are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch {
			case cfg.Cache.RedisAddr != "":
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%s*\n", cfg.Cache.RedisAddr, cache.DefaultRedisPrefix)
			case cfg.Cache.Dir != "":
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			default:
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}
