package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matzehuels/toparity/pkg/cache"
	"github.com/matzehuels/toparity/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the conversion result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Only the local
// backends can be cleared; shared ones expire by TTL.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached conversion results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			dir, err := cc.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			switch cc.Backend {
			case config.BackendFile:
			case config.BackendBadger:
				dir = filepath.Join(dir, "badger")
			case config.BackendNone:
				printInfo("Caching is disabled")
				return nil
			default:
				return fmt.Errorf("the %s cache cannot be cleared from here; entries expire after %s", cc.Backend, cc.TTL.Duration)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			store, err := cc.Open(cmd.Context())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			clr, ok := store.(cache.Clearer)
			if !ok {
				return multierr.Append(fmt.Errorf("the %s cache cannot be cleared", cc.Backend), store.Close())
			}
			n, err := clr.Clear()
			if err = multierr.Append(err, store.Close()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.Cache.CacheDir()
			if err != nil {
				return err
			}
			if c.Config.Cache.Backend == config.BackendBadger {
				dir = filepath.Join(dir, "badger")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
