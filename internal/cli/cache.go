package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jarwalk/pkg/httputil"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the metadata cache and the local repository",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var repository bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached metadata responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := printer{w: cmd.ErrOrStderr()}

			dir, err := httputil.DefaultDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				ui.info("Metadata cache is empty")
			} else {
				cache, err := httputil.NewCache(dir, 0)
				if err != nil {
					return err
				}
				count, err := cache.Clear()
				if err != nil {
					return err
				}
				ui.success("Cleared %d cached entries", count)
				ui.detail("Directory: %s", dir)
			}

			if !repository {
				return nil
			}
			local := c.config.Repository.LocalDir
			if local == "" {
				return fmt.Errorf("no local repository directory configured")
			}
			if err := os.RemoveAll(local); err != nil {
				return fmt.Errorf("remove local repository: %w", err)
			}
			ui.success("Removed local repository")
			ui.detail("Directory: %s", local)
			return nil
		},
	}

	cmd.Flags().BoolVar(&repository, "repository", false, "also delete the local repository (downloaded POMs and jars)")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache and local repository directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := httputil.DefaultDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			ui := printer{w: cmd.OutOrStdout()}
			ui.keyValue("metadata", dir)
			ui.keyValue("repository", c.config.Repository.LocalDir)
			return nil
		},
	}
}
