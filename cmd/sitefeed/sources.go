package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitefeed/sitefeed/config"
	"github.com/sitefeed/sitefeed/scraper"
	"github.com/sitefeed/sitefeed/sources"
)

// newSourcesCmd creates the sources command group for managing saved feed
// requests.
func newSourcesCmd(cfg *config.FileConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage saved feed requests",
	}

	cmd.AddCommand(newSourcesAddCmd(cfg))
	cmd.AddCommand(newSourcesListCmd(cfg))
	cmd.AddCommand(newSourcesDeleteCmd(cfg))

	return cmd
}

func openStore(cfg *config.FileConfig) (*sources.Store, error) {
	return sources.NewStore(cfg.Storage.Driver, cfg.Storage.DSN)
}

func newSourcesAddCmd(cfg *config.FileConfig) *cobra.Command {
	var params scraper.RequestParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a feed request under its name",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			source, err := store.Add(params)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved source %q (%s)\n", source.Name, source.ID)
			return nil
		},
	}

	addRequestFlags(cmd, &params)
	return cmd
}

func newSourcesListCmd(cfg *config.FileConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved feed requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.List()
			if err != nil {
				return err
			}

			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sources configured.")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %-40s %-20s %s\n", "NAME", "URL", "ITEM SELECTOR", "ORDER")
			for _, source := range saved {
				fmt.Fprintf(out, "%-20s %-40s %-20s %s\n",
					source.Name, source.URL, source.ItemSelector, source.Order)
			}
			return nil
		},
	}
}

func newSourcesDeleteCmd(cfg *config.FileConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved feed request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted source %q\n", args[0])
			return nil
		},
	}
}
