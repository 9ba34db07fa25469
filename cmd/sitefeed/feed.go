package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/sitefeed/sitefeed"
	"github.com/sitefeed/sitefeed/config"
	"github.com/sitefeed/sitefeed/fetch"
	"github.com/sitefeed/sitefeed/scraper"
)

// addRequestFlags registers the feed request flags shared by the fetch and
// tourl commands.
func addRequestFlags(cmd *cobra.Command, params *scraper.RequestParams) {
	flags := cmd.Flags()
	flags.StringVar(&params.Name, "name", "", "name of the generated feed")
	flags.StringVar(&params.URL, "url", "", "absolute URL of the page to scrape")
	flags.StringVar(&params.ItemSelector, "item-selector", "", "CSS selector matching one feed item")
	flags.StringVar(&params.TitleSelector, "title-selector", "", "CSS selector for the title within an item (default: the item itself)")
	flags.StringVar(&params.LinkSelector, "link-selector", "", "CSS selector for the link within an item (default: the item itself)")
	flags.StringVar(&params.DateSelector, "pub-date-selector", "", "CSS selector for the publish date within an item")
	flags.StringVar(&params.Order, "order", "normal", "item order: normal (top of page is newest) or reversed")
	flags.IntVar(&params.MaxItems, "max-items", scraper.MaxItemsCeiling, "maximum number of items (capped at 30)")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("item-selector")
}

// newFetchCmd creates the fetch subcommand: generate a feed once and print
// the RSS XML on standard output.
func newFetchCmd(cfg *config.FileConfig) *cobra.Command {
	var params scraper.RequestParams

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a page and print its generated RSS feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := params.Build()
			if err != nil {
				return err
			}

			fetcher := fetch.NewFetcher(fetch.NewFileCache(cfg.Cache.Dir, cfg.Cache.TTL()))
			generated, err := sitefeed.GenerateFeed(fetcher, req)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), generated.RSS())
			return nil
		},
	}

	addRequestFlags(cmd, &params)
	return cmd
}

// newToURLCmd creates the tourl subcommand: convert the request flags into
// the query URL a running sitefeed-api server would accept.
func newToURLCmd() *cobra.Command {
	var params scraper.RequestParams
	var serverURL string

	cmd := &cobra.Command{
		Use:   "tourl",
		Short: "Build the sitefeed-api query URL for these request flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate before emitting a URL the server would reject.
			if _, err := params.Build(); err != nil {
				return err
			}

			base, err := url.Parse(serverURL)
			if err != nil || !base.IsAbs() {
				return fmt.Errorf("invalid server URL %q", serverURL)
			}
			base.Path = "/feed"

			query := base.Query()
			query.Set("name", params.Name)
			query.Set("url", params.URL)
			query.Set("item_selector", params.ItemSelector)
			if params.TitleSelector != "" {
				query.Set("title_selector", params.TitleSelector)
			}
			if params.LinkSelector != "" {
				query.Set("link_selector", params.LinkSelector)
			}
			if params.DateSelector != "" {
				query.Set("pub_date_selector", params.DateSelector)
			}
			query.Set("order", params.Order)
			query.Set("max_items", fmt.Sprintf("%d", params.MaxItems))
			base.RawQuery = query.Encode()

			fmt.Fprintln(cmd.OutOrStdout(), base.String())
			return nil
		},
	}

	addRequestFlags(cmd, &params)
	cmd.Flags().StringVar(&serverURL, "server-url", "", "base URL of the sitefeed-api server")
	_ = cmd.MarkFlagRequired("server-url")

	return cmd
}
